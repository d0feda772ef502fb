package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/pawnbook/internal/encoding"
)

func decode(t *testing.T, input []byte) (string, encoding.Charset) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader(t *testing.T) {
	const header = "Karat;Loan Period;Price\n22K;6;18.500,00\n"

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		want        string
		wantCharset encoding.Charset
	}{
		{
			name:        "UTF8Passthrough",
			input:       []byte("Pureté;Months;Rate\n"),
			want:        "Pureté;Months;Rate\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, header...),
			want:        header,
			wantCharset: encoding.UTF8BOM,
		},
		{
			name:        "UTF16LE",
			input:       utf16,
			want:        header,
			wantCharset: encoding.UTF16LE,
		},
		{
			// "Pureté;Months\n" with é as 0xE9.
			name:  "Latin1",
			input: []byte{'P', 'u', 'r', 'e', 't', 0xE9, ';', 'M', 'o', 'n', 't', 'h', 's', '\n'},
			want:  "Pureté;Months\n",
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := decode(t, tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantCharset == "" {
				// chardet may pick either single-byte Latin charset; both decode é the same.
				assert.Contains(t, []encoding.Charset{encoding.Windows1252, encoding.ISO8859_9}, charset)
				return
			}

			assert.Equal(t, tt.wantCharset, charset)
		})
	}
}
