// Package encoding turns uploaded text files of unknown charset into UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a file was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8 (BOM)"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_9   Charset = "ISO-8859-9"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8BOM},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

var decoders = map[Charset]encoding.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252: charmap.Windows1252,
	ISO8859_9:   charmap.ISO8859_9,
}

// Detect guesses the charset of a sample: a byte order mark wins, then valid UTF-8,
// then chardet's best guess, then Windows-1252.
func Detect(sample []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(sample) {
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return UTF8
		case "ISO-8859-1", "windows-1252":
			return Windows1252
		case "ISO-8859-9":
			return ISO8859_9
		}
	}

	return Windows1252
}

// NewUTF8Reader sniffs the head of r and returns a reader yielding its content as UTF-8,
// along with the charset it was decoded from. A UTF-8 BOM is stripped.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	sample, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(sample)

	switch charset {
	case UTF8:
		return br, charset, nil
	case UTF8BOM:
		_, _ = br.Discard(3)
		return br, charset, nil
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), charset, nil
}
