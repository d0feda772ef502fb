package render_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pawnbook/internal/http/render"
)

type sample struct {
	NIC   string `json:"nic" validate:"required"`
	Role  string `json:"role" validate:"omitempty,oneof=admin staff"`
	Karat int    `json:"karat" validate:"gte=0,max=24"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantBody   string
	}{
		{
			name:   "Valid",
			body:   `{"nic":"901234567V","role":"staff","karat":22}`,
			wantOK: true,
		},
		{
			name:       "Malformed",
			body:       `{"nic":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid request body",
		},
		{
			name:       "MissingField",
			body:       `{"karat":22}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "nic is required",
		},
		{
			name:       "SeveralFields",
			body:       `{"nic":"x","role":"owner","karat":30}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "role must be one of: admin staff; karat must be at most 24",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst sample
			ok := render.Decode(rec, req, &dst)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, "901234567V", dst.NIC)
				return
			}

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
