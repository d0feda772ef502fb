// Package render holds the response plumbing shared by the API handlers.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
	"github.com/MrJamesThe3rd/pawnbook/internal/pagination"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Decode reads the JSON body into dst and checks its validate tags. It answers 400 or 422
// itself and reports whether the handler should go on.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			Internal(w, r, err)
			return false
		}

		http.Error(w, describe(fieldErrs), http.StatusUnprocessableEntity)

		return false
	}

	return true
}

func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, len(errs))

	for i, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs[i] = fe.Field() + " is required"
		case "oneof":
			msgs[i] = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		case "max":
			msgs[i] = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "min", "gte":
			msgs[i] = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "gt":
			msgs[i] = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		default:
			msgs[i] = fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
		}
	}

	return strings.Join(msgs, "; ")
}

// Validation answers 422 for validation rejections and reports whether it did.
func Validation(w http.ResponseWriter, err error) bool {
	if !loan.IsValidation(err) {
		return false
	}

	http.Error(w, err.Error(), http.StatusUnprocessableEntity)

	return true
}

// Internal logs err and answers a bare 500.
func Internal(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func IDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// DateParam parses an optional YYYY-MM-DD query parameter. Missing yields the zero time.
func DateParam(r *http.Request, name string) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", name, err)
	}

	return t, nil
}

// Paged is the envelope of every paginated list.
type Paged[T any] struct {
	Items    []T    `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int    `json:"total"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Showing  string `json:"showing"`
}

func NewPaged[T any](items []T, p pagination.Page) Paged[T] {
	if items == nil {
		items = []T{}
	}

	return Paged[T]{
		Items:    items,
		Page:     p.Number,
		PageSize: p.Size,
		Total:    p.Total,
		Start:    p.Start(),
		End:      p.End(),
		Showing:  p.Label(),
	}
}
