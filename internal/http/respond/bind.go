package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/catalog"
)

var (
	validate     = validator.New(validator.WithRequiredStructEnabled())
	phonePattern = regexp.MustCompile(`^[\d\-+() ]+$`)
)

func init() {
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
}

// Decode reads a JSON body into v and validates its `validate` tags.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %w", catalog.ErrInvalidInput, err)
	}

	return validate.Struct(v)
}

func fieldErrors(errs validator.ValidationErrors) []string {
	details := make([]string, len(errs))
	for i, fe := range errs {
		if fe.Param() != "" {
			details[i] = fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
			continue
		}

		details[i] = fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag())
	}

	return details
}

// ID parses the {id} URL parameter.
func ID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id", catalog.ErrInvalidInput)
	}

	return id, nil
}

// Int reads an optional integer query parameter.
func Int(r *http.Request, key string, fallback int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", catalog.ErrInvalidInput, key)
	}

	return n, nil
}

// Date reads an optional YYYY-MM-DD query parameter in loc.
func Date(r *http.Request, key string, loc *time.Location) (*time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", catalog.ErrInvalidInput, key)
	}

	return &t, nil
}

// UUID reads an optional uuid query parameter.
func UUID(r *http.Request, key string) (*uuid.UUID, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a uuid", catalog.ErrInvalidInput, key)
	}

	return &id, nil
}

// Caller returns the authenticated user's id when it is a uuid.
func Caller(r *http.Request) *uuid.UUID {
	c, ok := auth.FromContext(r.Context())
	if !ok {
		return nil
	}

	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil
	}

	return &id
}
