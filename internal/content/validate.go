// ABOUTME: Input validation for admin content writes using go-playground/validator
// ABOUTME: Converts validator field errors into a field-keyed ValidationError

package content

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/2389/folio/internal/slug"
)

var (
	// ErrInvalidSlug is wrapped by a ValidationError whose slug field failed.
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrValidation matches every ValidationError under errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports per-field problems with an input. Nothing was written.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is matches ErrValidation always and ErrInvalidSlug when the slug field failed.
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	if target == ErrInvalidSlug {
		_, ok := e.Fields["slug"]
		return ok
	}
	return false
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

const slugMessage = "must contain only lowercase letters, digits and hyphens"

// validate is the shared validator instance for content inputs.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
}

// check validates v and returns a *ValidationError or nil.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath strips the struct name from the namespace: "ProjectInput.tags[0]" -> "tags[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return "must have at most " + fe.Param() + " items"
		}
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "slug":
		return slugMessage
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
