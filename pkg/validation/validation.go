package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/devconnect/pkg/apperror"
)

// Validator checks request structs declared with `validate` rules and turns
// failures into an ordered list of field errors. A `msg` struct tag overrides
// the generated message for every rule on that field.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v)
	return &Validator{validate: v}
}

// Struct returns nil when s satisfies its rules.
func (v *Validator) Struct(s any) []apperror.FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperror.FieldError{{Message: err.Error()}}
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := ""
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			msg = sf.Tag.Get("msg")
		}
		if msg == "" {
			msg = formatSingleError(fe)
		}
		out = append(out, apperror.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// Check is Struct wrapped as an error for use-case boundaries.
func (v *Validator) Check(s any) error {
	if fields := v.Struct(s); len(fields) > 0 {
		return apperror.NewValidation(fields)
	}
	return nil
}

func formatSingleError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please include a valid email"
	case "strong_password":
		return "Password needs 8 or more characters with an uppercase letter, a lowercase letter and a number"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed the '%s' rule", field, e.Tag())
	}
}
