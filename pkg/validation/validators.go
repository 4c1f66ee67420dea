package validation

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("strong_password", StrongPassword)
}

// StrongPassword accepts 8+ printable, non-space ASCII characters containing at
// least one lowercase letter, one uppercase letter and one digit.
func StrongPassword(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if len(val) < 8 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range val {
		if r < 0x21 || r > 0x7E {
			return false
		}
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
