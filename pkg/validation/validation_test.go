package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnect/pkg/apperror"
)

type signupForm struct {
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"strong_password"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, v.Struct(signupForm{Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!"}))
	})

	t.Run("ordered field errors", func(t *testing.T) {
		got := v.Struct(&signupForm{Email: "nope", Password: "short"})
		require.Len(t, got, 3)
		assert.Equal(t, apperror.FieldError{Field: "name", Message: "Name is required"}, got[0])
		assert.Equal(t, "email", got[1].Field)
		assert.Equal(t, "Please include a valid email", got[1].Message)
		assert.Equal(t, "password", got[2].Field)
	})

	t.Run("check wraps as validation error", func(t *testing.T) {
		err := v.Check(signupForm{})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestStrongPassword(t *testing.T) {
	v := New()
	type form struct {
		P string `json:"p" validate:"strong_password"`
	}

	cases := map[string]bool{
		"Passw0rd":   true,
		"Passw0rd!":  true,
		"password1":  false,
		"PASSWORD1":  false,
		"Password":   false,
		"Pass w0rd":  false,
		"Sh0rt":      false,
		"Pässw0rdxx": false,
	}
	for in, ok := range cases {
		errs := v.Struct(form{P: in})
		assert.Equal(t, ok, errs == nil, in)
	}
}
