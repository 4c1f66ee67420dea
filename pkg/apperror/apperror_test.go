package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", NewInvalidInput("bad", nil), http.StatusBadRequest},
		{"validation", NewValidation(nil), http.StatusBadRequest},
		{"conflict", NewConflict("Post", "id", "1"), http.StatusConflict},
		{"coded not found", NewCoded(ErrNotFound, "post_not_found", "Post not found"), http.StatusNotFound},
		{"coded permission", NewCoded(ErrPermission, "not_owner", "User not authorized"), http.StatusForbidden},
		{"coded unauthorized", NewCoded(ErrUnauthorized, "no_token", "No token"), http.StatusUnauthorized},
		{"wrapped", fmt.Errorf("repo: %w", ErrModifiedConcurrently), http.StatusConflict},
		{"internal", NewInternal("db down", errors.New("boom")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestCodedSentinelSurvivesWithMessage(t *testing.T) {
	sentinel := NewCoded(ErrInvalidInput, "already_liked", "Post already liked")
	renamed := sentinel.WithMessage("%s already liked", "Project")

	assert.ErrorIs(t, renamed, sentinel)
	assert.ErrorIs(t, renamed, ErrInvalidInput)
	assert.Equal(t, gin.H{"msg": "Project already liked"}, renamed.ToJSON())
	assert.NotErrorIs(t, NewCoded(ErrInvalidInput, "other", "x"), sentinel)
}

func TestToJSON(t *testing.T) {
	fields := []FieldError{{Field: "name", Message: "Name is required"}}
	assert.Equal(t, gin.H{"errors": fields}, NewValidation(fields).ToJSON())
	assert.Equal(t, gin.H{"msg": "Server Error"}, NewInternal("secret detail", nil).ToJSON())
	assert.Equal(t, gin.H{"msg": "Invalid input provided"}, NewInvalidInput("x", nil).ToJSON())
}

func TestErrorString(t *testing.T) {
	err := NewInternal("load user", errors.New("conn reset"))
	assert.Equal(t, "internal server error: An internal server error occurred (load user): conn reset", err.Error())
}
