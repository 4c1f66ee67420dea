package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kinds. Every AppError wraps exactly one of these as its BaseError.
var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
)

var statusByKind = []struct {
	kind   error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrValidation, http.StatusBadRequest},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrPermission, http.StatusForbidden},
	{ErrConflict, http.StatusConflict},
}

// FieldError is a single failed rule on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError carries a kind, a client-facing Message and, for logs only,
// Details and the underlying Err.
type AppError struct {
	BaseError error
	Code      string
	Message   string
	Details   string
	Fields    []FieldError
	Err       error
}

func (e *AppError) Error() string {
	msg := e.BaseError.Error() + ": " + e.Message
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

// Is matches coded sentinels, so a copy made by WithMessage still satisfies
// errors.Is against the original.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e with a different client-facing message.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// NewCoded builds a sentinel that domain packages export and compare with errors.Is.
func NewCoded(kind error, code, msg string) *AppError {
	return &AppError{BaseError: kind, Code: code, Message: msg, Details: code}
}

func NewAppError(kind error, msg, details string, err error) *AppError {
	return &AppError{BaseError: kind, Message: msg, Details: details, Err: err}
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewValidation(fields []FieldError) *AppError {
	e := NewAppError(ErrValidation, "Validation failed", fmt.Sprintf("%d field(s) rejected", len(fields)), nil)
	e.Fields = fields
	return e
}

// NewConflict reports a write that collided with an existing record.
func NewConflict(resource, field, value string) *AppError {
	return NewAppError(ErrConflict, resource+" conflict",
		fmt.Sprintf("%s with %s '%s' already exists", resource, field, value), nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

// ToHTTPStatus maps err's kind to a status code, 500 when it has none.
func ToHTTPStatus(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// ToJSON renders the client-facing body. Internal errors never expose details.
func (e *AppError) ToJSON() gin.H {
	switch {
	case errors.Is(e.BaseError, ErrValidation):
		return gin.H{"errors": e.Fields}
	case ToHTTPStatus(e) == http.StatusInternalServerError:
		return gin.H{"msg": "Server Error"}
	default:
		return gin.H{"msg": e.Message}
	}
}

// ErrModifiedConcurrently is returned by versioned repositories when the stored
// document changed between read and write.
var ErrModifiedConcurrently = NewCoded(ErrConflict, "modified_concurrently", "Resource was modified concurrently, please retry")
