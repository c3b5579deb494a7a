package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on status code and message so that wrapped copies of the
// sentinels below compare equal with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// WithMessage returns a copy of base with a caller-facing message.
func WithMessage(base *Error, message string) *Error {
	return &Error{Code: base.Code, Message: message, Err: base}
}

// Authentication error types
var (
	ErrTokenNotFound = New(http.StatusUnauthorized, "Token Not Found", nil)
	ErrUnauthorized  = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrInvalidToken  = New(http.StatusUnauthorized, "Invalid token", nil)
	ErrForbidden     = New(http.StatusForbidden, "Access denied. Admins only.", nil)

	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid Email or Password", nil)
)

// Resource error types
var (
	ErrNotFound   = New(http.StatusNotFound, "Not found", nil)
	ErrValidation = New(http.StatusBadRequest, "Validation error", nil)
	ErrConflict   = New(http.StatusConflict, "Conflict", nil)
	ErrStorage    = New(http.StatusInternalServerError, "Internal server error", nil)
)

// As extracts an *Error from err. Unknown errors are reported as storage
// failures.
func As(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrStorage, err)
}

// IsKind reports whether err carries the status code of kind.
func IsKind(err error, kind *Error) bool {
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == kind.Code
}

// ErrorMiddleware renders the last error attached with c.Error. Causes of
// server-side failures are logged, never written to the response.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := As(c.Errors.Last().Err)
		if appErr.Code >= http.StatusInternalServerError {
			zap.L().Error("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(appErr),
			)
		}
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		c.Abort()
	}
}
