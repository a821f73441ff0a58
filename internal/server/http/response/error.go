package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/server/http/dto"
)

// Error codes returned in dto.ErrorResponse.
const (
	CodeNotFound            = "not_found"
	CodeForbidden           = "forbidden"
	CodeUnauthorized        = "unauthorized"
	CodeInvalidStatus       = "invalid_status"
	CodeInvalidTransition   = "invalid_transition"
	CodeInvalidOrder        = "invalid_order"
	CodeConflict            = "conflict"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeUnavailable         = "unavailable"
	CodeBadRequest          = "bad_request"
	CodeBodyTooLarge        = "body_too_large"
	CodeUnsupportedEncoding = "unsupported_encoding"
	CodeInternal            = "internal"
)

var mapping = []struct {
	err    error
	status int
	code   string
}{
	{domainErrors.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{domainErrors.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{domainErrors.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{domainErrors.ErrInvalidStatus, http.StatusBadRequest, CodeInvalidStatus},
	{domainErrors.ErrInvalidTransition, http.StatusBadRequest, CodeInvalidTransition},
	{domainErrors.ErrInvalidOrder, http.StatusBadRequest, CodeInvalidOrder},
	{domainErrors.ErrConflict, http.StatusConflict, CodeConflict},
	{domainErrors.ErrInvalidCredentials, http.StatusBadRequest, CodeInvalidCredentials},
	{domainErrors.ErrUnavailable, http.StatusServiceUnavailable, CodeUnavailable},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, CodeUnavailable},
}

// Classify maps an error onto an HTTP status and a body code.
func Classify(err error) (int, string) {
	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// Error aborts the request with the status and body matching err.
// Internal errors are recorded on the gin context and hidden from the client.
func Error(c *gin.Context, err error) {
	status, code := Classify(err)
	WriteError(c, status, code, err)
}

// WriteError aborts the request with an explicit status and code.
func WriteError(c *gin.Context, status int, code string, err error) {
	message := http.StatusText(status)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	} else if err != nil {
		message = err.Error()
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Code: code, Message: message})
}

// BadBody aborts a request whose body could not be bound. Bodies cut off by
// http.MaxBytesReader get 413, anything else 400 with code.
func BadBody(c *gin.Context, code string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(c, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, err)
		return
	}
	WriteError(c, http.StatusBadRequest, code, err)
}
