package httpupload

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

var (
	ErrReadBody     = errors.New("failed to read request body")
	ErrNoArguments  = errors.New("no decoded arguments in context")
	ErrBodyTooLarge = errors.New("request body exceeds maximum allowed size")
)

// StatusCode maps a decoding error to an HTTP status.
func StatusCode(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &maxBytes),
		errors.Is(err, ErrBodyTooLarge),
		errors.Is(err, upload.ErrHeaderTooLarge),
		errors.Is(err, upload.ErrFieldTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrNoSink):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.Is(err, upload.ErrTruncatedBody),
		errors.Is(err, ErrReadBody),
		errors.Is(err, context.Canceled):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
