package httpupload

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrymomot/streamupload/pkg/logger"
	"github.com/dmitrymomot/streamupload/pkg/upload"
)

type contextKey struct{}

// WithArguments stores decoded arguments in ctx.
func WithArguments(ctx context.Context, args *upload.Arguments) context.Context {
	return context.WithValue(ctx, contextKey{}, args)
}

// FromContext returns the arguments stored by Middleware.
func FromContext(ctx context.Context) (*upload.Arguments, bool) {
	args, ok := ctx.Value(contextKey{}).(*upload.Arguments)
	return args, ok && args != nil
}

// RequireArguments is FromContext for handlers mounted behind Middleware.
// It returns ErrNoArguments when the middleware did not run.
func RequireArguments(ctx context.Context) (*upload.Arguments, error) {
	args, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoArguments
	}
	return args, nil
}

// Middleware decodes POST, PUT and PATCH bodies before the next handler runs.
// Plain field values are merged into r.Form and r.PostForm; the full result,
// files included, is available through FromContext. Decoding errors are
// answered by the error handler and the next handler is not called.
func Middleware(sink upload.Sink, opts ...Option) func(http.Handler) http.Handler {
	o := newOptions(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			start := time.Now()

			args, err := decode(ctx, r, sink, o)
			if err != nil {
				o.log.WarnContext(ctx, "upload rejected",
					logger.Error(err),
					slog.Int("status", StatusCode(err)),
					logger.Duration(time.Since(start)),
				)
				o.errorHandler(w, r, err)
				return
			}

			o.log.InfoContext(ctx, "upload decoded",
				slog.Int("fields", args.Len()),
				logger.Duration(time.Since(start)),
			)

			mergeForm(r, args.Form())
			next.ServeHTTP(w, r.WithContext(WithArguments(ctx, args)))
		})
	}
}

func mergeForm(r *http.Request, form url.Values) {
	if r.PostForm == nil {
		r.PostForm = make(url.Values, len(form))
	}
	if r.Form == nil {
		r.Form = r.URL.Query()
	}
	for k, vs := range form {
		r.PostForm[k] = append(r.PostForm[k], vs...)
		r.Form[k] = append(r.Form[k], vs...)
	}
}

// ErrorResponse is the JSON body written by DefaultErrorHandler.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// DefaultErrorHandler answers with StatusCode(err) and a JSON ErrorResponse.
// Internal errors are reported without their cause.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := StatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	WriteJSON(w, status, ErrorResponse{Error: msg, Status: status})
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
