package httpupload

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

// DefaultChunkSize is the read buffer size used to feed the decoder.
const DefaultChunkSize = 32 << 10 // 32 KB

// ErrorHandler writes the response for a failed upload.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type options struct {
	chunkSize    int
	maxBodyBytes int64
	log          *slog.Logger
	decoderOpts  []upload.Option
	errorHandler ErrorHandler
}

// Option configures Decode and Middleware.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		chunkSize:    DefaultChunkSize,
		log:          slog.New(slog.DiscardHandler),
		errorHandler: DefaultErrorHandler,
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithChunkSize sets the read buffer size. Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithMaxBodyBytes rejects bodies larger than n with 413. Zero means unlimited.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger for the adapter and the decoder.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithDecoderOptions passes options through to every decoder.
func WithDecoderOptions(opts ...upload.Option) Option {
	return func(o *options) {
		o.decoderOpts = append(o.decoderOpts, opts...)
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		if h != nil {
			o.errorHandler = h
		}
	}
}
