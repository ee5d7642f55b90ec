package upload

import "log/slog"

const (
	// DefaultMaxHeaderBytes bounds a single part header block.
	DefaultMaxHeaderBytes = 16 << 10 // 16 KB
	// DefaultMaxFieldBytes bounds an in-memory field value.
	DefaultMaxFieldBytes = 10 << 20 // 10 MB

	// DefaultFieldName and DefaultFilename name the implicit part of a raw body.
	DefaultFieldName = "file"
	DefaultFilename  = "filename"
)

// RequestInfo carries the request headers the decoder depends on.
type RequestInfo struct {
	ContentType string
	// ContentLength is the declared body size; zero or negative means unknown.
	ContentLength int64
	// FieldName and Filename name the implicit part in raw mode.
	FieldName string
	Filename  string
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

// WithMaxHeaderBytes bounds a part header block. Non-positive values are ignored.
func WithMaxHeaderBytes(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxHeaderBytes = n
		}
	}
}

// WithMaxFieldBytes bounds values held in memory: plain multipart fields and
// the pending urlencoded pair. Non-positive values are ignored.
func WithMaxFieldBytes(n int64) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxFieldBytes = n
		}
	}
}
