package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Route records the upload route under the key "route".
func Route(pattern string) slog.Attr {
	return slog.String("route", pattern)
}

// Mode records the body decoding mode under the key "mode".
func Mode(mode string) slog.Attr {
	return slog.String("mode", mode)
}

// Field records a form field name under the key "field".
// Empty names are kept: legacy clients may omit the name parameter.
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Filename records the client-supplied filename under the key "filename".
// Returns an empty Attr for plain fields.
func Filename(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("filename", name)
}

// Size records a byte count under the key "size".
func Size(n int64) slog.Attr {
	return slog.Int64("size", n)
}

// Reference records a storage reference under the key "reference".
func Reference(ref string) slog.Attr {
	return slog.String("reference", ref)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
