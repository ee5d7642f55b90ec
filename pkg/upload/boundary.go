package upload

import "strings"

const (
	mediaTypeMultipart  = "multipart/form-data"
	mediaTypeURLEncoded = "application/x-www-form-urlencoded"
)

// ResolveBoundary extracts the boundary token from a multipart/form-data
// Content-Type value. It reports false when the header is not multipart or
// carries no usable boundary parameter.
func ResolveBoundary(contentType string) (string, bool) {
	if !isMultipart(contentType) {
		return "", false
	}

	for _, field := range splitParams(contentType)[1:] {
		k, v, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), "boundary") {
			continue
		}
		v = unquote(strings.TrimSpace(v))
		if v != "" {
			return v, true
		}
	}

	return "", false
}

func isMultipart(contentType string) bool {
	return len(contentType) >= len(mediaTypeMultipart) &&
		strings.EqualFold(contentType[:len(mediaTypeMultipart)], mediaTypeMultipart)
}

func isURLEncoded(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), mediaTypeURLEncoded)
}

// unquote strips a single pair of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
