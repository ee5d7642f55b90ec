package upload

import (
	"net/textproto"
	"strings"
)

// ParsePartHeader parses the header block of a single part.
//
// It reads the name and filename parameters of Content-Disposition and the
// value of Content-Type. Parameters use double quotes without escapes; a
// semicolon inside quotes does not split parameters. Lines are separated by
// CRLF or LF. A missing name parameter yields an empty name.
func ParsePartHeader(block []byte) Part {
	var part Part

	for _, line := range strings.Split(string(block), "\n") {
		key, value, ok := strings.Cut(strings.TrimRight(line, "\r"), ":")
		if !ok {
			continue
		}

		switch textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(key)) {
		case "Content-Disposition":
			params := dispositionParams(value)
			part.Name = params["name"]
			part.Filename = params["filename"]
		case "Content-Type":
			part.ContentType = strings.TrimSpace(value)
		}
	}

	return part
}

// dispositionParams splits `form-data; name="a"; filename="b"` into a
// lowercase-keyed parameter map. The leading disposition type is skipped.
func dispositionParams(value string) map[string]string {
	params := make(map[string]string, 2)
	for i, field := range splitParams(value) {
		if i == 0 && !strings.Contains(field, "=") {
			continue
		}
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if _, seen := params[k]; seen {
			continue
		}
		params[k] = unquote(strings.TrimSpace(v))
	}
	return params
}

func splitParams(s string) []string {
	var (
		fields []string
		quoted bool
		start  int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				fields = append(fields, s[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, s[start:])
}
