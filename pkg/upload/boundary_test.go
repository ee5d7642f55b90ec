package upload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

func TestResolveBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        string
		wantOK      bool
	}{
		{"plain", "multipart/form-data; boundary=abc123", "abc123", true},
		{"quoted", `multipart/form-data; boundary="a b;c"`, "a b;c", true},
		{"mixed case media type", "Multipart/Form-Data; boundary=xyz", "xyz", true},
		{"mixed case parameter", "multipart/form-data; Boundary=xyz", "xyz", true},
		{"extra parameters", "multipart/form-data; charset=utf-8; boundary=----WebKit", "----WebKit", true},
		{"no spaces", "multipart/form-data;boundary=q", "q", true},
		{"missing boundary", "multipart/form-data", "", false},
		{"empty boundary", "multipart/form-data; boundary=", "", false},
		{"empty quoted boundary", `multipart/form-data; boundary=""`, "", false},
		{"urlencoded", "application/x-www-form-urlencoded", "", false},
		{"other multipart", "multipart/mixed; boundary=abc", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := upload.ResolveBoundary(tt.contentType)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
