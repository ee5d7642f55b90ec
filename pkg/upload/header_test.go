package upload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

func TestParsePartHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block string
		want  upload.Part
	}{
		{
			name:  "plain field",
			block: "Content-Disposition: form-data; name=\"title\"",
			want:  upload.Part{Name: "title"},
		},
		{
			name:  "file with content type",
			block: "Content-Disposition: form-data; name=\"doc\"; filename=\"a.pdf\"\r\nContent-Type: application/pdf",
			want:  upload.Part{Name: "doc", Filename: "a.pdf", ContentType: "application/pdf"},
		},
		{
			name:  "lf line endings",
			block: "Content-Disposition: form-data; name=\"doc\"; filename=\"a.txt\"\nContent-Type: text/plain",
			want:  upload.Part{Name: "doc", Filename: "a.txt", ContentType: "text/plain"},
		},
		{
			name:  "case insensitive keys",
			block: "content-disposition: form-data; NAME=\"x\"; FileName=\"y.bin\"\r\ncontent-type:  image/png ",
			want:  upload.Part{Name: "x", Filename: "y.bin", ContentType: "image/png"},
		},
		{
			name:  "semicolon inside quotes",
			block: "Content-Disposition: form-data; name=\"a;b\"; filename=\"c;d.txt\"",
			want:  upload.Part{Name: "a;b", Filename: "c;d.txt"},
		},
		{
			name:  "unquoted parameters",
			block: "Content-Disposition: form-data; name=field; filename=data.csv",
			want:  upload.Part{Name: "field", Filename: "data.csv"},
		},
		{
			name:  "missing name",
			block: "Content-Disposition: form-data; filename=\"f.txt\"",
			want:  upload.Part{Filename: "f.txt"},
		},
		{
			name:  "empty filename",
			block: "Content-Disposition: form-data; name=\"f\"; filename=\"\"",
			want:  upload.Part{Name: "f"},
		},
		{
			name:  "unknown headers ignored",
			block: "X-Trace: 1\r\nContent-Disposition: form-data; name=\"n\"\r\nbroken line",
			want:  upload.Part{Name: "n"},
		},
		{
			name:  "empty block",
			block: "",
			want:  upload.Part{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, upload.ParsePartHeader([]byte(tt.block)))
		})
	}
}

func TestPartIsFile(t *testing.T) {
	t.Parallel()

	assert.True(t, upload.Part{Name: "a", Filename: "b"}.IsFile())
	assert.False(t, upload.Part{Name: "a"}.IsFile())
}
