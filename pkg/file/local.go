package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

// LocalSink streams file parts to the local filesystem.
// With a directory configured each part is written to dir/<filename>, and a
// later upload with the same filename replaces the earlier file. Without a
// directory each part gets a uniquely named temporary file.
// Safe for concurrent use by independent decoders.
type LocalSink struct {
	dir        string // absolute upload directory, empty for temp files
	tempDir    string // directory for temp files, empty for os.TempDir
	tempPrefix string
	filePerm   os.FileMode
}

var _ upload.Sink = (*LocalSink)(nil)

// LocalOption defines a function that configures LocalSink.
type LocalOption func(*LocalSink)

// WithTempDir sets where temporary files are created when no upload
// directory is configured.
func WithTempDir(dir string) LocalOption {
	return func(s *LocalSink) {
		s.tempDir = dir
	}
}

// WithTempPrefix sets the temporary file name prefix.
func WithTempPrefix(prefix string) LocalOption {
	return func(s *LocalSink) {
		s.tempPrefix = prefix
	}
}

// WithFilePerm sets permissions of files created in the upload directory.
func WithFilePerm(perm os.FileMode) LocalOption {
	return func(s *LocalSink) {
		s.filePerm = perm
	}
}

// NewLocalSink creates a filesystem sink. An empty dir selects temp files.
// A configured dir is resolved to an absolute path and created if missing.
func NewLocalSink(dir string, opts ...LocalOption) (*LocalSink, error) {
	s := &LocalSink{
		tempPrefix: "upload-",
		filePerm:   0644,
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir == "" {
		return s, nil
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}
	s.dir = absDir

	return s, nil
}

// Dir returns the upload directory, empty when temp files are used.
func (s *LocalSink) Dir() string {
	return s.dir
}

// Open creates the destination file for a part.
func (s *LocalSink) Open(ctx context.Context, part upload.Part) (upload.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		f   *os.File
		err error
	)
	if s.dir != "" {
		path := filepath.Join(s.dir, SanitizeFilename(part.Filename))
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.filePerm)
	} else {
		f, err = os.CreateTemp(s.tempDir, s.tempPrefix+"*")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateFile, err)
	}

	return &localHandle{f: f, path: f.Name()}, nil
}

type localHandle struct {
	f    *os.File
	path string
}

// Write honours cancellation between writes; os.File.Write itself retries
// short writes until p is fully written or fails.
func (h *localHandle) Write(ctx context.Context, p []byte) error {
	if h.f == nil {
		return ErrHandleClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := h.f.Write(p); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	return nil
}

// Close flushes the file to disk before releasing it so the returned path
// never refers to incomplete data.
func (h *localHandle) Close(_ context.Context) (string, error) {
	if h.f == nil {
		return "", ErrHandleClosed
	}
	f := h.f
	h.f = nil

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("%w: %v", ErrFailedToSyncFile, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToCloseFile, err)
	}
	return h.path, nil
}

// Abort closes and removes the partial file.
func (h *localHandle) Abort(_ context.Context) error {
	if h.f == nil {
		return ErrHandleClosed
	}
	_ = h.f.Close()
	h.f = nil

	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}
