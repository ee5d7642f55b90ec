package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamupload/pkg/file"
	"github.com/dmitrymomot/streamupload/pkg/upload"
)

func TestLocalSink_UploadDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sink, err := file.NewLocalSink(dir)
	require.NoError(t, err)

	t.Run("writes part to dir plus filename", func(t *testing.T) {
		t.Parallel()
		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "report.txt"})
		require.NoError(t, err)

		require.NoError(t, h.Write(context.Background(), []byte("hello ")))
		require.NoError(t, h.Write(context.Background(), []byte("world")))

		ref, err := h.Close(context.Background())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "report.txt"), ref)

		data, err := os.ReadFile(ref)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))

		info, err := os.Stat(ref)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("last write wins", func(t *testing.T) {
		t.Parallel()
		for _, content := range []string{"first version", "second"} {
			h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "same.txt"})
			require.NoError(t, err)
			require.NoError(t, h.Write(context.Background(), []byte(content)))
			_, err = h.Close(context.Background())
			require.NoError(t, err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "same.txt"))
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("path traversal stays inside directory", func(t *testing.T) {
		t.Parallel()
		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "../../escape.txt"})
		require.NoError(t, err)
		ref, err := h.Close(context.Background())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "escape.txt"), ref)
	})

	t.Run("abort removes partial file", func(t *testing.T) {
		t.Parallel()
		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "partial.bin"})
		require.NoError(t, err)
		require.NoError(t, h.Write(context.Background(), []byte("half")))

		require.NoError(t, h.Abort(context.Background()))
		_, err = os.Stat(filepath.Join(dir, "partial.bin"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("handle rejects use after close", func(t *testing.T) {
		t.Parallel()
		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "closed.txt"})
		require.NoError(t, err)
		_, err = h.Close(context.Background())
		require.NoError(t, err)

		assert.ErrorIs(t, h.Write(context.Background(), []byte("x")), file.ErrHandleClosed)
		_, err = h.Close(context.Background())
		assert.ErrorIs(t, err, file.ErrHandleClosed)
		assert.ErrorIs(t, h.Abort(context.Background()), file.ErrHandleClosed)
	})
}

func TestLocalSink_TempFiles(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	sink, err := file.NewLocalSink("", file.WithTempDir(tmp), file.WithTempPrefix("part-"))
	require.NoError(t, err)
	assert.Empty(t, sink.Dir())

	refs := make(map[string]bool)
	for range 2 {
		h, err := sink.Open(context.Background(), upload.Part{Name: "f", Filename: "same.bin"})
		require.NoError(t, err)
		require.NoError(t, h.Write(context.Background(), []byte{0x00, 0xff}))
		ref, err := h.Close(context.Background())
		require.NoError(t, err)

		assert.Equal(t, tmp, filepath.Dir(ref))
		assert.Contains(t, filepath.Base(ref), "part-")
		data, err := os.ReadFile(ref)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff}, data)
		refs[ref] = true
	}
	assert.Len(t, refs, 2, "temp files must be uniquely named")
}

func TestNewLocalSink(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "uploads")
		sink, err := file.NewLocalSink(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, sink.Dir())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("open fails on canceled context", func(t *testing.T) {
		t.Parallel()
		sink, err := file.NewLocalSink(t.TempDir())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = sink.Open(ctx, upload.Part{Name: "f", Filename: "x"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
