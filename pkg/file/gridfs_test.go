package file_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/streamupload/pkg/file"
	"github.com/dmitrymomot/streamupload/pkg/upload"
)

// fakeUploadStream records what GridFSSink does with an upload stream.
type fakeUploadStream struct {
	bytes.Buffer
	closed   bool
	aborted  bool
	writeErr error
	closeErr error
}

func (s *fakeUploadStream) Write(p []byte) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	return s.Buffer.Write(p)
}

func (s *fakeUploadStream) Close() error {
	s.closed = true
	return s.closeErr
}

func (s *fakeUploadStream) Abort() error {
	s.aborted = true
	return nil
}

type openCall struct {
	filename string
	metadata bson.D
}

func newFakeOpener(id any, stream *fakeUploadStream, calls *[]openCall) file.GridFSOpener {
	return func(_ context.Context, filename string, metadata bson.D) (any, file.UploadStream, error) {
		*calls = append(*calls, openCall{filename: filename, metadata: metadata})
		return id, stream, nil
	}
}

func TestNewGridFSSink(t *testing.T) {
	t.Parallel()

	_, err := file.NewGridFSSink(nil)
	assert.ErrorIs(t, err, file.ErrInvalidConfig)
}

func TestGridFSSink(t *testing.T) {
	t.Parallel()

	t.Run("streams part and returns object id", func(t *testing.T) {
		t.Parallel()
		id := bson.NewObjectID()
		stream := &fakeUploadStream{}
		var calls []openCall
		sink, err := file.NewGridFSSink(nil, file.WithGridFSOpener(newFakeOpener(id, stream, &calls)))
		require.NoError(t, err)

		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "a.pdf", ContentType: "application/pdf"})
		require.NoError(t, err)
		require.Len(t, calls, 1)
		assert.Equal(t, "a.pdf", calls[0].filename)
		assert.Equal(t, bson.D{{Key: "field", Value: "doc"}, {Key: "contentType", Value: "application/pdf"}}, calls[0].metadata)

		require.NoError(t, h.Write(context.Background(), []byte("%PDF")))
		require.NoError(t, h.Write(context.Background(), []byte("-1.4")))
		assert.False(t, stream.closed, "stream must stay open until Close")

		ref, err := h.Close(context.Background())
		require.NoError(t, err)
		assert.Equal(t, id.Hex(), ref)
		assert.True(t, stream.closed)
		assert.Equal(t, "%PDF-1.4", stream.String())
	})

	t.Run("non object id is formatted", func(t *testing.T) {
		t.Parallel()
		var calls []openCall
		sink, err := file.NewGridFSSink(nil, file.WithGridFSOpener(newFakeOpener(int64(7), &fakeUploadStream{}, &calls)))
		require.NoError(t, err)

		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "a"})
		require.NoError(t, err)
		assert.Equal(t, bson.D{{Key: "field", Value: "doc"}}, calls[0].metadata)
		ref, err := h.Close(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "7", ref)
	})

	t.Run("open failure", func(t *testing.T) {
		t.Parallel()
		sink, err := file.NewGridFSSink(nil, file.WithGridFSOpener(
			func(context.Context, string, bson.D) (any, file.UploadStream, error) {
				return nil, nil, errors.New("no primary")
			}))
		require.NoError(t, err)

		_, err = sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "a"})
		assert.ErrorIs(t, err, file.ErrFailedToOpenObject)
	})

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()
		stream := &fakeUploadStream{writeErr: errors.New("socket closed")}
		var calls []openCall
		sink, err := file.NewGridFSSink(nil, file.WithGridFSOpener(newFakeOpener(bson.NewObjectID(), stream, &calls)))
		require.NoError(t, err)

		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "a"})
		require.NoError(t, err)
		assert.ErrorIs(t, h.Write(context.Background(), []byte("x")), file.ErrFailedToWriteObject)
	})

	t.Run("close failure", func(t *testing.T) {
		t.Parallel()
		stream := &fakeUploadStream{closeErr: errors.New("write concern")}
		var calls []openCall
		sink, err := file.NewGridFSSink(nil, file.WithGridFSOpener(newFakeOpener(bson.NewObjectID(), stream, &calls)))
		require.NoError(t, err)

		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "a"})
		require.NoError(t, err)
		_, err = h.Close(context.Background())
		assert.ErrorIs(t, err, file.ErrFailedToCompleteObject)
	})

	t.Run("abort discards stream", func(t *testing.T) {
		t.Parallel()
		stream := &fakeUploadStream{}
		var calls []openCall
		sink, err := file.NewGridFSSink(nil, file.WithGridFSOpener(newFakeOpener(bson.NewObjectID(), stream, &calls)))
		require.NoError(t, err)

		h, err := sink.Open(context.Background(), upload.Part{Name: "doc", Filename: "a"})
		require.NoError(t, err)
		require.NoError(t, h.Abort(context.Background()))
		assert.True(t, stream.aborted)
		assert.False(t, stream.closed)

		_, err = h.Close(context.Background())
		assert.ErrorIs(t, err, file.ErrHandleClosed)
	})
}
