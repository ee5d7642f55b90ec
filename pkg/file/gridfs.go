package file

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

// UploadStream is the part of *mongo.GridFSUploadStream used by GridFSSink.
type UploadStream interface {
	Write(p []byte) (int, error)
	Close() error
	Abort() error
}

// GridFSOpener opens an upload stream and returns the id GridFS assigned to
// the new file.
type GridFSOpener func(ctx context.Context, filename string, metadata bson.D) (any, UploadStream, error)

// BucketOpener adapts a GridFS bucket to GridFSOpener.
func BucketOpener(bucket *mongo.GridFSBucket) GridFSOpener {
	return func(ctx context.Context, filename string, metadata bson.D) (any, UploadStream, error) {
		stream, err := bucket.OpenUploadStream(ctx, filename, options.GridFSUpload().SetMetadata(metadata))
		if err != nil {
			return nil, nil, err
		}
		return stream.FileID, stream, nil
	}
}

// GridFSSink streams file parts into a MongoDB GridFS bucket. The file id is
// assigned when the part opens; the file becomes readable once the stream
// is closed and its last chunk and files document are written.
type GridFSSink struct {
	open GridFSOpener
}

var _ upload.Sink = (*GridFSSink)(nil)

// GridFSOption defines a function that configures GridFSSink.
type GridFSOption func(*GridFSSink)

// WithGridFSOpener replaces the bucket-backed opener.
// Useful for testing without a database.
func WithGridFSOpener(open GridFSOpener) GridFSOption {
	return func(s *GridFSSink) {
		s.open = open
	}
}

// NewGridFSSink creates a sink writing into bucket, which must belong to an
// already connected client.
func NewGridFSSink(bucket *mongo.GridFSBucket, opts ...GridFSOption) (*GridFSSink, error) {
	s := &GridFSSink{}
	if bucket != nil {
		s.open = BucketOpener(bucket)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.open == nil {
		return nil, fmt.Errorf("%w: gridfs bucket is required", ErrInvalidConfig)
	}
	return s, nil
}

// Open creates a GridFS file named after the part filename. The content type
// and form field name are kept in the file metadata.
func (s *GridFSSink) Open(ctx context.Context, part upload.Part) (upload.Handle, error) {
	metadata := bson.D{{Key: "field", Value: part.Name}}
	if part.ContentType != "" {
		metadata = append(metadata, bson.E{Key: "contentType", Value: part.ContentType})
	}

	id, stream, err := s.open(ctx, part.Filename, metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenObject, err)
	}

	return &gridfsHandle{stream: stream, id: fileIDString(id)}, nil
}

// fileIDString renders a GridFS id; ObjectIDs use their hex form.
func fileIDString(id any) string {
	if oid, ok := id.(bson.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}

type gridfsHandle struct {
	stream UploadStream
	id     string
}

func (h *gridfsHandle) Write(ctx context.Context, p []byte) error {
	if h.stream == nil {
		return ErrHandleClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := h.stream.Write(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteObject, err)
	}
	if n != len(p) {
		return fmt.Errorf("%w: short write %d of %d bytes", ErrFailedToWriteObject, n, len(p))
	}
	return nil
}

func (h *gridfsHandle) Close(_ context.Context) (string, error) {
	if h.stream == nil {
		return "", ErrHandleClosed
	}
	stream := h.stream
	h.stream = nil

	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToCompleteObject, err)
	}
	return h.id, nil
}

// Abort removes the chunks already written for the file.
func (h *gridfsHandle) Abort(_ context.Context) error {
	if h.stream == nil {
		return ErrHandleClosed
	}
	stream := h.stream
	h.stream = nil

	if err := stream.Abort(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToAbortObject, err)
	}
	return nil
}
