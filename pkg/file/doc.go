// Package file provides the storage backends that receive file parts from
// the streaming upload decoder.
//
// Every backend implements upload.Sink: Open allocates a destination for one
// part and returns an upload.Handle that accepts the part's bytes in order
// and is then either closed, yielding the storage reference, or aborted.
//
// # Backends
//
//   - LocalSink writes to <dir>/<filename>, or to a uniquely named temporary
//     file when no directory is configured. The reference is the file path.
//   - GridFSSink streams into a MongoDB GridFS bucket. The reference is the
//     hex ObjectID assigned when the file is opened.
//   - S3Sink streams into an S3 (or S3-compatible) bucket through a
//     multipart upload. The reference is the generated object key.
//
// # Usage
//
//	sink, err := file.NewLocalSink("/var/uploads")
//	if err != nil {
//		return err
//	}
//	dec := upload.NewDecoder(info, sink)
//
// With an already connected MongoDB client:
//
//	bucket := client.Database("files").GridFSBucket()
//	sink, err := file.NewGridFSSink(bucket)
//
// With S3:
//
//	sink, err := file.NewS3Sink(ctx, file.S3Config{
//		Bucket: "uploads",
//		Region: "eu-central-1",
//	})
//
// # Error Handling
//
// Failures wrap package sentinel errors, so callers can use errors.Is:
//
//	if errors.Is(err, file.ErrFailedToWriteObject) { ... }
//
// S3 API errors are classified (AccessDenied -> ErrAccessDenied,
// SlowDown -> ErrServiceUnavailable, NoSuchUpload -> ErrNoSuchUpload).
//
// Client filenames are passed through SanitizeFilename before they are used
// in paths or object keys.
package file
