package upload

import "errors"

var (
	// Sink failures. Always fatal for the request.
	ErrSinkOpen  = errors.New("failed to open part sink")
	ErrSinkWrite = errors.New("failed to write to part sink")
	ErrSinkClose = errors.New("failed to close part sink")
	ErrNoSink    = errors.New("file part received but no sink is configured")

	// Body framing errors
	ErrTruncatedBody  = errors.New("request body ended before declared content length")
	ErrHeaderTooLarge = errors.New("part header block exceeds maximum allowed size")
	ErrFieldTooLarge  = errors.New("field value exceeds maximum allowed size")

	// Lifecycle errors
	ErrAborted = errors.New("decoder has been aborted")
)
