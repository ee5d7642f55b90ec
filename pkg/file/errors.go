package file

import "errors"

var (
	// Configuration errors
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")

	// File system errors
	ErrFailedToCreateFile      = errors.New("failed to create file")
	ErrFailedToWriteFile       = errors.New("failed to write file")
	ErrFailedToSyncFile        = errors.New("failed to sync file")
	ErrFailedToCloseFile       = errors.New("failed to close file")
	ErrFailedToDeleteFile      = errors.New("failed to delete file")
	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToGetAbsolutePath = errors.New("failed to get absolute path")

	// Object store errors
	ErrFailedToOpenObject     = errors.New("failed to open object")
	ErrFailedToWriteObject    = errors.New("failed to write object")
	ErrFailedToCompleteObject = errors.New("failed to complete object")
	ErrFailedToAbortObject    = errors.New("failed to abort object")

	// S3-specific errors for proper error classification
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrNoSuchUpload       = errors.New("multipart upload not found")

	// Context and cancellation errors
	ErrOperationTimeout  = errors.New("operation timed out")
	ErrOperationCanceled = errors.New("operation canceled")

	// Lifecycle errors
	ErrHandleClosed = errors.New("sink handle already closed")
)
