// Package logger builds the slog loggers used across the upload service.
//
// New returns a *slog.Logger configured by Option functions: output format
// (text or JSON), level, static attributes and ContextExtractor callbacks
// that pull request-scoped values such as the request id out of the context
// on every record.
//
//	log := logger.New(
//		logger.WithEnvironment("production", "uploadd"),
//		logger.WithContextExtractors(requestIDExtractor),
//	)
//	log.InfoContext(ctx, "file part stored",
//		logger.Field("avatar"),
//		logger.Size(n),
//		logger.Reference(ref),
//	)
//
// Attribute helpers keep key names consistent between the decoder, the sinks
// and the HTTP layer. Error and Filename return an empty attribute for zero
// values so callers need no nil checks.
package logger
