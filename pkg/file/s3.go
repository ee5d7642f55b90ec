package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

// MinPartSize is the smallest part S3 accepts for all but the last part of a
// multipart upload.
const MinPartSize = 5 << 20 // 5 MB

// S3Client defines the interface for S3 operations used by S3Sink.
type S3Client interface {
	CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

// S3Config contains configuration for the S3 sink.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`                            // Optional: for S3-compatible services
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // For S3-compatible services like MinIO
	KeyPrefix      string `env:"S3_KEY_PREFIX"`                          // Prepended to every generated object key
	PartSize       int64  `env:"S3_PART_SIZE" envDefault:"5242880"`      // Bytes buffered per UploadPart call
	MaxAttempts    int    `env:"S3_MAX_ATTEMPTS" envDefault:"3"`         // Retry attempts per S3 request
}

// S3Option defines a function that configures S3Sink.
type S3Option func(*s3Options)

type s3Options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3.Options)
	keyFunc         func(upload.Part) string
}

// WithS3Client sets a custom pre-configured S3 client.
// Useful for testing with mocks.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3.Options)) S3Option {
	return func(o *s3Options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithKeyFunc overrides object key generation. The configured key prefix is
// still prepended.
func WithKeyFunc(fn func(upload.Part) string) S3Option {
	return func(o *s3Options) {
		o.keyFunc = fn
	}
}

// S3Sink streams file parts into S3 objects through multipart uploads.
// The object key is generated when the part opens and becomes the storage
// reference once the upload is completed. Safe for concurrent use.
type S3Sink struct {
	client    S3Client
	bucket    string
	keyPrefix string
	partSize  int64
	keyFunc   func(upload.Part) string
}

var _ upload.Sink = (*S3Sink)(nil)

// NewS3Sink creates a new S3 sink.
func NewS3Sink(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Sink, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		if cfg.MaxAttempts > 0 {
			awsOptions = append(awsOptions, config.WithRetryMaxAttempts(cfg.MaxAttempts))
		}
		if options.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
		}
		awsOptions = append(awsOptions, options.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
		}

		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range options.s3ClientOptions {
				opt(o)
			}
		})
	}

	keyFunc := options.keyFunc
	if keyFunc == nil {
		keyFunc = defaultObjectKey
	}

	return &S3Sink{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: strings.TrimPrefix(cfg.KeyPrefix, "/"),
		partSize:  max(cfg.PartSize, MinPartSize),
		keyFunc:   keyFunc,
	}, nil
}

// defaultObjectKey keeps the client filename readable behind a random id so
// uploads with equal names never collide.
func defaultObjectKey(part upload.Part) string {
	return uuid.NewString() + "/" + SanitizeFilename(part.Filename)
}

// Open starts a multipart upload for the part.
func (s *S3Sink) Open(ctx context.Context, part upload.Part) (upload.Handle, error) {
	key := s.keyPrefix + s.keyFunc(part)

	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if part.ContentType != "" {
		input.ContentType = aws.String(part.ContentType)
	}

	out, err := s.client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenObject, classifyS3Error(err, "create multipart upload"))
	}

	return &s3Handle{
		sink:     s,
		key:      key,
		uploadID: aws.ToString(out.UploadId),
		buf:      make([]byte, 0, s.partSize),
	}, nil
}

type s3Handle struct {
	sink     *S3Sink
	key      string
	uploadID string
	buf      []byte
	parts    []types.CompletedPart
	closed   bool
}

// Write buffers p and uploads every full part.
func (h *s3Handle) Write(ctx context.Context, p []byte) error {
	if h.closed {
		return ErrHandleClosed
	}

	h.buf = append(h.buf, p...)
	for int64(len(h.buf)) >= h.sink.partSize {
		if err := h.uploadPart(ctx, h.buf[:h.sink.partSize]); err != nil {
			return err
		}
		h.buf = append(h.buf[:0], h.buf[h.sink.partSize:]...)
	}
	return nil
}

func (h *s3Handle) uploadPart(ctx context.Context, data []byte) error {
	number := aws.Int32(int32(len(h.parts) + 1))

	out, err := h.sink.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:        aws.String(h.sink.bucket),
		Key:           aws.String(h.key),
		UploadId:      aws.String(h.uploadID),
		PartNumber:    number,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return errors.Join(ErrFailedToWriteObject, classifyS3Error(err, "upload part"))
	}

	h.parts = append(h.parts, types.CompletedPart{
		ETag:       out.ETag,
		PartNumber: number,
	})
	return nil
}

// Close uploads the buffered tail and completes the upload. An empty object
// is uploaded as a single empty part. On failure the upload is aborted.
func (h *s3Handle) Close(ctx context.Context) (string, error) {
	if h.closed {
		return "", ErrHandleClosed
	}
	h.closed = true

	if len(h.buf) > 0 || len(h.parts) == 0 {
		if err := h.uploadPart(ctx, h.buf); err != nil {
			_ = h.abort(ctx)
			return "", err
		}
		h.buf = nil
	}

	_, err := h.sink.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(h.sink.bucket),
		Key:      aws.String(h.key),
		UploadId: aws.String(h.uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: h.parts,
		},
	})
	if err != nil {
		_ = h.abort(ctx)
		return "", errors.Join(ErrFailedToCompleteObject, classifyS3Error(err, "complete multipart upload"))
	}

	return h.key, nil
}

// Abort cancels the multipart upload so S3 discards uploaded parts.
func (h *s3Handle) Abort(ctx context.Context) error {
	if h.closed {
		return ErrHandleClosed
	}
	h.closed = true
	return h.abort(ctx)
}

func (h *s3Handle) abort(ctx context.Context) error {
	h.buf = nil
	_, err := h.sink.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(h.sink.bucket),
		Key:      aws.String(h.key),
		UploadId: aws.String(h.uploadID),
	})
	if err != nil {
		return errors.Join(ErrFailedToAbortObject, classifyS3Error(err, "abort multipart upload"))
	}
	return nil
}

// classifyS3Error converts S3 errors to domain-specific errors.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s operation", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s operation", ErrOperationCanceled, operation)
	}

	var nsu *types.NoSuchUpload
	if errors.As(err, &nsu) {
		return fmt.Errorf("%w: %s operation", ErrNoSuchUpload, operation)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch code {
		case "AccessDenied":
			return fmt.Errorf("%w: %s operation", ErrAccessDenied, operation)
		case "RequestTimeout":
			return fmt.Errorf("%w: %s operation", ErrRequestTimeout, operation)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s operation", ErrServiceUnavailable, operation)
		case "NoSuchUpload":
			return fmt.Errorf("%w: %s operation", ErrNoSuchUpload, operation)
		case "NoSuchBucket":
			return ErrBucketNotFound
		default:
			return fmt.Errorf("%s operation failed (code: %s): %w", operation, code, err)
		}
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}
