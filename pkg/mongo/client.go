package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// New creates a new mongo client and verifies it with a ping.
// Connection attempts are retried RetryAttempts times, waiting RetryInterval
// between them, and stop early when ctx is done.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrMissingConnectionURL
	}

	var lastErr error
	for attempt := range max(cfg.RetryAttempts, 1) {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
			case <-time.After(cfg.RetryInterval):
			}
		}

		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize).
				SetMinPoolSize(cfg.MinPoolSize).
				SetMaxConnIdleTime(cfg.MaxConnIdleTime).
				SetRetryWrites(cfg.RetryWrites).
				SetRetryReads(cfg.RetryReads),
		)
		if err != nil {
			lastErr = err
			continue
		}
		if err := client.Ping(ctx, nil); err != nil {
			lastErr = err
			_ = client.Disconnect(context.WithoutCancel(ctx))
			continue
		}
		return client, nil
	}

	return nil, errors.Join(ErrFailedToConnectToMongo, lastErr)
}

// NewGridFSBucket opens the GridFS bucket file parts are streamed into.
func NewGridFSBucket(client *mongo.Client, cfg Config) (*mongo.GridFSBucket, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if cfg.Database == "" {
		return nil, ErrMissingDatabase
	}

	opts := options.GridFSBucket()
	if cfg.GridFSBucket != "" {
		opts.SetName(cfg.GridFSBucket)
	}
	if cfg.GridFSChunkSize > 0 {
		opts.SetChunkSizeBytes(cfg.GridFSChunkSize)
	}
	return client.Database(cfg.Database).GridFSBucket(opts), nil
}
