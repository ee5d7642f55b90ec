package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrMissingConnectionURL   = errors.New("mongo connection url is not set")
	ErrMissingDatabase        = errors.New("mongo database name is not set")
	ErrNilClient              = errors.New("mongo client is nil")
)
