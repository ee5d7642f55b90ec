// Package mongo connects to MongoDB and opens the GridFS bucket used to store
// uploaded files.
//
// Configuration is environment-driven through Config. An empty MONGODB_URL
// leaves mongo disabled, which callers check with Config.Enabled.
//
// # Usage
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//
//	bucket, err := mongo.NewGridFSBucket(client, cfg)
//	if err != nil {
//		return err
//	}
//	sink, err := file.NewGridFSSink(bucket)
//
// Healthcheck wraps a ping for use in readiness endpoints.
//
// # Error Handling
//
// Connection failures wrap ErrFailedToConnectToMongo together with the last
// driver error; use errors.Is to check for it.
package mongo
