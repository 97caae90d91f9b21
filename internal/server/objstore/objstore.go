// Package objstore wraps the S3-compatible object storage backend used for
// uploaded file bodies.
package objstore

import "context"

// Store is the object storage surface the services depend on. Objects are
// addressed by opaque keys; public retrieval goes through the CDN, not
// through this interface.
type Store interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}
