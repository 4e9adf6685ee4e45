package driven

import "context"

// ObjectStore stores certificate material in a bucket.
type ObjectStore interface {
	// Put writes an object encrypted at rest.
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error

	// Get reads an object. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}
