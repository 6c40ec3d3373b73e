package storage

import "context"

// ImageStorage is the external media-store boundary. Upload returns the
// public URL of the stored object; Delete takes that same URL back.
type ImageStorage interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}
