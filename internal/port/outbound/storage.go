package outbound

import "context"

// AssetStorePort stores generated images and returns their public URL.
type AssetStorePort interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
