package ports

import "context"

// ImageStore holds user profile images and hands back a public URL.
type ImageStore interface {
	Put(ctx context.Context, alias string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, alias string) error
}
