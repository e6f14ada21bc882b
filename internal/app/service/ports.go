package service

import "context"

// SessionStore is the server-held session mapping. The Redis implementation
// lives in platform/sessions; tests use an in-memory fake.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, sid string) (string, error)
	Destroy(ctx context.Context, sid string) error
}

// AssetStore saves uploaded files under collision-resistant names and removes
// them on entity deletion. The disk implementation lives in platform/assets.
type AssetStore interface {
	Save(data []byte, originalName string) (string, error)
	Delete(storedName string) error
}

// Upload is a file received with a form submission.
type Upload struct {
	Data     []byte
	Filename string
}
