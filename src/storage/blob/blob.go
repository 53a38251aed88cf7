package blob

import (
	"context"
	"errors"
)

// ErrStorage indicates a blob read, write or delete failure.
var ErrStorage = errors.New("blob storage error")

// Store persists uploaded file bytes under generated object names.
// Save returns the storage path recorded on the document; the same path is
// later handed to Fetch and Delete.
type Store interface {
	Save(ctx context.Context, objectName string, data []byte) (string, error)
	Fetch(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}
