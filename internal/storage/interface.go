package storage

import "context"

// MediaStore defines how generated and uploaded media is persisted.
// This interface allows for easy mocking in tests.
type MediaStore interface {
	Save(ctx context.Context, data []byte, userID, originalFilename, kind string) (*SaveResult, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Ensure LocalStore implements MediaStore
var _ MediaStore = (*LocalStore)(nil)
