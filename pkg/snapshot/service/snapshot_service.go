package service

import "context"

// SnapshotService stores one opaque JSON object per user.
type SnapshotService interface {
	// Save replaces the whole document; created is true when the user had none.
	Save(ctx context.Context, userID string, doc map[string]any) (created bool, err error)
	// Load returns the stored document, or an empty object if there is none.
	Load(ctx context.Context, userID string) (map[string]any, error)
}
