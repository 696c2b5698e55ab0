package repository

import (
	"context"

	"gorm.io/datatypes"

	"agrimind/entities"
)

type SnapshotRepository interface {
	// Upsert replaces the user's document and returns the stored row, and
	// whether it was new.
	Upsert(ctx context.Context, userID string, data datatypes.JSONMap) (row *entities.UserLocalStorage, created bool, err error)
	// Find returns nil, nil when the user has no row.
	Find(ctx context.Context, userID string) (*entities.UserLocalStorage, error)
}
