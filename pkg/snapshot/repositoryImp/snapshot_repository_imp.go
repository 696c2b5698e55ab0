package repositoryImp

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agrimind/entities"
	"agrimind/pkg/snapshot/repository"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.SnapshotRepository { return &repo{db} }

// Upsert is INSERT ... ON CONFLICT(user_id) DO UPDATE, so concurrent writers
// for one user still leave a single row holding the last value. The write is
// the first statement of the transaction: SQLite then waits on busy_timeout for
// the write lock instead of failing to upgrade a stale read snapshot. A row
// whose created_at equals its updated_at was inserted by this call.
func (r *repo) Upsert(ctx context.Context, userID string, data datatypes.JSONMap) (*entities.UserLocalStorage, bool, error) {
	if data == nil {
		data = datatypes.JSONMap{}
	}
	var row entities.UserLocalStorage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		in := entities.UserLocalStorage{UserID: userID, Data: data, CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&in).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&row).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &row, row.CreatedAt.Equal(row.UpdatedAt), nil
}

func (r *repo) Find(ctx context.Context, userID string) (*entities.UserLocalStorage, error) {
	var row entities.UserLocalStorage
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
