package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agrimind/entities"
	"agrimind/pkg/transfer/repository"
)

type runRepo struct{ db *gorm.DB }

func NewImportRuns(db *gorm.DB) repository.ImportRunRepository { return &runRepo{db} }

func (r *runRepo) Create(ctx context.Context, run *entities.ImportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *runRepo) Finish(ctx context.Context, run *entities.ImportRun) error {
	return r.db.WithContext(ctx).Model(&entities.ImportRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]any{
			"status":      run.Status,
			"error_kind":  run.ErrorKind,
			"error":       run.Error,
			"counts":      run.Counts,
			"backup_key":  run.BackupKey,
			"finished_at": run.FinishedAt,
		}).Error
}

func (r *runRepo) List(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var runs []entities.ImportRun
	return runs, r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error
}
