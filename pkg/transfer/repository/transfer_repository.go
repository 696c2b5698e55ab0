package repository

import (
	"context"

	"agrimind/entities"
)

// TransferRepository is the entity store behind import and export.
// Table arguments name one of the passthrough or farm-scoped tables.
type TransferRepository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx TransferRepository) error) error

	ClearAll(ctx context.Context) error

	CreateFarm(ctx context.Context, f *entities.Farm) error
	FarmExists(ctx context.Context, id int64) (bool, error)
	CreateRecords(ctx context.Context, table string, rows []entities.Record) error
	CreatePlanItems(ctx context.Context, items []entities.PlanItem) error
	CreateFarmRecords(ctx context.Context, table string, rows []entities.FarmRecord) error

	ListFarms(ctx context.Context) ([]entities.Farm, error)
	ListRecords(ctx context.Context, table string) ([]entities.Record, error)
	ListPlanItems(ctx context.Context) ([]entities.PlanItem, error)
	ListFarmRecords(ctx context.Context, table string) ([]entities.FarmRecord, error)
}

// ImportRunRepository keeps the audit trail. It never joins the import transaction.
type ImportRunRepository interface {
	Create(ctx context.Context, run *entities.ImportRun) error
	Finish(ctx context.Context, run *entities.ImportRun) error
	List(ctx context.Context, limit int) ([]entities.ImportRun, error)
}
