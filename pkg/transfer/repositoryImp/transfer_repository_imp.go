package repositoryImp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agrimind/entities"
	"agrimind/pkg/transfer/repository"
	"agrimind/pkg/transfer/types"
)

const batchSize = 200

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TransferRepository { return &repo{db} }

func (r *repo) Transaction(ctx context.Context, fn func(tx repository.TransferRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repo{tx})
	})
}

// ClearAll deletes children before parents so it works with or without FK cascades.
func (r *repo) ClearAll(ctx context.Context) error {
	db := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	models := []any{
		&entities.FuelRecord{},
		&entities.SoilRecord{},
		&entities.EmissionSource{},
		&entities.SequestrationActivity{},
		&entities.EnergyRecord{},
		&entities.Livestock{},
		&entities.WaterUsage{},
		&entities.FertilizerUsage{},
		&entities.Harvest{},
		&entities.PlanItem{},
		&entities.Task{},
		&entities.Issue{},
		&entities.CropPlanEvent{},
		&entities.Farm{},
	}
	for _, m := range models {
		if err := db.Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	return nil
}

// CreateFarm inserts the farm and its histories in one call.
func (r *repo) CreateFarm(ctx context.Context, f *entities.Farm) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repo) FarmExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entities.Farm{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repo) CreateRecords(ctx context.Context, table string, rows []entities.Record) error {
	if len(rows) == 0 {
		return nil
	}
	if err := checkTable(table, types.PassthroughCollections); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).CreateInBatches(&rows, batchSize).Error
}

func (r *repo) CreatePlanItems(ctx context.Context, items []entities.PlanItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&items, batchSize).Error
}

func (r *repo) CreateFarmRecords(ctx context.Context, table string, rows []entities.FarmRecord) error {
	if len(rows) == 0 {
		return nil
	}
	if err := checkTable(table, types.FarmScopedCollections); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).CreateInBatches(&rows, batchSize).Error
}

func (r *repo) ListFarms(ctx context.Context) ([]entities.Farm, error) {
	byPos := func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }
	var fs []entities.Farm
	err := r.db.WithContext(ctx).
		Preload("WaterHistory", byPos).
		Preload("FertilizerHistory", byPos).
		Preload("HarvestHistory", byPos).
		Order("position asc, id asc").
		Find(&fs).Error
	return fs, err
}

func (r *repo) ListRecords(ctx context.Context, table string) ([]entities.Record, error) {
	if err := checkTable(table, types.PassthroughCollections); err != nil {
		return nil, err
	}
	var rs []entities.Record
	return rs, r.db.WithContext(ctx).Table(table).Order("position asc, id asc").Find(&rs).Error
}

func (r *repo) ListPlanItems(ctx context.Context) ([]entities.PlanItem, error) {
	var ps []entities.PlanItem
	return ps, r.db.WithContext(ctx).Order("position asc, id asc").Find(&ps).Error
}

func (r *repo) ListFarmRecords(ctx context.Context, table string) ([]entities.FarmRecord, error) {
	if err := checkTable(table, types.FarmScopedCollections); err != nil {
		return nil, err
	}
	var rs []entities.FarmRecord
	return rs, r.db.WithContext(ctx).Table(table).Order("position asc, id asc").Find(&rs).Error
}

// table names reach SQL unquoted through Table(), so only known ones pass.
func checkTable(table string, allowed []types.TableCollection) error {
	for _, c := range allowed {
		if c.Table == table {
			return nil
		}
	}
	return fmt.Errorf("unknown table %q", table)
}
