package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"agrimind/database"
	"agrimind/entities"
	"agrimind/pkg/transfer/repository"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRecordsKeepPositionOrder(t *testing.T) {
	ctx := context.Background()
	r := New(newDB(t))

	rows := []entities.Record{
		{Position: 1, Data: datatypes.JSONMap{"n": "second"}},
		{Position: 0, Data: datatypes.JSONMap{"n": "first"}},
	}
	require.NoError(t, r.CreateRecords(ctx, "issues", rows))

	got, err := r.ListRecords(ctx, "issues")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Data["n"])
	assert.Equal(t, "second", got[1].Data["n"])

	tasks, err := r.ListRecords(ctx, "tasks")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUnknownTableRejected(t *testing.T) {
	ctx := context.Background()
	r := New(newDB(t))

	err := r.CreateRecords(ctx, "farms; DROP TABLE farms", []entities.Record{{}})
	assert.Error(t, err)
	_, err = r.ListFarmRecords(ctx, "tasks")
	assert.Error(t, err)
}

func TestClearAllEmptiesEveryManagedTable(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	r := New(db)

	require.NoError(t, r.CreateFarm(ctx, &entities.Farm{
		ID:             3,
		HarvestHistory: []entities.Harvest{{Date: "2024-01-01", YieldAmount: 4}},
	}))
	require.NoError(t, r.CreateFarmRecords(ctx, "livestock", []entities.FarmRecord{{FarmID: 3, Data: datatypes.JSONMap{"head": 2}}}))
	require.NoError(t, r.CreatePlanItems(ctx, []entities.PlanItem{{PlanType: "Rotation", Data: datatypes.JSONMap{}}}))
	require.NoError(t, r.CreateRecords(ctx, "tasks", []entities.Record{{Data: datatypes.JSONMap{}}}))
	require.NoError(t, db.Create(&entities.UserLocalStorage{UserID: "u1", Data: datatypes.JSONMap{"k": 1}}).Error)

	require.NoError(t, r.ClearAll(ctx))

	for _, m := range []any{&entities.Farm{}, &entities.Harvest{}, &entities.Livestock{}, &entities.PlanItem{}, &entities.Task{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}
	var snaps int64
	require.NoError(t, db.Model(&entities.UserLocalStorage{}).Count(&snaps).Error)
	assert.Equal(t, int64(1), snaps, "snapshots are not part of the farm dataset")
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	r := New(newDB(t))
	require.NoError(t, r.CreateFarm(ctx, &entities.Farm{ID: 1, Name: "keep"}))

	boom := errors.New("boom")
	err := r.Transaction(ctx, func(tx repository.TransferRepository) error {
		require.NoError(t, tx.ClearAll(ctx))
		require.NoError(t, tx.CreateFarm(ctx, &entities.Farm{ID: 2, Name: "new"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	farms, err := r.ListFarms(ctx)
	require.NoError(t, err)
	require.Len(t, farms, 1)
	assert.Equal(t, "keep", farms[0].Name)
}

func TestListFarmsPreloadsHistories(t *testing.T) {
	ctx := context.Background()
	r := New(newDB(t))

	require.NoError(t, r.CreateFarm(ctx, &entities.Farm{
		ID: 9,
		WaterHistory: []entities.WaterUsage{
			{Position: 1, Data: datatypes.JSONMap{"amount": 2}},
			{Position: 0, Data: datatypes.JSONMap{"amount": 1}},
		},
	}))
	ok, err := r.FarmExists(ctx, 9)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.FarmExists(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	farms, err := r.ListFarms(ctx)
	require.NoError(t, err)
	require.Len(t, farms, 1)
	require.Len(t, farms[0].WaterHistory, 2)
	assert.Equal(t, "1", fmt.Sprint(farms[0].WaterHistory[0].Data["amount"]))
}

func TestImportRuns(t *testing.T) {
	ctx := context.Background()
	runs := NewImportRuns(newDB(t))

	older := &entities.ImportRun{ID: "a", Status: entities.ImportRunning, StartedAt: time.Now().Add(-time.Hour)}
	newer := &entities.ImportRun{ID: "b", Status: entities.ImportRunning, StartedAt: time.Now()}
	require.NoError(t, runs.Create(ctx, older))
	require.NoError(t, runs.Create(ctx, newer))

	done := time.Now()
	older.Status = entities.ImportFailed
	older.ErrorKind = "reference"
	older.FinishedAt = &done
	require.NoError(t, runs.Finish(ctx, older))

	list, err := runs.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, entities.ImportFailed, list[1].Status)
	assert.Equal(t, "reference", list[1].ErrorKind)
	assert.NotNil(t, list[1].FinishedAt)
}
