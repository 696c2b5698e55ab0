package serviceImp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"agrimind/entities"
	"agrimind/pkg/backup"
	"agrimind/pkg/metrics"
	"agrimind/pkg/transfer/repository"
	"agrimind/pkg/transfer/service"
	"agrimind/pkg/transfer/types"
)

// Counts keys for the nested farm histories.
const (
	CountWaterHistory      = "waterHistory"
	CountFertilizerHistory = "fertilizerHistory"
	CountHarvestHistory    = "harvestHistory"
)

type transferService struct {
	repo    repository.TransferRepository
	runs    repository.ImportRunRepository
	backup  backup.Store // nil disables pre-import backups
	metrics *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

func New(
	repo repository.TransferRepository,
	runs repository.ImportRunRepository,
	backupStore backup.Store,
	m *metrics.Metrics,
	log zerolog.Logger,
) service.TransferService {
	return &transferService{
		repo:    repo,
		runs:    runs,
		backup:  backupStore,
		metrics: m,
		log:     log.With().Str("component", "transfer").Logger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Import records an audit run, then replaces the dataset. On failure the
// returned result still carries the run id.
func (s *transferService) Import(ctx context.Context, userID string, r io.Reader) (*service.ImportResult, error) {
	started := s.now()
	run := &entities.ImportRun{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    entities.ImportRunning,
		StartedAt: started,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, types.StorageError("record import run", err)
	}
	log := s.log.With().Str("run_id", run.ID).Str("user", userID).Logger()

	counts, err := s.load(ctx, run, r)

	finished := s.now()
	run.FinishedAt = &finished
	if err != nil {
		run.Status = entities.ImportFailed
		run.ErrorKind = string(types.KindOf(err))
		run.Error = err.Error()
	} else {
		run.Status = entities.ImportSucceeded
		run.Counts = countsJSON(counts)
	}
	// the audit row must land even when the request was canceled
	if ferr := s.runs.Finish(context.WithoutCancel(ctx), run); ferr != nil {
		log.Error().Err(ferr).Msg("[import] finish run record")
	}
	s.metrics.ObserveImport(run.Status, finished.Sub(started), counts)

	res := &service.ImportResult{RunID: run.ID, Counts: counts, BackupKey: run.BackupKey}
	if err != nil {
		log.Warn().Err(err).Str("kind", run.ErrorKind).Msg("[import] failed, dataset unchanged")
		return res, err
	}
	log.Info().Interface("counts", counts).Dur("took", finished.Sub(started)).Msg("[import] done")
	return res, nil
}

func (s *transferService) load(ctx context.Context, run *entities.ImportRun, r io.Reader) (types.Counts, error) {
	doc, err := types.ParseDocument(r)
	if err != nil {
		return nil, err
	}
	farms, err := buildFarms(doc.Get(types.KeyFarms))
	if err != nil {
		return nil, err
	}
	plans, planCounts := normalizePlans(doc)

	if s.backup != nil {
		key, err := s.takeBackup(ctx, run.ID)
		if err != nil {
			return nil, types.StorageError("backup before import", err)
		}
		run.BackupKey = key
	}

	counts := types.Counts{}
	err = s.repo.Transaction(ctx, func(tx repository.TransferRepository) error {
		if err := tx.ClearAll(ctx); err != nil {
			return types.StorageError("clear dataset", err)
		}

		for _, f := range farms {
			if err := tx.CreateFarm(ctx, f); err != nil {
				return types.StorageError(fmt.Sprintf("create farm %d", f.ID), err)
			}
			counts[CountWaterHistory] += len(f.WaterHistory)
			counts[CountFertilizerHistory] += len(f.FertilizerHistory)
			counts[CountHarvestHistory] += len(f.HarvestHistory)
		}
		counts[types.KeyFarms] = len(farms)

		for _, pc := range types.PassthroughCollections {
			rows := passthrough(doc.Get(pc.Key))
			if err := tx.CreateRecords(ctx, pc.Table, rows); err != nil {
				return types.StorageError("create "+pc.Key, err)
			}
			counts[pc.Key] = len(rows)
		}

		if err := tx.CreatePlanItems(ctx, plans); err != nil {
			return types.StorageError("create plan items", err)
		}
		for k, n := range planCounts {
			counts[k] = n
		}

		l := newLinker(tx.FarmExists)
		for _, fc := range types.FarmScopedCollections {
			rows, err := l.link(ctx, fc.Key, doc.Get(fc.Key))
			if err != nil {
				return err
			}
			if err := tx.CreateFarmRecords(ctx, fc.Table, rows); err != nil {
				return types.StorageError("create "+fc.Key, err)
			}
			counts[fc.Key] = len(rows)
		}
		return nil
	})
	if err != nil {
		var te *types.Error
		if !errors.As(err, &te) {
			err = types.StorageError("import transaction", err)
		}
		return nil, err
	}
	return counts, nil
}

func passthrough(entries []types.Entry) []entities.Record {
	rows := make([]entities.Record, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, entities.Record{Position: i, Data: datatypes.JSONMap(copyEntry(e))})
	}
	return rows
}

// takeBackup writes the current export to the backup store and returns its key.
func (s *transferService) takeBackup(ctx context.Context, runID string) (string, error) {
	doc, err := s.assemble(ctx)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	key := backup.Key(runID, s.now())
	if err := s.backup.Put(ctx, key, body); err != nil {
		return "", err
	}
	s.log.Info().Str("run_id", runID).Str("driver", s.backup.Driver()).Str("key", key).Msg("[import] backup written")
	return key, nil
}

func (s *transferService) ImportRuns(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, types.StorageError("list import runs", err)
	}
	return runs, nil
}

func countsJSON(c types.Counts) datatypes.JSONMap {
	m := datatypes.JSONMap{}
	for k, n := range c {
		m[k] = n
	}
	return m
}
