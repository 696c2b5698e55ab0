package serviceImp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"agrimind/pkg/cache"
	"agrimind/pkg/snapshot/repository"
	"agrimind/pkg/snapshot/service"
)

const cacheTTL = 10 * time.Minute

type snapshotService struct {
	repo  repository.SnapshotRepository
	cache cache.Client // optional
	log   zerolog.Logger
}

// New wires the store. cacheClient may be nil; cache failures only log.
func New(repo repository.SnapshotRepository, cacheClient cache.Client, log zerolog.Logger) service.SnapshotService {
	return &snapshotService{repo: repo, cache: cacheClient, log: log.With().Str("component", "snapshot").Logger()}
}

func cacheKey(userID string) string { return cache.Key("snapshot", userID) }

// Save writes through to the cache, versioned by the row's updated_at, so a
// Load that read the previous row cannot put it back afterwards.
func (s *snapshotService) Save(ctx context.Context, userID string, doc map[string]any) (bool, error) {
	row, created, err := s.repo.Upsert(ctx, userID, datatypes.JSONMap(doc))
	if err != nil {
		return false, fmt.Errorf("upsert snapshot: %w", err)
	}
	s.fill(ctx, userID, row.UpdatedAt.UnixMicro(), map[string]any(row.Data))
	return created, nil
}

func (s *snapshotService) Load(ctx context.Context, userID string) (map[string]any, error) {
	if s.cache != nil {
		if b, err := s.cache.Get(ctx, cacheKey(userID)); err == nil {
			if doc, err := decodeObject(b); err == nil {
				return doc, nil
			}
		}
	}

	row, err := s.repo.Find(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	doc := map[string]any{}
	var version int64
	if row != nil {
		version = row.UpdatedAt.UnixMicro()
		if row.Data != nil {
			doc = map[string]any(row.Data)
		}
	}
	s.fill(ctx, userID, version, doc)
	return doc, nil
}

// fill caches doc unless a newer version is already there. When the write
// fails the entry is dropped so the next Load goes to the store.
func (s *snapshotService) fill(ctx context.Context, userID string, version int64, doc map[string]any) {
	if s.cache == nil {
		return
	}
	if doc == nil {
		doc = map[string]any{}
	}
	b, err := json.Marshal(doc)
	if err == nil {
		err = s.cache.Set(ctx, cacheKey(userID), version, b, cacheTTL)
	}
	if err == nil {
		return
	}
	s.log.Warn().Err(err).Str("user", userID).Msg("[snapshot] cache fill")
	if err := s.cache.Delete(ctx, cacheKey(userID)); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("[snapshot] cache invalidate")
	}
}

func decodeObject(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
