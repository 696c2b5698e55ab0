package serviceImp

import (
	"context"

	"gorm.io/datatypes"

	"agrimind/entities"
	"agrimind/pkg/transfer/types"
)

// farmLookup reports whether a farm with id exists in the current transaction.
type farmLookup func(ctx context.Context, id int64) (bool, error)

// linker resolves farmId on farm-scoped entries. Lookups are memoized per import.
type linker struct {
	lookup farmLookup
	seen   map[int64]bool
}

func newLinker(lookup farmLookup) *linker {
	return &linker{lookup: lookup, seen: map[int64]bool{}}
}

// link turns entries into rows attached to their farm with farmId stripped from
// the data. A missing or non-integer farmId is a parse error; an id naming no
// farm is a reference error.
func (l *linker) link(ctx context.Context, collection string, entries []types.Entry) ([]entities.FarmRecord, error) {
	rows := make([]entities.FarmRecord, 0, len(entries))
	for i, e := range entries {
		raw, ok := e[types.KeyFarmID]
		if !ok || raw == nil {
			return nil, types.ParseError(collection, i, "farmId is required")
		}
		id, ok := types.Int64(raw)
		if !ok {
			return nil, types.ParseError(collection, i, "farmId must be an integer, got %v", raw)
		}
		exists, err := l.exists(ctx, id)
		if err != nil {
			return nil, types.StorageError("look up farm", err)
		}
		if !exists {
			return nil, types.ReferenceError(collection, i, id)
		}
		rows = append(rows, entities.FarmRecord{
			FarmID:   id,
			Position: i,
			Data:     datatypes.JSONMap(copyEntry(e, types.KeyFarmID)),
		})
	}
	return rows, nil
}

func (l *linker) exists(ctx context.Context, id int64) (bool, error) {
	if ok, cached := l.seen[id]; cached {
		return ok, nil
	}
	ok, err := l.lookup(ctx, id)
	if err != nil {
		return false, err
	}
	l.seen[id] = ok
	return ok, nil
}
