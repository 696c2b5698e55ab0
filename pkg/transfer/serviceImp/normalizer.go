package serviceImp

import (
	"gorm.io/datatypes"

	"agrimind/entities"
	"agrimind/pkg/transfer/types"
)

// normalizePlans flattens the seven plan collections into PlanItems. The kind
// comes only from the source collection; a plan_type key inside an entry is
// kept as data and never trusted.
func normalizePlans(doc *types.Document) ([]entities.PlanItem, types.Counts) {
	counts := types.Counts{}
	var items []entities.PlanItem
	for _, pc := range types.PlanCollections {
		entries := doc.Get(pc.Key)
		counts[pc.Key] = len(entries)
		for i, e := range entries {
			items = append(items, entities.PlanItem{
				PlanType: string(pc.Kind),
				Position: i,
				Data:     datatypes.JSONMap(copyEntry(e)),
			})
		}
	}
	return items, counts
}

// planKey maps a stored kind back to its collection key.
func planKey(kind string) (string, bool) {
	for _, pc := range types.PlanCollections {
		if string(pc.Kind) == kind {
			return pc.Key, true
		}
	}
	return "", false
}

func copyEntry(e types.Entry, skip ...string) types.Entry {
	out := make(types.Entry, len(e))
	for k, v := range e {
		out[k] = v
	}
	for _, k := range skip {
		delete(out, k)
	}
	return out
}
