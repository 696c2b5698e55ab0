package serviceImp

import (
	"context"
	"errors"

	"agrimind/entities"
	"agrimind/pkg/transfer/repository"
	"agrimind/pkg/transfer/types"
)

func (s *transferService) Export(ctx context.Context) (*types.ExportDocument, error) {
	doc, err := s.assemble(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.IncExport("json")
	return doc, nil
}

// assemble reads the whole dataset inside one transaction so the document is consistent.
func (s *transferService) assemble(ctx context.Context) (*types.ExportDocument, error) {
	doc := &types.ExportDocument{
		Version:     types.Version,
		ExportDate:  s.now(),
		Collections: make(map[string][]types.Entry, len(types.CollectionKeys)),
	}
	for _, key := range types.CollectionKeys {
		doc.Collections[key] = []types.Entry{}
	}

	err := s.repo.Transaction(ctx, func(tx repository.TransferRepository) error {
		farms, err := tx.ListFarms(ctx)
		if err != nil {
			return types.StorageError("list farms", err)
		}
		for i := range farms {
			doc.Collections[types.KeyFarms] = append(doc.Collections[types.KeyFarms], farmEntry(&farms[i]))
		}

		for _, pc := range types.PassthroughCollections {
			rows, err := tx.ListRecords(ctx, pc.Table)
			if err != nil {
				return types.StorageError("list "+pc.Key, err)
			}
			for _, r := range rows {
				doc.Collections[pc.Key] = append(doc.Collections[pc.Key], copyEntry(r.Data))
			}
		}

		items, err := tx.ListPlanItems(ctx)
		if err != nil {
			return types.StorageError("list plan items", err)
		}
		for _, it := range items {
			key, ok := planKey(it.PlanType)
			if !ok {
				s.log.Warn().Str("plan_type", it.PlanType).Uint("id", it.ID).Msg("[export] skipping plan item of unknown kind")
				continue
			}
			doc.Collections[key] = append(doc.Collections[key], copyEntry(it.Data))
		}

		for _, fc := range types.FarmScopedCollections {
			rows, err := tx.ListFarmRecords(ctx, fc.Table)
			if err != nil {
				return types.StorageError("list "+fc.Key, err)
			}
			for _, r := range rows {
				e := copyEntry(r.Data)
				e[types.KeyFarmID] = r.FarmID
				doc.Collections[fc.Key] = append(doc.Collections[fc.Key], e)
			}
		}
		return nil
	})
	if err != nil {
		var te *types.Error
		if !errors.As(err, &te) {
			err = types.StorageError("export transaction", err)
		}
		return nil, err
	}
	return doc, nil
}

// farmEntry is the inverse of buildFarm: extra keys first, then the columns on top.
func farmEntry(f *entities.Farm) types.Entry {
	e := copyEntry(f.Extra)
	e[types.FarmKeyID] = f.ID
	e[types.FarmKeyName] = f.Name
	e[types.FarmKeySize] = f.Size
	e[types.FarmKeyCrop] = f.Crop
	e[types.FarmKeySoilType] = f.SoilType
	if f.SlopeRatio != nil {
		e[types.FarmKeySlopeRatio] = *f.SlopeRatio
	} else {
		e[types.FarmKeySlopeRatio] = nil
	}

	water := make([]types.Entry, 0, len(f.WaterHistory))
	for _, w := range f.WaterHistory {
		water = append(water, copyEntry(w.Data))
	}
	fert := make([]types.Entry, 0, len(f.FertilizerHistory))
	for _, fe := range f.FertilizerHistory {
		fert = append(fert, copyEntry(fe.Data))
	}
	harvests := make([]types.Entry, 0, len(f.HarvestHistory))
	for _, h := range f.HarvestHistory {
		he := copyEntry(h.Extra)
		he[types.HarvestKeyYield] = h.YieldAmount
		he[types.HarvestKeyDate] = h.Date
		harvests = append(harvests, he)
	}
	e[types.FarmKeyWaterHistory] = water
	e[types.FarmKeyFertilizerHistory] = fert
	e[types.FarmKeyHarvestHistory] = harvests
	return e
}
