package serviceImp

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"agrimind/entities"
	"agrimind/pkg/transfer/types"
)

var farmColumns = map[string]bool{
	types.FarmKeyID:                true,
	types.FarmKeyName:              true,
	types.FarmKeySize:              true,
	types.FarmKeyCrop:              true,
	types.FarmKeySoilType:          true,
	types.FarmKeySlopeRatio:        true,
	types.FarmKeyWaterHistory:      true,
	types.FarmKeyFertilizerHistory: true,
	types.FarmKeyHarvestHistory:    true,
}

// buildFarms converts the farms collection. Ids are required and unique.
func buildFarms(entries []types.Entry) ([]*entities.Farm, error) {
	farms := make([]*entities.Farm, 0, len(entries))
	ids := make(map[int64]int, len(entries))
	for i, e := range entries {
		f, err := buildFarm(i, e)
		if err != nil {
			return nil, err
		}
		if prev, dup := ids[f.ID]; dup {
			return nil, types.ParseError(types.KeyFarms, i, "duplicate farm id %d (first at index %d)", f.ID, prev)
		}
		ids[f.ID] = i
		farms = append(farms, f)
	}
	return farms, nil
}

func buildFarm(i int, e types.Entry) (*entities.Farm, error) {
	raw, ok := e[types.FarmKeyID]
	if !ok || raw == nil {
		return nil, types.ParseError(types.KeyFarms, i, "id is required")
	}
	id, ok := types.Int64(raw)
	if !ok {
		return nil, types.ParseError(types.KeyFarms, i, "id must be an integer, got %v", raw)
	}

	f := &entities.Farm{
		ID:       id,
		Name:     text(e[types.FarmKeyName]),
		Crop:     text(e[types.FarmKeyCrop]),
		SoilType: text(e[types.FarmKeySoilType]),
		Position: i,
	}
	if v := e[types.FarmKeySize]; v != nil {
		size, ok := types.Float64(v)
		if !ok {
			return nil, types.ParseError(types.KeyFarms, i, "size must be a number, got %v", v)
		}
		f.Size = size
	}
	if v := e[types.FarmKeySlopeRatio]; v != nil {
		slope, ok := types.Float64(v)
		if !ok {
			return nil, types.ParseError(types.KeyFarms, i, "slopeRatio must be a number, got %v", v)
		}
		f.SlopeRatio = &slope
	}

	extra := types.Entry{}
	for k, v := range e {
		if !farmColumns[k] {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		f.Extra = datatypes.JSONMap(extra)
	}

	where := func(key string) string { return fmt.Sprintf("%s[%d].%s", types.KeyFarms, i, key) }

	water, err := types.Entries(where(types.FarmKeyWaterHistory), e[types.FarmKeyWaterHistory])
	if err != nil {
		return nil, err
	}
	for j, w := range water {
		f.WaterHistory = append(f.WaterHistory, entities.WaterUsage{Position: j, Data: datatypes.JSONMap(copyEntry(w))})
	}

	fert, err := types.Entries(where(types.FarmKeyFertilizerHistory), e[types.FarmKeyFertilizerHistory])
	if err != nil {
		return nil, err
	}
	for j, fe := range fert {
		f.FertilizerHistory = append(f.FertilizerHistory, entities.FertilizerUsage{Position: j, Data: datatypes.JSONMap(copyEntry(fe))})
	}

	harvests, err := types.Entries(where(types.FarmKeyHarvestHistory), e[types.FarmKeyHarvestHistory])
	if err != nil {
		return nil, err
	}
	for j, h := range harvests {
		hv, err := buildHarvest(where(types.FarmKeyHarvestHistory), j, h)
		if err != nil {
			return nil, err
		}
		f.HarvestHistory = append(f.HarvestHistory, hv)
	}
	return f, nil
}

// buildHarvest stores "yield" as YieldAmount. Both yield and date are required.
func buildHarvest(collection string, j int, h types.Entry) (entities.Harvest, error) {
	rawYield, ok := h[types.HarvestKeyYield]
	if !ok || rawYield == nil {
		return entities.Harvest{}, types.ParseError(collection, j, "yield is required")
	}
	yield, ok := types.Float64(rawYield)
	if !ok {
		return entities.Harvest{}, types.ParseError(collection, j, "yield must be a number, got %v", rawYield)
	}
	date := text(h[types.HarvestKeyDate])
	if date == "" {
		return entities.Harvest{}, types.ParseError(collection, j, "date is required")
	}
	hv := entities.Harvest{Position: j, Date: date, YieldAmount: yield}
	if extra := copyEntry(h, types.HarvestKeyYield, types.HarvestKeyDate); len(extra) > 0 {
		hv.Extra = datatypes.JSONMap(extra)
	}
	return hv, nil
}

// text renders scalar document values as strings; nil is "".
func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return fmt.Sprint(v)
}
