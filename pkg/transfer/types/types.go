package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Version is stamped on every export.
const Version = "1.0"

// Entry is one object of a collection, decoded with json.Number for numbers.
type Entry = map[string]any

// Top-level collection keys.
const (
	KeyFarms          = "farms"
	KeyTasks          = "tasks"
	KeyIssues         = "issues"
	KeyCropPlanEvents = "cropPlanEvents"

	KeyPlantingPlans       = "plantingPlans"
	KeyFertilizerPlans     = "fertilizerPlans"
	KeyPestManagementPlans = "pestManagementPlans"
	KeyIrrigationPlans     = "irrigationPlans"
	KeyWeatherTaskPlans    = "weatherTaskPlans"
	KeyRotationPlans       = "rotationPlans"
	KeyRainwaterPlans      = "rainwaterPlans"

	KeyFuelRecords             = "fuelRecords"
	KeySoilRecords             = "soilRecords"
	KeyEmissionSources         = "emissionSources"
	KeySequestrationActivities = "sequestrationActivities"
	KeyEnergyRecords           = "energyRecords"
	KeyLivestock               = "livestock"
)

// Keys inside a farm object.
const (
	FarmKeyID                = "id"
	FarmKeyName              = "name"
	FarmKeySize              = "size"
	FarmKeyCrop              = "crop"
	FarmKeySoilType          = "soilType"
	FarmKeySlopeRatio        = "slopeRatio"
	FarmKeyWaterHistory      = "waterHistory"
	FarmKeyFertilizerHistory = "fertilizerHistory"
	FarmKeyHarvestHistory    = "harvestHistory"

	HarvestKeyYield = "yield"
	HarvestKeyDate  = "date"

	KeyFarmID = "farmId"
)

// PlanKind is the discriminator stored on plan items.
type PlanKind string

const (
	PlanPlanting       PlanKind = "Planting"
	PlanFertilizer     PlanKind = "Fertilizer"
	PlanPestManagement PlanKind = "PestManagement"
	PlanIrrigation     PlanKind = "Irrigation"
	PlanWeatherTask    PlanKind = "WeatherTask"
	PlanRotation       PlanKind = "Rotation"
	PlanRainwater      PlanKind = "Rainwater"
)

// PlanCollection binds a plan collection key to its kind.
type PlanCollection struct {
	Key  string
	Kind PlanKind
}

// PlanCollections is ordered as in the document.
var PlanCollections = []PlanCollection{
	{KeyPlantingPlans, PlanPlanting},
	{KeyFertilizerPlans, PlanFertilizer},
	{KeyPestManagementPlans, PlanPestManagement},
	{KeyIrrigationPlans, PlanIrrigation},
	{KeyWeatherTaskPlans, PlanWeatherTask},
	{KeyRotationPlans, PlanRotation},
	{KeyRainwaterPlans, PlanRainwater},
}

// TableCollection binds a collection key to the table its rows live in.
type TableCollection struct {
	Key   string
	Table string
}

var PassthroughCollections = []TableCollection{
	{KeyTasks, "tasks"},
	{KeyIssues, "issues"},
	{KeyCropPlanEvents, "crop_plan_events"},
}

var FarmScopedCollections = []TableCollection{
	{KeyFuelRecords, "fuel_records"},
	{KeySoilRecords, "soil_records"},
	{KeyEmissionSources, "emission_sources"},
	{KeySequestrationActivities, "sequestration_activities"},
	{KeyEnergyRecords, "energy_records"},
	{KeyLivestock, "livestock"},
}

// CollectionKeys lists every collection the importer accepts, in export order.
var CollectionKeys = func() []string {
	keys := []string{KeyFarms}
	for _, c := range PassthroughCollections {
		keys = append(keys, c.Key)
	}
	for _, c := range PlanCollections {
		keys = append(keys, c.Key)
	}
	for _, c := range FarmScopedCollections {
		keys = append(keys, c.Key)
	}
	return keys
}()

// Counts is the number of rows created per collection key.
type Counts map[string]int

// Document is a parsed import document. Absent and null collections are empty.
type Document struct {
	collections map[string][]Entry
}

func NewDocument() *Document { return &Document{collections: map[string][]Entry{}} }

// Get returns the entries of a collection, never nil.
func (d *Document) Get(key string) []Entry {
	if v, ok := d.collections[key]; ok {
		return v
	}
	return []Entry{}
}

func (d *Document) Set(key string, entries []Entry) { d.collections[key] = entries }

// ParseDocument decodes the import document. Numbers are kept as json.Number so
// passthrough values round-trip unchanged.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, &Error{Kind: KindParse, Index: -1, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if raw == nil {
		return nil, &Error{Kind: KindParse, Index: -1, Err: fmt.Errorf("%w: document is null", ErrMalformed)}
	}
	if dec.More() {
		return nil, &Error{Kind: KindParse, Index: -1, Err: fmt.Errorf("%w: trailing data after document", ErrMalformed)}
	}

	doc := NewDocument()
	for _, key := range CollectionKeys {
		entries, err := Entries(key, raw[key])
		if err != nil {
			return nil, err
		}
		doc.Set(key, entries)
	}
	return doc, nil
}

// Entries validates that v is null or an array of objects.
func Entries(collection string, v any) ([]Entry, error) {
	if v == nil {
		return []Entry{}, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, ParseError(collection, -1, "expected an array, got %s", jsonType(v))
	}
	out := make([]Entry, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, ParseError(collection, i, "expected an object, got %s", jsonType(item))
		}
		out = append(out, obj)
	}
	return out, nil
}

// Int64 reads an integral identifier from a number or a numeric string.
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return integral(f)
		}
	case float64:
		return integral(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Float64 reads a number or a numeric string.
func Float64(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int64(f), true
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// ExportDocument serializes as {version, exportDate, <collections in CollectionKeys order>}.
type ExportDocument struct {
	Version     string
	ExportDate  time.Time
	Collections map[string][]Entry
}

func (d ExportDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"version":`)
	v, _ := json.Marshal(d.Version)
	buf.Write(v)
	buf.WriteString(`,"exportDate":`)
	ts, _ := json.Marshal(d.ExportDate.Format(time.RFC3339))
	buf.Write(ts)
	for _, key := range CollectionKeys {
		entries := d.Collections[key]
		if entries == nil {
			entries = []Entry{}
		}
		b, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		buf.WriteString(`,"` + key + `":`)
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
