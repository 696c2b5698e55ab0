package entities

import "gorm.io/datatypes"

// FarmRecord is the shared row shape of the farm-scoped kinds. Data never holds farmId.
type FarmRecord struct {
	ID       uint              `gorm:"primaryKey" json:"id"`
	FarmID   int64             `gorm:"index;not null" json:"farm_id"`
	Position int               `json:"-"`
	Data     datatypes.JSONMap `json:"data"`
}

type FuelRecord struct{ FarmRecord }

func (FuelRecord) TableName() string { return "fuel_records" }

type SoilRecord struct{ FarmRecord }

func (SoilRecord) TableName() string { return "soil_records" }

type EmissionSource struct{ FarmRecord }

func (EmissionSource) TableName() string { return "emission_sources" }

type SequestrationActivity struct{ FarmRecord }

func (SequestrationActivity) TableName() string { return "sequestration_activities" }

type EnergyRecord struct{ FarmRecord }

func (EnergyRecord) TableName() string { return "energy_records" }

type Livestock struct{ FarmRecord }

func (Livestock) TableName() string { return "livestock" }

// Record is a farm-independent passthrough row.
type Record struct {
	ID       uint              `gorm:"primaryKey" json:"id"`
	Position int               `json:"-"`
	Data     datatypes.JSONMap `json:"data"`
}

type Task struct{ Record }

func (Task) TableName() string { return "tasks" }

type Issue struct{ Record }

func (Issue) TableName() string { return "issues" }

type CropPlanEvent struct{ Record }

func (CropPlanEvent) TableName() string { return "crop_plan_events" }

// PlanItem holds an entry of any of the seven plan collections; PlanType names the collection.
type PlanItem struct {
	ID       uint              `gorm:"primaryKey" json:"id"`
	PlanType string            `gorm:"index;not null" json:"plan_type"`
	Position int               `json:"-"`
	Data     datatypes.JSONMap `json:"data"`
}
