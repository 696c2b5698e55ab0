package entities

import "gorm.io/datatypes"

// Farm is the root aggregate. ID comes from the imported document and is never generated.
type Farm struct {
	ID         int64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name       string   `json:"name"`
	Size       float64  `json:"size"`
	Crop       string   `json:"crop"`
	SoilType   string   `gorm:"not null;default:''" json:"soil_type"`
	SlopeRatio *float64 `json:"slope_ratio"`
	Position   int      `gorm:"index" json:"-"`

	// keys of the farm object this model has no column for (rotationHistory etc.)
	Extra datatypes.JSONMap `json:"extra,omitempty"`

	WaterHistory      []WaterUsage      `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"water_history,omitempty"`
	FertilizerHistory []FertilizerUsage `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"fertilizer_history,omitempty"`
	HarvestHistory    []Harvest         `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"harvest_history,omitempty"`

	FuelRecords             []FuelRecord            `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
	SoilRecords             []SoilRecord            `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
	EmissionSources         []EmissionSource        `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
	SequestrationActivities []SequestrationActivity `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
	EnergyRecords           []EnergyRecord          `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
	Livestock               []Livestock             `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
}

type WaterUsage struct {
	ID       uint              `gorm:"primaryKey" json:"id"`
	FarmID   int64             `gorm:"index;not null" json:"farm_id"`
	Position int               `json:"-"`
	Data     datatypes.JSONMap `json:"data"`
}

func (WaterUsage) TableName() string { return "water_history" }

type FertilizerUsage struct {
	ID       uint              `gorm:"primaryKey" json:"id"`
	FarmID   int64             `gorm:"index;not null" json:"farm_id"`
	Position int               `json:"-"`
	Data     datatypes.JSONMap `json:"data"`
}

func (FertilizerUsage) TableName() string { return "fertilizer_history" }

// Harvest stores the document's "yield" key as yield_amount.
type Harvest struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	FarmID      int64             `gorm:"index;not null" json:"farm_id"`
	Position    int               `json:"-"`
	Date        string            `json:"date"`
	YieldAmount float64           `json:"yield_amount"`
	Extra       datatypes.JSONMap `json:"extra,omitempty"`
}

func (Harvest) TableName() string { return "harvest_history" }
