package models

import (
	"math"
	"time"
)

// Effective rainfall formula: rain below the threshold never reaches the
// root zone; the rest is usable at the infiltration coefficient.
const (
	EffectiveRainThresholdMM = 5.0
	EffectiveRainCoefficient = 0.75
)

// EffectiveRainfall computes the effective portion of a raw rainfall
// measurement in mm, rounded to 2 decimals.
func EffectiveRainfall(rawMM float64) float64 {
	if rawMM <= EffectiveRainThresholdMM {
		return 0
	}
	return math.Round((rawMM-EffectiveRainThresholdMM)*EffectiveRainCoefficient*100) / 100
}

// Farm represents a farm
type Farm struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Owner string `json:"owner,omitempty" db:"owner"`
}

// Sector represents an irrigation sector within a farm
type Sector struct {
	ID     int64   `json:"id" db:"id"`
	FarmID int64   `json:"farm_id" db:"farm_id"`
	Name   string  `json:"name" db:"name"`
	AreaHa float64 `json:"area_ha" db:"area_ha"`
}

// IrrigationRecord is a flat projection of one irrigation event, joined
// with its sector name at the repository boundary.
type IrrigationRecord struct {
	ID            int64     `json:"id" db:"id"`
	SectorID      int64     `json:"sector_id" db:"sector_id"`
	SectorName    string    `json:"sector_name" db:"sector_name"`
	StartTime     time.Time `json:"start_time" db:"start_time"`
	EndTime       time.Time `json:"end_time" db:"end_time"`
	WaterVolumeM3 float64   `json:"water_volume_m3" db:"water_volume_m3"`
	DurationMin   int       `json:"duration_min" db:"duration_min"`
	OperatedBy    string    `json:"operated_by,omitempty" db:"operated_by"`
}

// PrecipitationRecord is one farm-level rainfall measurement for a
// calendar date. EffectiveMM is stored at ingestion time via
// EffectiveRainfall.
type PrecipitationRecord struct {
	ID          int64     `json:"id" db:"id"`
	FarmID      int64     `json:"farm_id" db:"farm_id"`
	Date        time.Time `json:"date" db:"date"`
	RawMM       float64   `json:"raw_mm" db:"raw_mm"`
	EffectiveMM float64   `json:"effective_mm" db:"effective_mm"`
}

// MaintenanceRecord is one equipment maintenance event
type MaintenanceRecord struct {
	ID            int64     `json:"id" db:"id"`
	FarmID        int64     `json:"farm_id" db:"farm_id"`
	EquipmentName string    `json:"equipment_name" db:"equipment_name"`
	Date          time.Time `json:"date" db:"date"`
	Description   string    `json:"description" db:"description"`
	PerformedBy   string    `json:"performed_by,omitempty" db:"performed_by"`
}

// FertilizationRecord is one fertilizer application, joined with its
// sector name at the repository boundary.
type FertilizationRecord struct {
	ID         int64     `json:"id" db:"id"`
	SectorID   int64     `json:"sector_id" db:"sector_id"`
	SectorName string    `json:"sector_name" db:"sector_name"`
	Date       time.Time `json:"date" db:"date"`
	Product    string    `json:"product" db:"product"`
	Quantity   float64   `json:"quantity" db:"quantity"`
	Unit       string    `json:"unit" db:"unit"`
	AppliedBy  string    `json:"applied_by,omitempty" db:"applied_by"`
}

// FieldTask is an operational work item on a sector (distinct from
// report tasks; these are the field chores counted by the period summary)
type FieldTask struct {
	ID          int64      `json:"id" db:"id"`
	SectorID    int64      `json:"sector_id" db:"sector_id"`
	Description string     `json:"description" db:"description"`
	CreatedBy   string     `json:"created_by,omitempty" db:"created_by"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// FieldTask status constants
const (
	FieldTaskStatusPending   = "pending"
	FieldTaskStatusCompleted = "completed"
)

// User maps a login name to a display name
type User struct {
	Username    string `json:"username" db:"username"`
	DisplayName string `json:"display_name" db:"display_name"`
}
