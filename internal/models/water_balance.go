package models

import (
	"fmt"
	"time"

	"github.com/agrosur/riego-backend-go/internal/render"
)

// DailyBalance is one calendar day of a sector's water balance. Rainfall
// is farm-level and repeated across all sectors' series.
type DailyBalance struct {
	Day             time.Time `json:"day"`
	IrrigationM3    float64   `json:"irrigation_m3"`
	EffectiveRainMM float64   `json:"effective_rain_mm"`
}

// SectorBalance is one sector's complete daily series plus totals. The
// series covers every day of the requested range, zero-filled where no
// records exist.
type SectorBalance struct {
	SectorID             int64          `json:"sector_id"`
	SectorName           string         `json:"sector_name"`
	Days                 []DailyBalance `json:"days"`
	TotalIrrigationM3    float64        `json:"total_irrigation_m3"`
	TotalEffectiveRainMM float64        `json:"total_effective_rain_mm"`
	TotalDurationMin     int            `json:"total_duration_min"`
}

// BalanceTotals holds farm-wide aggregates. Rainfall is summed once from
// the farm-level daily map, never per sector.
type BalanceTotals struct {
	IrrigationM3    float64 `json:"irrigation_m3"`
	EffectiveRainMM float64 `json:"effective_rain_mm"`
	DurationMin     int     `json:"duration_min"`
}

// WaterBalanceReport is the irrigation-vs-rainfall report for one farm
// over an inclusive date range.
type WaterBalanceReport struct {
	FarmName string          `json:"farm_name"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Sectors  []SectorBalance `json:"sectors"`
	Farm     BalanceTotals   `json:"farm"`
}

// Title returns the report display title
func (r *WaterBalanceReport) Title() string {
	return fmt.Sprintf("Balance hídrico · %s · %s - %s",
		r.FarmName, r.Start.Format(render.DisplayDate), r.End.Format(render.DisplayDate))
}

// Tabular flattens the report: one row per sector per day, a total row
// after each sector, and a farm-wide total row last. Daily rows leave the
// duration cell blank; duration is only aggregated per sector.
func (r *WaterBalanceReport) Tabular() *render.TabularReport {
	t := render.NewTabularReport("Sector", "Fecha", "Riego (m³)", "Lluvia efectiva (mm)", "Duración (min)")
	for _, sec := range r.Sectors {
		for _, d := range sec.Days {
			t.AddRow(sec.SectorName,
				d.Day.Format(render.DisplayDate),
				fmt.Sprintf("%.2f", d.IrrigationM3),
				fmt.Sprintf("%.2f", d.EffectiveRainMM),
				"")
		}
		t.AddRow(sec.SectorName, "TOTAL",
			fmt.Sprintf("%.2f", sec.TotalIrrigationM3),
			fmt.Sprintf("%.2f", sec.TotalEffectiveRainMM),
			fmt.Sprintf("%d", sec.TotalDurationMin))
	}
	if len(r.Sectors) > 0 {
		t.AddRow("TOTAL FINCA", "",
			fmt.Sprintf("%.2f", r.Farm.IrrigationM3),
			fmt.Sprintf("%.2f", r.Farm.EffectiveRainMM),
			fmt.Sprintf("%d", r.Farm.DurationMin))
	}
	return t
}
