package models

import (
	"fmt"
	"time"

	"github.com/agrosur/riego-backend-go/internal/render"
)

// SectorVolume is one group of the irrigation-volume-by-sector breakdown.
// Groups are keyed by sector name, so sectors sharing a display name merge
// into one group.
type SectorVolume struct {
	SectorName   string  `json:"sector_name"`
	IrrigationM3 float64 `json:"irrigation_m3"`
}

// PeriodSummaryReport holds the scalar roll-ups for one farm and period
type PeriodSummaryReport struct {
	FarmName             string         `json:"farm_name"`
	Start                time.Time      `json:"start"`
	End                  time.Time      `json:"end"`
	TotalIrrigationM3    float64        `json:"total_irrigation_m3"`
	TotalDurationMin     int            `json:"total_duration_min"`
	TotalRainMM          float64        `json:"total_rain_mm"`
	TotalEffectiveRainMM float64        `json:"total_effective_rain_mm"`
	TasksCreated         int            `json:"tasks_created"`
	TasksCompleted       int            `json:"tasks_completed"`
	MaintenanceCount     int            `json:"maintenance_count"`
	FertilizationCount   int            `json:"fertilization_count"`
	VolumeBySector       []SectorVolume `json:"volume_by_sector"`
}

// Title returns the report display title
func (r *PeriodSummaryReport) Title() string {
	return fmt.Sprintf("Resumen del período · %s · %s - %s",
		r.FarmName, r.Start.Format(render.DisplayDate), r.End.Format(render.DisplayDate))
}

// Tabular flattens the summary into indicator/value pairs, followed by the
// per-sector volume breakdown.
func (r *PeriodSummaryReport) Tabular() *render.TabularReport {
	t := render.NewTabularReport("Indicador", "Valor")
	t.AddRow("Volumen total de riego (m³)", fmt.Sprintf("%.2f", r.TotalIrrigationM3))
	t.AddRow("Duración total de riego (min)", fmt.Sprintf("%d", r.TotalDurationMin))
	t.AddRow("Precipitación total (mm)", fmt.Sprintf("%.2f", r.TotalRainMM))
	t.AddRow("Precipitación efectiva (mm)", fmt.Sprintf("%.2f", r.TotalEffectiveRainMM))
	t.AddRow("Tareas creadas", fmt.Sprintf("%d", r.TasksCreated))
	t.AddRow("Tareas completadas", fmt.Sprintf("%d", r.TasksCompleted))
	t.AddRow("Mantenimientos", fmt.Sprintf("%d", r.MaintenanceCount))
	t.AddRow("Fertilizaciones", fmt.Sprintf("%d", r.FertilizationCount))
	for _, sv := range r.VolumeBySector {
		t.AddRow(fmt.Sprintf("Riego — %s (m³)", sv.SectorName), fmt.Sprintf("%.2f", sv.IrrigationM3))
	}
	return t
}
