package models

import (
	"fmt"
	"time"

	"github.com/agrosur/riego-backend-go/internal/render"
)

// Operation kind labels, fixed per source record stream
const (
	OperationKindIrrigation    = "RIEGO"
	OperationKindMaintenance   = "MANTENIMIENTO"
	OperationKindFertilization = "FERTILIZACION"
)

// OperationEntry is the unified shape of one timeline event, regardless
// of which record stream produced it.
type OperationEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Location    string    `json:"location"` // sector or equipment name
	Actor       string    `json:"actor"`    // placeholder when the source has none
}

// OperationsLogReport is the merged, time-sorted (descending) event
// timeline for one farm over a date range.
type OperationsLogReport struct {
	FarmName string           `json:"farm_name"`
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
	Entries  []OperationEntry `json:"entries"`
}

// Title returns the report display title
func (r *OperationsLogReport) Title() string {
	return fmt.Sprintf("Registro de operaciones · %s · %s - %s",
		r.FarmName, r.Start.Format(render.DisplayDate), r.End.Format(render.DisplayDate))
}

// Tabular flattens the timeline, one row per entry
func (r *OperationsLogReport) Tabular() *render.TabularReport {
	t := render.NewTabularReport("Fecha y hora", "Tipo", "Descripción", "Ubicación", "Responsable")
	for _, e := range r.Entries {
		t.AddRow(e.Timestamp.Format(render.DisplayDateTime), e.Kind, e.Description, e.Location, e.Actor)
	}
	return t
}
