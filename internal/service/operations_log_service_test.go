package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosur/riego-backend-go/internal/models"
	"github.com/agrosur/riego-backend-go/internal/render"
)

func seedOperations(t *testing.T, env *testEnv) (int64, []int64) {
	t.Helper()
	farmID, sectorIDs := env.seedFarm(t, "La Esperanza", "Norte", "Sur")

	env.seedIrrigation(t, sectorIDs[0], time.Date(2026, 2, 2, 8, 0, 0, 0, time.Local), 10, 45, "jperez")
	env.seedIrrigation(t, sectorIDs[1], time.Date(2026, 2, 3, 7, 0, 0, 0, time.Local), 4, 20, "")

	require.NoError(t, env.maintenance.Create(&models.MaintenanceRecord{
		FarmID:        farmID,
		EquipmentName: "Bomba principal",
		Date:          localDay(2026, 2, 1),
		Description:   "Cambio de filtro",
		PerformedBy:   "mlopez",
	}))
	require.NoError(t, env.fertilization.Create(&models.FertilizationRecord{
		SectorID: sectorIDs[0],
		Date:     localDay(2026, 2, 2),
		Product:  "Urea",
		Quantity: 25,
		Unit:     "kg",
	}))

	return farmID, sectorIDs
}

func TestOperationsLogMergeAndSort(t *testing.T) {
	env := newTestEnv(t)
	farmID, _ := seedOperations(t, env)

	svc := NewOperationsLogService(env.farms, env.irrigation, env.maintenance, env.fertilization)
	report, err := svc.Generate(OperationsLogParams{
		FarmID:    farmID,
		StartDate: "2026-02-01",
		EndDate:   "2026-02-03",
	})
	require.NoError(t, err)

	require.Len(t, report.Entries, 4)

	// strictly non-increasing by timestamp
	for i := 1; i < len(report.Entries); i++ {
		assert.False(t, report.Entries[i].Timestamp.After(report.Entries[i-1].Timestamp),
			"entry %d newer than entry %d", i, i-1)
	}

	kinds := make(map[string]int)
	for _, e := range report.Entries {
		kinds[e.Kind]++
	}
	assert.Equal(t, 2, kinds[models.OperationKindIrrigation])
	assert.Equal(t, 1, kinds[models.OperationKindMaintenance])
	assert.Equal(t, 1, kinds[models.OperationKindFertilization])
}

func TestOperationsLogKindFilterCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	farmID, _ := seedOperations(t, env)

	svc := NewOperationsLogService(env.farms, env.irrigation, env.maintenance, env.fertilization)
	report, err := svc.Generate(OperationsLogParams{
		FarmID:     farmID,
		StartDate:  "2026-02-01",
		EndDate:    "2026-02-03",
		KindFilter: "riego",
	})
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	for _, e := range report.Entries {
		assert.Equal(t, models.OperationKindIrrigation, e.Kind)
	}
}

func TestOperationsLogActorPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	farmID, _ := seedOperations(t, env)

	svc := NewOperationsLogService(env.farms, env.irrigation, env.maintenance, env.fertilization)
	report, err := svc.Generate(OperationsLogParams{
		FarmID:    farmID,
		StartDate: "2026-02-01",
		EndDate:   "2026-02-03",
	})
	require.NoError(t, err)

	var placeholders int
	for _, e := range report.Entries {
		assert.NotEmpty(t, e.Actor)
		if e.Actor == render.BlankCell {
			placeholders++
		}
	}
	// the second irrigation and the fertilization carry no actor
	assert.Equal(t, 2, placeholders)
}

func TestOperationsLogActorFilter(t *testing.T) {
	env := newTestEnv(t)
	farmID, _ := seedOperations(t, env)

	svc := NewOperationsLogService(env.farms, env.irrigation, env.maintenance, env.fertilization)
	report, err := svc.Generate(OperationsLogParams{
		FarmID:    farmID,
		StartDate: "2026-02-01",
		EndDate:   "2026-02-03",
		Actor:     "jperez",
	})
	require.NoError(t, err)

	require.Len(t, report.Entries, 1)
	assert.Equal(t, "jperez", report.Entries[0].Actor)
}

func TestOperationsLogEmptyRange(t *testing.T) {
	env := newTestEnv(t)
	farmID, _ := seedOperations(t, env)

	svc := NewOperationsLogService(env.farms, env.irrigation, env.maintenance, env.fertilization)
	report, err := svc.Generate(OperationsLogParams{
		FarmID:    farmID,
		StartDate: "2027-01-01",
		EndDate:   "2027-01-31",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	assert.True(t, report.Tabular().Empty())
}
