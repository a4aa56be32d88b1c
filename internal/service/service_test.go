package service

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agrosur/riego-backend-go/internal/database"
	"github.com/agrosur/riego-backend-go/internal/models"
	"github.com/agrosur/riego-backend-go/internal/repository"
)

// testEnv wires real repositories over a migrated sqlite database in a
// temp directory
type testEnv struct {
	db            *sql.DB
	farms         *repository.FarmRepository
	irrigation    *repository.IrrigationRepository
	precipitation *repository.PrecipitationRepository
	maintenance   *repository.MaintenanceRepository
	fertilization *repository.FertilizationRepository
	fieldTasks    *repository.FieldTaskRepository
	reportTasks   *repository.ReportTaskRepository
	users         *repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db))

	return &testEnv{
		db:            db,
		farms:         repository.NewFarmRepository(db),
		irrigation:    repository.NewIrrigationRepository(db),
		precipitation: repository.NewPrecipitationRepository(db),
		maintenance:   repository.NewMaintenanceRepository(db),
		fertilization: repository.NewFertilizationRepository(db),
		fieldTasks:    repository.NewFieldTaskRepository(db),
		reportTasks:   repository.NewReportTaskRepository(db),
		users:         repository.NewUserRepository(db),
	}
}

// seedFarm creates a farm with the given sector names and returns the
// farm id and sector ids
func (e *testEnv) seedFarm(t *testing.T, farmName string, sectorNames ...string) (int64, []int64) {
	t.Helper()

	farm := &models.Farm{Name: farmName, Owner: "jperez"}
	require.NoError(t, e.farms.CreateFarm(farm))

	sectorIDs := make([]int64, 0, len(sectorNames))
	for _, name := range sectorNames {
		sector := &models.Sector{FarmID: farm.ID, Name: name, AreaHa: 2.5}
		require.NoError(t, e.farms.CreateSector(sector))
		sectorIDs = append(sectorIDs, sector.ID)
	}
	return farm.ID, sectorIDs
}

func (e *testEnv) seedIrrigation(t *testing.T, sectorID int64, start time.Time, volume float64, durationMin int, operator string) {
	t.Helper()

	rec := &models.IrrigationRecord{
		SectorID:      sectorID,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(durationMin) * time.Minute),
		WaterVolumeM3: volume,
		DurationMin:   durationMin,
		OperatedBy:    operator,
	}
	require.NoError(t, e.irrigation.Create(rec))
}

func (e *testEnv) seedRain(t *testing.T, farmID int64, date time.Time, rawMM float64) {
	t.Helper()

	rec := &models.PrecipitationRecord{FarmID: farmID, Date: date, RawMM: rawMM}
	require.NoError(t, e.precipitation.Create(rec))
}

func localDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
