package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosur/riego-backend-go/internal/repository"
)

func TestWaterBalanceEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	farmID, sectorIDs := env.seedFarm(t, "La Esperanza", "Norte", "Sur")

	// one irrigation of 10 m³ on Feb 2 in sector Norte, farm rain of 6mm
	// (above the 5mm threshold) on Feb 1
	env.seedIrrigation(t, sectorIDs[0], time.Date(2026, 2, 2, 8, 0, 0, 0, time.Local), 10, 45, "jperez")
	env.seedRain(t, farmID, localDay(2026, 2, 1), 6)

	svc := NewWaterBalanceService(env.farms, env.irrigation, env.precipitation)
	report, err := svc.Generate(WaterBalanceParams{
		FarmID:    farmID,
		StartDate: "2026-02-01",
		EndDate:   "2026-02-03",
	})
	require.NoError(t, err)

	require.Len(t, report.Sectors, 2)
	for _, sec := range report.Sectors {
		// every calendar day of the range appears, regardless of data
		require.Len(t, sec.Days, 3)
	}

	norte := report.Sectors[0]
	assert.Equal(t, "Norte", norte.SectorName)
	assert.Equal(t, 0.0, norte.Days[0].IrrigationM3)
	assert.Equal(t, 10.0, norte.Days[1].IrrigationM3)
	assert.Equal(t, 0.0, norte.Days[2].IrrigationM3)
	assert.InDelta(t, 0.75, norte.Days[0].EffectiveRainMM, 1e-9)
	assert.Equal(t, 45, norte.TotalDurationMin)

	sur := report.Sectors[1]
	assert.Equal(t, "Sur", sur.SectorName)
	// sector with zero irrigation records still has a zero-filled series
	for _, d := range sur.Days {
		assert.Equal(t, 0.0, d.IrrigationM3)
	}
	// rain is farm-level, duplicated into each sector's series
	assert.InDelta(t, 0.75, sur.Days[0].EffectiveRainMM, 1e-9)

	assert.InDelta(t, 10.0, report.Farm.IrrigationM3, 1e-9)
	assert.Equal(t, 45, report.Farm.DurationMin)

	// effective rain: (6 - 5) * 0.75 = 0.75mm, summed once into the farm
	// total, never once per sector
	assert.InDelta(t, 0.75, report.Farm.EffectiveRainMM, 1e-9)
	perSectorSum := norte.TotalEffectiveRainMM
	assert.NotEqual(t, perSectorSum*float64(len(report.Sectors)), report.Farm.EffectiveRainMM)
}

func TestWaterBalanceSeriesCoversRangeWithoutData(t *testing.T) {
	env := newTestEnv(t)
	farmID, _ := env.seedFarm(t, "La Esperanza", "Norte")

	svc := NewWaterBalanceService(env.farms, env.irrigation, env.precipitation)
	report, err := svc.Generate(WaterBalanceParams{
		FarmID:    farmID,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	})
	require.NoError(t, err)

	require.Len(t, report.Sectors, 1)
	require.Len(t, report.Sectors[0].Days, 31)
	for _, d := range report.Sectors[0].Days {
		assert.Equal(t, 0.0, d.IrrigationM3)
		assert.Equal(t, 0.0, d.EffectiveRainMM)
	}
	assert.Equal(t, 0.0, report.Farm.IrrigationM3)
}

func TestWaterBalanceSectorSubset(t *testing.T) {
	env := newTestEnv(t)
	farmID, sectorIDs := env.seedFarm(t, "La Esperanza", "Norte", "Sur", "Este")

	env.seedIrrigation(t, sectorIDs[0], time.Date(2026, 2, 2, 8, 0, 0, 0, time.Local), 5, 30, "")
	env.seedIrrigation(t, sectorIDs[2], time.Date(2026, 2, 2, 9, 0, 0, 0, time.Local), 7, 30, "")

	svc := NewWaterBalanceService(env.farms, env.irrigation, env.precipitation)
	report, err := svc.Generate(WaterBalanceParams{
		FarmID:    farmID,
		StartDate: "2026-02-01",
		EndDate:   "2026-02-03",
		SectorIDs: []int64{sectorIDs[0]},
	})
	require.NoError(t, err)

	require.Len(t, report.Sectors, 1)
	assert.Equal(t, "Norte", report.Sectors[0].SectorName)
	assert.InDelta(t, 5.0, report.Farm.IrrigationM3, 1e-9)
}

func TestWaterBalanceEmptyFarm(t *testing.T) {
	env := newTestEnv(t)
	farmID, _ := env.seedFarm(t, "Sin sectores")

	svc := NewWaterBalanceService(env.farms, env.irrigation, env.precipitation)
	report, err := svc.Generate(WaterBalanceParams{
		FarmID:    farmID,
		StartDate: "2026-02-01",
		EndDate:   "2026-02-03",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Sectors)
	assert.Equal(t, 0.0, report.Farm.IrrigationM3)
	assert.Equal(t, 0.0, report.Farm.EffectiveRainMM)
}

func TestWaterBalanceUnknownFarm(t *testing.T) {
	env := newTestEnv(t)

	svc := NewWaterBalanceService(env.farms, env.irrigation, env.precipitation)
	_, err := svc.Generate(WaterBalanceParams{
		FarmID:    999,
		StartDate: "2026-02-01",
		EndDate:   "2026-02-03",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestWaterBalanceInvalidPeriod(t *testing.T) {
	env := newTestEnv(t)
	farmID, _ := env.seedFarm(t, "La Esperanza", "Norte")

	svc := NewWaterBalanceService(env.farms, env.irrigation, env.precipitation)

	_, err := svc.Generate(WaterBalanceParams{FarmID: farmID, StartDate: "02/01/2026", EndDate: "2026-02-03"})
	assert.Error(t, err)

	_, err = svc.Generate(WaterBalanceParams{FarmID: farmID, StartDate: "2026-02-03", EndDate: "2026-02-01"})
	assert.Error(t, err)
}
