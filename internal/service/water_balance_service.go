package service

import (
	"github.com/agrosur/riego-backend-go/internal/models"
	"github.com/agrosur/riego-backend-go/internal/repository"
)

// WaterBalanceService aggregates daily irrigation volume against
// effective rainfall, per sector and farm-wide
type WaterBalanceService struct {
	farms         *repository.FarmRepository
	irrigation    *repository.IrrigationRepository
	precipitation *repository.PrecipitationRepository
}

// NewWaterBalanceService creates a new water balance service
func NewWaterBalanceService(farms *repository.FarmRepository, irrigation *repository.IrrigationRepository,
	precipitation *repository.PrecipitationRepository) *WaterBalanceService {

	return &WaterBalanceService{
		farms:         farms,
		irrigation:    irrigation,
		precipitation: precipitation,
	}
}

// Generate builds the water balance report for one farm and period. Every
// calendar day of the range appears in every sector's series, zero-filled
// where no records exist; a farm with no sectors in scope yields an empty
// report, not an error.
func (s *WaterBalanceService) Generate(p WaterBalanceParams) (*models.WaterBalanceReport, error) {
	farmName, err := s.farms.GetFarmName(p.FarmID)
	if err != nil {
		return nil, err
	}

	start, end, err := parsePeriod(p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}

	report := &models.WaterBalanceReport{
		FarmName: farmName,
		Start:    start,
		End:      end,
	}

	var sectors []models.Sector
	if len(p.SectorIDs) > 0 {
		sectors, err = s.farms.ListSectorsByIDs(p.FarmID, p.SectorIDs)
	} else {
		sectors, err = s.farms.ListSectors(p.FarmID)
	}
	if err != nil {
		return nil, err
	}
	if len(sectors) == 0 {
		return report, nil
	}

	endExclusive := end.AddDate(0, 0, 1)

	// Rain is farm-level: one day→mm map, shared by every sector's series
	// but summed only once into the farm total.
	rain, err := s.precipitation.ListByFarmInRange(p.FarmID, start, end)
	if err != nil {
		return nil, err
	}
	rainByDay := make(map[string]float64)
	for _, rec := range rain {
		rainByDay[dayKey(rec.Date)] += rec.EffectiveMM
	}

	sectorIDs := make([]int64, len(sectors))
	for i, sec := range sectors {
		sectorIDs[i] = sec.ID
	}

	irrigation, err := s.irrigation.ListBySectorsInRange(sectorIDs, start, endExclusive)
	if err != nil {
		return nil, err
	}

	volumeByDay := make(map[int64]map[string]float64)
	durationBySector := make(map[int64]int)
	for _, rec := range irrigation {
		day := dayKey(rec.StartTime)
		if volumeByDay[rec.SectorID] == nil {
			volumeByDay[rec.SectorID] = make(map[string]float64)
		}
		volumeByDay[rec.SectorID][day] += rec.WaterVolumeM3
		durationBySector[rec.SectorID] += rec.DurationMin
	}

	for _, sec := range sectors {
		balance := models.SectorBalance{
			SectorID:   sec.ID,
			SectorName: sec.Name,
		}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			key := dayKey(day)
			daily := models.DailyBalance{
				Day:             day,
				IrrigationM3:    volumeByDay[sec.ID][key],
				EffectiveRainMM: rainByDay[key],
			}
			balance.Days = append(balance.Days, daily)
			balance.TotalIrrigationM3 += daily.IrrigationM3
			balance.TotalEffectiveRainMM += daily.EffectiveRainMM
		}
		balance.TotalDurationMin = durationBySector[sec.ID]

		report.Sectors = append(report.Sectors, balance)
		report.Farm.IrrigationM3 += balance.TotalIrrigationM3
		report.Farm.DurationMin += balance.TotalDurationMin
	}

	for _, mm := range rainByDay {
		report.Farm.EffectiveRainMM += mm
	}

	return report, nil
}
