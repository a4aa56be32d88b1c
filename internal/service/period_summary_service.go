package service

import (
	"sort"

	"github.com/agrosur/riego-backend-go/internal/models"
	"github.com/agrosur/riego-backend-go/internal/repository"
)

// PeriodSummaryService rolls a farm's period up into scalar totals and a
// per-sector irrigation volume breakdown
type PeriodSummaryService struct {
	farms         *repository.FarmRepository
	irrigation    *repository.IrrigationRepository
	precipitation *repository.PrecipitationRepository
	maintenance   *repository.MaintenanceRepository
	fertilization *repository.FertilizationRepository
	fieldTasks    *repository.FieldTaskRepository
}

// NewPeriodSummaryService creates a new period summary service
func NewPeriodSummaryService(farms *repository.FarmRepository, irrigation *repository.IrrigationRepository,
	precipitation *repository.PrecipitationRepository, maintenance *repository.MaintenanceRepository,
	fertilization *repository.FertilizationRepository, fieldTasks *repository.FieldTaskRepository) *PeriodSummaryService {

	return &PeriodSummaryService{
		farms:         farms,
		irrigation:    irrigation,
		precipitation: precipitation,
		maintenance:   maintenance,
		fertilization: fertilization,
		fieldTasks:    fieldTasks,
	}
}

// Generate builds the period summary for one farm. The volume breakdown
// groups by sector name, so distinct sectors sharing a display name merge
// into one group; that matches the report's presentation contract.
func (s *PeriodSummaryService) Generate(p PeriodSummaryParams) (*models.PeriodSummaryReport, error) {
	farmName, err := s.farms.GetFarmName(p.FarmID)
	if err != nil {
		return nil, err
	}

	start, end, err := parsePeriod(p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	endExclusive := end.AddDate(0, 0, 1)

	report := &models.PeriodSummaryReport{
		FarmName: farmName,
		Start:    start,
		End:      end,
	}

	irrigation, err := s.irrigation.ListByFarmInRange(p.FarmID, start, endExclusive, "")
	if err != nil {
		return nil, err
	}
	volumeByName := make(map[string]float64)
	for _, rec := range irrigation {
		report.TotalIrrigationM3 += rec.WaterVolumeM3
		report.TotalDurationMin += rec.DurationMin
		volumeByName[rec.SectorName] += rec.WaterVolumeM3
	}

	names := make([]string, 0, len(volumeByName))
	for name := range volumeByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		report.VolumeBySector = append(report.VolumeBySector, models.SectorVolume{
			SectorName:   name,
			IrrigationM3: volumeByName[name],
		})
	}

	rain, err := s.precipitation.ListByFarmInRange(p.FarmID, start, end)
	if err != nil {
		return nil, err
	}
	for _, rec := range rain {
		report.TotalRainMM += rec.RawMM
		report.TotalEffectiveRainMM += rec.EffectiveMM
	}

	report.TasksCreated, err = s.fieldTasks.CountCreatedInRange(p.FarmID, start, endExclusive)
	if err != nil {
		return nil, err
	}
	report.TasksCompleted, err = s.fieldTasks.CountCompletedInRange(p.FarmID, start, endExclusive)
	if err != nil {
		return nil, err
	}
	report.MaintenanceCount, err = s.maintenance.CountByFarmInRange(p.FarmID, start, end)
	if err != nil {
		return nil, err
	}
	report.FertilizationCount, err = s.fertilization.CountByFarmInRange(p.FarmID, start, end)
	if err != nil {
		return nil, err
	}

	return report, nil
}
