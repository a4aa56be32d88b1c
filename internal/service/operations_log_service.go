package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agrosur/riego-backend-go/internal/models"
	"github.com/agrosur/riego-backend-go/internal/render"
	"github.com/agrosur/riego-backend-go/internal/repository"
)

// OperationsLogService merges irrigation, maintenance and fertilization
// records into one time-sorted event timeline
type OperationsLogService struct {
	farms         *repository.FarmRepository
	irrigation    *repository.IrrigationRepository
	maintenance   *repository.MaintenanceRepository
	fertilization *repository.FertilizationRepository
}

// NewOperationsLogService creates a new operations log service
func NewOperationsLogService(farms *repository.FarmRepository, irrigation *repository.IrrigationRepository,
	maintenance *repository.MaintenanceRepository, fertilization *repository.FertilizationRepository) *OperationsLogService {

	return &OperationsLogService{
		farms:         farms,
		irrigation:    irrigation,
		maintenance:   maintenance,
		fertilization: fertilization,
	}
}

// Generate builds the unified operations timeline for one farm and period,
// sorted descending by timestamp. Each source stream carries a fixed kind
// label; the optional kind filter matches labels case-insensitively.
func (s *OperationsLogService) Generate(p OperationsLogParams) (*models.OperationsLogReport, error) {
	farmName, err := s.farms.GetFarmName(p.FarmID)
	if err != nil {
		return nil, err
	}

	start, end, err := parsePeriod(p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	endExclusive := end.AddDate(0, 0, 1)

	irrigation, err := s.irrigation.ListByFarmInRange(p.FarmID, start, endExclusive, p.Actor)
	if err != nil {
		return nil, err
	}
	maintenance, err := s.maintenance.ListByFarmInRange(p.FarmID, start, end, p.Actor)
	if err != nil {
		return nil, err
	}
	fertilization, err := s.fertilization.ListByFarmInRange(p.FarmID, start, end, p.Actor)
	if err != nil {
		return nil, err
	}

	entries := make([]models.OperationEntry, 0, len(irrigation)+len(maintenance)+len(fertilization))

	for _, rec := range irrigation {
		entries = append(entries, models.OperationEntry{
			Timestamp:   rec.StartTime,
			Kind:        models.OperationKindIrrigation,
			Description: fmt.Sprintf("Riego de %.2f m³ durante %d min", rec.WaterVolumeM3, rec.DurationMin),
			Location:    rec.SectorName,
			Actor:       actorOrPlaceholder(rec.OperatedBy),
		})
	}
	for _, rec := range maintenance {
		entries = append(entries, models.OperationEntry{
			Timestamp:   rec.Date,
			Kind:        models.OperationKindMaintenance,
			Description: rec.Description,
			Location:    rec.EquipmentName,
			Actor:       actorOrPlaceholder(rec.PerformedBy),
		})
	}
	for _, rec := range fertilization {
		entries = append(entries, models.OperationEntry{
			Timestamp:   rec.Date,
			Kind:        models.OperationKindFertilization,
			Description: fmt.Sprintf("Aplicación de %s: %.2f %s", rec.Product, rec.Quantity, rec.Unit),
			Location:    rec.SectorName,
			Actor:       actorOrPlaceholder(rec.AppliedBy),
		})
	}

	if p.KindFilter != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if strings.EqualFold(e.Kind, p.KindFilter) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return &models.OperationsLogReport{
		FarmName: farmName,
		Start:    start,
		End:      end,
		Entries:  entries,
	}, nil
}

func actorOrPlaceholder(actor string) string {
	if actor == "" {
		return render.BlankCell
	}
	return actor
}
