package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/agrosur/riego-backend-go/internal/models"
)

// IrrigationRepository handles database operations for irrigation records.
// All reads return flat projections joined with the sector name; range
// bounds are [start, end) on the record's start time.
type IrrigationRepository struct {
	db *sql.DB
}

// NewIrrigationRepository creates a new irrigation repository
func NewIrrigationRepository(db *sql.DB) *IrrigationRepository {
	return &IrrigationRepository{db: db}
}

// Create inserts an irrigation record
func (r *IrrigationRepository) Create(rec *models.IrrigationRecord) error {
	query := `
		INSERT INTO irrigation_records (
			sector_id, start_time, end_time, water_volume_m3, duration_min, operated_by
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		rec.SectorID,
		rec.StartTime.Unix(),
		rec.EndTime.Unix(),
		rec.WaterVolumeM3,
		rec.DurationMin,
		nullableString(rec.OperatedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to create irrigation record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// ListBySectorsInRange returns records for the given sectors whose start
// time falls in [start, end)
func (r *IrrigationRepository) ListBySectorsInRange(sectorIDs []int64, start, end time.Time) ([]models.IrrigationRecord, error) {
	if len(sectorIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(sectorIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(`
		SELECT i.id, i.sector_id, s.name, i.start_time, i.end_time,
			   i.water_volume_m3, i.duration_min, i.operated_by
		FROM irrigation_records i
		JOIN sectors s ON s.id = i.sector_id
		WHERE i.sector_id IN (%s) AND i.start_time >= ? AND i.start_time < ?
		ORDER BY i.start_time
	`, placeholders)

	args := make([]interface{}, 0, len(sectorIDs)+2)
	for _, id := range sectorIDs {
		args = append(args, id)
	}
	args = append(args, start.Unix(), end.Unix())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list irrigation records: %w", err)
	}
	defer rows.Close()

	return scanIrrigationRecords(rows)
}

// ListByFarmInRange returns the farm's records whose start time falls in
// [start, end), optionally restricted to one operator
func (r *IrrigationRepository) ListByFarmInRange(farmID int64, start, end time.Time, actor string) ([]models.IrrigationRecord, error) {
	query := `
		SELECT i.id, i.sector_id, s.name, i.start_time, i.end_time,
			   i.water_volume_m3, i.duration_min, i.operated_by
		FROM irrigation_records i
		JOIN sectors s ON s.id = i.sector_id
		WHERE s.farm_id = ? AND i.start_time >= ? AND i.start_time < ?
	`

	args := []interface{}{farmID, start.Unix(), end.Unix()}
	if actor != "" {
		query += " AND i.operated_by = ?"
		args = append(args, actor)
	}
	query += " ORDER BY i.start_time"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list irrigation records: %w", err)
	}
	defer rows.Close()

	return scanIrrigationRecords(rows)
}

func scanIrrigationRecords(rows *sql.Rows) ([]models.IrrigationRecord, error) {
	var records []models.IrrigationRecord
	for rows.Next() {
		var rec models.IrrigationRecord
		var startTime, endTime int64
		var operatedBy sql.NullString

		err := rows.Scan(
			&rec.ID,
			&rec.SectorID,
			&rec.SectorName,
			&startTime,
			&endTime,
			&rec.WaterVolumeM3,
			&rec.DurationMin,
			&operatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan irrigation record: %w", err)
		}

		rec.StartTime = time.Unix(startTime, 0)
		rec.EndTime = time.Unix(endTime, 0)
		rec.OperatedBy = operatedBy.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
