package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/agrosur/riego-backend-go/internal/models"
)

// MaintenanceRepository handles database operations for equipment
// maintenance records
type MaintenanceRepository struct {
	db *sql.DB
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Create inserts a maintenance record
func (r *MaintenanceRepository) Create(rec *models.MaintenanceRecord) error {
	query := `
		INSERT INTO maintenance_records (farm_id, equipment_name, date, description, performed_by)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		rec.FarmID,
		rec.EquipmentName,
		rec.Date.Format(dateLayout),
		rec.Description,
		nullableString(rec.PerformedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to create maintenance record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// ListByFarmInRange returns the farm's records with dates in [start, end]
// inclusive, optionally restricted to one actor
func (r *MaintenanceRepository) ListByFarmInRange(farmID int64, start, end time.Time, actor string) ([]models.MaintenanceRecord, error) {
	query := `
		SELECT id, farm_id, equipment_name, date, description, performed_by
		FROM maintenance_records
		WHERE farm_id = ? AND date >= ? AND date <= ?
	`

	args := []interface{}{farmID, start.Format(dateLayout), end.Format(dateLayout)}
	if actor != "" {
		query += " AND performed_by = ?"
		args = append(args, actor)
	}
	query += " ORDER BY date"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance records: %w", err)
	}
	defer rows.Close()

	var records []models.MaintenanceRecord
	for rows.Next() {
		var rec models.MaintenanceRecord
		var date string
		var performedBy sql.NullString

		if err := rows.Scan(&rec.ID, &rec.FarmID, &rec.EquipmentName, &date, &rec.Description, &performedBy); err != nil {
			return nil, fmt.Errorf("failed to scan maintenance record: %w", err)
		}

		rec.Date, err = time.ParseInLocation(dateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse maintenance date %q: %w", date, err)
		}
		rec.PerformedBy = performedBy.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByFarmInRange counts the farm's records with dates in [start, end]
// inclusive
func (r *MaintenanceRepository) CountByFarmInRange(farmID int64, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM maintenance_records
		WHERE farm_id = ? AND date >= ? AND date <= ?
	`

	var count int
	err := r.db.QueryRow(query, farmID, start.Format(dateLayout), end.Format(dateLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count maintenance records: %w", err)
	}
	return count, nil
}
