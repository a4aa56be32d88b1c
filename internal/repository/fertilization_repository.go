package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/agrosur/riego-backend-go/internal/models"
)

// FertilizationRepository handles database operations for fertilizer
// applications
type FertilizationRepository struct {
	db *sql.DB
}

// NewFertilizationRepository creates a new fertilization repository
func NewFertilizationRepository(db *sql.DB) *FertilizationRepository {
	return &FertilizationRepository{db: db}
}

// Create inserts a fertilization record
func (r *FertilizationRepository) Create(rec *models.FertilizationRecord) error {
	query := `
		INSERT INTO fertilization_records (sector_id, date, product, quantity, unit, applied_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		rec.SectorID,
		rec.Date.Format(dateLayout),
		rec.Product,
		rec.Quantity,
		rec.Unit,
		nullableString(rec.AppliedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to create fertilization record: %w", err)
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
func (r *FertilizationRepository) ListByFarmInRange(farmID int64, start, end time.Time, actor string) ([]models.FertilizationRecord, error) {
	query := `
		SELECT f.id, f.sector_id, s.name, f.date, f.product, f.quantity, f.unit, f.applied_by
		FROM fertilization_records f
		JOIN sectors s ON s.id = f.sector_id
		WHERE s.farm_id = ? AND f.date >= ? AND f.date <= ?
	`

	args := []interface{}{farmID, start.Format(dateLayout), end.Format(dateLayout)}
	if actor != "" {
		query += " AND f.applied_by = ?"
		args = append(args, actor)
	}
	query += " ORDER BY f.date"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fertilization records: %w", err)
	}
	defer rows.Close()

	var records []models.FertilizationRecord
	for rows.Next() {
		var rec models.FertilizationRecord
		var date string
		var unit, appliedBy sql.NullString

		if err := rows.Scan(&rec.ID, &rec.SectorID, &rec.SectorName, &date,
			&rec.Product, &rec.Quantity, &unit, &appliedBy); err != nil {
			return nil, fmt.Errorf("failed to scan fertilization record: %w", err)
		}

		rec.Date, err = time.ParseInLocation(dateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fertilization date %q: %w", date, err)
		}
		rec.Unit = unit.String
		rec.AppliedBy = appliedBy.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByFarmInRange counts the farm's records with dates in [start, end]
// inclusive
func (r *FertilizationRepository) CountByFarmInRange(farmID int64, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM fertilization_records f
		JOIN sectors s ON s.id = f.sector_id
		WHERE s.farm_id = ? AND f.date >= ? AND f.date <= ?
	`

	var count int
	err := r.db.QueryRow(query, farmID, start.Format(dateLayout), end.Format(dateLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fertilization records: %w", err)
	}
	return count, nil
}
