package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/agrosur/riego-backend-go/internal/models"
)

// dateLayout is the storage format of calendar-date columns
const dateLayout = "2006-01-02"

// PrecipitationRepository handles database operations for farm-level
// rainfall measurements. Rain is keyed by its stored calendar date, not
// by a timestamp.
type PrecipitationRepository struct {
	db *sql.DB
}

// NewPrecipitationRepository creates a new precipitation repository
func NewPrecipitationRepository(db *sql.DB) *PrecipitationRepository {
	return &PrecipitationRepository{db: db}
}

// Create inserts a precipitation record, deriving the effective value
// from the raw measurement
func (r *PrecipitationRepository) Create(rec *models.PrecipitationRecord) error {
	rec.EffectiveMM = models.EffectiveRainfall(rec.RawMM)

	query := `
		INSERT INTO precipitation_records (farm_id, date, raw_mm, effective_mm)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, rec.FarmID, rec.Date.Format(dateLayout), rec.RawMM, rec.EffectiveMM)
	if err != nil {
		return fmt.Errorf("failed to create precipitation record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// ListByFarmInRange returns the farm's records with dates in [start, end]
// inclusive
func (r *PrecipitationRepository) ListByFarmInRange(farmID int64, start, end time.Time) ([]models.PrecipitationRecord, error) {
	query := `
		SELECT id, farm_id, date, raw_mm, effective_mm
		FROM precipitation_records
		WHERE farm_id = ? AND date >= ? AND date <= ?
		ORDER BY date
	`

	rows, err := r.db.Query(query, farmID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list precipitation records: %w", err)
	}
	defer rows.Close()

	var records []models.PrecipitationRecord
	for rows.Next() {
		var rec models.PrecipitationRecord
		var date string

		if err := rows.Scan(&rec.ID, &rec.FarmID, &date, &rec.RawMM, &rec.EffectiveMM); err != nil {
			return nil, fmt.Errorf("failed to scan precipitation record: %w", err)
		}

		rec.Date, err = time.ParseInLocation(dateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse precipitation date %q: %w", date, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
