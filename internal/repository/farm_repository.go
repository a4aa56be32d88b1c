package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/agrosur/riego-backend-go/internal/models"
)

// FarmRepository handles database operations for farms and their sectors
type FarmRepository struct {
	db *sql.DB
}

// NewFarmRepository creates a new farm repository
func NewFarmRepository(db *sql.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// CreateFarm inserts a farm
func (r *FarmRepository) CreateFarm(farm *models.Farm) error {
	result, err := r.db.Exec("INSERT INTO farms (name, owner) VALUES (?, ?)", farm.Name, farm.Owner)
	if err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	farm.ID = id
	return nil
}

// CreateSector inserts a sector
func (r *FarmRepository) CreateSector(sector *models.Sector) error {
	result, err := r.db.Exec("INSERT INTO sectors (farm_id, name, area_ha) VALUES (?, ?, ?)",
		sector.FarmID, sector.Name, sector.AreaHa)
	if err != nil {
		return fmt.Errorf("failed to create sector: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	sector.ID = id
	return nil
}

// GetFarmName returns the display name of a farm
func (r *FarmRepository) GetFarmName(farmID int64) (string, error) {
	var name string
	err := r.db.QueryRow("SELECT name FROM farms WHERE id = ?", farmID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("farm %d: %w", farmID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get farm: %w", err)
	}
	return name, nil
}

// ListSectors returns all sectors of a farm, ordered by name
func (r *FarmRepository) ListSectors(farmID int64) ([]models.Sector, error) {
	rows, err := r.db.Query(
		"SELECT id, farm_id, name, area_ha FROM sectors WHERE farm_id = ? ORDER BY name, id", farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	defer rows.Close()

	return scanSectors(rows)
}

// ListSectorsByIDs returns the farm's sectors matching the given ids.
// Sectors of other farms are silently excluded.
func (r *FarmRepository) ListSectorsByIDs(farmID int64, ids []int64) ([]models.Sector, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(
		"SELECT id, farm_id, name, area_ha FROM sectors WHERE farm_id = ? AND id IN (%s) ORDER BY name, id",
		placeholders)

	args := []interface{}{farmID}
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sectors by ids: %w", err)
	}
	defer rows.Close()

	return scanSectors(rows)
}

func scanSectors(rows *sql.Rows) ([]models.Sector, error) {
	var sectors []models.Sector
	for rows.Next() {
		var s models.Sector
		if err := rows.Scan(&s.ID, &s.FarmID, &s.Name, &s.AreaHa); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	return sectors, rows.Err()
}
