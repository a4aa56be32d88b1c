package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/agrosur/riego-backend-go/internal/models"
)

// FieldTaskRepository handles database operations for operational field
// tasks (the farm chores counted by the period summary, not report tasks)
type FieldTaskRepository struct {
	db *sql.DB
}

// NewFieldTaskRepository creates a new field task repository
func NewFieldTaskRepository(db *sql.DB) *FieldTaskRepository {
	return &FieldTaskRepository{db: db}
}

// Create inserts a field task
func (r *FieldTaskRepository) Create(task *models.FieldTask) error {
	query := `
		INSERT INTO field_tasks (sector_id, description, created_by, status, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var completedAt interface{}
	if task.CompletedAt != nil {
		completedAt = task.CompletedAt.Unix()
	}

	result, err := r.db.Exec(query,
		task.SectorID,
		task.Description,
		nullableString(task.CreatedBy),
		task.Status,
		task.CreatedAt.Unix(),
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create field task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id
	return nil
}

// CountCreatedInRange counts tasks on the farm's sectors created in
// [start, end)
func (r *FieldTaskRepository) CountCreatedInRange(farmID int64, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM field_tasks ft
		JOIN sectors s ON s.id = ft.sector_id
		WHERE s.farm_id = ? AND ft.created_at >= ? AND ft.created_at < ?
	`

	var count int
	err := r.db.QueryRow(query, farmID, start.Unix(), end.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count created field tasks: %w", err)
	}
	return count, nil
}

// CountCompletedInRange counts tasks on the farm's sectors completed in
// [start, end)
func (r *FieldTaskRepository) CountCompletedInRange(farmID int64, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM field_tasks ft
		JOIN sectors s ON s.id = ft.sector_id
		WHERE s.farm_id = ? AND ft.status = ?
		  AND ft.completed_at >= ? AND ft.completed_at < ?
	`

	var count int
	err := r.db.QueryRow(query, farmID, models.FieldTaskStatusCompleted, start.Unix(), end.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed field tasks: %w", err)
	}
	return count, nil
}
