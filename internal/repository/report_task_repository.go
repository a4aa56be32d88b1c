package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/agrosur/riego-backend-go/internal/models"
)

// ReportTaskRepository handles database operations for report tasks.
// Terminal transitions are guarded on the current status so a task never
// leaves a terminal state, even if a late writer races a timeout.
type ReportTaskRepository struct {
	db *sql.DB
}

// NewReportTaskRepository creates a new report task repository
func NewReportTaskRepository(db *sql.DB) *ReportTaskRepository {
	return &ReportTaskRepository{db: db}
}

// Create persists a new report task
func (r *ReportTaskRepository) Create(task *models.ReportTask) error {
	query := `
		INSERT INTO report_tasks (
			id, kind, format, status, params_json, requested_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		task.ID,
		task.Kind,
		task.Format,
		task.Status,
		task.ParamsJSON,
		task.RequestedBy,
		task.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create report task: %w", err)
	}

	return nil
}

// GetByID retrieves a report task by ID
func (r *ReportTaskRepository) GetByID(id string) (*models.ReportTask, error) {
	query := `
		SELECT id, kind, format, status, params_json, requested_by,
			   artifact_path, error_message, created_at, completed_at
		FROM report_tasks
		WHERE id = ?
	`

	task := &models.ReportTask{}
	var createdAt int64
	var completedAt sql.NullInt64
	var artifactPath, errorMessage sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&task.ID,
		&task.Kind,
		&task.Format,
		&task.Status,
		&task.ParamsJSON,
		&task.RequestedBy,
		&artifactPath,
		&errorMessage,
		&createdAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report task: %w", err)
	}

	task.CreatedAt = time.Unix(createdAt, 0)
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0)
		task.CompletedAt = &t
	}
	if artifactPath.Valid {
		task.ArtifactPath = &artifactPath.String
	}
	if errorMessage.Valid {
		task.ErrorMessage = &errorMessage.String
	}

	return task, nil
}

// List retrieves report tasks, newest first, with an optional status filter
func (r *ReportTaskRepository) List(status string, limit int, offset int) ([]*models.ReportTask, error) {
	query := `
		SELECT id, kind, format, status, params_json, requested_by,
			   artifact_path, error_message, created_at, completed_at
		FROM report_tasks
		WHERE 1=1
	`

	args := []interface{}{}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list report tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.ReportTask
	for rows.Next() {
		task := &models.ReportTask{}
		var createdAt int64
		var completedAt sql.NullInt64
		var artifactPath, errorMessage sql.NullString

		err := rows.Scan(
			&task.ID,
			&task.Kind,
			&task.Format,
			&task.Status,
			&task.ParamsJSON,
			&task.RequestedBy,
			&artifactPath,
			&errorMessage,
			&createdAt,
			&completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report task: %w", err)
		}

		task.CreatedAt = time.Unix(createdAt, 0)
		if completedAt.Valid {
			t := time.Unix(completedAt.Int64, 0)
			task.CompletedAt = &t
		}
		if artifactPath.Valid {
			task.ArtifactPath = &artifactPath.String
		}
		if errorMessage.Valid {
			task.ErrorMessage = &errorMessage.String
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// MarkProcessing transitions a pending task to processing
func (r *ReportTaskRepository) MarkProcessing(id string) error {
	query := `
		UPDATE report_tasks
		SET status = ?
		WHERE id = ? AND status = ?
	`

	_, err := r.db.Exec(query, models.ReportStatusProcessing, id, models.ReportStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark report task as processing: %w", err)
	}

	return nil
}

// MarkCompleted records the artifact location and completes the task.
// A no-op when the task already reached a terminal state.
func (r *ReportTaskRepository) MarkCompleted(id string, artifactPath string) error {
	query := `
		UPDATE report_tasks
		SET status = ?, artifact_path = ?, error_message = NULL, completed_at = ?
		WHERE id = ? AND status = ?
	`

	_, err := r.db.Exec(query, models.ReportStatusCompleted, artifactPath, time.Now().Unix(),
		id, models.ReportStatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to mark report task as completed: %w", err)
	}

	return nil
}

// MarkFailed records the error message and fails the task. A no-op when
// the task already reached a terminal state.
func (r *ReportTaskRepository) MarkFailed(id string, errorMessage string) error {
	query := `
		UPDATE report_tasks
		SET status = ?, error_message = ?, artifact_path = NULL, completed_at = ?
		WHERE id = ? AND status = ?
	`

	_, err := r.db.Exec(query, models.ReportStatusFailed, errorMessage, time.Now().Unix(),
		id, models.ReportStatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to mark report task as failed: %w", err)
	}

	return nil
}
