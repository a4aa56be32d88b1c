package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/agrosur/riego-backend-go/internal/models"
	"github.com/agrosur/riego-backend-go/internal/render"
	"github.com/agrosur/riego-backend-go/internal/repository"
	"github.com/agrosur/riego-backend-go/internal/storage"
)

// requesterPlaceholder appears on reports when the requester identity
// cannot be resolved
const requesterPlaceholder = "Usuario del sistema"

// ErrInvalidRequest marks submission errors caused by the caller's input,
// as opposed to task-store failures
var ErrInvalidRequest = errors.New("invalid report request")

// ReportService owns the report task lifecycle: Submit persists a pending
// task and returns immediately; generation runs on its own goroutine,
// gated by a bounded worker pool, and records the outcome back onto the
// task. Callers poll GetTask.
type ReportService struct {
	tasks         *repository.ReportTaskRepository
	users         *repository.UserRepository
	waterBalance  *WaterBalanceService
	operationsLog *OperationsLogService
	periodSummary *PeriodSummaryService
	store         *storage.ArtifactStore
	renderers     map[string]render.Renderer

	// workers bounds concurrent generations; the original design had no
	// cap, which lets large row sets pile up in memory.
	workers *semaphore.Weighted

	// timeout > 0 fails a task that outlives it. The abandoned execution
	// cannot resurrect the task: terminal updates are status-guarded.
	timeout time.Duration
}

// NewReportService creates the report orchestrator. workers must be >= 1.
func NewReportService(tasks *repository.ReportTaskRepository, users *repository.UserRepository,
	waterBalance *WaterBalanceService, operationsLog *OperationsLogService,
	periodSummary *PeriodSummaryService, store *storage.ArtifactStore,
	renderers map[string]render.Renderer, workers int64, timeout time.Duration) *ReportService {

	if workers < 1 {
		workers = 1
	}

	return &ReportService{
		tasks:         tasks,
		users:         users,
		waterBalance:  waterBalance,
		operationsLog: operationsLog,
		periodSummary: periodSummary,
		store:         store,
		renderers:     renderers,
		workers:       semaphore.NewWeighted(workers),
		timeout:       timeout,
	}
}

// Submit validates the kind and format, persists a pending task and
// starts its background generation. It never blocks on the generation
// itself.
func (s *ReportService) Submit(kind, format string, params json.RawMessage, requestedBy string) (*models.ReportTask, error) {
	if !models.ValidReportKind(kind) {
		return nil, fmt.Errorf("invalid report kind %q: %w", kind, ErrInvalidRequest)
	}
	if !models.ValidReportFormat(format) {
		return nil, fmt.Errorf("invalid report format %q: %w", format, ErrInvalidRequest)
	}

	task := &models.ReportTask{
		ID:          uuid.NewString(),
		Kind:        kind,
		Format:      format,
		Status:      models.ReportStatusPending,
		ParamsJSON:  string(params),
		RequestedBy: requestedBy,
		CreatedAt:   time.Now(),
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}

	go s.run(task)

	return task, nil
}

// GetTask retrieves a report task by ID
func (s *ReportService) GetTask(id string) (*models.ReportTask, error) {
	return s.tasks.GetByID(id)
}

// ListTasks retrieves report tasks, newest first
func (s *ReportService) ListTasks(status string, limit, offset int) ([]*models.ReportTask, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.tasks.List(status, limit, offset)
}

// run executes one submitted task to a terminal state. Every error on the
// way becomes a failed task with a diagnostic message, never a panic or a
// caller-visible error.
func (s *ReportService) run(task *models.ReportTask) {
	if err := s.workers.Acquire(context.Background(), 1); err != nil {
		s.fail(task.ID, fmt.Sprintf("worker pool unavailable: %v", err))
		return
	}

	if err := s.tasks.MarkProcessing(task.ID); err != nil {
		s.workers.Release(1)
		log.Printf("Report task %s: failed to mark processing: %v", task.ID, err)
		return
	}

	start := time.Now()

	if s.timeout <= 0 {
		s.finish(task, start)
		s.workers.Release(1)
		return
	}

	// The execution goroutine owns the worker slot: an abandoned execution
	// keeps it until it returns, so a timed-out task never lets concurrent
	// work exceed the pool bound.
	done := make(chan struct{})
	go func() {
		defer s.workers.Release(1)
		defer close(done)
		s.finish(task, start)
	}()

	select {
	case <-done:
	case <-time.After(s.timeout):
		s.fail(task.ID, fmt.Sprintf("report generation timed out after %s", s.timeout))
		log.Printf("Report task %s timed out after %s", task.ID, s.timeout)
	}
}

func (s *ReportService) finish(task *models.ReportTask, start time.Time) {
	artifactPath, err := s.execute(task)
	if err != nil {
		s.fail(task.ID, err.Error())
		log.Printf("Report task %s failed after %v: %v", task.ID, time.Since(start), err)
		return
	}

	if err := s.tasks.MarkCompleted(task.ID, artifactPath); err != nil {
		log.Printf("Report task %s: failed to mark completed: %v", task.ID, err)
		return
	}
	log.Printf("Report task %s completed in %v: %s", task.ID, time.Since(start), artifactPath)
}

func (s *ReportService) fail(taskID, message string) {
	if message == "" {
		message = "report generation failed"
	}
	if err := s.tasks.MarkFailed(taskID, message); err != nil {
		log.Printf("Report task %s: failed to mark failed: %v", taskID, err)
	}
}

// execute runs the aggregate → flatten → render → store sequence and
// returns the artifact location
func (s *ReportService) execute(task *models.ReportTask) (string, error) {
	meta := render.Meta{
		RequestedBy: s.resolveRequester(task.RequestedBy),
		GeneratedAt: time.Now(),
	}

	var tabular *render.TabularReport
	var title string

	switch task.Kind {
	case models.ReportKindWaterBalance:
		var p WaterBalanceParams
		if err := json.Unmarshal([]byte(task.ParamsJSON), &p); err != nil {
			return "", fmt.Errorf("invalid water balance parameters: %w", err)
		}
		report, err := s.waterBalance.Generate(p)
		if err != nil {
			return "", err
		}
		tabular, title = report.Tabular(), report.Title()

	case models.ReportKindOperationsLog:
		var p OperationsLogParams
		if err := json.Unmarshal([]byte(task.ParamsJSON), &p); err != nil {
			return "", fmt.Errorf("invalid operations log parameters: %w", err)
		}
		report, err := s.operationsLog.Generate(p)
		if err != nil {
			return "", err
		}
		tabular, title = report.Tabular(), report.Title()

	case models.ReportKindPeriodSummary:
		var p PeriodSummaryParams
		if err := json.Unmarshal([]byte(task.ParamsJSON), &p); err != nil {
			return "", fmt.Errorf("invalid period summary parameters: %w", err)
		}
		report, err := s.periodSummary.Generate(p)
		if err != nil {
			return "", err
		}
		tabular, title = report.Tabular(), report.Title()

	default:
		return "", fmt.Errorf("unknown report kind: %s", task.Kind)
	}

	renderer, ok := s.renderers[task.Format]
	if !ok {
		return "", fmt.Errorf("no renderer for format: %s", task.Format)
	}

	data, err := renderer.Render(tabular, title, meta)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("report_%s.%s", task.ID, models.FormatExtension(task.Format))
	return s.store.Save(name, data)
}

// resolveRequester turns a username into a display name, falling back to
// a generic placeholder. Resolution failure is never fatal to the report.
func (s *ReportService) resolveRequester(username string) string {
	if username == "" {
		return requesterPlaceholder
	}
	displayName, err := s.users.GetDisplayName(username)
	if err != nil {
		log.Printf("Could not resolve requester %q: %v", username, err)
		return requesterPlaceholder
	}
	return displayName
}
