package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrosur/riego-backend-go/internal/models"
	"github.com/agrosur/riego-backend-go/internal/repository"
	"github.com/agrosur/riego-backend-go/internal/service"
	"github.com/agrosur/riego-backend-go/pkg/response"
)

// ReportHandler handles HTTP requests for report tasks
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// CreateReportRequest represents the request body for submitting a report
type CreateReportRequest struct {
	Kind   string          `json:"kind" binding:"required"`   // WATER_BALANCE, OPERATIONS_LOG, PERIOD_SUMMARY
	Format string          `json:"format" binding:"required"` // CSV, XLSX, PDF
	Params json.RawMessage `json:"params" binding:"required"`
}

// CreateReport submits a report generation task
// POST /api/v1/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Requester identity comes from the identity middleware and is passed
	// explicitly; services never read it from ambient state.
	requestedBy := c.GetString("user")

	task, err := h.service.Submit(req.Kind, req.Format, req.Params, requestedBy)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, task)
}

// GetReport retrieves a report task by ID
// GET /api/v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	task, err := h.service.GetTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, task)
}

// ListReports retrieves report tasks
// GET /api/v1/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	status := c.Query("status")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	tasks, err := h.service.ListTasks(status, limit, offset)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"tasks":  tasks,
		"limit":  limit,
		"offset": offset,
	})
}

// DownloadReport streams the artifact of a completed report task
// GET /api/v1/reports/:id/download
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	task, err := h.service.GetTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	if task.Status != models.ReportStatusCompleted || task.ArtifactPath == nil {
		response.Error(c, http.StatusConflict,
			fmt.Sprintf("report is not completed (status: %s)", task.Status))
		return
	}

	filename := fmt.Sprintf("report_%s.%s", task.ID, models.FormatExtension(task.Format))
	c.Header("Content-Type", models.FormatContentType(task.Format))
	c.FileAttachment(*task.ArtifactPath, filename)
}
