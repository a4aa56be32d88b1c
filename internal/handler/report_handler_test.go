package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosur/riego-backend-go/internal/api"
	"github.com/agrosur/riego-backend-go/internal/config"
	"github.com/agrosur/riego-backend-go/internal/database"
	"github.com/agrosur/riego-backend-go/internal/handler"
	"github.com/agrosur/riego-backend-go/internal/models"
	"github.com/agrosur/riego-backend-go/internal/render"
	"github.com/agrosur/riego-backend-go/internal/repository"
	"github.com/agrosur/riego-backend-go/internal/service"
	"github.com/agrosur/riego-backend-go/internal/storage"
)

const testSecret = "test-secret"

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupAPI(t *testing.T) (*gin.Engine, int64, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))

	farms := repository.NewFarmRepository(db)
	irrigation := repository.NewIrrigationRepository(db)
	precipitation := repository.NewPrecipitationRepository(db)
	maintenance := repository.NewMaintenanceRepository(db)
	fertilization := repository.NewFertilizationRepository(db)
	fieldTasks := repository.NewFieldTaskRepository(db)
	users := repository.NewUserRepository(db)

	farm := &models.Farm{Name: "La Esperanza"}
	require.NoError(t, farms.CreateFarm(farm))
	require.NoError(t, farms.CreateSector(&models.Sector{FarmID: farm.ID, Name: "Norte"}))
	require.NoError(t, users.Create(&models.User{Username: "jperez", DisplayName: "Juan Pérez"}))

	store, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	branding := render.DefaultBranding("AgroSur Riego")
	renderers := map[string]render.Renderer{
		models.ReportFormatCSV:  render.NewCSVRenderer(branding),
		models.ReportFormatXLSX: render.NewExcelRenderer(branding),
		models.ReportFormatPDF:  render.NewPDFRenderer(branding),
	}

	waterBalance := service.NewWaterBalanceService(farms, irrigation, precipitation)
	operationsLog := service.NewOperationsLogService(farms, irrigation, maintenance, fertilization)
	periodSummary := service.NewPeriodSummaryService(farms, irrigation, precipitation,
		maintenance, fertilization, fieldTasks)

	reports := service.NewReportService(repository.NewReportTaskRepository(db), users,
		waterBalance, operationsLog, periodSummary, store, renderers, 2, 0)

	cfg := &config.Config{JWTSecret: testSecret}
	return api.SetupRouter(cfg, handler.NewReportHandler(reports)), farm.ID, db
}

func signToken(t *testing.T, username string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func createReportBody(farmID int64, format string) []byte {
	body, _ := json.Marshal(gin.H{
		"kind":   models.ReportKindWaterBalance,
		"format": format,
		"params": gin.H{
			"farm_id":    farmID,
			"start_date": "2026-02-01",
			"end_date":   "2026-02-03",
		},
	})
	return body
}

func doRequest(router *gin.Engine, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) *models.ReportTask {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Code, "body: %s", w.Body.String())

	var task models.ReportTask
	require.NoError(t, json.Unmarshal(resp.Data, &task))
	return &task
}

func waitCompleted(t *testing.T, router *gin.Engine, id string) *models.ReportTask {
	t.Helper()
	var task *models.ReportTask
	require.Eventually(t, func() bool {
		w := doRequest(router, http.MethodGet, "/api/v1/reports/"+id, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		task = decodeTask(t, w)
		return task.Terminal()
	}, 10*time.Second, 20*time.Millisecond)
	require.Equal(t, models.ReportStatusCompleted, task.Status)
	return task
}

func TestCreateAndDownloadReport(t *testing.T) {
	router, farmID, _ := setupAPI(t)

	w := doRequest(router, http.MethodPost, "/api/v1/reports",
		createReportBody(farmID, models.ReportFormatCSV), signToken(t, "jperez"))
	require.Equal(t, http.StatusOK, w.Code)

	task := decodeTask(t, w)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.ReportStatusPending, task.Status)
	assert.Equal(t, "jperez", task.RequestedBy)

	waitCompleted(t, router, task.ID)

	dl := doRequest(router, http.MethodGet, "/api/v1/reports/"+task.ID+"/download", nil, "")
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Contains(t, dl.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, dl.Header().Get("Content-Disposition"),
		fmt.Sprintf("report_%s.csv", task.ID))
	assert.Contains(t, dl.Body.String(), "Juan Pérez")
}

func TestCreateReportAnonymous(t *testing.T) {
	router, farmID, _ := setupAPI(t)

	// no Authorization header: the task is accepted without a requester
	w := doRequest(router, http.MethodPost, "/api/v1/reports",
		createReportBody(farmID, models.ReportFormatCSV), "")
	require.Equal(t, http.StatusOK, w.Code)

	task := decodeTask(t, w)
	assert.Empty(t, task.RequestedBy)
}

func TestCreateReportValidation(t *testing.T) {
	router, farmID, _ := setupAPI(t)

	w := doRequest(router, http.MethodPost, "/api/v1/reports", []byte(`{"kind": "WATER_BALANCE"}`), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/reports",
		createReportBody(farmID, "DOCX"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "invalid report format")
}

// A task-store failure is a server error, not a client one
func TestCreateReportStorageError(t *testing.T) {
	router, farmID, db := setupAPI(t)
	require.NoError(t, db.Close())

	w := doRequest(router, http.MethodPost, "/api/v1/reports",
		createReportBody(farmID, models.ReportFormatCSV), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetReportNotFound(t *testing.T) {
	router, _, _ := setupAPI(t)

	w := doRequest(router, http.MethodGet, "/api/v1/reports/no-such-id", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadPendingReportConflict(t *testing.T) {
	router, _, _ := setupAPI(t)

	// unknown farm keeps the task from ever completing
	w := doRequest(router, http.MethodPost, "/api/v1/reports",
		createReportBody(999, models.ReportFormatCSV), "")
	require.Equal(t, http.StatusOK, w.Code)
	task := decodeTask(t, w)

	require.Eventually(t, func() bool {
		g := doRequest(router, http.MethodGet, "/api/v1/reports/"+task.ID, nil, "")
		return decodeTask(t, g).Terminal()
	}, 10*time.Second, 20*time.Millisecond)

	dl := doRequest(router, http.MethodGet, "/api/v1/reports/"+task.ID+"/download", nil, "")
	assert.Equal(t, http.StatusConflict, dl.Code)
}

func TestListReports(t *testing.T) {
	router, farmID, _ := setupAPI(t)

	for i := 0; i < 2; i++ {
		w := doRequest(router, http.MethodPost, "/api/v1/reports",
			createReportBody(farmID, models.ReportFormatCSV), "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(router, http.MethodGet, "/api/v1/reports?limit=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var payload struct {
		Tasks []*models.ReportTask `json:"tasks"`
		Limit int                  `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	assert.Len(t, payload.Tasks, 2)
	assert.Equal(t, 10, payload.Limit)
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupAPI(t)

	w := doRequest(router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
