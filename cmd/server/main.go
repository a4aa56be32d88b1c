package main

import (
	"log"
	"os"
	"path/filepath"

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

func main() {
	cfg := config.Load()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	store, err := storage.NewArtifactStore(cfg.ReportsDir)
	if err != nil {
		log.Fatal("Failed to initialize artifact store:", err)
	}

	branding := render.DefaultBranding(cfg.CompanyName)
	if cfg.LogoPath != "" {
		if err := branding.LoadLogo(cfg.LogoPath); err != nil {
			log.Printf("Warning: %v, reports will render without a logo", err)
		}
	}

	renderers := map[string]render.Renderer{
		models.ReportFormatCSV:  render.NewCSVRenderer(branding),
		models.ReportFormatXLSX: render.NewExcelRenderer(branding),
		models.ReportFormatPDF:  render.NewPDFRenderer(branding),
	}

	farms := repository.NewFarmRepository(db)
	irrigation := repository.NewIrrigationRepository(db)
	precipitation := repository.NewPrecipitationRepository(db)
	maintenance := repository.NewMaintenanceRepository(db)
	fertilization := repository.NewFertilizationRepository(db)
	fieldTasks := repository.NewFieldTaskRepository(db)
	reportTasks := repository.NewReportTaskRepository(db)
	users := repository.NewUserRepository(db)

	waterBalance := service.NewWaterBalanceService(farms, irrigation, precipitation)
	operationsLog := service.NewOperationsLogService(farms, irrigation, maintenance, fertilization)
	periodSummary := service.NewPeriodSummaryService(farms, irrigation, precipitation, maintenance, fertilization, fieldTasks)

	reports := service.NewReportService(reportTasks, users, waterBalance, operationsLog, periodSummary,
		store, renderers, int64(cfg.ReportWorkers), cfg.ReportTimeout)

	router := api.SetupRouter(cfg, handler.NewReportHandler(reports))

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
