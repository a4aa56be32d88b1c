package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port       string
	DBPath     string
	JWTSecret  string
	ReportsDir string

	CompanyName string
	LogoPath    string

	// ReportWorkers bounds concurrent report generations
	ReportWorkers int
	// ReportTimeout fails a report task that runs longer; 0 disables it
	ReportTimeout time.Duration
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/riego.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	reportsDir := os.Getenv("REPORTS_DIR")
	if reportsDir == "" {
		reportsDir = "./data/reports"
	}

	companyName := os.Getenv("COMPANY_NAME")
	if companyName == "" {
		companyName = "AgroSur Riego"
	}

	return &Config{
		Port:          port,
		DBPath:        dbPath,
		JWTSecret:     jwtSecret,
		ReportsDir:    reportsDir,
		CompanyName:   companyName,
		LogoPath:      os.Getenv("LOGO_PATH"),
		ReportWorkers: envInt("REPORT_WORKERS", 4),
		ReportTimeout: time.Duration(envInt("REPORT_TIMEOUT_SECONDS", 0)) * time.Second,
	}
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
