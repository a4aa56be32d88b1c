package database

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the embedded, versioned schema. Timestamps are unix
// seconds (INTEGER), calendar dates are ISO text (YYYY-MM-DD).
var migrations = []Migration{
	{
		Version: 1,
		Name:    "001_domain_records",
		SQL: `
			CREATE TABLE IF NOT EXISTS farms (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				owner TEXT
			);

			CREATE TABLE IF NOT EXISTS sectors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				farm_id INTEGER NOT NULL REFERENCES farms(id),
				name TEXT NOT NULL,
				area_ha REAL NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_sectors_farm ON sectors(farm_id);

			CREATE TABLE IF NOT EXISTS users (
				username TEXT PRIMARY KEY,
				display_name TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS irrigation_records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sector_id INTEGER NOT NULL REFERENCES sectors(id),
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				water_volume_m3 REAL NOT NULL,
				duration_min INTEGER NOT NULL,
				operated_by TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_irrigation_sector_start
				ON irrigation_records(sector_id, start_time);

			CREATE TABLE IF NOT EXISTS precipitation_records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				farm_id INTEGER NOT NULL REFERENCES farms(id),
				date TEXT NOT NULL,
				raw_mm REAL NOT NULL,
				effective_mm REAL NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_precipitation_farm_date
				ON precipitation_records(farm_id, date);

			CREATE TABLE IF NOT EXISTS maintenance_records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				farm_id INTEGER NOT NULL REFERENCES farms(id),
				equipment_name TEXT NOT NULL,
				date TEXT NOT NULL,
				description TEXT NOT NULL,
				performed_by TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_maintenance_farm_date
				ON maintenance_records(farm_id, date);

			CREATE TABLE IF NOT EXISTS fertilization_records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sector_id INTEGER NOT NULL REFERENCES sectors(id),
				date TEXT NOT NULL,
				product TEXT NOT NULL,
				quantity REAL NOT NULL DEFAULT 0,
				unit TEXT,
				applied_by TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_fertilization_sector_date
				ON fertilization_records(sector_id, date);

			CREATE TABLE IF NOT EXISTS field_tasks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sector_id INTEGER NOT NULL REFERENCES sectors(id),
				description TEXT,
				created_by TEXT,
				status TEXT NOT NULL DEFAULT 'pending',
				created_at INTEGER NOT NULL,
				completed_at INTEGER
			);
			CREATE INDEX IF NOT EXISTS idx_field_tasks_sector_created
				ON field_tasks(sector_id, created_at);
		`,
	},
	{
		Version: 2,
		Name:    "002_report_tasks",
		SQL: `
			CREATE TABLE IF NOT EXISTS report_tasks (
				id TEXT PRIMARY KEY,
				kind TEXT NOT NULL,
				format TEXT NOT NULL,
				status TEXT NOT NULL,
				params_json TEXT,
				requested_by TEXT,
				artifact_path TEXT,
				error_message TEXT,
				created_at INTEGER NOT NULL,
				completed_at INTEGER
			);
			CREATE INDEX IF NOT EXISTS idx_report_tasks_status
				ON report_tasks(status, created_at);
		`,
	},
}

// InitMigrationsTable creates the migrations tracking table
func InitMigrationsTable(conn *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := conn.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns the set of applied migration versions
func GetAppliedMigrations(conn *sql.DB) (map[int]bool, error) {
	rows, err := conn.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, nil
}

func applyMigration(conn *sql.DB, migration Migration) error {
	err := Transaction(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(migration.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Applied migration %d: %s", migration.Version, migration.Name)
	return nil
}

// RunMigrations applies all pending embedded migrations in order
func RunMigrations(conn *sql.DB) error {
	if err := InitMigrationsTable(conn); err != nil {
		return err
	}

	applied, err := GetAppliedMigrations(conn)
	if err != nil {
		return err
	}

	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Version < pending[j].Version
	})

	for _, m := range pending {
		if err := applyMigration(conn, m); err != nil {
			return err
		}
	}

	return nil
}
