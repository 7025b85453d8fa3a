package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in version order and tracked in the migrations
// table. Keep statements idempotent where possible.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_audits",
		SQL: `
			CREATE TABLE IF NOT EXISTS audits (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL DEFAULT '',
				lat REAL,
				lng REAL,
				ts INTEGER NOT NULL,
				band TEXT NOT NULL,
				cell_id TEXT NOT NULL DEFAULT '',
				safety_score REAL,
				lighting REAL,
				visibility REAL,
				crowd_density TEXT NOT NULL DEFAULT '',
				cctv TEXT NOT NULL DEFAULT '',
				crime_rate REAL,
				security_present TEXT NOT NULL DEFAULT '',
				poi_type TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
		`,
	},
	{
		Version: 2,
		Name:    "index_audits_user",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_audits_user_id ON audits(user_id)`,
	},
	{
		Version: 3,
		Name:    "index_audits_cell",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_audits_cell_id ON audits(cell_id)`,
	},
	{
		Version: 4,
		Name:    "index_audits_ts",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_audits_ts ON audits(ts)`,
	},
}

// Migrate applies all pending migrations.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := db.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
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
	return applied, rows.Err()
}
