// Package plandb persists planning cycle results to SQLite so recorded
// plans can be compared, charted, and served after the fact. Schema
// changes are managed with versioned migrations embedded in the binary.
package plandb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// PlanDB wraps the plans database connection.
type PlanDB struct {
	*sql.DB
}

// Open opens the plans database without touching the schema. Use this for
// migration commands, which manage the schema themselves.
func Open(path string) (*PlanDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plans database: %w", err)
	}
	return &PlanDB{db}, nil
}

// New opens the plans database and applies any pending migrations from the
// embedded migration set.
func New(path string) (*PlanDB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	migrationsFS, err := getMigrationsFS()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := db.MigrateUp(migrationsFS); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate plans database: %w", err)
	}

	return db, nil
}
