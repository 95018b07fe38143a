package plandb

import (
	"embed"
	"io/fs"
	"os"
)

// migrationsFS embeds the SQL migration files so deployed binaries carry
// their own schema history.
//
//go:embed migrations
var migrationsFS embed.FS

// DevMode switches migration loading to the on-disk migrations directory,
// letting schema changes be iterated without rebuilding.
var DevMode = false

// getMigrationsFS returns the migrations filesystem rooted at the directory
// containing the *.sql files.
func getMigrationsFS() (fs.FS, error) {
	if DevMode {
		return os.DirFS("internal/plandb/migrations"), nil
	}
	return fs.Sub(migrationsFS, "migrations")
}
