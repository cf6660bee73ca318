// Package migrations embeds SQL migration files into the binary so Sundial
// can migrate its schema without the files present on the filesystem.
package migrations

import (
	"embed"

	"github.com/sundiald/sundial/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// Register embedded migrations with the database package.
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
