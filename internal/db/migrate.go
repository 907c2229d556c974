// internal/db/migrate.go
package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies every embedded migration in file-name order. Scripts are
// written with IF NOT EXISTS so running them again is harmless.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("migrate: list: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrate: read %s: %w", name, err)
		}
		// simple protocol lets one Exec run a multi-statement script
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("migrate: acquire: %w", err)
		}
		_, err = conn.Conn().PgConn().Exec(ctx, string(script)).ReadAll()
		conn.Release()
		if err != nil {
			return fmt.Errorf("migrate: apply %s: %w", name, err)
		}
		logger.Info("migration applied", zap.String("file", name))
	}
	return nil
}
