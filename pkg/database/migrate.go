package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate runs a goose command against db using the SQL files in
// migrations. command is one of up, down, status or version. The returned
// lines describe what happened, one per migration.
func Migrate(ctx context.Context, db *PostgresDB, migrations fs.FS, command string) ([]string, error) {
	sqlDB := stdlib.OpenDBFromPool(db.Pool())
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	var lines []string
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return nil, fmt.Errorf("migration up failed: %w", err)
		}
		for _, r := range results {
			lines = append(lines, r.String())
		}
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return nil, fmt.Errorf("migration down failed: %w", err)
		}
		lines = append(lines, result.String())
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("migration status failed: %w", err)
		}
		for _, s := range statuses {
			lines = append(lines, fmt.Sprintf("%-8s %s", s.State, s.Source.Path))
		}
	case "version":
		v, err := provider.GetDBVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("migration version failed: %w", err)
		}
		lines = append(lines, fmt.Sprintf("version %d", v))
	default:
		return nil, fmt.Errorf("unknown migration command %q", command)
	}
	return lines, nil
}
