package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrations embed.FS

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// Migrate applies each embedded migration for the active driver at most once,
// recording applied files in schema_migrations. On SQLite a file and its
// schema_migrations row commit together. MySQL commits DDL implicitly, so a
// failure partway through a file can leave its tables without a
// schema_migrations row; every statement uses IF NOT EXISTS so the rerun on
// next open is safe.
func (db *DB) Migrate(ctx context.Context) error {
	subtree, err := fs.Sub(migrations, "migrations/"+string(db.Driver))
	if err != nil {
		return fmt.Errorf("retrieving migrations subtree: %w", err)
	}
	entries, err := fs.ReadDir(subtree, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name       VARCHAR(255) NOT NULL PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`, migrationTable)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	applied := 0
	for _, name := range files {
		done, err := db.isApplied(ctx, name)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if done {
			continue
		}
		content, err := fs.ReadFile(subtree, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		up := extractUp(string(content))
		if strings.TrimSpace(up) == "" {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			name, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
		applied++
	}

	if applied == 0 {
		db.log.Info().Int("version", len(files)).Msg("database schema up to date")
	} else {
		db.log.Info().Int("applied", applied).Int("version", len(files)).Msg("migrated database schema")
	}
	return nil
}

func (db *DB) isApplied(ctx context.Context, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+migrationTable+" WHERE name = ?", name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// extractUp returns the SQL between the Up and Down markers, or the whole
// file when it has no markers.
func extractUp(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(body, downMarker); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}
