// Package database opens the catalog store. SQLite (modernc.org/sqlite, pure
// Go) is the default and keeps everything in one local file; MySQL is
// available for shared deployments. Both run the embedded schema migrations
// on open.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/movie-catalog/internal/config"
)

// PingTimeout bounds the startup ping so a dead server fails fast.
const PingTimeout = 5 * time.Second

// DB is the process-wide store handle. It is opened once at startup, passed
// explicitly to every repository, and closed at shutdown.
type DB struct {
	*sql.DB
	Driver Driver
	log    zerolog.Logger
	clock  func() time.Time
}

// Open connects to the configured engine, verifies the connection and
// applies pending migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	driver := Driver(cfg.Driver)
	var (
		dsn string
		err error
	)
	switch driver {
	case SQLite:
		dsn, err = sqliteDSN(cfg.Path)
	case MySQL:
		dsn = mysqlDSN(cfg)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver.sqlName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}

	db := &DB{DB: sqlDB, Driver: driver, log: log, clock: time.Now}
	if err := db.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info().Str("driver", string(driver)).Msg("connected to the catalog database")
	return db, nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	db.log.Info().Msg("closing catalog database")
	return db.DB.Close()
}

// Now is the timestamp written to last_update columns: UTC, truncated to the
// microsecond precision of DATETIME(6).
func (db *DB) Now() time.Time {
	return db.clock().UTC().Truncate(time.Microsecond)
}

// SetClock replaces the time source, for tests that need controlled
// last_update values.
func (db *DB) SetClock(fn func() time.Time) {
	if fn == nil {
		fn = time.Now
	}
	db.clock = fn
}

// sqliteDSN enables foreign keys on every pooled connection; SQLite leaves
// them off by default and association integrity depends on them.
func sqliteDSN(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("sqlite path is required")
	}
	pragmas := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
	}
	return filepath.Clean(path) + "?" + strings.Join(pragmas, "&"), nil
}

func mysqlDSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	// parseTime maps DATETIME to time.Time; loc=UTC keeps last_update consistent
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.MultiStatements = true
	// report matched rather than changed rows so RowsAffected detects missing keys
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
