// Package db opens the application database and keeps its schema current.
package db

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	// DefaultPath is the SQLite file used when no path is configured.
	DefaultPath = "users.db"

	memoryPath    = ":memory:"
	retryInterval = 3 * time.Second
)

// Config describes how to reach the database.
type Config struct {
	// Driver is "sqlite" (default), "postgres" or "mysql".
	Driver string
	// Path is the SQLite database file. Ignored when DSN is set.
	Path string
	// DSN is a full data source name and takes precedence over Path.
	DSN string
	// ReadOnly opens a SQLite file with mode=ro.
	ReadOnly bool
	// BusyTimeout makes SQLite wait on a locked database instead of failing at once.
	BusyTimeout time.Duration
	// ConnectTimeout bounds ConnectWithRetry. Zero means a single attempt.
	ConnectTimeout time.Duration
}

// Opener opens a gorm.DB for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the data source name for cfg.
func BuildDSN(cfg Config) string {
	if cfg.DSN != "" || driverOf(cfg) != DriverSQLite {
		return cfg.DSN
	}

	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if path == memoryPath {
		return memoryPath
	}

	params := url.Values{}
	if cfg.BusyTimeout > 0 {
		params.Set("_busy_timeout", strconv.FormatInt(cfg.BusyTimeout.Milliseconds(), 10))
	}
	if cfg.ReadOnly {
		params.Set("mode", "ro")
	}
	if len(params) == 0 {
		return "file:" + path
	}
	return "file:" + path + "?" + params.Encode()
}

// Open connects to the configured database, retrying until cfg.ConnectTimeout elapses.
func Open(cfg Config) (*gorm.DB, error) {
	driver := driverOf(cfg)

	var dialect func(dsn string) gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialect = sqlite.Open
	case DriverPostgres:
		dialect = postgres.Open
	case DriverMySQL:
		dialect = mysql.Open
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if driver != DriverSQLite && cfg.DSN == "" {
		return nil, fmt.Errorf("%s driver requires DB_DSN", driver)
	}

	opener := func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dialect(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
			// created_atはCURRENT_TIMESTAMPで埋めた旧行と文字列比較で並ぶため、UTCで揃える
			NowFunc: func() time.Time { return time.Now().UTC() },
		})
	}

	dsn := BuildDSN(cfg)
	gdb, err := ConnectWithRetry(dsn, cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite && dsn == memoryPath {
		// :memory: は接続ごとに別DBになる
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	slog.Info("database opened", "driver", driver, "target", describe(cfg, dsn), "read_only", cfg.ReadOnly)
	return gdb, nil
}

// Close releases the connection pool behind gdb.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, opener)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		gdb, err := opener(dsn)
		if err == nil {
			return gdb, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", interval)
		time.Sleep(interval)
	}
}

func driverOf(cfg Config) string {
	d := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if d == "" || d == "sqlite3" {
		return DriverSQLite
	}
	return d
}

// describe avoids logging server credentials.
func describe(cfg Config, dsn string) string {
	if d := driverOf(cfg); d != DriverSQLite {
		return d
	}
	return dsn
}
