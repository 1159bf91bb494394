package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/admin-concierge/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Driver names the SQL dialect behind a database URL
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DriverFor picks the dialect from the URL scheme. Anything that is not a
// postgres URL is treated as a SQLite path or DSN.
func DriverFor(url string) Driver {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Open sets up the GORM database connection described by cfg
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	// Configure GORM logger
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  gormLogLevel(log),
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	driver := DriverFor(cfg.URL)

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.URL)
	default:
		dsn, err := sqliteDSN(cfg.URL)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	// Get and configure the underlying SQL DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	// Set connection pool settings
	if driver == DriverSQLite {
		// SQLite allows a single writer. One shared connection also keeps
		// shared-cache in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)

		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	log.Info("Connected to database", zap.String("driver", string(driver)), zap.String("version", serverVersion(db, driver)))

	return db, nil
}

// Close releases the connection pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database answers
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// sqliteDSN creates the parent directory of a file database and makes sure
// foreign keys are enforced on every connection.
func sqliteDSN(url string) (string, error) {
	path := strings.TrimPrefix(url, "sqlite://")
	file := strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(file, '?'); i >= 0 {
		file = file[:i]
	}

	if file != ":memory:" && !strings.Contains(path, "mode=memory") {
		if dir := filepath.Dir(file); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	params := []string{}
	if !strings.Contains(path, "_foreign_keys") && !strings.Contains(path, "_fk=") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(path, "_busy_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if len(params) == 0 {
		return path, nil
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&"), nil
}

func serverVersion(db *gorm.DB, driver Driver) string {
	query := "SELECT version()"
	if driver == DriverSQLite {
		query = "SELECT sqlite_version()"
	}
	var version string
	if err := db.Raw(query).Scan(&version).Error; err != nil {
		return "unknown"
	}
	return version
}

func gormLogLevel(log *zap.Logger) logger.LogLevel {
	switch {
	case log.Core().Enabled(zap.DebugLevel):
		return logger.Info
	case log.Core().Enabled(zap.WarnLevel):
		return logger.Warn
	default:
		return logger.Error
	}
}
