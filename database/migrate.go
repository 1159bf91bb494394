package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/admin-concierge/models"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// migration is a schema step expressed against a GORM handle bound to the
// migration transaction.
type migration struct {
	version int64
	name    string
	up      func(tx *gorm.DB) error
}

// Migrations are forward-only: they create or add, never drop or rename.
var migrations = []migration{
	{version: 1, name: "create tables", up: createTables},
	{version: 2, name: "additive columns", up: addColumns},
	{version: 3, name: "seed baseline", up: Seed},
}

// Migrator applies the migration ledger kept in goose_db_version
type Migrator struct {
	db       *gorm.DB
	provider *goose.Provider
	log      *zap.Logger
}

// NewMigrator builds a goose provider whose Go migrations run through db
func NewMigrator(db *gorm.DB, log *zap.Logger) (*Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	dialect := goose.DialectSQLite3
	if db.Dialector.Name() == "postgres" {
		dialect = goose.DialectPostgres
	}

	goMigrations := make([]*goose.Migration, 0, len(migrations))
	for _, m := range migrations {
		goMigrations = append(goMigrations, goose.NewGoMigration(m.version, &goose.GoFunc{RunTx: bindTx(db, m.up)}, nil))
	}

	provider, err := goose.NewProvider(dialect, sqlDB, nil,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(goMigrations...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{db: db, provider: provider, log: log}, nil
}

// Up applies every pending migration. Each runs in its own transaction.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.log.Info("Applied migration",
			zap.Int64("version", r.Source.Version),
			zap.String("name", migrationName(r.Source.Version)),
			zap.Duration("duration", r.Duration),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if len(results) == 0 {
		m.log.Debug("Database schema is up to date")
	}
	return nil
}

// MigrationStatus describes one known migration
type MigrationStatus struct {
	Version int64
	Name    string
	Applied bool
}

// Status reports which migrations have been applied
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}
	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			Name:    migrationName(s.Source.Version),
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

// Migrate opens a migrator over db and applies everything pending
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	m, err := NewMigrator(db, log)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}

// bindTx runs fn against a GORM session that shares goose's transaction
func bindTx(db *gorm.DB, fn func(tx *gorm.DB) error) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		bound := db.Session(&gorm.Session{Context: ctx, NewDB: true})
		bound.Statement.ConnPool = tx
		return fn(bound)
	}
}

func migrationName(version int64) string {
	for _, m := range migrations {
		if m.version == version {
			return m.name
		}
	}
	return ""
}

func createTables(tx *gorm.DB) error {
	migrator := tx.Migrator()
	for _, model := range models.All() {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	return nil
}

// addColumns upgrades databases created before environments and completion
// details existed.
func addColumns(tx *gorm.DB) error {
	migrator := tx.Migrator()

	columns := []struct {
		model interface{}
		field string
		name  string
	}{
		{&models.ComplianceItem{}, "CompletionDetails", "completion_details"},
		{&models.ComplianceItem{}, "EnvironmentID", "environment_id"},
		{&models.AuditLog{}, "EnvironmentID", "environment_id"},
	}

	for _, c := range columns {
		if migrator.HasColumn(c.model, c.name) {
			continue
		}
		if err := migrator.AddColumn(c.model, c.field); err != nil {
			return fmt.Errorf("failed to add column %s: %w", c.name, err)
		}
	}

	for _, idx := range []struct {
		model interface{}
		name  string
	}{
		{&models.ComplianceItem{}, "idx_compliance_items_environment"},
		{&models.AuditLog{}, "idx_audit_logs_environment"},
	} {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	// SQLite cannot add a foreign key to an existing table
	if tx.Dialector.Name() == "postgres" {
		for _, rel := range []string{"Items", "AuditLogs"} {
			if migrator.HasConstraint(&models.Environment{}, rel) {
				continue
			}
			if err := migrator.CreateConstraint(&models.Environment{}, rel); err != nil {
				return fmt.Errorf("failed to create constraint %s: %w", rel, err)
			}
		}
	}

	return nil
}

// CopyData copies every table from source into target in dependency order.
// Rows that already exist in target are left untouched.
func CopyData(ctx context.Context, source, target *gorm.DB, log *zap.Logger) error {
	log.Info("Starting data migration from source to target")

	steps := []struct {
		name string
		copy func() (int, error)
	}{
		{"environments", func() (int, error) { return copyTable[models.Environment](ctx, source, target) }},
		{"compliance_categories", func() (int, error) { return copyTable[models.ComplianceCategory](ctx, source, target) }},
		{"compliance_items", func() (int, error) { return copyTable[models.ComplianceItem](ctx, source, target) }},
		{"cli_commands", func() (int, error) { return copyTable[models.CLICommand](ctx, source, target) }},
		{"audit_logs", func() (int, error) { return copyTable[models.AuditLog](ctx, source, target) }},
	}

	for _, step := range steps {
		n, err := step.copy()
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", step.name, err)
		}
		log.Info("Migrated table", zap.String("table", step.name), zap.Int("rows", n))
	}

	if err := resetSequences(ctx, target); err != nil {
		return err
	}

	log.Info("Data migration completed successfully")
	return nil
}

func copyTable[T any](ctx context.Context, source, target *gorm.DB) (int, error) {
	var rows []T
	if err := source.WithContext(ctx).Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch rows: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	err := target.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, 200).Error
	return len(rows), err
}

// resetSequences moves Postgres serial counters past the copied ids
func resetSequences(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"compliance_categories", "compliance_items", "cli_commands", "audit_logs"} {
		stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", table, table)
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}
