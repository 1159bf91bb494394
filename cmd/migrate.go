package cmd

import (
	"fmt"

	"github.com/admin-concierge/config"
	"github.com/admin-concierge/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateUpCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE:  runMigrateUp,
	}
	migrateStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE:  runMigrateStatus,
	}
	migrateCopyCmd = &cobra.Command{
		Use:   "copy",
		Short: "Copy all data from one database to another",
		Long: `Copies environments, categories, items, CLI commands and audit logs from
--source into --target. The target is migrated first and rows that already
exist there are skipped.`,
		RunE: runMigrateCopy,
	}

	copySource string
	copyTarget string
)

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateCopyCmd)

	migrateCopyCmd.Flags().StringVar(&copySource, "source", "", "source database URL (SQLite path or postgres://)")
	migrateCopyCmd.Flags().StringVar(&copyTarget, "target", "", "target database URL (SQLite path or postgres://)")
	_ = migrateCopyCmd.MarkFlagRequired("source")
	_ = migrateCopyCmd.MarkFlagRequired("target")
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := openMigrated(cmd, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	log.Info("Database is up to date")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	migrator, err := database.NewMigrator(db, log)
	if err != nil {
		return err
	}
	statuses, err := migrator.Status(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Fprintf(out, "%05d  %-20s  %s\n", s.Version, s.Name, state)
	}
	return nil
}

func runMigrateCopy(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sourceCfg := cfg.Database
	sourceCfg.URL = copySource
	targetCfg := cfg.Database
	targetCfg.URL = copyTarget

	source, err := database.Open(sourceCfg, log.Named("source"))
	if err != nil {
		return fmt.Errorf("connecting to source database: %w", err)
	}
	defer func() { _ = database.Close(source) }()

	target, err := openMigrated(cmd, &config.Config{Database: targetCfg}, log.Named("target"))
	if err != nil {
		return fmt.Errorf("preparing target database: %w", err)
	}
	defer func() { _ = database.Close(target) }()

	if err := database.CopyData(cmd.Context(), source, target, log); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}

	log.Info("Database copy completed",
		zap.String("source_driver", string(database.DriverFor(copySource))),
		zap.String("target_driver", string(database.DriverFor(copyTarget))),
	)
	return nil
}
