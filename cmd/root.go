// Package cmd holds the admin-concierge command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/admin-concierge/config"
	"github.com/admin-concierge/database"
	"github.com/admin-concierge/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "admin-concierge",
	Short: "Compliance checklist and audit backend for platform administrators",
	Long: `admin-concierge serves the compliance checklist, CLI reference, dashboard
and audit trail API, and manages the database it runs on.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hashKeyCmd)
}

// Execute runs the command line. The server starts when no subcommand is given.
func Execute() {
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{serveCmd.Name()})
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return cfg, log, nil
}

// openMigrated opens the configured database and applies pending migrations
func openMigrated(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(cmd.Context(), db, log); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}
