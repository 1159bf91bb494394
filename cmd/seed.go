package cmd

import (
	"github.com/admin-concierge/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert any missing baseline categories, items, environments and CLI commands",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
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

	if err := db.WithContext(cmd.Context()).Transaction(func(tx *gorm.DB) error {
		return database.Seed(tx)
	}); err != nil {
		return err
	}

	log.Info("Baseline data is present")
	return nil
}
