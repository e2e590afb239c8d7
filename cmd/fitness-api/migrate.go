package main

import (
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/database"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed lookup rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		logger.Info("migration complete", "driver", cfg.GetDriver())
		return nil
	},
}
