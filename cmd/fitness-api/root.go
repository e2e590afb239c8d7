package main

import (
	"fmt"
	"log"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/config"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/database"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	envFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "fitness-api",
	Short:         "Fitness tracker REST backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil {
			log.Println("No .env file found, using system environment")
		}

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(logger.Options{
			Level:       cfg.LogLevel,
			Development: cfg.IsDevelopment(),
			FilePath:    cfg.LogFile,
		})

		if err := cfg.ValidateProductionSecurity(); err != nil {
			return fmt.Errorf("production security validation failed: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// openDatabase connects and brings the schema up to date.
func openDatabase() (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
