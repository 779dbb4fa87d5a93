package main

import (
	"fmt"
	"os"

	"github.com/digitaltreasurer/treasurer-api/internal/config"
	"github.com/digitaltreasurer/treasurer-api/internal/database"
	"github.com/digitaltreasurer/treasurer-api/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Global flags
	verbose bool
	dbPath  string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "treasurerctl",
	Short: "Administer a Digital Treasurer database",
	Long: `treasurerctl runs maintenance tasks against the same database the API uses:
schema migrations, admin accounts, CSV exports and event reports.

Configuration is read the same way as the API (config.json, .env and
environment variables). --db points it at a different SQLite file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dbPath != "" {
			loaded.Database.Driver = database.DriverSQLite
			loaded.Database.Path = dbPath
		}
		loaded.Logging.Level = "warn"
		if verbose {
			loaded.Logging.Level = "debug"
		}
		cfg = loaded

		log, err = logger.NewLogger(&cfg.Logging, &cfg.App)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (overrides config)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(reportCmd)
}

// openDB connects with the loaded configuration and applies pending
// migrations when database.autoMigrate is set
func openDB() (*gorm.DB, func(), error) {
	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database.Driver, log); err != nil {
			return nil, nil, err
		}
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
