package main

import (
	"database/sql"
	"fmt"
	"path"

	"github.com/digitaltreasurer/treasurer-api/internal/database"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|version]",
	Short:     "Run schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status", "version"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := openSQL()
	if err != nil {
		return err
	}
	defer db.Close()

	command := database.MigrateCommand(args[0])
	if err := database.RunMigrations(db, cfg.Database.Driver, command, log); err != nil {
		return err
	}
	switch command {
	case database.MigrateUp, database.MigrateDown:
		fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", command)
	case database.MigrateStatus:
		files, err := database.MigrationFiles(cfg.Database.Driver)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d embedded migration(s):\n", len(files))
		for _, f := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path.Base(f))
		}
	}
	return nil
}

// openSQL opens a plain database/sql handle for goose
func openSQL() (*sql.DB, error) {
	var (
		driverName string
		dsn        string
	)
	switch cfg.Database.Driver {
	case database.DriverPostgres:
		driverName, dsn = "postgres", cfg.Database.ConnectionString()
	case database.DriverSQLite, "":
		driverName, dsn = "sqlite3", cfg.Database.SQLiteDSN()
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
