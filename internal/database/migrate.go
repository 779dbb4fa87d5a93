package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// goose keeps its dialect and base FS in package globals
var gooseMu sync.Mutex

// MigrateCommand is a goose command understood by RunMigrations
type MigrateCommand string

const (
	MigrateUp      MigrateCommand = "up"
	MigrateDown    MigrateCommand = "down"
	MigrateStatus  MigrateCommand = "status"
	MigrateVersion MigrateCommand = "version"
)

type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Fatalf(format, v...) }

func migrationDir(driver string) (string, string, error) {
	switch driver {
	case DriverSQLite, "sqlite3", "":
		return "migrations/sqlite", "sqlite3", nil
	case DriverPostgres:
		return "migrations/postgres", "postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// MigrationFiles lists the embedded migrations for a driver
func MigrationFiles(driver string) ([]string, error) {
	dir, _, err := migrationDir(driver)
	if err != nil {
		return nil, err
	}
	return fs.Glob(migrationFS, dir+"/*.sql")
}

// RunMigrations executes a goose command against the embedded migrations
func RunMigrations(db *sql.DB, driver string, cmd MigrateCommand, log *zap.Logger) error {
	dir, dialect, err := migrationDir(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(gooseLogger{log: log.Sugar()})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch cmd {
	case MigrateUp:
		err = goose.Up(db, dir)
	case MigrateDown:
		err = goose.Down(db, dir)
	case MigrateStatus:
		err = goose.Status(db, dir)
	case MigrateVersion:
		err = goose.Version(db, dir)
	default:
		return fmt.Errorf("unknown migrate command: %s", cmd)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", cmd, err)
	}
	return nil
}

// Migrate applies all pending migrations to a GORM connection
func Migrate(db *gorm.DB, driver string, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return RunMigrations(sqlDB, driver, MigrateUp, log)
}

// SchemaVersion returns the current goose version of the database
func SchemaVersion(db *gorm.DB, driver string) (int64, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get database instance: %w", err)
	}
	_, dialect, err := migrationDir(driver)
	if err != nil {
		return 0, err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()
	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersion(sqlDB)
}
