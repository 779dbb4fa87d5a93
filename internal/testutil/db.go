package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/config"
	"github.com/digitaltreasurer/treasurer-api/internal/database"
	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestDatabaseConfig returns a config for a private in-memory SQLite database
func TestDatabaseConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   fmt.Sprintf("file:%s?mode=memory", uuid.NewString()),
	}
}

// SetupTestDB opens a fresh in-memory SQLite database with all migrations applied
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := TestDatabaseConfig()
	db, err := database.NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, database.Migrate(db, cfg.Driver, zap.NewNop()), "failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateTestGroup inserts a group with default attributes
func CreateTestGroup(t *testing.T, db *gorm.DB, name string) *domain.Group {
	t.Helper()
	group := &domain.Group{
		Name:        name,
		CreatedAt:   time.Now(),
		EventType:   domain.EventTypeOther,
		HasFirewood: true,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(group).Error)
	return group
}

// CreateTestContribution inserts a contribution paid by M-Pesa for the Other event
func CreateTestContribution(t *testing.T, db *gorm.DB, group, member string, amount float64) *domain.Contribution {
	t.Helper()
	c := &domain.Contribution{
		GroupName:   group,
		MemberName:  member,
		Amount:      amount,
		PaymentMode: domain.PaymentModeMpesa,
		EventType:   domain.EventTypeOther,
		DateAdded:   time.Now(),
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateTestLogistics inserts a logistics record without dedup
func CreateTestLogistics(t *testing.T, db *gorm.DB, group, member, item string) *domain.LogisticsRecord {
	t.Helper()
	r := &domain.LogisticsRecord{
		GroupName:  group,
		MemberName: member,
		ItemType:   item,
		DateAdded:  time.Now(),
	}
	require.NoError(t, db.Create(r).Error)
	return r
}
