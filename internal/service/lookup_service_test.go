package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"github.com/digitaltreasurer/treasurer-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createLookupService(db *gorm.DB) *service.LookupService {
	return service.NewLookupService(
		repository.NewGroupRepository(db),
		repository.NewContributionRepository(db),
		repository.NewLogisticsRepository(db),
		0,
		"KES",
		zap.NewNop(),
	)
}

func TestLookupService_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLookupService(db)
	ctx := context.Background()

	testutil.CreateTestGroup(t, db, "Empty")
	testutil.CreateTestGroup(t, db, "Busy")
	testutil.CreateTestGroup(t, db, "Neighbour")
	testutil.CreateTestContribution(t, db, "Neighbour", "Outsider", 10000)
	for i := 1; i <= 7; i++ {
		testutil.CreateTestContribution(t, db, "Busy", fmt.Sprintf("Member %d", i), float64(i*100))
	}

	t.Run("empty group", func(t *testing.T) {
		summary, err := svc.Summary(ctx, "Empty")
		require.NoError(t, err)
		assert.False(t, summary.HasData)
		assert.Equal(t, "No records found for this group.", summary.Message)
		assert.Zero(t, summary.Total)
		assert.Empty(t, summary.Recent)
	})

	t.Run("total and latest five", func(t *testing.T) {
		summary, err := svc.Summary(ctx, "Busy")
		require.NoError(t, err)
		assert.True(t, summary.HasData)
		assert.Equal(t, 2800.0, summary.Total)
		assert.Equal(t, "KES", summary.Currency)
		require.Len(t, summary.Recent, service.DefaultRecentLimit)
		assert.Equal(t, "Member 7", summary.Recent[0].MemberName)
		assert.Equal(t, "Member 3", summary.Recent[4].MemberName)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.Summary(ctx, "Missing")
		assert.ErrorIs(t, err, service.ErrGroupNotFound)
	})
}

func TestLookupService_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLookupService(db)
	ctx := context.Background()

	testutil.CreateTestGroup(t, db, "Kamau")
	testutil.CreateTestGroup(t, db, "Other")
	testutil.CreateTestContribution(t, db, "Kamau", "John Kamau", 500)
	testutil.CreateTestContribution(t, db, "Kamau", "John Kamau", 250)
	testutil.CreateTestContribution(t, db, "Kamau", "Mary Njeri", 300)
	testutil.CreateTestContribution(t, db, "Other", "Peter Otieno", 300)
	testutil.CreateTestLogistics(t, db, "Kamau", "John Kamau", domain.ItemFirewood)
	testutil.CreateTestLogistics(t, db, "Kamau", "Baba Akinyi", domain.ItemFirewood)

	t.Run("found with firewood badge", func(t *testing.T) {
		result, err := svc.Search(ctx, "Kamau", "John")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchStatusFound, result.Status)
		assert.Equal(t, "Found 2 record(s)", result.Message)
		require.Len(t, result.Matches, 2)
		assert.True(t, result.Matches[0].Firewood)
		assert.Equal(t, 500.0, result.Matches[0].Amount)
	})

	t.Run("found without badge", func(t *testing.T) {
		result, err := svc.Search(ctx, "Kamau", "Njeri")
		require.NoError(t, err)
		require.Len(t, result.Matches, 1)
		assert.False(t, result.Matches[0].Firewood)
	})

	t.Run("firewood only", func(t *testing.T) {
		result, err := svc.Search(ctx, "Kamau", "Akinyi")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchStatusFirewoodOnly, result.Status)
		assert.Equal(t, "Found Firewood Record. Amount: Pending", result.Message)
		assert.Empty(t, result.Matches)
	})

	t.Run("case sensitive", func(t *testing.T) {
		result, err := svc.Search(ctx, "Kamau", "john")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchStatusNotFound, result.Status)
		assert.Equal(t, "Name not found. Please check spelling.", result.Message)
	})

	t.Run("other groups are invisible", func(t *testing.T) {
		result, err := svc.Search(ctx, "Kamau", "Peter")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchStatusNotFound, result.Status)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Search(ctx, "Kamau", "  ")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}
