package service_test

import (
	"context"
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

func createGroupService(db *gorm.DB, baseURL string) *service.GroupService {
	return service.NewGroupService(repository.NewGroupRepository(db), baseURL, zap.NewNop())
}

func boolPtr(b bool) *bool { return &b }

func TestGroupService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createGroupService(db, "")
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		group, err := svc.Create(ctx, &domain.CreateGroupRequest{Name: "  Kamau Family "})
		require.NoError(t, err)
		assert.Equal(t, "Kamau Family", group.Name)
		assert.Equal(t, domain.EventTypeOther, group.EventType)
		assert.True(t, group.HasFirewood)
		assert.NotEmpty(t, group.CreatedAt)
	})

	t.Run("explicit attributes", func(t *testing.T) {
		group, err := svc.Create(ctx, &domain.CreateGroupRequest{
			Name:        "Otieno Wedding",
			EventType:   domain.EventTypeWedding,
			HasFirewood: boolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.EventTypeWedding, group.EventType)
		assert.False(t, group.HasFirewood)

		stored, err := svc.Get(ctx, "Otieno Wedding")
		require.NoError(t, err)
		assert.False(t, stored.HasFirewood)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateGroupRequest{Name: "Kamau Family"})
		assert.ErrorIs(t, err, service.ErrGroupExists)
	})

	t.Run("names differing only in case are distinct", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateGroupRequest{Name: "kamau family"})
		assert.NoError(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateGroupRequest{Name: "   "})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown event type", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateGroupRequest{Name: "Party", EventType: "Party"})
		assert.ErrorIs(t, err, service.ErrInvalidEventType)
	})
}

func TestGroupService_Names(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createGroupService(db, "")
	ctx := context.Background()

	names, err := svc.Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)

	testutil.CreateTestGroup(t, db, "Zawadi")
	testutil.CreateTestGroup(t, db, "Amani")

	names, err = svc.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amani", "Zawadi"}, names)
}

func TestGroupService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createGroupService(db, "")
	ctx := context.Background()

	testutil.CreateTestGroup(t, db, "Mwangi")
	testutil.CreateTestContribution(t, db, "Mwangi", "John", 500)
	testutil.CreateTestLogistics(t, db, "Mwangi", "John", domain.ItemFirewood)
	testutil.CreateTestGroup(t, db, "Taken")

	t.Run("change event and firewood", func(t *testing.T) {
		event := domain.EventTypeBurial
		group, err := svc.Update(ctx, "Mwangi", &domain.UpdateGroupRequest{
			EventType:   &event,
			HasFirewood: boolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.EventTypeBurial, group.EventType)
		assert.False(t, group.HasFirewood)
	})

	t.Run("rename moves records", func(t *testing.T) {
		newName := "Mwangi Burial"
		group, err := svc.Update(ctx, "Mwangi", &domain.UpdateGroupRequest{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "Mwangi Burial", group.Name)

		count, err := repository.NewContributionRepository(db).Count(ctx, "Mwangi Burial")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		_, err = svc.Get(ctx, "Mwangi")
		assert.ErrorIs(t, err, service.ErrGroupNotFound)
	})

	t.Run("rename to a taken name", func(t *testing.T) {
		taken := "Taken"
		_, err := svc.Update(ctx, "Mwangi Burial", &domain.UpdateGroupRequest{Name: &taken})
		assert.ErrorIs(t, err, service.ErrGroupExists)
	})

	t.Run("failed rename keeps other changes unsaved", func(t *testing.T) {
		taken := "Taken"
		event := domain.EventTypeWedding
		_, err := svc.Update(ctx, "Mwangi Burial", &domain.UpdateGroupRequest{
			Name:        &taken,
			EventType:   &event,
			HasFirewood: boolPtr(true),
		})
		assert.ErrorIs(t, err, service.ErrGroupExists)

		group, err := svc.Get(ctx, "Mwangi Burial")
		require.NoError(t, err)
		assert.Equal(t, domain.EventTypeBurial, group.EventType)
		assert.False(t, group.HasFirewood)

		other, err := svc.Get(ctx, "Taken")
		require.NoError(t, err)
		assert.NotEqual(t, domain.EventTypeWedding, other.EventType)
	})

	t.Run("blank name saves nothing", func(t *testing.T) {
		blank := "   "
		event := domain.EventTypeWedding
		_, err := svc.Update(ctx, "Mwangi Burial", &domain.UpdateGroupRequest{
			Name:      &blank,
			EventType: &event,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		group, err := svc.Get(ctx, "Mwangi Burial")
		require.NoError(t, err)
		assert.Equal(t, domain.EventTypeBurial, group.EventType)
	})

	t.Run("invalid event", func(t *testing.T) {
		event := domain.EventType("Graduation")
		_, err := svc.Update(ctx, "Taken", &domain.UpdateGroupRequest{EventType: &event})
		assert.ErrorIs(t, err, service.ErrInvalidEventType)
	})

	t.Run("missing group", func(t *testing.T) {
		_, err := svc.Update(ctx, "Nobody", &domain.UpdateGroupRequest{})
		assert.ErrorIs(t, err, service.ErrGroupNotFound)
	})
}

func TestGroupService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createGroupService(db, "")
	ctx := context.Background()

	testutil.CreateTestGroup(t, db, "Gone")
	testutil.CreateTestContribution(t, db, "Gone", "A", 100)

	require.NoError(t, svc.Delete(ctx, "Gone"))

	exists, err := svc.Exists(ctx, "Gone")
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := repository.NewContributionRepository(db).Count(ctx, "Gone")
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Delete(ctx, "Gone"), service.ErrGroupNotFound)
}

func TestGroupService_Link(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	testutil.CreateTestGroup(t, db, "Wanjiru & Sons")

	t.Run("query only without base url", func(t *testing.T) {
		link, err := createGroupService(db, "").Link(ctx, "Wanjiru & Sons")
		require.NoError(t, err)
		assert.Equal(t, "?group=Wanjiru%20%26%20Sons", link.Query)
		assert.Empty(t, link.URL)
	})

	t.Run("full url with base url", func(t *testing.T) {
		link, err := createGroupService(db, "https://treasurer.example.com/").Link(ctx, "Wanjiru & Sons")
		require.NoError(t, err)
		assert.Equal(t, "https://treasurer.example.com/?group=Wanjiru%20%26%20Sons", link.URL)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := createGroupService(db, "").Link(ctx, "Missing")
		assert.ErrorIs(t, err, service.ErrGroupNotFound)
	})
}

func TestQuoteGroupName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Kamau", "Kamau"},
		{"Kamau Family", "Kamau%20Family"},
		{"A+B", "A%2BB"},
		{"Mama/Baba", "Mama%2FBaba"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.QuoteGroupName(tt.name))
		})
	}
}
