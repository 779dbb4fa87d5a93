package service_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"github.com/digitaltreasurer/treasurer-api/internal/storage"
	"github.com/digitaltreasurer/treasurer-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshotKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "snapshots/2024-03-05/Kamau Family_data.csv", service.SnapshotKey(at, "Kamau Family"))
	assert.Equal(t, "snapshots/2024-03-05/a_b_data.csv", service.SnapshotKey(at, "a/b"))
	assert.Equal(t, "snapshots/2024-03-05/Ngugi_Sons_data.csv", service.SnapshotKey(at, `Ngugi\Sons`))
	assert.Equal(t, "snapshots/2024-03-05/.._x_data.csv", service.SnapshotKey(at, "../x"))
}

func TestExportService_SnapshotAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := service.NewExportService(
		repository.NewGroupRepository(db),
		repository.NewContributionRepository(db),
		store,
		zap.NewNop(),
	)

	testutil.CreateTestGroup(t, db, "Kamau")
	testutil.CreateTestGroup(t, db, "Empty")
	testutil.CreateTestContribution(t, db, "Kamau", "Jane", 1500)

	at := time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC)
	result, err := svc.SnapshotAll(ctx, at)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"snapshots/2024-03-05/Empty_data.csv",
		"snapshots/2024-03-05/Kamau_data.csv",
	}, result.Keys)
	assert.Positive(t, result.Bytes)

	keys, err := store.List(ctx, "snapshots/2024-03-05/")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	rc, err := store.Get(ctx, "snapshots/2024-03-05/Kamau_data.csv")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "member_name,amount,"))
	assert.Contains(t, string(body), "Jane,1500.0,M-Pesa")

	t.Run("cancelled context stops the run", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.SnapshotAll(cancelled, at)
		assert.Error(t, err)
	})
}
