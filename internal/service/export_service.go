package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/report"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"github.com/digitaltreasurer/treasurer-api/internal/storage"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// SnapshotPrefix is the storage folder holding dated CSV snapshots
const SnapshotPrefix = "snapshots"

// SnapshotResult summarizes one snapshot run
type SnapshotResult struct {
	Keys  []string
	Bytes int64
}

// ExportService archives every group's CSV export to object storage
type ExportService struct {
	groupRepo        *repository.GroupRepository
	contributionRepo *repository.ContributionRepository
	store            storage.Storage
	logger           *zap.Logger
}

func NewExportService(
	groupRepo *repository.GroupRepository,
	contributionRepo *repository.ContributionRepository,
	store storage.Storage,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
		store:            store,
		logger:           logger,
	}
}

var snapshotNameReplacer = strings.NewReplacer("/", "_", `\`, "_")

// SnapshotKey is the storage key of a group's export for the day of at.
// Separators in the group name are flattened so every key stays one level
// below the day.
func SnapshotKey(at time.Time, group string) string {
	return path.Join(SnapshotPrefix, at.Format("2006-01-02"), report.CSVFilename(snapshotNameReplacer.Replace(group)))
}

// SnapshotAll writes one CSV per group. A failing group is logged and the
// run continues, the first error is returned at the end.
func (s *ExportService) SnapshotAll(ctx context.Context, at time.Time) (*SnapshotResult, error) {
	groups, err := s.groupRepo.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	result := &SnapshotResult{}
	var firstErr error
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		key, size, err := s.snapshot(ctx, group, at)
		if err != nil {
			s.logger.Error("snapshot failed", zap.String("group", group), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.Keys = append(result.Keys, key)
		result.Bytes += size
	}

	s.logger.Info("snapshots written",
		zap.Int("groups", len(result.Keys)),
		zap.String("size", humanize.Bytes(uint64(result.Bytes))),
	)
	return result, firstErr
}

func (s *ExportService) snapshot(ctx context.Context, group string, at time.Time) (string, int64, error) {
	contributions, err := s.contributionRepo.ListByGroup(ctx, group)
	if err != nil {
		return "", 0, fmt.Errorf("list contributions of %q: %w", group, err)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, contributions); err != nil {
		return "", 0, err
	}

	key := SnapshotKey(at, group)
	size, err := s.store.Put(ctx, key, "text/csv", &buf)
	if err != nil {
		return "", 0, fmt.Errorf("store %s: %w", key, err)
	}
	return key, size, nil
}
