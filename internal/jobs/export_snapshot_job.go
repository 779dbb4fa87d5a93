package jobs

import (
	"context"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"go.uber.org/zap"
)

// ExportSnapshotJobName is the scheduler name of the nightly CSV archive
const ExportSnapshotJobName = "export_snapshot"

// Snapshotter writes one CSV per client group to object storage
type Snapshotter interface {
	SnapshotAll(ctx context.Context, at time.Time) (*service.SnapshotResult, error)
}

// ExportSnapshotJob archives every group's export on a schedule
type ExportSnapshotJob struct {
	snapshotter Snapshotter
	logger      *zap.Logger
	timeout     time.Duration
	now         func() time.Time
}

func NewExportSnapshotJob(snapshotter Snapshotter, logger *zap.Logger, timeout time.Duration) *ExportSnapshotJob {
	return &ExportSnapshotJob{
		snapshotter: snapshotter,
		logger:      logger,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Run takes one snapshot, bounded by the job timeout
func (j *ExportSnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := j.now()
	result, err := j.snapshotter.SnapshotAll(ctx, start.UTC())
	if err != nil {
		j.logger.Error("export snapshot failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	j.logger.Info("export snapshot completed",
		zap.Int("groups", len(result.Keys)),
		zap.Duration("duration", time.Since(start)))
}

// RegisterExportSnapshotJob adds the snapshot job to the scheduler
func RegisterExportSnapshotJob(scheduler *Scheduler, snapshotter Snapshotter, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewExportSnapshotJob(snapshotter, logger, timeout)
	return scheduler.AddJob(ExportSnapshotJobName, cronExpr, job.Run)
}
