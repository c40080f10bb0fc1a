package job

import (
	"context"
	"log/slog"

	"github.com/autoposterhub/autoposter/internal/service"
)

// SnapshotFlushJob periodically writes the in-memory campaign collection to
// the snapshot store as a safety net alongside the per-mutation saves.
type SnapshotFlushJob struct {
	cs service.CampaignService
}

func NewSnapshotFlushJob(cs service.CampaignService) *SnapshotFlushJob {
	return &SnapshotFlushJob{cs: cs}
}

func (j *SnapshotFlushJob) Flush() {
	ctx := context.Background()

	if err := j.cs.Flush(ctx); err != nil {
		slog.Info("periodic snapshot flush failed", "error", err)
	}
}
