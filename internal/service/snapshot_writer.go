package service

import (
	"context"
	"log/slog"

	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/autoposterhub/autoposter/internal/repository"
)

// snapshotWriter serializes persistence of the campaign collection. Saves are
// coalesced: a newer snapshot replaces one still waiting, and a save in
// flight is never interleaved with another write.
type snapshotWriter struct {
	repo    repository.CampaignRepository
	pending chan []models.Campaign
	done    chan struct{}
}

func newSnapshotWriter(repo repository.CampaignRepository) *snapshotWriter {
	w := &snapshotWriter{
		repo:    repo,
		pending: make(chan []models.Campaign, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue hands the writer a snapshot without blocking the mutation that
// produced it. A queued snapshot that has not started saving is dropped in
// favor of the newer one.
func (w *snapshotWriter) Enqueue(snapshot []models.Campaign) {
	for {
		select {
		case w.pending <- snapshot:
			return
		default:
			select {
			case <-w.pending:
			default:
			}
		}
	}
}

func (w *snapshotWriter) run() {
	defer close(w.done)
	for snapshot := range w.pending {
		if err := w.repo.Save(context.Background(), snapshot); err != nil {
			// Best effort: the in-memory state stays authoritative.
			slog.Error("snapshot save failed", "error", err)
		}
	}
}

func (w *snapshotWriter) Close() {
	close(w.pending)
	<-w.done
}
