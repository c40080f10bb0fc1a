package service

import (
	"errors"
	"testing"

	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotWriterDrainsBeforeClose(t *testing.T) {
	repo := &fakeRepo{}
	w := newSnapshotWriter(repo)

	w.Enqueue([]models.Campaign{{ID: "camp-1"}})
	w.Close()

	require.GreaterOrEqual(t, repo.saveCount(), 1)
	last := repo.last()
	require.Len(t, last, 1)
	assert.Equal(t, "camp-1", last[0].ID)
}

func TestSnapshotWriterCoalesces(t *testing.T) {
	repo := &fakeRepo{}
	w := newSnapshotWriter(repo)

	for i := 0; i < 100; i++ {
		w.Enqueue([]models.Campaign{{ID: "camp-old"}})
	}
	w.Enqueue([]models.Campaign{{ID: "camp-new"}})
	w.Close()

	last := repo.last()
	require.Len(t, last, 1)
	assert.Equal(t, "camp-new", last[0].ID)
}

func TestSnapshotWriterSurvivesSaveFailure(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("redis down")}
	w := newSnapshotWriter(repo)

	w.Enqueue([]models.Campaign{{ID: "camp-1"}})
	w.Enqueue(nil)
	w.Close()

	// No panic and the writer kept consuming.
	assert.Zero(t, repo.saveCount())
}
