package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (CampaignRepository, *redis.Client, string) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	dataDir := t.TempDir()
	return NewCampaignRepository(rdb, dataDir), rdb, dataDir
}

func sampleCampaigns() []models.Campaign {
	return []models.Campaign{
		{
			ID:        "camp-2",
			UserID:    "user-1",
			Title:     "newest",
			State:     models.CampaignStateCreated,
			Platforms: []string{models.PlatformTwitter},
			Posts: []models.Post{
				{ID: "post-a", Day: 1, Title: "hook", Content: "body", Hashtags: []string{"#go"}, Status: models.PostStatusPending},
			},
		},
		{
			ID:        "camp-1",
			UserID:    "user-1",
			Title:     "oldest",
			State:     models.CampaignStateCompleted,
			Platforms: []string{models.PlatformLinkedin},
		},
	}
}

func TestFirstRunIsEmpty(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	campaigns, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, campaigns)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t)

	want := sampleCampaigns()
	require.NoError(t, repo.Save(ctx, want))

	got, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	// Order survives the round trip.
	assert.Equal(t, "camp-2", got[0].ID)
	assert.Equal(t, "camp-1", got[1].ID)
}

func TestSaveEmptyCollectionIsFound(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, nil))

	got, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found, "an emptied collection is a stored state, not a first run")
	assert.Empty(t, got)
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, sampleCampaigns()))
	require.NoError(t, repo.Save(ctx, sampleCampaigns()[:1]))

	got, _, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "camp-2", got[0].ID)
}

func TestLegacyMigration(t *testing.T) {
	ctx := context.Background()
	repo, rdb, dataDir := newTestRepository(t)

	legacy := sampleCampaigns()
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	legacyPath := filepath.Join(dataDir, LegacyFileName)
	require.NoError(t, os.WriteFile(legacyPath, raw, 0o644))

	got, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, legacy, got)

	// Adopted into the primary store and the file is gone.
	require.NoError(t, rdb.Get(ctx, SnapshotKey).Err())
	_, statErr := os.Stat(legacyPath)
	assert.True(t, os.IsNotExist(statErr))

	// A second load serves the adopted snapshot, not the file.
	got, found, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, legacy, got)
}

func TestMalformedLegacyIsDiscarded(t *testing.T) {
	ctx := context.Background()
	repo, _, dataDir := newTestRepository(t)

	legacyPath := filepath.Join(dataDir, LegacyFileName)
	require.NoError(t, os.WriteFile(legacyPath, []byte("{not json"), 0o644))

	campaigns, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, campaigns)

	_, statErr := os.Stat(legacyPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPrimaryStoreWinsOverLegacy(t *testing.T) {
	ctx := context.Background()
	repo, _, dataDir := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, sampleCampaigns()[:1]))

	stale := sampleCampaigns()
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	legacyPath := filepath.Join(dataDir, LegacyFileName)
	require.NoError(t, os.WriteFile(legacyPath, raw, 0o644))

	got, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, got, 1)

	// The legacy file is only consulted when the primary store is empty.
	_, statErr := os.Stat(legacyPath)
	assert.NoError(t, statErr)
}
