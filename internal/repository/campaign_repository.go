package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/autoposterhub/autoposter/internal/errors"
	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/redis/go-redis/v9"
)

// SnapshotKey is the single value under which the whole ordered campaign
// collection is stored.
const SnapshotKey = "root_campaigns"

// LegacyFileName is the flat-storage location older builds wrote. It is read
// once, adopted if the primary store is empty, then deleted.
const LegacyFileName = "app_campaigns.json"

type CampaignRepository interface {
	Load(ctx context.Context) ([]models.Campaign, bool, error)
	Save(ctx context.Context, campaigns []models.Campaign) error
}

type campaignRepository struct {
	rdb        *redis.Client
	legacyPath string
	mu         sync.Mutex
}

func NewCampaignRepository(rdb *redis.Client, dataDir string) CampaignRepository {
	return &campaignRepository{
		rdb:        rdb,
		legacyPath: filepath.Join(dataDir, LegacyFileName),
	}
}

// Load returns the last saved snapshot. found is false on first run; that is
// not an error. When the primary store is empty the legacy flat file is
// checked, adopted, and removed.
func (r *campaignRepository) Load(ctx context.Context) ([]models.Campaign, bool, error) {
	raw, err := r.rdb.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return r.loadLegacy(ctx)
		}
		slog.Error(err.Error())
		return nil, false, apperrors.NewStorageError("load", err)
	}

	var campaigns []models.Campaign
	if err := json.Unmarshal(raw, &campaigns); err != nil {
		slog.Error(err.Error())
		return nil, false, apperrors.NewStorageError("load", err)
	}

	return campaigns, true, nil
}

// Save overwrites the stored snapshot. The mutex keeps concurrent saves from
// interleaving into a corrupt partial write; redis applies the SET atomically.
func (r *campaignRepository) Save(ctx context.Context, campaigns []models.Campaign) error {
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}

	raw, err := json.Marshal(campaigns)
	if err != nil {
		slog.Error(err.Error())
		return apperrors.NewStorageError("save", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.rdb.Set(ctx, SnapshotKey, raw, 0).Err(); err != nil {
		slog.Error(err.Error())
		return apperrors.NewStorageError("save", err)
	}

	return nil
}

func (r *campaignRepository) loadLegacy(ctx context.Context) ([]models.Campaign, bool, error) {
	raw, err := os.ReadFile(r.legacyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		slog.Info("legacy storage unreadable, starting empty", "error", err)
		return nil, false, nil
	}

	var campaigns []models.Campaign
	if err := json.Unmarshal(raw, &campaigns); err != nil {
		// Malformed legacy data must not break startup.
		slog.Info("discarding malformed legacy campaign data", "error", err)
		r.removeLegacy()
		return nil, false, nil
	}

	if err := r.Save(ctx, campaigns); err != nil {
		slog.Error("failed to adopt legacy snapshot", "error", err)
	}
	r.removeLegacy()

	slog.Info("migrated legacy campaign storage", "campaigns", len(campaigns))
	return campaigns, true, nil
}

func (r *campaignRepository) removeLegacy() {
	if err := os.Remove(r.legacyPath); err != nil && !os.IsNotExist(err) {
		slog.Info("failed to remove legacy storage file", "error", err)
	}
}
