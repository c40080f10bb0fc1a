package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	apperrors "github.com/autoposterhub/autoposter/internal/errors"
	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/autoposterhub/autoposter/internal/repository"
	"github.com/autoposterhub/autoposter/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CampaignService owns the in-memory campaign collection, the single source
// of truth for the session. Every mutation is mirrored to the snapshot store
// best-effort; storage failures never roll back a mutation.
type CampaignService interface {
	List(ctx context.Context, userID string) []models.Campaign
	Get(ctx context.Context, userID, campaignID string) (*models.Campaign, bool)
	Create(ctx context.Context, userID string, dto *transfer.CreateCampaignDTO) (*models.Campaign, error)
	Delete(ctx context.Context, userID, campaignID string)
	UpdatePost(ctx context.Context, userID, campaignID string, post models.Post)
	DeletePost(ctx context.Context, userID, campaignID, postID string)
	AddHashtag(ctx context.Context, userID, campaignID, postID, tag string)
	RemoveHashtag(ctx context.Context, userID, campaignID, postID, tag string)
	ApplyShareResult(ctx context.Context, userID, campaignID, postID string, success bool)
	BackfillImages(ctx context.Context, campaignID string) error
	Flush(ctx context.Context) error
	Close()
}

type campaignService struct {
	mu        sync.Mutex
	campaigns []models.Campaign

	repo   repository.CampaignRepository
	gemini GeminiService
	writer *snapshotWriter
}

// NewCampaignService loads the stored snapshot once. A storage failure is
// logged and the manager starts empty, in-memory only.
func NewCampaignService(ctx context.Context, repo repository.CampaignRepository, gemini GeminiService) CampaignService {
	campaigns, found, err := repo.Load(ctx)
	if err != nil {
		slog.Error("snapshot load failed, starting in-memory only", "error", err)
		campaigns = nil
	} else if !found {
		slog.Info("no stored campaigns, starting empty")
	}

	return &campaignService{
		campaigns: campaigns,
		repo:      repo,
		gemini:    gemini,
		writer:    newSnapshotWriter(repo),
	}
}

func (s *campaignService) List(ctx context.Context, userID string) []models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Campaign, 0, len(s.campaigns))
	for i := range s.campaigns {
		if s.campaigns[i].UserID == userID {
			result = append(result, cloneCampaign(&s.campaigns[i]))
		}
	}
	return result
}

func (s *campaignService) Get(ctx context.Context, userID, campaignID string) (*models.Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.find(userID, campaignID); c != nil {
		clone := cloneCampaign(c)
		return &clone, true
	}
	return nil, false
}

// Create validates the DTO, asks the generation client for the full plan, and
// only then prepends the new campaign (most-recent-first). A generation
// failure leaves the collection untouched; a half-built campaign is never
// persisted. Zero generated posts is a usable empty campaign, not an error.
func (s *campaignService) Create(ctx context.Context, userID string, dto *transfer.CreateCampaignDTO) (*models.Campaign, error) {
	if err := validateCreate(dto); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if strings.TrimSpace(dto.TargetAudience) == "" {
		dto.TargetAudience = "general audience"
	}

	posts, err := s.gemini.GenerateCampaignContent(ctx, dto)
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	campaign := models.Campaign{
		ID:                 "camp-" + id,
		UserID:             userID,
		Title:              dto.Title,
		Topic:              dto.Topic,
		TargetAudience:     dto.TargetAudience,
		PostsPerDay:        dto.PostsPerDay,
		DurationDays:       dto.DurationDays,
		State:              models.CampaignStateCreated,
		CreatedAt:          time.Now().Format(time.RFC3339),
		Posts:              posts,
		Platforms:          dto.Platforms,
		ReferenceImage:     dto.ReferenceImage,
		ReferenceImageType: dto.ReferenceImageType,
	}

	s.mu.Lock()
	s.campaigns = append([]models.Campaign{campaign}, s.campaigns...)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.writer.Enqueue(snapshot)

	clone := cloneCampaign(&campaign)
	return &clone, nil
}

// Delete removes the campaign by id. A missing id is a no-op, not an error.
func (s *campaignService) Delete(ctx context.Context, userID, campaignID string) {
	s.mu.Lock()
	kept := s.campaigns[:0]
	removed := false
	for i := range s.campaigns {
		if s.campaigns[i].ID == campaignID && s.campaigns[i].UserID == userID {
			removed = true
			continue
		}
		kept = append(kept, s.campaigns[i])
	}
	s.campaigns = kept
	snapshot := s.snapshot()
	s.mu.Unlock()

	if removed {
		s.writer.Enqueue(snapshot)
	}
}

// UpdatePost replaces the post with a matching id in place, preserving the
// order of the sequence. Missing campaign or post ids fail silently.
func (s *campaignService) UpdatePost(ctx context.Context, userID, campaignID string, post models.Post) {
	s.mu.Lock()
	updated := false
	if c := s.find(userID, campaignID); c != nil {
		for i := range c.Posts {
			if c.Posts[i].ID == post.ID {
				c.Posts[i] = post
				updated = true
				break
			}
		}
	}
	snapshot := s.snapshot()
	s.mu.Unlock()

	if updated {
		s.writer.Enqueue(snapshot)
	}
}

func (s *campaignService) DeletePost(ctx context.Context, userID, campaignID, postID string) {
	s.mu.Lock()
	removed := false
	if c := s.find(userID, campaignID); c != nil {
		kept := c.Posts[:0]
		for i := range c.Posts {
			if c.Posts[i].ID == postID {
				removed = true
				continue
			}
			kept = append(kept, c.Posts[i])
		}
		c.Posts = kept
	}
	snapshot := s.snapshot()
	s.mu.Unlock()

	if removed {
		s.writer.Enqueue(snapshot)
	}
}

// AddHashtag normalizes the tag to a leading # and rejects a duplicate
// (case-sensitive exact match) as a no-op.
func (s *campaignService) AddHashtag(ctx context.Context, userID, campaignID, postID, tag string) {
	normalized := models.NormalizeHashtag(tag)
	if normalized == "" || normalized == "#" {
		return
	}

	s.mu.Lock()
	added := false
	if post := s.findPost(userID, campaignID, postID); post != nil {
		duplicate := false
		for _, existing := range post.Hashtags {
			if existing == normalized {
				duplicate = true
				break
			}
		}
		if !duplicate {
			post.Hashtags = append(post.Hashtags, normalized)
			added = true
		}
	}
	snapshot := s.snapshot()
	s.mu.Unlock()

	if added {
		s.writer.Enqueue(snapshot)
	}
}

func (s *campaignService) RemoveHashtag(ctx context.Context, userID, campaignID, postID, tag string) {
	normalized := models.NormalizeHashtag(tag)

	s.mu.Lock()
	removed := false
	if post := s.findPost(userID, campaignID, postID); post != nil {
		kept := post.Hashtags[:0]
		for _, existing := range post.Hashtags {
			if existing == normalized {
				removed = true
				continue
			}
			kept = append(kept, existing)
		}
		post.Hashtags = kept
	}
	snapshot := s.snapshot()
	s.mu.Unlock()

	if removed {
		s.writer.Enqueue(snapshot)
	}
}

// ApplyShareResult transitions the post to published on success. There is no
// transition on failure; the failed status stays reserved for a real
// publishing integration.
func (s *campaignService) ApplyShareResult(ctx context.Context, userID, campaignID, postID string, success bool) {
	if !success {
		return
	}

	s.mu.Lock()
	changed := false
	if post := s.findPost(userID, campaignID, postID); post != nil {
		post.Status = models.PostStatusPublished
		changed = true
	}
	snapshot := s.snapshot()
	s.mu.Unlock()

	if changed {
		s.writer.Enqueue(snapshot)
	}
}

// BackfillImages generates an image for every post still lacking one,
// strictly one request in flight at a time. A per-post failure is logged and
// skipped, never aborting the batch, and each success is persisted
// immediately so partial progress survives a crash mid-batch.
func (s *campaignService) BackfillImages(ctx context.Context, campaignID string) error {
	type pendingImage struct {
		postID string
		prompt string
	}

	s.mu.Lock()
	var referenceImage string
	var queue []pendingImage
	for i := range s.campaigns {
		if s.campaigns[i].ID != campaignID {
			continue
		}
		referenceImage = s.campaigns[i].ReferenceImage
		for _, post := range s.campaigns[i].Posts {
			if post.ImageURL != "" {
				continue
			}
			prompt := post.ImagePrompt
			if prompt == "" {
				prompt = composePrompt(post.Title, post.Content)
			}
			queue = append(queue, pendingImage{postID: post.ID, prompt: prompt})
		}
		break
	}
	s.mu.Unlock()

	for _, item := range queue {
		imageURL, err := s.gemini.GeneratePostImage(ctx, item.prompt, referenceImage)
		if err != nil {
			slog.Info("image generation failed", "post_id", item.postID, "error", err)
			continue
		}
		if imageURL == "" {
			slog.Info("image generation returned no image", "post_id", item.postID)
			continue
		}

		s.mu.Lock()
		updated := false
		for i := range s.campaigns {
			if s.campaigns[i].ID != campaignID {
				continue
			}
			for j := range s.campaigns[i].Posts {
				if s.campaigns[i].Posts[j].ID == item.postID {
					s.campaigns[i].Posts[j].ImageURL = imageURL
					s.campaigns[i].Posts[j].ImagePrompt = item.prompt
					updated = true
					break
				}
			}
			break
		}
		snapshot := s.snapshot()
		s.mu.Unlock()

		if !updated {
			continue
		}

		// Persist incrementally rather than once at the end of the batch.
		if err := s.repo.Save(ctx, snapshot); err != nil {
			slog.Error("incremental save failed during backfill", "error", err)
		}
	}

	return nil
}

// Flush saves the current collection synchronously. Used by the periodic
// persistence job.
func (s *campaignService) Flush(ctx context.Context) error {
	s.mu.Lock()
	snapshot := s.snapshot()
	s.mu.Unlock()

	return s.repo.Save(ctx, snapshot)
}

func (s *campaignService) Close() {
	s.writer.Close()
}

func (s *campaignService) find(userID, campaignID string) *models.Campaign {
	for i := range s.campaigns {
		if s.campaigns[i].ID == campaignID && s.campaigns[i].UserID == userID {
			return &s.campaigns[i]
		}
	}
	return nil
}

func (s *campaignService) findPost(userID, campaignID, postID string) *models.Post {
	c := s.find(userID, campaignID)
	if c == nil {
		return nil
	}
	for i := range c.Posts {
		if c.Posts[i].ID == postID {
			return &c.Posts[i]
		}
	}
	return nil
}

// snapshot deep-copies the collection for the writer. Callers must hold mu.
func (s *campaignService) snapshot() []models.Campaign {
	snapshot := make([]models.Campaign, len(s.campaigns))
	for i := range s.campaigns {
		snapshot[i] = cloneCampaign(&s.campaigns[i])
	}
	return snapshot
}

func validateCreate(dto *transfer.CreateCampaignDTO) error {
	var missing []string
	if strings.TrimSpace(dto.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(dto.Topic) == "" {
		missing = append(missing, "topic")
	}
	if len(dto.Platforms) == 0 {
		missing = append(missing, "platforms")
	} else {
		for _, platform := range dto.Platforms {
			if !models.IsValidPlatform(platform) {
				missing = append(missing, "platforms")
				break
			}
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(missing...)
	}
	return nil
}

func composePrompt(title, content string) string {
	excerpt := []rune(content)
	if len(excerpt) > 50 {
		excerpt = excerpt[:50]
	}
	return title + " - " + string(excerpt)
}

func cloneCampaign(c *models.Campaign) models.Campaign {
	clone := *c
	clone.Platforms = append([]string(nil), c.Platforms...)
	clone.Posts = make([]models.Post, len(c.Posts))
	for i := range c.Posts {
		clone.Posts[i] = c.Posts[i]
		clone.Posts[i].Hashtags = append([]string(nil), c.Posts[i].Hashtags...)
	}
	return clone
}
