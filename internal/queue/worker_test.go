package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/autoposterhub/autoposter/internal/transfer"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCampaignService struct {
	backfilled  []string
	backfillErr error
}

func (f *fakeCampaignService) List(ctx context.Context, userID string) []models.Campaign {
	return nil
}

func (f *fakeCampaignService) Get(ctx context.Context, userID, campaignID string) (*models.Campaign, bool) {
	return nil, false
}

func (f *fakeCampaignService) Create(ctx context.Context, userID string, dto *transfer.CreateCampaignDTO) (*models.Campaign, error) {
	return nil, nil
}

func (f *fakeCampaignService) Delete(ctx context.Context, userID, campaignID string) {}

func (f *fakeCampaignService) UpdatePost(ctx context.Context, userID, campaignID string, post models.Post) {
}

func (f *fakeCampaignService) DeletePost(ctx context.Context, userID, campaignID, postID string) {}

func (f *fakeCampaignService) AddHashtag(ctx context.Context, userID, campaignID, postID, tag string) {
}

func (f *fakeCampaignService) RemoveHashtag(ctx context.Context, userID, campaignID, postID, tag string) {
}

func (f *fakeCampaignService) ApplyShareResult(ctx context.Context, userID, campaignID, postID string, success bool) {
}

func (f *fakeCampaignService) BackfillImages(ctx context.Context, campaignID string) error {
	f.backfilled = append(f.backfilled, campaignID)
	return f.backfillErr
}

func (f *fakeCampaignService) Flush(ctx context.Context) error { return nil }

func (f *fakeCampaignService) Close() {}

func TestHandleBackfillImagesTask(t *testing.T) {
	cs := &fakeCampaignService{}
	q := NewQueue(cs)

	task := asynq.NewTask(TaskTypeBackfillImages, []byte(`{"campaign_id":"camp-1"}`))
	require.NoError(t, q.HandleBackfillImagesTask(context.Background(), task))
	assert.Equal(t, []string{"camp-1"}, cs.backfilled)
}

func TestHandleBackfillImagesTaskBadPayload(t *testing.T) {
	cs := &fakeCampaignService{}
	q := NewQueue(cs)

	task := asynq.NewTask(TaskTypeBackfillImages, []byte("{broken"))
	assert.Error(t, q.HandleBackfillImagesTask(context.Background(), task))
	assert.Empty(t, cs.backfilled)
}

func TestHandleBackfillImagesTaskPropagatesFailure(t *testing.T) {
	cs := &fakeCampaignService{backfillErr: errors.New("generation down")}
	q := NewQueue(cs)

	task := asynq.NewTask(TaskTypeBackfillImages, []byte(`{"campaign_id":"camp-1"}`))
	assert.Error(t, q.HandleBackfillImagesTask(context.Background(), task))
}
