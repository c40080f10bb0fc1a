package queue

import (
	"github.com/autoposterhub/autoposter/internal/service"
)

type Queue struct {
	cs service.CampaignService
}

func NewQueue(cs service.CampaignService) *Queue {
	return &Queue{cs: cs}
}

const TaskTypeBackfillImages = "backfill:images"

// BackfillQueue is served with concurrency 1 so at most one image request is
// in flight and posts inside a campaign are never written concurrently.
const BackfillQueue = "backfill"

type BackfillImagesPayload struct {
	CampaignID string `json:"campaign_id"`
}
