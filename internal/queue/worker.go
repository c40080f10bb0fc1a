package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func (j *Queue) HandleBackfillImagesTask(ctx context.Context, task *asynq.Task) error {
	var payload BackfillImagesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := j.cs.BackfillImages(ctx, payload.CampaignID); err != nil {
		log.Printf("Backfill failed for campaign %s: %v", payload.CampaignID, err)
		return err
	}

	return nil
}
