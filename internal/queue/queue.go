package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func EnqueueBackfill(asynqClient *asynq.Client, payload BackfillImagesPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeBackfillImages, taskPayload)

	_, err = asynqClient.Enqueue(task, asynq.Queue(BackfillQueue))
	if err != nil {
		return err
	}

	log.Printf("Backfill task scheduled: %+v", payload)
	return nil
}
