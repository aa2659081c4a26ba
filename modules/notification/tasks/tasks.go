package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"stagecrew-api/core/constants"
	"stagecrew-api/core/logger"
)

// DeliverPayload is the body of a queued notification delivery. Delivery to
// external channels (email, push) happens out of band so the producing
// request never waits on it.
type DeliverPayload struct {
	RecipientID string                 `json:"recipient_id"`
	Kind        string                 `json:"kind"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// NewDeliverTask builds the asynq task for one notification delivery.
func NewDeliverTask(payload DeliverPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskNotificationDeliver, body,
		asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// HandleDeliverTask processes one queued delivery.
// TODO: plug in the email sender once the SMTP relay is provisioned.
func HandleDeliverTask(ctx context.Context, t *asynq.Task) error {
	var payload DeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("NotificationTasks:HandleDeliverTask:Unmarshal", err)
		return err
	}

	logger.Info("notification delivered",
		"recipient_id", payload.RecipientID,
		"kind", payload.Kind,
		"title", payload.Title,
	)
	return nil
}
