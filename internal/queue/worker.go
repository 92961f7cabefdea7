package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// HandlePublishScheduleTask runs one posting attempt. Posting failures are
// recorded on the schedule by the publisher, not surfaced to asynq; retrying
// a FAILURE or UNAUTHORIZED schedule is the caller's decision, so the task
// itself never retries.
func (q *Queue) HandlePublishScheduleTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishSchedulePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := q.pub.Publish(ctx, payload.ScheduleID); err != nil {
		slog.Error("publish task could not load schedule", "schedule_id", payload.ScheduleID, "error", err.Error())
	}

	return nil
}
