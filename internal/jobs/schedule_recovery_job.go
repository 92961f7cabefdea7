package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/onepunch-tk/groth-api-app/internal/queue"
	"github.com/onepunch-tk/groth-api-app/internal/repository"
)

// recoveryGrace keeps the sweep from racing tasks that asynq is about to
// deliver on time.
const recoveryGrace = 5 * time.Minute

// ScheduleRecoveryJob re-enqueues WAITING schedules whose publish time passed
// without a task firing, e.g. after the Redis backlog was lost. It only
// enqueues; schedule status stays untouched until an attempt runs.
type ScheduleRecoveryJob struct {
	sr          repository.ScheduleRepository
	asynqClient *asynq.Client
}

func NewScheduleRecoveryJob(sr repository.ScheduleRepository, asynqClient *asynq.Client) *ScheduleRecoveryJob {
	return &ScheduleRecoveryJob{
		sr:          sr,
		asynqClient: asynqClient,
	}
}

func (j *ScheduleRecoveryJob) RecoverOverdue() {
	ctx := context.Background()

	schedules, err := j.sr.ListOverdueWaiting(ctx, time.Now().Add(-recoveryGrace))
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, schedule := range schedules {
		err := queue.EnqueueSchedule(j.asynqClient, queue.PublishSchedulePayload{ScheduleID: schedule.ID}, 0)
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		slog.Info("re-enqueued overdue schedule", "schedule_id", schedule.ID)
	}
}
