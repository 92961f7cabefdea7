package queue

import (
	"github.com/onepunch-tk/groth-api-app/internal/instagram"
)

type Queue struct {
	pub *instagram.Publisher
}

func NewQueue(pub *instagram.Publisher) *Queue {
	return &Queue{pub: pub}
}

const TaskTypePublishSchedule = "schedule:publish"

type PublishSchedulePayload struct {
	ScheduleID int64 `json:"schedule_id"`
}
