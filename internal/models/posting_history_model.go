package models

import "time"

type PostingHistory struct {
	ID           int64     `db:"id" json:"id"`
	RequesterID  int64     `db:"requester_id" json:"requester_id"`
	ScheduleID   int64     `db:"schedule_id" json:"schedule_id"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
