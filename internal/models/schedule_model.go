package models

import (
	"database/sql"
	"time"
)

type PostSchedule struct {
	ID            int64        `db:"id" json:"id"`
	RequesterID   int64        `db:"requester_id" json:"requester_id"`
	Username      string       `db:"username" json:"username"`
	Password      string       `db:"password" json:"-"`
	ImgSrc        string       `db:"img_src" json:"img_src"`
	Caption       string       `db:"caption" json:"caption"`
	IsMobile      bool         `db:"is_mobile" json:"is_mobile"`
	ScheduledTime sql.NullTime `db:"scheduled_time" json:"scheduled_time"`
	Status        string       `db:"status" json:"status"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// WAITING is the only non-terminal status. An execution moves a schedule to
// exactly one of the terminal statuses and never back to WAITING.
const (
	ScheduleStatusWaiting      = "WAITING"
	ScheduleStatusSuccess      = "SUCCESS"
	ScheduleStatusFailure      = "FAILURE"
	ScheduleStatusUnauthorized = "UNAUTHORIZED"
)
