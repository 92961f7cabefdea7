package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/onepunch-tk/groth-api-app/internal/models"
)

type ScheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*models.PostSchedule, error)
	Create(ctx context.Context, tx *sql.Tx, schedule *models.PostSchedule) (int64, error)
	GetByRequesterID(ctx context.Context, requesterID int64) ([]*models.PostSchedule, error)
	CheckByRequesterID(ctx context.Context, scheduleID, requesterID int64) (bool, error)
	UpdateStatus(ctx context.Context, status string, scheduleID int64) error
	ListOverdueWaiting(ctx context.Context, before time.Time) ([]*models.PostSchedule, error)
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, tx *sql.Tx, schedule *models.PostSchedule) (int64, error) {
	query := `
		INSERT INTO post_schedules (requester_id, username, password, img_src, caption, is_mobile, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, schedule.RequesterID, schedule.Username, schedule.Password, schedule.ImgSrc, schedule.Caption, schedule.IsMobile, schedule.ScheduledTime, models.ScheduleStatusWaiting).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, schedule.RequesterID, schedule.Username, schedule.Password, schedule.ImgSrc, schedule.Caption, schedule.IsMobile, schedule.ScheduledTime, models.ScheduleStatusWaiting).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*models.PostSchedule, error) {
	query := `SELECT id, requester_id, username, password, img_src, caption, is_mobile, scheduled_time, status, created_at, updated_at FROM post_schedules WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var schedule models.PostSchedule
	err := row.Scan(&schedule.ID, &schedule.RequesterID, &schedule.Username, &schedule.Password, &schedule.ImgSrc, &schedule.Caption, &schedule.IsMobile, &schedule.ScheduledTime, &schedule.Status, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &schedule, nil
}

func (r *scheduleRepository) GetByRequesterID(ctx context.Context, requesterID int64) ([]*models.PostSchedule, error) {
	query := `SELECT id, requester_id, username, password, img_src, caption, is_mobile, scheduled_time, status, created_at, updated_at FROM post_schedules WHERE requester_id = $1`
	rows, err := r.db.QueryContext(ctx, query, requesterID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.PostSchedule
	for rows.Next() {
		var schedule models.PostSchedule
		err := rows.Scan(&schedule.ID, &schedule.RequesterID, &schedule.Username, &schedule.Password, &schedule.ImgSrc, &schedule.Caption, &schedule.IsMobile, &schedule.ScheduledTime, &schedule.Status, &schedule.CreatedAt, &schedule.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, &schedule)
	}
	return schedules, nil
}

func (r *scheduleRepository) CheckByRequesterID(ctx context.Context, scheduleID, requesterID int64) (bool, error) {
	query := "SELECT 1 FROM post_schedules WHERE id = $1 AND requester_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, scheduleID, requesterID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *scheduleRepository) UpdateStatus(ctx context.Context, status string, scheduleID int64) error {
	query := `
		UPDATE post_schedules
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), scheduleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduleRepository) ListOverdueWaiting(ctx context.Context, before time.Time) ([]*models.PostSchedule, error) {
	query := `SELECT id, requester_id, username, password, img_src, caption, is_mobile, scheduled_time, status, created_at, updated_at FROM post_schedules WHERE status = $1 AND scheduled_time IS NOT NULL AND scheduled_time < $2`
	rows, err := r.db.QueryContext(ctx, query, models.ScheduleStatusWaiting, before)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.PostSchedule
	for rows.Next() {
		var schedule models.PostSchedule
		err := rows.Scan(&schedule.ID, &schedule.RequesterID, &schedule.Username, &schedule.Password, &schedule.ImgSrc, &schedule.Caption, &schedule.IsMobile, &schedule.ScheduledTime, &schedule.Status, &schedule.CreatedAt, &schedule.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, &schedule)
	}
	return schedules, nil
}
