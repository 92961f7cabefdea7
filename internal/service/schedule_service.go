package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cfg "github.com/onepunch-tk/groth-api-app/configs"
	"github.com/onepunch-tk/groth-api-app/internal/models"
	"github.com/onepunch-tk/groth-api-app/internal/repository"
	"github.com/onepunch-tk/groth-api-app/internal/transfer"
	"github.com/onepunch-tk/groth-api-app/pkg/utils"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, requesterID int64, sc *transfer.ScheduleCreation) (int64, time.Duration, error)
	List(ctx context.Context, requesterID int64) ([]*models.PostSchedule, error)
	ScheduleInfo(ctx context.Context, scheduleID, requesterID int64) (*models.PostSchedule, error)
}

type scheduleService struct {
	cfg cfg.Config
	sr  repository.ScheduleRepository
}

func NewScheduleService(cfg cfg.Config, sr repository.ScheduleRepository) ScheduleService {
	return &scheduleService{cfg: cfg, sr: sr}
}

func (s *scheduleService) CreateSchedule(ctx context.Context, requesterID int64, sc *transfer.ScheduleCreation) (int64, time.Duration, error) {
	if sc == nil {
		err := errors.New("schedule creation data is nil")
		slog.Error(err.Error())
		return 0, 0, err
	}
	if sc.Username == "" || sc.Password == "" {
		err := errors.New("account credentials are required")
		slog.Info(err.Error())
		return 0, 0, err
	}
	if sc.ImgSrc == "" {
		err := errors.New("media source is required")
		slog.Info(err.Error())
		return 0, 0, err
	}

	var scheduledTime sql.NullTime
	var delay time.Duration
	if !sc.PublishImmediately {
		parsed, err := time.Parse("2006-01-02T15:04", sc.ScheduledTime)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Error(err.Error())
			return 0, 0, err
		}
		scheduledTime = sql.NullTime{Time: parsed, Valid: true}
		delay = time.Until(parsed)
		if delay < 0 {
			delay = 0
		}
	}

	encryptedPassword, err := utils.Encrypt([]byte(sc.Password), []byte(s.cfg.SecretKey))
	if err != nil {
		return 0, 0, err
	}

	scheduleID, err := s.sr.Create(ctx, nil, &models.PostSchedule{
		RequesterID:   requesterID,
		Username:      sc.Username,
		Password:      encryptedPassword,
		ImgSrc:        sc.ImgSrc,
		Caption:       sc.Caption,
		IsMobile:      sc.IsMobile,
		ScheduledTime: scheduledTime,
	})
	if err != nil {
		return 0, 0, err
	}

	return scheduleID, delay, nil
}

func (s *scheduleService) List(ctx context.Context, requesterID int64) ([]*models.PostSchedule, error) {
	return s.sr.GetByRequesterID(ctx, requesterID)
}

func (s *scheduleService) ScheduleInfo(ctx context.Context, scheduleID, requesterID int64) (*models.PostSchedule, error) {
	owned, err := s.sr.CheckByRequesterID(ctx, scheduleID, requesterID)
	if err != nil {
		return nil, err
	}
	if !owned {
		err = errors.New("schedule not found")
		slog.Info(err.Error())
		return nil, err
	}

	return s.sr.GetByID(ctx, scheduleID)
}
