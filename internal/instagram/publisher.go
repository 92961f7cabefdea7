package instagram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cfg "github.com/onepunch-tk/groth-api-app/configs"
	"github.com/onepunch-tk/groth-api-app/internal/browser"
	"github.com/onepunch-tk/groth-api-app/internal/models"
	"github.com/onepunch-tk/groth-api-app/internal/repository"
	"github.com/onepunch-tk/groth-api-app/internal/service"
	"github.com/onepunch-tk/groth-api-app/pkg/utils"
)

// Publisher drives one post schedule through a full browser posting attempt
// and owns its status transitions. A schedule enters in WAITING and leaves in
// exactly one of SUCCESS, FAILURE, or UNAUTHORIZED; it is never written back
// to WAITING here.
type Publisher struct {
	cfg       cfg.Config
	schedules repository.ScheduleRepository
	history   repository.PostingHistoryRepository
	sessions  *service.SessionStoreService
	media     service.MediaService
	driver    browser.Driver
}

func NewPublisher(
	cfg cfg.Config,
	schedules repository.ScheduleRepository,
	history repository.PostingHistoryRepository,
	sessions *service.SessionStoreService,
	media service.MediaService,
	driver browser.Driver) *Publisher {
	return &Publisher{
		cfg:       cfg,
		schedules: schedules,
		history:   history,
		sessions:  sessions,
		media:     media,
		driver:    driver,
	}
}

// Publish executes one attempt for the schedule. Workflow and infrastructure
// failures inside the attempt are recorded as a terminal status and never
// propagated; the error return only covers failing to load the schedule
// record itself, in which case no status can be written.
func (p *Publisher) Publish(ctx context.Context, scheduleID int64) error {
	slog.Info("start posting", "schedule_id", scheduleID)

	schedule, err := p.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("schedule %d not found", scheduleID)
	}

	status, runErr := p.run(ctx, schedule)
	if runErr != nil {
		slog.Error("posting attempt failed", "schedule_id", scheduleID, "status", status, "error", runErr.Error())
	}

	// Cleanup and recording must complete even when the attempt was cancelled.
	recordCtx := context.WithoutCancel(ctx)
	if err := p.schedules.UpdateStatus(recordCtx, status, schedule.ID); err != nil {
		slog.Error("failed to record schedule status", "schedule_id", scheduleID, "status", status)
	}

	errMessage := ""
	if runErr != nil {
		errMessage = runErr.Error()
	}
	if _, err := p.history.Create(recordCtx, &models.PostingHistory{
		RequesterID:  schedule.RequesterID,
		ScheduleID:   schedule.ID,
		Status:       status,
		ErrorMessage: errMessage,
	}); err != nil {
		slog.Info(err.Error())
	}

	return nil
}

func (p *Publisher) run(ctx context.Context, schedule *models.PostSchedule) (string, error) {
	password, err := utils.Decrypt(schedule.Password, []byte(p.cfg.SecretKey))
	if err != nil {
		return models.ScheduleStatusFailure, fmt.Errorf("decrypt credentials: %w", err)
	}

	mediaPath, err := p.media.Materialize(ctx, schedule.ImgSrc)
	if err != nil {
		return models.ScheduleStatusFailure, err
	}
	defer p.media.Cleanup(mediaPath)

	cleanupCtx := context.WithoutCancel(ctx)
	localDir := p.sessions.Fetch(ctx, service.NamespaceInstagram, schedule.Username)
	defer p.sessions.Discard(localDir)
	defer p.sessions.Persist(cleanupCtx, localDir, schedule.Username)

	mode := browser.DeviceModeFor(schedule.IsMobile)
	sess, err := p.driver.Open(browser.SessionOptions{
		ProfileDir: localDir,
		Mode:       mode,
		Headless:   p.cfg.Headless,
	})
	if err != nil {
		return models.ScheduleStatusFailure, err
	}
	defer sess.Close()

	if err := ctx.Err(); err != nil {
		return models.ScheduleStatusFailure, err
	}

	if err := sess.Navigate(LoginURL, browser.NavigateOptions{WaitUntil: "networkidle"}); err != nil {
		return models.ScheduleStatusFailure, err
	}

	state, err := EnsureAuthenticated(sess, Credentials{Username: schedule.Username, Password: password})
	if err != nil {
		return models.ScheduleStatusFailure, err
	}
	if state != LoginStateAuthenticated {
		slog.Error("unauthorized from instagram", "schedule_id", schedule.ID)
		return models.ScheduleStatusUnauthorized, nil
	}

	if err := sess.Navigate(HomeURL, browser.NavigateOptions{}); err != nil {
		return models.ScheduleStatusFailure, err
	}
	slog.Info("go home")
	if err := pause(ctx, homePause); err != nil {
		return models.ScheduleStatusFailure, err
	}

	DismissConsent(sess)

	if err := ctx.Err(); err != nil {
		return models.ScheduleStatusFailure, err
	}

	attachMedia(sess, mode, []string{mediaPath})

	steps, err := advanceSteps(sess)
	if err != nil {
		return models.ScheduleStatusFailure, err
	}
	slog.Info("step chain exhausted", "steps", steps)

	if schedule.Caption != "" {
		if err := typeCaption(sess, mode, schedule.Caption); err != nil {
			return models.ScheduleStatusFailure, err
		}
	}

	if err := confirmShare(sess); err != nil {
		slog.Error("posting failed", "schedule_id", schedule.ID)
		return models.ScheduleStatusFailure, err
	}

	slog.Info("posting success", "schedule_id", schedule.ID)
	return models.ScheduleStatusSuccess, nil
}

func pause(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
