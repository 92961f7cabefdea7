package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	cfg "github.com/onepunch-tk/groth-api-app/configs"
	"github.com/onepunch-tk/groth-api-app/internal/models"
	"github.com/onepunch-tk/groth-api-app/internal/transfer"
	"github.com/onepunch-tk/groth-api-app/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type stubScheduleRepo struct {
	created *models.PostSchedule
	byID    map[int64]*models.PostSchedule
	owned   bool
}

func (r *stubScheduleRepo) GetByID(_ context.Context, id int64) (*models.PostSchedule, error) {
	return r.byID[id], nil
}

func (r *stubScheduleRepo) Create(_ context.Context, _ *sql.Tx, schedule *models.PostSchedule) (int64, error) {
	r.created = schedule
	return 42, nil
}

func (r *stubScheduleRepo) GetByRequesterID(_ context.Context, _ int64) ([]*models.PostSchedule, error) {
	return nil, nil
}

func (r *stubScheduleRepo) CheckByRequesterID(_ context.Context, _, _ int64) (bool, error) {
	return r.owned, nil
}

func (r *stubScheduleRepo) UpdateStatus(_ context.Context, _ string, _ int64) error {
	return nil
}

func (r *stubScheduleRepo) ListOverdueWaiting(_ context.Context, _ time.Time) ([]*models.PostSchedule, error) {
	return nil, nil
}

func newScheduleServiceUnderTest() (ScheduleService, *stubScheduleRepo) {
	repo := &stubScheduleRepo{byID: make(map[int64]*models.PostSchedule)}
	return NewScheduleService(cfg.Config{SecretKey: testSecretKey}, repo), repo
}

func validCreation() *transfer.ScheduleCreation {
	return &transfer.ScheduleCreation{
		Username:           "poster",
		Password:           "hunter2",
		ImgSrc:             "https://cdn.example.com/a.jpg",
		Caption:            "hello",
		PublishImmediately: true,
	}
}

func TestCreateSchedule_ImmediateHasNoDelay(t *testing.T) {
	svc, repo := newScheduleServiceUnderTest()

	id, delay, err := svc.CreateSchedule(context.Background(), 7, validCreation())

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Zero(t, delay)
	require.NotNil(t, repo.created)
	assert.False(t, repo.created.ScheduledTime.Valid)
	assert.Equal(t, int64(7), repo.created.RequesterID)
}

func TestCreateSchedule_PasswordStoredEncrypted(t *testing.T) {
	svc, repo := newScheduleServiceUnderTest()

	_, _, err := svc.CreateSchedule(context.Background(), 7, validCreation())

	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", repo.created.Password)

	decrypted, err := utils.Decrypt(repo.created.Password, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", decrypted)
}

func TestCreateSchedule_FutureTimeYieldsDelay(t *testing.T) {
	svc, repo := newScheduleServiceUnderTest()

	sc := validCreation()
	sc.PublishImmediately = false
	sc.ScheduledTime = time.Now().Add(2 * time.Hour).Format("2006-01-02T15:04")

	_, delay, err := svc.CreateSchedule(context.Background(), 7, sc)

	require.NoError(t, err)
	assert.Greater(t, delay, time.Hour)
	assert.True(t, repo.created.ScheduledTime.Valid)
}

func TestCreateSchedule_PastTimeClampsToZero(t *testing.T) {
	svc, _ := newScheduleServiceUnderTest()

	sc := validCreation()
	sc.PublishImmediately = false
	sc.ScheduledTime = time.Now().Add(-time.Hour).Format("2006-01-02T15:04")

	_, delay, err := svc.CreateSchedule(context.Background(), 7, sc)

	require.NoError(t, err)
	assert.Zero(t, delay)
}

func TestCreateSchedule_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*transfer.ScheduleCreation)
	}{
		{name: "missing username", mutate: func(sc *transfer.ScheduleCreation) { sc.Username = "" }},
		{name: "missing password", mutate: func(sc *transfer.ScheduleCreation) { sc.Password = "" }},
		{name: "missing media source", mutate: func(sc *transfer.ScheduleCreation) { sc.ImgSrc = "" }},
		{name: "malformed scheduled time", mutate: func(sc *transfer.ScheduleCreation) {
			sc.PublishImmediately = false
			sc.ScheduledTime = "tomorrow at noon"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newScheduleServiceUnderTest()
			sc := validCreation()
			tt.mutate(sc)

			_, _, err := svc.CreateSchedule(context.Background(), 7, sc)

			require.Error(t, err)
			assert.Nil(t, repo.created)
		})
	}
}

func TestScheduleInfo_OwnershipEnforced(t *testing.T) {
	svc, repo := newScheduleServiceUnderTest()
	repo.byID[5] = &models.PostSchedule{ID: 5, RequesterID: 7}

	_, err := svc.ScheduleInfo(context.Background(), 5, 8)
	require.Error(t, err)

	repo.owned = true
	schedule, err := svc.ScheduleInfo(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(5), schedule.ID)
}
