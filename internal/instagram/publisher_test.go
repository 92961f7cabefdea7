package instagram

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	cfg "github.com/onepunch-tk/groth-api-app/configs"
	"github.com/onepunch-tk/groth-api-app/internal/models"
	"github.com/onepunch-tk/groth-api-app/internal/service"
	"github.com/onepunch-tk/groth-api-app/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type fakeScheduleRepo struct {
	schedules map[int64]*models.PostSchedule
	statuses  []string
	getErr    error
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id int64) (*models.PostSchedule, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.schedules[id], nil
}

func (r *fakeScheduleRepo) Create(_ context.Context, _ *sql.Tx, _ *models.PostSchedule) (int64, error) {
	return 0, nil
}

func (r *fakeScheduleRepo) GetByRequesterID(_ context.Context, _ int64) ([]*models.PostSchedule, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) CheckByRequesterID(_ context.Context, _, _ int64) (bool, error) {
	return false, nil
}

func (r *fakeScheduleRepo) UpdateStatus(_ context.Context, status string, scheduleID int64) error {
	r.statuses = append(r.statuses, status)
	if s, ok := r.schedules[scheduleID]; ok {
		s.Status = status
	}
	return nil
}

func (r *fakeScheduleRepo) ListOverdueWaiting(_ context.Context, _ time.Time) ([]*models.PostSchedule, error) {
	return nil, nil
}

type fakeHistoryRepo struct {
	records []*models.PostingHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, ph *models.PostingHistory) (int64, error) {
	r.records = append(r.records, ph)
	return int64(len(r.records)), nil
}

func (r *fakeHistoryRepo) GetByRequesterID(_ context.Context, _ int64) ([]*models.PostingHistory, error) {
	return r.records, nil
}

type fakeMedia struct {
	cleaned []string
}

func (m *fakeMedia) Materialize(_ context.Context, src string) (string, error) {
	return src, nil
}

func (m *fakeMedia) Cleanup(path string) {
	m.cleaned = append(m.cleaned, path)
}

type memObjectStore struct {
	objects map[string][]byte
	puts    []string
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string][]byte)}
}

func (s *memObjectStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range s.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *memObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	body, ok := s.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return body, nil
}

func (s *memObjectStore) Put(_ context.Context, key string, body []byte) error {
	s.objects[key] = body
	s.puts = append(s.puts, key)
	return nil
}

type publisherFixture struct {
	pub       *Publisher
	schedules *fakeScheduleRepo
	history   *fakeHistoryRepo
	sessions  *service.SessionStoreService
	store     *memObjectStore
	driver    *fakeDriver
	media     *fakeMedia
}

func newPublisherFixture(t *testing.T, schedule *models.PostSchedule, sess *fakeSession) *publisherFixture {
	t.Helper()

	encrypted, err := utils.Encrypt([]byte(schedule.Password), []byte(testSecretKey))
	require.NoError(t, err)
	schedule.Password = encrypted
	schedule.Status = models.ScheduleStatusWaiting

	store := newMemObjectStore()
	store.objects[schedule.Username+"-user-data-dir/Default/Cookies"] = []byte("cookie jar")

	f := &publisherFixture{
		schedules: &fakeScheduleRepo{schedules: map[int64]*models.PostSchedule{schedule.ID: schedule}},
		history:   &fakeHistoryRepo{},
		sessions:  service.NewSessionStoreService(store, t.TempDir()),
		store:     store,
		driver:    &fakeDriver{sess: sess},
		media:     &fakeMedia{},
	}
	f.pub = NewPublisher(cfg.Config{SecretKey: testSecretKey, Headless: true},
		f.schedules, f.history, f.sessions, f.media, f.driver)
	return f
}

func (f *publisherFixture) localDir(username string) string {
	return f.sessions.LocalDir(service.NamespaceInstagram, username)
}

func shareableSession() *fakeSession {
	sess := newFakeSession()
	sess.present[desktopNewPost] = true
	sess.present[fileInputLocator] = true
	sess.present[desktopCaptionLocator] = true
	sess.present[mobileCaptionLocator] = true
	sess.present[shareControlLocator] = true
	return sess
}

func TestPublish_DesktopSuccess(t *testing.T) {
	sess := shareableSession()
	schedule := &models.PostSchedule{
		ID:       1,
		Username: "poster",
		Password: "hunter2",
		ImgSrc:   "a.jpg",
		Caption:  "hello",
	}
	f := newPublisherFixture(t, schedule, sess)

	require.NoError(t, f.pub.Publish(context.Background(), 1))

	assert.Equal(t, []string{models.ScheduleStatusSuccess}, f.schedules.statuses)
	assert.Equal(t, []string{LoginURL, HomeURL}, sess.navigations)
	assert.Equal(t, [][]string{{"a.jpg"}}, sess.files)
	assert.Equal(t, []string{"hello"}, sess.typedInto(desktopCaptionLocator))
	assert.Equal(t, 1, sess.countClicks(shareControlLocator))

	require.Len(t, f.history.records, 1)
	assert.Equal(t, models.ScheduleStatusSuccess, f.history.records[0].Status)
	assert.Empty(t, f.history.records[0].ErrorMessage)

	assert.True(t, sess.closed)
	assert.Contains(t, f.store.puts, "poster-user-data-dir/Default/Cookies")
	assert.NoDirExists(t, f.localDir("poster"))
}

func TestPublish_MobileConvergesOnSharedTail(t *testing.T) {
	sess := shareableSession()
	sess.allElems[homeLocator] = 2
	sess.present[mobilePostLocator] = true
	sess.raisesChooser = true
	sess.nextRemaining = 2
	schedule := &models.PostSchedule{
		ID:       2,
		Username: "poster",
		Password: "hunter2",
		ImgSrc:   "a.jpg",
		Caption:  "hello",
		IsMobile: true,
	}
	f := newPublisherFixture(t, schedule, sess)

	require.NoError(t, f.pub.Publish(context.Background(), 2))

	assert.Equal(t, []string{models.ScheduleStatusSuccess}, f.schedules.statuses)
	assert.Equal(t, [][]string{{"a.jpg"}}, sess.chooserFiles)
	assert.Equal(t, 2, sess.countClicks(nextControlLocator))
	assert.Equal(t, []string{"hello"}, sess.typedInto(mobileCaptionLocator))
	assert.Equal(t, 1, sess.countClicks(shareControlLocator))
	assert.NoDirExists(t, f.localDir("poster"))
}

func TestPublish_NoCaptionMeansNoTyping(t *testing.T) {
	sess := shareableSession()
	schedule := &models.PostSchedule{
		ID:       3,
		Username: "poster",
		Password: "hunter2",
		ImgSrc:   "a.jpg",
	}
	f := newPublisherFixture(t, schedule, sess)

	require.NoError(t, f.pub.Publish(context.Background(), 3))

	assert.Equal(t, []string{models.ScheduleStatusSuccess}, f.schedules.statuses)
	assert.Empty(t, sess.typed)
}

func TestPublish_UnauthorizedShortCircuits(t *testing.T) {
	sess := shareableSession()
	sess.present[usernameInputLocator] = true
	sess.present[passwordInputLocator] = true
	sess.present[submitButtonLocator] = true
	sess.responseBody = []byte(`{"authenticated": false}`)
	schedule := &models.PostSchedule{
		ID:       4,
		Username: "poster",
		Password: "wrong",
		ImgSrc:   "a.jpg",
		Caption:  "hello",
	}
	f := newPublisherFixture(t, schedule, sess)

	require.NoError(t, f.pub.Publish(context.Background(), 4))

	assert.Equal(t, []string{models.ScheduleStatusUnauthorized}, f.schedules.statuses)
	assert.Equal(t, []string{LoginURL}, sess.navigations, "workflow must stop before navigating home")
	assert.Zero(t, sess.countClicks(desktopNewPost))
	assert.Zero(t, sess.countClicks(shareControlLocator))

	assert.True(t, sess.closed)
	assert.NoDirExists(t, f.localDir("poster"))
}

func TestPublish_ShareAbsentRecordsFailure(t *testing.T) {
	sess := shareableSession()
	sess.present[shareControlLocator] = false
	schedule := &models.PostSchedule{
		ID:       5,
		Username: "poster",
		Password: "hunter2",
		ImgSrc:   "a.jpg",
	}
	f := newPublisherFixture(t, schedule, sess)

	require.NoError(t, f.pub.Publish(context.Background(), 5))

	assert.Equal(t, []string{models.ScheduleStatusFailure}, f.schedules.statuses)
	require.Len(t, f.history.records, 1)
	assert.NotEmpty(t, f.history.records[0].ErrorMessage)
	assert.True(t, sess.closed)
	assert.NoDirExists(t, f.localDir("poster"))
}

func TestPublish_DriverFailureRecordsFailure(t *testing.T) {
	sess := shareableSession()
	schedule := &models.PostSchedule{
		ID:       6,
		Username: "poster",
		Password: "hunter2",
		ImgSrc:   "a.jpg",
	}
	f := newPublisherFixture(t, schedule, sess)
	f.driver.openErr = errors.New("browser engine crashed")

	require.NoError(t, f.pub.Publish(context.Background(), 6))

	assert.Equal(t, []string{models.ScheduleStatusFailure}, f.schedules.statuses)
	assert.NoDirExists(t, f.localDir("poster"), "cleanup must run even when the session never opened")
}

func TestPublish_ScheduleLoadErrorPropagates(t *testing.T) {
	sess := shareableSession()
	schedule := &models.PostSchedule{ID: 7, Username: "poster", Password: "pw", ImgSrc: "a.jpg"}
	f := newPublisherFixture(t, schedule, sess)
	f.schedules.getErr = errors.New("db down")

	err := f.pub.Publish(context.Background(), 7)

	require.Error(t, err)
	assert.Empty(t, f.schedules.statuses, "no status can be written without the record")
}

func TestPublish_MissingScheduleIsError(t *testing.T) {
	sess := shareableSession()
	schedule := &models.PostSchedule{ID: 8, Username: "poster", Password: "pw", ImgSrc: "a.jpg"}
	f := newPublisherFixture(t, schedule, sess)

	err := f.pub.Publish(context.Background(), 999)

	require.Error(t, err)
	assert.Empty(t, f.schedules.statuses)
}
