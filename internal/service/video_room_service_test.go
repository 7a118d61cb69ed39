package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"telehealth-backend/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeVideoAPI struct {
	mu          sync.Mutex
	roomCalls   int32
	codeErr     error
	codesByRole map[string]string
}

func (f *fakeVideoAPI) CreateRoom(ctx context.Context, name, description string) (string, error) {
	n := atomic.AddInt32(&f.roomCalls, 1)
	return fmt.Sprintf("room-%d", n), nil
}

func (f *fakeVideoAPI) CreateRoomCode(ctx context.Context, roomID, role, userID string) (string, error) {
	if f.codeErr != nil {
		return "", f.codeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codesByRole[role], nil
}

func (f *fakeVideoAPI) JoinURL(code string) string {
	if code == "" {
		return ""
	}
	return "https://meet.example.com/meeting/" + code
}

// memDoctorRepo keeps doctors in memory with a ClaimRoom compare-and-set that
// mirrors the SQL semantics.
type memDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*entity.Doctor
}

func (m *memDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error { return nil }

func (m *memDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *memDoctorRepo) FindAll(db *gorm.DB) ([]entity.Doctor, error) { return nil, nil }

func (m *memDoctorRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) { return 0, nil }

func (m *memDoctorRepo) UpdateAvailability(db *gorm.DB, id uuid.UUID, availability entity.Availability) (int64, error) {
	return 0, nil
}

func (m *memDoctorRepo) ClaimRoom(db *gorm.DB, id uuid.UUID, roomID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[id]
	if !ok || d.RoomID != "" {
		return 0, nil
	}
	d.RoomID = roomID
	return 1, nil
}

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db
}

func newRoomService(t *testing.T, api VideoAPI, repo *memDoctorRepo) *VideoRoomService {
	t.Helper()
	svc := NewVideoRoomService(newServiceTestDB(t), api, repo, logrus.New())
	t.Cleanup(svc.Stop)
	return svc
}

func TestEnsureRoom_ExistingRoomSkipsProvider(t *testing.T) {
	api := &fakeVideoAPI{}
	doctor := &entity.Doctor{ID: uuid.New(), Name: "Asha Rao", RoomID: "room-existing"}
	repo := &memDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{doctor.ID: doctor}}
	svc := newRoomService(t, api, repo)

	roomID, err := svc.EnsureRoom(context.Background(), doctor)

	require.NoError(t, err)
	assert.Equal(t, "room-existing", roomID)
	assert.Zero(t, atomic.LoadInt32(&api.roomCalls))
}

func TestEnsureRoom_ProvisionsOnce(t *testing.T) {
	api := &fakeVideoAPI{}
	doctor := &entity.Doctor{ID: uuid.New(), Name: "Asha Rao"}
	repo := &memDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{doctor.ID: {ID: doctor.ID, Name: doctor.Name}}}
	svc := newRoomService(t, api, repo)

	roomID, err := svc.EnsureRoom(context.Background(), doctor)

	require.NoError(t, err)
	assert.Equal(t, "room-1", roomID)
	assert.Equal(t, "room-1", doctor.RoomID)

	// Second call reuses the room id written back onto the entity.
	again, err := svc.EnsureRoom(context.Background(), doctor)
	require.NoError(t, err)
	assert.Equal(t, "room-1", again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.roomCalls))
}

func TestEnsureRoom_ConcurrentCallsConvergeOnOneRoom(t *testing.T) {
	api := &fakeVideoAPI{}
	id := uuid.New()
	repo := &memDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{id: {ID: id, Name: "Asha Rao"}}}
	svc := newRoomService(t, api, repo)

	const workers = 8
	results := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each worker starts from its own stale view of the doctor.
			results[i], errs[i] = svc.EnsureRoom(context.Background(), &entity.Doctor{ID: id, Name: "Asha Rao"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&api.roomCalls))
	for _, r := range results {
		assert.Equal(t, "room-1", r)
	}
}

func TestMintJoinLink_BuildsURLFromCode(t *testing.T) {
	api := &fakeVideoAPI{codesByRole: map[string]string{"doctor": "doc-code"}}
	svc := newRoomService(t, api, &memDoctorRepo{})

	link := svc.MintJoinLink(context.Background(), "room-1", "Asha Rao", "doctor")

	assert.Equal(t, "https://meet.example.com/meeting/doc-code", link)
}

func TestMintJoinLink_ProviderErrorYieldsEmptyLink(t *testing.T) {
	api := &fakeVideoAPI{codeErr: errors.New("provider down")}
	svc := newRoomService(t, api, &memDoctorRepo{})

	link := svc.MintJoinLink(context.Background(), "room-1", "Asha Rao", "doctor")

	assert.Empty(t, link)
}

func TestStop_IsIdempotent(t *testing.T) {
	svc := NewVideoRoomService(newServiceTestDB(t), &fakeVideoAPI{}, &memDoctorRepo{}, logrus.New())

	svc.Stop()
	svc.Stop()
}
