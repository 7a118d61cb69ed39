package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"telehealth-backend/internal/domain/entity"
	"telehealth-backend/internal/domain/gateway"
	"telehealth-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// VideoAPI is the provider surface VideoRoomService drives.
type VideoAPI interface {
	CreateRoom(ctx context.Context, name, description string) (string, error)
	CreateRoomCode(ctx context.Context, roomID, role, userID string) (string, error)
	JoinURL(code string) string
}

// VideoRoomService provisions one persistent video room per doctor and mints
// short-lived join links.
//
// Provisioning for a single doctor is serialized twice over: a per-doctor
// in-process mutex covers concurrent requests on this instance, and the
// ClaimRoom compare-and-set covers writers on other instances. Whoever loses
// either race adopts the winner's room id, so at most one remote room exists
// per doctor.
type VideoRoomService struct {
	db         *gorm.DB
	api        VideoAPI
	doctorRepo repository.DoctorRepository
	log        *logrus.Logger

	// Per-doctor mutex for provisioning safety
	doctorMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewVideoRoomService creates a VideoRoomService and starts the background
// mutex-cleanup goroutine. Call Stop() during graceful shutdown.
func NewVideoRoomService(db *gorm.DB, api VideoAPI, doctorRepo repository.DoctorRepository, log *logrus.Logger) *VideoRoomService {
	svc := &VideoRoomService{
		db:         db,
		api:        api,
		doctorRepo: doctorRepo,
		log:        log,
		stopChan:   make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service. Safe to call multiple times.
func (s *VideoRoomService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("VideoRoomService stopped")
	}
}

// EnsureRoom returns the doctor's room id, provisioning a remote room on
// first use. If the doctor record already carries a room id no network call
// is made.
func (s *VideoRoomService) EnsureRoom(ctx context.Context, doctor *entity.Doctor) (string, error) {
	if doctor.HasRoom() {
		return doctor.RoomID, nil
	}

	mt := s.getDoctorMutex(doctor.ID)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	// Re-read inside the lock: a concurrent assignment may have provisioned
	// while we waited.
	fresh, err := s.doctorRepo.FindByID(s.db.WithContext(ctx), doctor.ID)
	if err != nil {
		return "", fmt.Errorf("reload doctor %s: %w", doctor.ID, err)
	}
	if fresh == nil {
		return "", fmt.Errorf("doctor %s disappeared during provisioning", doctor.ID)
	}
	if fresh.HasRoom() {
		doctor.RoomID = fresh.RoomID
		return fresh.RoomID, nil
	}

	roomID, err := s.api.CreateRoom(ctx,
		fmt.Sprintf("room-%s", doctor.ID),
		fmt.Sprintf("Room for Dr. %s", doctor.Name),
	)
	if err != nil {
		return "", err
	}

	rows, err := s.doctorRepo.ClaimRoom(s.db.WithContext(ctx), doctor.ID, roomID)
	if err != nil {
		return "", fmt.Errorf("persist room id for doctor %s: %w", doctor.ID, err)
	}
	if rows == 0 {
		// Another instance won the claim; adopt its room. The room we just
		// created is orphaned at the provider, which is preferable to two
		// live rooms for one doctor.
		winner, err := s.doctorRepo.FindByID(s.db.WithContext(ctx), doctor.ID)
		if err != nil || winner == nil {
			return "", fmt.Errorf("reload doctor %s after lost room claim: %w", doctor.ID, err)
		}
		s.log.Warnf("Lost room claim for doctor %s, adopting room %s", doctor.ID, winner.RoomID)
		doctor.RoomID = winner.RoomID
		return winner.RoomID, nil
	}

	s.log.Infof("Provisioned room %s for doctor %s", roomID, doctor.ID)
	doctor.RoomID = roomID
	return roomID, nil
}

// MintJoinLink returns a join URL for the given room and role, or "" when the
// provider has no code for that role or the call fails. Never an error:
// assignment proceeds with a degraded link rather than aborting.
func (s *VideoRoomService) MintJoinLink(ctx context.Context, roomID, participant, role string) string {
	code, err := s.api.CreateRoomCode(ctx, roomID, role, participant)
	if err != nil {
		s.log.Warnf("Failed to mint %s join link for room %s: %+v", role, roomID, err)
		return ""
	}

	return s.api.JoinURL(code)
}

// getDoctorMutex returns the mutex for a specific doctor
func (s *VideoRoomService) getDoctorMutex(doctorID uuid.UUID) *mutexWithTimestamp {
	mt, _ := s.doctorMu.LoadOrStore(doctorID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *VideoRoomService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety; the
// lastUsed check happens inside the lock so a fresh user cannot be evicted.
func (s *VideoRoomService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	s.doctorMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.doctorMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale doctor mutexes", cleaned)
	}
}

var _ gateway.RoomProvisioner = (*VideoRoomService)(nil)
