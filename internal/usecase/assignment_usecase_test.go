package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"telehealth-backend/internal/delivery/dto"
	"telehealth-backend/internal/domain/entity"
	"telehealth-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*entity.Doctor
}

func (m *mockDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error { return nil }

func (m *mockDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return m.doctors[id], nil
}

func (m *mockDoctorRepo) FindAll(db *gorm.DB) ([]entity.Doctor, error) { return nil, nil }

func (m *mockDoctorRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := m.doctors[id]; !ok {
		return 0, nil
	}
	delete(m.doctors, id)
	return 1, nil
}

func (m *mockDoctorRepo) UpdateAvailability(db *gorm.DB, id uuid.UUID, availability entity.Availability) (int64, error) {
	d, ok := m.doctors[id]
	if !ok {
		return 0, nil
	}
	d.Availability = availability
	return 1, nil
}

func (m *mockDoctorRepo) ClaimRoom(db *gorm.DB, id uuid.UUID, roomID string) (int64, error) {
	return 1, nil
}

type mockUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (m *mockUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return m.users[id], nil
}

type mockProvisioner struct {
	roomID    string
	ensureErr error
	links     map[string]string // role -> link
	ensureN   int
	mintedFor []string
}

func (m *mockProvisioner) EnsureRoom(ctx context.Context, doctor *entity.Doctor) (string, error) {
	m.ensureN++
	if m.ensureErr != nil {
		return "", m.ensureErr
	}
	return m.roomID, nil
}

func (m *mockProvisioner) MintJoinLink(ctx context.Context, roomID, participant, role string) string {
	m.mintedFor = append(m.mintedFor, role)
	return m.links[role]
}

type mockNotifier struct {
	mu      sync.Mutex
	sent    []string
	sendErr error
}

func (m *mockNotifier) Send(ctx context.Context, number, message, countryCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, countryCode+number)
	return nil
}

type assignmentFixture struct {
	uc          AssignmentUsecase
	bookingRepo *mockBookingRepo
	doctorRepo  *mockDoctorRepo
	userRepo    *mockUserRepo
	provisioner *mockProvisioner
	notifier    *mockNotifier
	audit       *mockAuditRepo

	doctorID  uuid.UUID
	bookingID uuid.UUID
	userID    uuid.UUID
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	f := &assignmentFixture{
		doctorID:  uuid.New(),
		bookingID: uuid.New(),
		userID:    uuid.New(),
	}

	f.doctorRepo = &mockDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{
		f.doctorID: {ID: f.doctorID, Name: "Asha Rao", Number: "9876543210"},
	}}
	f.userRepo = &mockUserRepo{users: map[uuid.UUID]*entity.User{
		f.userID: {ID: f.userID, Username: "ravi", Number: "9123456780", CountryCode: "+91"},
	}}
	f.bookingRepo = &mockBookingRepo{
		findByID: &entity.Booking{
			ID:     f.bookingID,
			UserID: f.userID,
			Date:   "2026-09-01",
			Time:   "10:30",
			Status: entity.BookingStatusPending,
		},
		assignRows: 1,
	}
	f.provisioner = &mockProvisioner{
		roomID: "room-abc",
		links: map[string]string{
			"doctor": "https://meet.example.com/meeting/doc-code",
			"guest":  "https://meet.example.com/meeting/guest-code",
		},
	}
	f.notifier = &mockNotifier{}
	f.audit = &mockAuditRepo{}

	log := logrus.New()
	f.uc = NewAssignmentUsecase(
		newTestDB(t), log,
		f.bookingRepo, f.doctorRepo, f.userRepo,
		f.provisioner, f.notifier,
		service.NewAuditService(log, f.audit),
		NoopMetrics(),
		time.Second,
	)
	return f
}

func (f *assignmentFixture) assign(t *testing.T) error {
	t.Helper()
	return f.uc.AssignDoctor(context.Background(), &dto.AssignDoctorRequest{
		BookingID: f.bookingID,
		DoctorID:  f.doctorID,
	})
}

func TestAssignDoctor_ConfirmsWithBothLinks(t *testing.T) {
	f := newAssignmentFixture(t)

	require.NoError(t, f.assign(t))

	assert.Equal(t, 1, f.bookingRepo.assignCalls)
	assert.Equal(t, "https://meet.example.com/meeting/doc-code", f.bookingRepo.lastLink.Doctor)
	assert.Equal(t, "https://meet.example.com/meeting/guest-code", f.bookingRepo.lastLink.User)

	f.uc.Wait()
	assert.Len(t, f.notifier.sent, 2)
	require.Len(t, f.audit.recorded, 1)
	assert.Equal(t, entity.AuditActionBookingAssign, f.audit.recorded[0].Action)
}

func TestAssignDoctor_UnknownDoctorLeavesBookingUntouched(t *testing.T) {
	f := newAssignmentFixture(t)
	f.doctorRepo.doctors = nil

	err := f.assign(t)

	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.Zero(t, f.bookingRepo.assignCalls)
	assert.Zero(t, f.provisioner.ensureN)
}

func TestAssignDoctor_UnknownBookingIsNotFound(t *testing.T) {
	f := newAssignmentFixture(t)
	f.bookingRepo.findByID = nil

	assert.ErrorIs(t, f.assign(t), ErrBookingNotFound)
	assert.Zero(t, f.bookingRepo.assignCalls)
}

func TestAssignDoctor_UnknownPatientIsRejected(t *testing.T) {
	f := newAssignmentFixture(t)
	f.userRepo.users = nil

	assert.ErrorIs(t, f.assign(t), ErrUserNotFound)
	assert.Zero(t, f.bookingRepo.assignCalls)
}

func TestAssignDoctor_ProvisionFailureStillConfirms(t *testing.T) {
	f := newAssignmentFixture(t)
	f.provisioner.ensureErr = errors.New("provider down")

	require.NoError(t, f.assign(t))

	assert.Equal(t, 1, f.bookingRepo.assignCalls)
	assert.Empty(t, f.bookingRepo.lastLink.Doctor)
	assert.Empty(t, f.bookingRepo.lastLink.User)
	assert.Empty(t, f.provisioner.mintedFor)
}

func TestAssignDoctor_MissingRoleCodeYieldsEmptyLink(t *testing.T) {
	f := newAssignmentFixture(t)
	delete(f.provisioner.links, "doctor")

	require.NoError(t, f.assign(t))

	assert.Empty(t, f.bookingRepo.lastLink.Doctor)
	assert.Equal(t, "https://meet.example.com/meeting/guest-code", f.bookingRepo.lastLink.User)
}

func TestAssignDoctor_NotifierFailureDoesNotFailAssignment(t *testing.T) {
	f := newAssignmentFixture(t)
	f.notifier.sendErr = errors.New("twilio 20003")

	require.NoError(t, f.assign(t))

	f.uc.Wait()
	assert.Empty(t, f.notifier.sent)
	assert.Equal(t, 1, f.bookingRepo.assignCalls)
}

func TestAssignDoctor_SkipsNotificationsWithoutNumbers(t *testing.T) {
	f := newAssignmentFixture(t)
	f.userRepo.users[f.userID].Number = ""

	require.NoError(t, f.assign(t))

	f.uc.Wait()
	assert.Empty(t, f.notifier.sent)
}

func TestAssignDoctor_VanishedBookingOnUpdateIsNotFound(t *testing.T) {
	f := newAssignmentFixture(t)
	f.bookingRepo.assignRows = 0

	assert.ErrorIs(t, f.assign(t), ErrBookingNotFound)
	assert.Empty(t, f.audit.recorded)
}
