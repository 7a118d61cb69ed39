package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"telehealth-backend/internal/delivery/dto"
	"telehealth-backend/internal/domain/entity"
	"telehealth-backend/internal/domain/gateway"
	"telehealth-backend/internal/domain/repository"
	"telehealth-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type AssignmentUsecase interface {
	AssignDoctor(ctx context.Context, req *dto.AssignDoctorRequest) error

	// Wait blocks until all in-flight notification deliveries finish. Called
	// on shutdown so confirmations are not dropped mid-send.
	Wait()
}

type assignmentUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	bookingRepo   repository.BookingRepository
	doctorRepo    repository.DoctorRepository
	userRepo      repository.UserRepository
	provisioner   gateway.RoomProvisioner
	notifier      gateway.NotificationSender
	auditService  service.AuditService
	metrics       MetricsSink
	notifyTimeout time.Duration
	wg            sync.WaitGroup
}

func NewAssignmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	provisioner gateway.RoomProvisioner,
	notifier gateway.NotificationSender,
	auditService service.AuditService,
	metrics MetricsSink,
	notifyTimeout time.Duration,
) AssignmentUsecase {
	if metrics == nil {
		metrics = NoopMetrics()
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &assignmentUsecase{
		db:            db,
		log:           log,
		bookingRepo:   bookingRepo,
		doctorRepo:    doctorRepo,
		userRepo:      userRepo,
		provisioner:   provisioner,
		notifier:      notifier,
		auditService:  auditService,
		metrics:       metrics,
		notifyTimeout: notifyTimeout,
	}
}

// AssignDoctor attaches a doctor to a pending booking: provisions the
// doctor's video room, mints join links for both parties, then confirms the
// booking in a single update. SMS confirmations go out in the background and
// never affect the outcome.
func (u *assignmentUsecase) AssignDoctor(ctx context.Context, req *dto.AssignDoctorRequest) error {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("assign_doctor", time.Since(start).Seconds()) }()

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return err
	}
	if doctor == nil || doctor.Name == "" {
		u.metrics.IncDoctorAssignment("doctor_not_found")
		return ErrDoctorNotFound
	}

	booking, err := u.bookingRepo.FindByID(db, req.BookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", req.BookingID, err)
		return err
	}
	if booking == nil {
		u.metrics.IncDoctorAssignment("booking_not_found")
		return ErrBookingNotFound
	}

	user, err := u.userRepo.FindByID(db, booking.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", booking.UserID, err)
		return err
	}
	if user == nil {
		u.metrics.IncDoctorAssignment("user_not_found")
		return ErrUserNotFound
	}

	var link entity.VideoLink
	roomID, err := u.provisioner.EnsureRoom(ctx, doctor)
	if err != nil {
		// Confirm anyway: the consultation can be re-linked later, but the
		// paid booking must not stay stuck in pending.
		u.log.Errorf("Failed to provision room for doctor %s, confirming without links: %+v", doctor.ID, err)
	} else {
		link.Doctor = u.provisioner.MintJoinLink(ctx, roomID, doctor.Name, gateway.RoleHost)
		link.User = u.provisioner.MintJoinLink(ctx, roomID, user.Username, gateway.RoleGuest)
	}

	rows, err := u.bookingRepo.Assign(db, booking.ID, doctor.ID, link)
	if err != nil {
		u.log.Errorf("Failed to assign doctor %s to booking %s: %+v", doctor.ID, booking.ID, err)
		u.metrics.IncDoctorAssignment("failure")
		return err
	}
	if rows == 0 {
		u.metrics.IncDoctorAssignment("booking_not_found")
		return ErrBookingNotFound
	}

	u.auditService.Record(db, &booking.UserID, entity.AuditActionBookingAssign, entity.JSON{
		"booking_id": booking.ID.String(),
		"doctor_id":  doctor.ID.String(),
	})

	if user.Number != "" && doctor.Number != "" {
		date, slot := booking.Date, booking.Time
		u.notify("user", user.Number, user.CountryCode,
			fmt.Sprintf("Your appointment with Dr. %s is confirmed for %s at %s. Join link: %s", doctor.Name, date, slot, link.User))
		u.notify("doctor", doctor.Number, "",
			fmt.Sprintf("New appointment with %s on %s at %s. Join link: %s", user.Username, date, slot, link.Doctor))
	}

	u.metrics.IncDoctorAssignment("success")
	u.log.Infof("Doctor %s assigned to booking %s", doctor.ID, booking.ID)
	return nil
}

// notify sends an SMS without blocking the request. The goroutine carries its
// own deadline because the request context dies with the HTTP response.
func (u *assignmentUsecase) notify(kind, number, countryCode, message string) {
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), u.notifyTimeout)
		defer cancel()

		if err := u.notifier.Send(ctx, number, message, countryCode); err != nil {
			u.log.Warnf("Failed to send %s notification: %+v", kind, err)
			u.metrics.IncNotification(kind, "failure")
			return
		}
		u.metrics.IncNotification(kind, "success")
	}()
}

func (u *assignmentUsecase) Wait() {
	u.wg.Wait()
}
