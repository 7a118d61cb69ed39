package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"telehealth-backend/internal/converter"
	"telehealth-backend/internal/delivery/dto"
	"telehealth-backend/internal/delivery/http/middleware"
	"telehealth-backend/internal/domain/entity"
	"telehealth-backend/internal/domain/gateway"
	"telehealth-backend/internal/domain/repository"
	"telehealth-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrPaymentFailed    = errors.New("payment creation failed")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

// currencyMinorUnitExponents maps currency codes to the power of ten between
// their major and minor units. Only USD is converted today, matching what
// clients already send for other currencies; extend this table per currency
// rather than special-casing call sites.
var currencyMinorUnitExponents = map[string]int{
	"USD": 2,
}

type BookingUsecase interface {
	PreparePayment(ctx context.Context, req *dto.PreparePaymentRequest) (map[string]interface{}, error)
	ConfirmBooking(ctx context.Context, req *dto.ConfirmBookingRequest) (*dto.BookingResponse, error)
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error)
	GetAssignedBookings(ctx context.Context) (*dto.BookingListResponse, error)
	GetAllBookings(ctx context.Context) (*dto.BookingListResponse, error)
}

type bookingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	bookingRepo  repository.BookingRepository
	gateway      gateway.PaymentGateway
	auditService service.AuditService
	metrics      MetricsSink
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	paymentGateway gateway.PaymentGateway,
	auditService service.AuditService,
	metrics MetricsSink,
) BookingUsecase {
	if metrics == nil {
		metrics = NoopMetrics()
	}
	return &bookingUsecase{
		db:           db,
		log:          log,
		bookingRepo:  bookingRepo,
		gateway:      paymentGateway,
		auditService: auditService,
		metrics:      metrics,
	}
}

// PreparePayment creates a remote payment order and returns the provider's
// order descriptor verbatim for client-side payment completion.
func (u *bookingUsecase) PreparePayment(ctx context.Context, req *dto.PreparePaymentRequest) (map[string]interface{}, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("payment_prepare", time.Since(start).Seconds()) }()

	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	amount := toMinorUnits(req.Amount, req.Currency)

	order, err := u.gateway.CreateOrder(ctx, amount, req.Currency)
	if err != nil {
		u.log.Errorf("Failed to create payment order (amount=%d %s): %+v", amount, req.Currency, err)
		u.metrics.IncPaymentOperation("prepare", "failure")
		return nil, ErrPaymentFailed
	}

	u.metrics.IncPaymentOperation("prepare", "success")
	return order, nil
}

// ConfirmBooking verifies the payment-callback signature and, only when it
// checks out, persists a pending booking owned by the authenticated patient.
func (u *bookingUsecase) ConfirmBooking(ctx context.Context, req *dto.ConfirmBookingRequest) (*dto.BookingResponse, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("booking_confirm", time.Since(start).Seconds()) }()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	if !u.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		u.log.Warnf("Rejected forged payment confirmation for order %s, user %s", req.OrderID, userID)
		u.metrics.IncPaymentOperation("verify", "invalid_signature")
		return nil, ErrInvalidSignature
	}
	u.metrics.IncPaymentOperation("verify", "success")

	booking := &entity.Booking{
		UserID:         userID,
		Date:           req.Details.Date,
		Time:           req.Details.Time,
		Speciality:     req.Details.Speciality,
		ChiefComplaint: req.Details.ChiefComplaint,
		Status:         entity.BookingStatusPending,
	}

	if err := u.bookingRepo.Create(u.db.WithContext(ctx), booking); err != nil {
		u.log.Errorf("Failed to create booking after payment for user %s: %+v", userID, err)
		u.metrics.IncBookingOperation("booking_confirm", "failure")
		return nil, err
	}

	u.auditService.Record(u.db.WithContext(ctx), &userID, entity.AuditActionBookingConfirm, entity.JSON{
		"booking_id": booking.ID.String(),
		"order_id":   req.OrderID,
		"payment_id": req.PaymentID,
	})

	u.metrics.IncBookingOperation("booking_confirm", "success")
	u.log.Infof("Booking created after payment: id=%s, user=%s, order=%s", booking.ID, userID, req.OrderID)
	return converter.BookingToResponse(booking), nil
}

// CreateBooking persists a pending booking without a payment step, for flows
// that do not require one.
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("booking_create", time.Since(start).Seconds()) }()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking := &entity.Booking{
		UserID:         userID,
		Date:           req.Date,
		Time:           req.Time,
		Speciality:     req.Speciality,
		ChiefComplaint: req.ChiefComplaint,
		Status:         entity.BookingStatusPending,
	}

	if err := u.bookingRepo.Create(u.db.WithContext(ctx), booking); err != nil {
		u.log.Errorf("Failed to create booking for user %s: %+v", userID, err)
		u.metrics.IncBookingOperation("booking_create", "failure")
		return nil, err
	}

	u.auditService.Record(u.db.WithContext(ctx), &userID, entity.AuditActionBookingCreate, entity.JSON{
		"booking_id": booking.ID.String(),
	})

	u.metrics.IncBookingOperation("booking_create", "success")
	u.log.Infof("Booking created: id=%s, user=%s", booking.ID, userID)
	return converter.BookingToResponse(booking), nil
}

// GetMyBookings returns all bookings for the logged-in patient
func (u *bookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	bookings, err := u.bookingRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetAssignedBookings returns all bookings assigned to the logged-in doctor
func (u *bookingUsecase) GetAssignedBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	bookings, err := u.bookingRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetAllBookings returns every booking with patient and doctor preloaded,
// newest first. Admin reporting surface.
func (u *bookingUsecase) GetAllBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	bookings, err := u.bookingRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all bookings: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// toMinorUnits scales a major-unit amount into the provider's minor units.
func toMinorUnits(amount float64, currency string) int64 {
	exp := currencyMinorUnitExponents[strings.ToUpper(currency)]
	return int64(math.Round(amount * math.Pow10(exp)))
}
