package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"telehealth-backend/internal/converter"
	"telehealth-backend/internal/delivery/dto"
	"telehealth-backend/internal/delivery/http/middleware"
	"telehealth-backend/internal/domain/entity"
	"telehealth-backend/internal/domain/gateway"
	"telehealth-backend/internal/domain/repository"
	"telehealth-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	DeleteDoctor(ctx context.Context, id string) error
	GetAvailability(ctx context.Context) (*dto.AvailabilityResponse, error)
	UpdateAvailability(ctx context.Context, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error)
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	provisioner  gateway.RoomProvisioner
	auditService service.AuditService
	metrics      MetricsSink
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	provisioner gateway.RoomProvisioner,
	auditService service.AuditService,
	metrics MetricsSink,
) DoctorUsecase {
	if metrics == nil {
		metrics = NoopMetrics()
	}
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		provisioner:  provisioner,
		auditService: auditService,
		metrics:      metrics,
	}
}

// CreateDoctor registers a doctor and eagerly provisions their video room so
// the first assignment doesn't pay the provider round-trip.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Errorf("Failed to hash password: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{
		Name:               req.Name,
		Number:             req.Number,
		Email:              req.Email,
		Password:           string(hashed),
		Speciality:         req.Speciality,
		Experience:         req.Experience,
		Image:              req.Image,
		RegistrationNumber: req.RegistrationNumber,
		Degree:             req.Degree,
		PrescriptionID:     generatePrescriptionID(),
	}

	db := u.db.WithContext(ctx)
	if err := u.doctorRepo.Create(db, doctor); err != nil {
		u.log.Errorf("Failed to create doctor %s: %+v", req.Email, err)
		return nil, err
	}

	// Best effort: a failure here just defers provisioning to first use.
	if _, err := u.provisioner.EnsureRoom(ctx, doctor); err != nil {
		u.log.Warnf("Failed to provision room for new doctor %s: %+v", doctor.ID, err)
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	u.auditService.Record(db, &adminID, entity.AuditActionDoctorCreate, entity.JSON{
		"doctor_id": doctor.ID.String(),
		"email":     doctor.Email,
	})

	u.log.Infof("Doctor created: id=%s, email=%s", doctor.ID, doctor.Email)
	return converter.DoctorToResponse(doctor), nil
}

// GetAllDoctors returns all registered doctors
func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// DeleteDoctor removes a doctor record
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, id string) error {
	doctorID, err := uuid.Parse(id)
	if err != nil {
		return ErrDoctorNotFound
	}

	db := u.db.WithContext(ctx)
	rows, err := u.doctorRepo.Delete(db, doctorID)
	if err != nil {
		u.log.Errorf("Failed to delete doctor %s: %+v", doctorID, err)
		return err
	}
	if rows == 0 {
		return ErrDoctorNotFound
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	u.auditService.Record(db, &adminID, entity.AuditActionDoctorDelete, entity.JSON{
		"doctor_id": doctorID.String(),
	})

	u.log.Infof("Doctor deleted: id=%s", doctorID)
	return nil
}

// GetAvailability returns the logged-in doctor's weekly availability
func (u *doctorUsecase) GetAvailability(ctx context.Context) (*dto.AvailabilityResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return &dto.AvailabilityResponse{Availability: doctor.Availability}, nil
}

// UpdateAvailability replaces the logged-in doctor's weekly availability
func (u *doctorUsecase) UpdateAvailability(ctx context.Context, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	db := u.db.WithContext(ctx)
	rows, err := u.doctorRepo.UpdateAvailability(db, doctorID, req.Availability)
	if err != nil {
		u.log.Errorf("Failed to update availability for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrDoctorNotFound
	}

	u.auditService.Record(db, &doctorID, entity.AuditActionAvailability, entity.JSON{
		"doctor_id": doctorID.String(),
	})

	u.log.Infof("Availability updated: doctor=%s", doctorID)
	return &dto.AvailabilityResponse{Availability: req.Availability}, nil
}

// generatePrescriptionID generates a random 6-digit prescription pad id.
func generatePrescriptionID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
