package repository

import (
	"telehealth-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Booking, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Booking, error)
	FindAll(db *gorm.DB) ([]entity.Booking, error)
	// Assign sets doctor_id, both video links and status=confirmed in a single
	// UPDATE. Returns affected rows: 0 means the booking vanished underneath us.
	Assign(db *gorm.DB, id uuid.UUID, doctorID uuid.UUID, link entity.VideoLink) (int64, error)
}
