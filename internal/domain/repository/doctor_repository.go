package repository

import (
	"telehealth-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	UpdateAvailability(db *gorm.DB, id uuid.UUID, availability entity.Availability) (int64, error)
	// ClaimRoom is a compare-and-set: the room id is written only while the
	// doctor still has none. Returns affected rows; 0 means another writer won
	// the race and the caller should re-read the doctor.
	ClaimRoom(db *gorm.DB, id uuid.UUID, roomID string) (int64, error)
}
