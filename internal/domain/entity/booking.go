package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// VideoLink is the per-participant join link pair. Either side may be empty
// when link minting degraded; the booking is still considered confirmed.
type VideoLink struct {
	Doctor string `gorm:"type:text;not null;default:''" json:"doctor"`
	User   string `gorm:"type:text;not null;default:''" json:"user"`
}

// Booking represents one patient's request for a consultation.
//
// DoctorID, VideoLink and Status are written together exactly once by the
// doctor-assignment flow; a booking must never be observable with only part
// of that triple set.
type Booking struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	DoctorID       *uuid.UUID    `gorm:"type:uuid;index" json:"doctor_id"`
	Date           string        `gorm:"type:varchar(50)" json:"date"`
	Time           string        `gorm:"type:varchar(50)" json:"time"`
	Speciality     string        `gorm:"type:varchar(100)" json:"speciality"`
	ChiefComplaint string        `gorm:"type:text" json:"chief_complaint"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	VideoLink      VideoLink     `gorm:"embedded;embeddedPrefix:video_link_" json:"video_link"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User   User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsPending checks if booking is awaiting a doctor
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsConfirmed checks if a doctor has been assigned
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}
