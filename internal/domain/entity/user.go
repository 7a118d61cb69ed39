package entity

import (
	"time"

	"github.com/google/uuid"
)

// Roles carried in the authentication verdict. The core trusts these
// unconditionally; issuing credentials is an external collaborator's job.
const (
	RoleUser   = "user"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// User represents a patient identity
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username    string    `gorm:"type:varchar(255);not null" json:"username"`
	CountryCode string    `gorm:"type:varchar(8);not null;default:'+91'" json:"country_code"`
	Number      string    `gorm:"type:varchar(20);index" json:"number"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	DOB         string    `gorm:"type:varchar(20)" json:"dob,omitempty"`
	Gender      string    `gorm:"type:varchar(20)" json:"gender,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
}

func (User) TableName() string {
	return "users"
}
