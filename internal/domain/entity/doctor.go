package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Availability maps a day identifier to the time slots offered that day.
// Stored as JSONB; slots are opaque strings, no conflict validation against
// bookings happens at this layer.
type Availability map[string][]string

// Value returns json value, implements driver.Valuer interface
func (a Availability) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan scans a JSONB value into Availability, implements sql.Scanner interface
func (a *Availability) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string][]string{}
	err := json.Unmarshal(bytes, &result)
	*a = Availability(result)
	return err
}

// Doctor represents a practitioner.
//
// RoomID is empty until the first assignment provisions a persistent video
// room for the doctor; once set it is never re-provisioned.
type Doctor struct {
	ID                 uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name               string       `gorm:"type:varchar(255);not null" json:"name"`
	Number             string       `gorm:"type:varchar(20)" json:"number"`
	Email              string       `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Password           string       `gorm:"type:text;not null" json:"-"`
	Speciality         string       `gorm:"type:varchar(100);index" json:"speciality"`
	Experience         string       `gorm:"type:varchar(50)" json:"experience"`
	Image              string       `gorm:"type:text" json:"image,omitempty"`
	RegistrationNumber string       `gorm:"type:varchar(100)" json:"registration_number,omitempty"`
	Degree             string       `gorm:"type:varchar(100)" json:"degree,omitempty"`
	PrescriptionID     string       `gorm:"type:varchar(10);not null" json:"prescription_id"`
	RoomID             string       `gorm:"type:varchar(100);not null;default:''" json:"room_id,omitempty"`
	Availability       Availability `gorm:"type:jsonb" json:"availability,omitempty"`
	CreatedAt          time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Bookings []Booking `gorm:"foreignKey:DoctorID" json:"bookings,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// HasRoom reports whether a persistent video room has been provisioned.
func (d *Doctor) HasRoom() bool {
	return d.RoomID != ""
}
