package dto

import (
	"time"

	"telehealth-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Name               string `json:"name" validate:"required"`
	Number             string `json:"number" validate:"required"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,min=8"`
	Speciality         string `json:"speciality"`
	Experience         string `json:"experience"`
	Image              string `json:"image"`
	RegistrationNumber string `json:"registration_number"`
	Degree             string `json:"degree"`
}

type UpdateAvailabilityRequest struct {
	Availability entity.Availability `json:"availability" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Name               string              `json:"name"`
	Number             string              `json:"number"`
	Email              string              `json:"email"`
	Speciality         string              `json:"speciality"`
	Experience         string              `json:"experience"`
	Image              string              `json:"image,omitempty"`
	RegistrationNumber string              `json:"registration_number,omitempty"`
	Degree             string              `json:"degree,omitempty"`
	PrescriptionID     string              `json:"prescription_id"`
	RoomID             string              `json:"room_id,omitempty"`
	Availability       entity.Availability `json:"availability,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type AvailabilityResponse struct {
	Availability entity.Availability `json:"availability"`
}
