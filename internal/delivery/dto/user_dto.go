package dto

import (
	"github.com/google/uuid"
)

// Response DTOs

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	CountryCode string    `json:"country_code"`
	Number      string    `json:"number"`
	Email       string    `json:"email,omitempty"`
}
