package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type PreparePaymentRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
}

// CreateBookingRequest carries the patient-supplied booking details. The
// owning user comes from the authentication verdict, never the body.
type CreateBookingRequest struct {
	Date           string `json:"date" validate:"required"`
	Time           string `json:"time" validate:"required"`
	Speciality     string `json:"speciality"`
	ChiefComplaint string `json:"chief_complaint"`
}

// ConfirmBookingRequest is the payment-callback payload plus booking details.
// Field names mirror the payment provider's callback format.
type ConfirmBookingRequest struct {
	OrderID   string               `json:"razorpay_order_id" validate:"required"`
	PaymentID string               `json:"razorpay_payment_id" validate:"required"`
	Signature string               `json:"razorpay_signature" validate:"required"`
	Details   CreateBookingRequest `json:"details" validate:"required"`
}

type AssignDoctorRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
}

// Response DTOs

type VideoLinkResponse struct {
	Doctor string `json:"doctor"`
	User   string `json:"user"`
}

type BookingResponse struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	DoctorID       *uuid.UUID        `json:"doctor_id"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Speciality     string            `json:"speciality"`
	ChiefComplaint string            `json:"chief_complaint"`
	Status         string            `json:"status"`
	VideoLink      VideoLinkResponse `json:"video_link"`
	User           *UserResponse     `json:"user,omitempty"`
	Doctor         *DoctorResponse   `json:"doctor,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}
