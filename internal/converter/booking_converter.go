package converter

import (
	"telehealth-backend/internal/delivery/dto"
	"telehealth-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:             booking.ID,
		UserID:         booking.UserID,
		DoctorID:       booking.DoctorID,
		Date:           booking.Date,
		Time:           booking.Time,
		Speciality:     booking.Speciality,
		ChiefComplaint: booking.ChiefComplaint,
		Status:         string(booking.Status),
		VideoLink: dto.VideoLinkResponse{
			Doctor: booking.VideoLink.Doctor,
			User:   booking.VideoLink.User,
		},
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}

	if booking.User.ID != uuid.Nil {
		response.User = UserToResponse(&booking.User)
	}
	if booking.Doctor != nil {
		response.Doctor = DoctorToResponse(booking.Doctor)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp := BookingToResponse(&bookings[i])
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
