package converter

import (
	"telehealth-backend/internal/delivery/dto"
	"telehealth-backend/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO.
// The password hash never crosses this boundary.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                 doctor.ID,
		Name:               doctor.Name,
		Number:             doctor.Number,
		Email:              doctor.Email,
		Speciality:         doctor.Speciality,
		Experience:         doctor.Experience,
		Image:              doctor.Image,
		RegistrationNumber: doctor.RegistrationNumber,
		Degree:             doctor.Degree,
		PrescriptionID:     doctor.PrescriptionID,
		RoomID:             doctor.RoomID,
		Availability:       doctor.Availability,
		CreatedAt:          doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		resp := DoctorToResponse(&doctors[i])
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
