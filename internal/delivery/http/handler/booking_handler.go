package handler

import (
	"encoding/json"
	"net/http"

	"telehealth-backend/internal/delivery/dto"
	"telehealth-backend/internal/usecase"
	"telehealth-backend/pkg/response"
	"telehealth-backend/pkg/validator"
)

type BookingHandler struct {
	bookingUsecase    usecase.BookingUsecase
	assignmentUsecase usecase.AssignmentUsecase
	validator         *validator.CustomValidator
}

func NewBookingHandler(
	bookingUsecase usecase.BookingUsecase,
	assignmentUsecase usecase.AssignmentUsecase,
	validator *validator.CustomValidator,
) *BookingHandler {
	return &BookingHandler{
		bookingUsecase:    bookingUsecase,
		assignmentUsecase: assignmentUsecase,
		validator:         validator,
	}
}

func (h *BookingHandler) PreparePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PreparePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.bookingUsecase.PreparePayment(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAmount:
			response.BadRequest(w, "Amount must be positive")
		default:
			response.InternalServerError(w, "Failed to create payment order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment order created successfully", order)
}

func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.ConfirmBooking(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidSignature:
			response.BadRequest(w, "Invalid signature")
		default:
			response.InternalServerError(w, "Failed to confirm booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking confirmed successfully", booking)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetMyBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetAssignedBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetAssignedBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetAllBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) AssignDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.assignmentUsecase.AssignDoctor(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.BadRequest(w, "Doctor not found")
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrUserNotFound:
			response.BadRequest(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to assign doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor assigned successfully", nil)
}
