package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"
	"medical-appointment-booking/pkg/validator"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	// Format already checked by the validator.
	appointmentDate, _ := time.Parse(entity.DateLayout, req.AppointmentDate)

	appointment, err := h.appointmentUsecase.BookAppointment(r.Context(), req.ClientNIF, req.DoctorNIF, appointmentDate)
	if err != nil {
		writeUsecaseError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointmentDate, _ := time.Parse(entity.DateLayout, req.AppointmentDate)
	cancellationDate, _ := time.Parse(entity.DateLayout, req.CancellationDate)

	cancellation, err := h.appointmentUsecase.CancelAppointment(r.Context(), req.ClientNIF, req.DoctorNIF, appointmentDate, cancellationDate, req.Reason)
	if err != nil {
		writeUsecaseError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", cancellation)
}

func (h *AppointmentHandler) ListDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	nif := mux.Vars(r)["nif"]

	appointments, err := h.appointmentUsecase.ListActiveAppointments(r.Context(), nif)
	if err != nil {
		writeUsecaseError(w, err, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
