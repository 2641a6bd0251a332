package converter

import (
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		AppointmentDate: appointment.AppointmentDate.Format(entity.DateLayout),
		DoctorID:        appointment.DoctorID,
		ClientNIF:       appointment.ClientNIF,
	}
}

// AppointmentsToResponses keeps the order of appointments
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func CancellationToResponse(cancellation *entity.Cancellation) *dto.CancellationResponse {
	if cancellation == nil {
		return nil
	}

	return &dto.CancellationResponse{
		ID:               cancellation.ID,
		AppointmentID:    cancellation.AppointmentID,
		CancellationDate: cancellation.CancellationDate.Format(entity.DateLayout),
		Reason:           cancellation.Reason,
	}
}

func DoctorAppointmentsToResponse(doctor *entity.Doctor, appointments []entity.Appointment) *dto.DoctorAppointmentsResponse {
	return &dto.DoctorAppointmentsResponse{
		DoctorID:     doctor.ID,
		DoctorNIF:    doctor.NIF,
		Appointments: AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}
}
