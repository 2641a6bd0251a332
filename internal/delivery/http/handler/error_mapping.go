package handler

import (
	"errors"
	"net/http"

	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"
)

var kindStatus = map[usecase.ErrorKind]int{
	usecase.KindClientNotFound:      http.StatusNotFound,
	usecase.KindDoctorNotFound:      http.StatusNotFound,
	usecase.KindAppointmentNotFound: http.StatusNotFound,
	usecase.KindSlotAlreadyBooked:   http.StatusConflict,
	usecase.KindAlreadyCancelled:    http.StatusConflict,
	usecase.KindNoticeTooShort:      http.StatusUnprocessableEntity,
	usecase.KindMissingReason:       http.StatusUnprocessableEntity,
}

// writeUsecaseError renders a domain failure with its code, and anything else
// as an internal error carrying fallback.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	var appErr *usecase.AppointmentError
	if errors.As(err, &appErr) {
		status, ok := kindStatus[appErr.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		response.DomainError(w, status, appErr.Code(), appErr.Error())
		return
	}
	response.InternalServerError(w, fallback)
}
