package dto

// Request DTOs

type BookAppointmentRequest struct {
	ClientNIF       string `json:"client_nif" validate:"required,max=9"`
	DoctorNIF       string `json:"doctor_nif" validate:"required,max=9"`
	AppointmentDate string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
}

// CancelAppointmentRequest does not validate Reason. An empty reason is
// reported by the usecase as MissingReason.
type CancelAppointmentRequest struct {
	ClientNIF        string `json:"client_nif" validate:"required,max=9"`
	DoctorNIF        string `json:"doctor_nif" validate:"required,max=9"`
	AppointmentDate  string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	CancellationDate string `json:"cancellation_date" validate:"required,datetime=2006-01-02"`
	Reason           string `json:"reason"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              int64  `json:"id"`
	AppointmentDate string `json:"appointment_date"`
	DoctorID        int64  `json:"doctor_id"`
	ClientNIF       string `json:"client_nif"`
}

type CancellationResponse struct {
	ID               int64  `json:"id"`
	AppointmentID    int64  `json:"appointment_id"`
	CancellationDate string `json:"cancellation_date"`
	Reason           string `json:"reason"`
}

type DoctorAppointmentsResponse struct {
	DoctorID     int64                 `json:"doctor_id"`
	DoctorNIF    string                `json:"doctor_nif"`
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
