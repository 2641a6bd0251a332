package dto

// Counter sources reported in DoctorSummaryResponse.
const (
	CounterSourceCache    = "cache"
	CounterSourceDatabase = "database"
)

type DoctorSummaryResponse struct {
	NIF                string `json:"nif"`
	ActiveAppointments int64  `json:"active_appointments"`
	Source             string `json:"source"`
}
