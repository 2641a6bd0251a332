package entity

import "time"

// DateLayout is the day-granularity layout used for appointment and cancellation dates.
const DateLayout = "2006-01-02"

// Appointment is append-only. It is active while no Cancellation references it.
type Appointment struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AppointmentDate time.Time `gorm:"column:appointment_date;type:date;not null;index" json:"appointment_date"`
	DoctorID        int64     `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	ClientNIF       string    `gorm:"column:client_nif;type:varchar(9);not null" json:"client_nif"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Day truncates t to its calendar date, dropping the time of day and zone offset.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
