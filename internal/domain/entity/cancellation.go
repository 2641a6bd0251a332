package entity

import "time"

// Cancellation marks an Appointment as no longer active.
type Cancellation struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AppointmentID    int64     `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	CancellationDate time.Time `gorm:"column:cancellation_date;type:date;not null" json:"cancellation_date"`
	Reason           string    `gorm:"column:reason;type:text;not null" json:"reason"`
}

func (Cancellation) TableName() string {
	return "cancellations"
}
