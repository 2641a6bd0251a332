package repository

import (
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	// FindByDate prefers an appointment that has not been cancelled yet.
	FindByDate(db *gorm.DB, day time.Time) (*entity.Appointment, error)
	ExistsActiveForDoctorOn(db *gorm.DB, doctorID int64, day time.Time) (bool, error)
	FindActiveByDoctorID(db *gorm.DB, doctorID int64) ([]entity.Appointment, error)
}
