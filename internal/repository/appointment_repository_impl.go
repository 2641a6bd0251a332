package repository

import (
	"errors"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
)

const (
	notCancelled     = "NOT EXISTS (SELECT 1 FROM cancellations c WHERE c.appointment_id = appointments.id)"
	uncancelledFirst = "EXISTS (SELECT 1 FROM cancellations c WHERE c.appointment_id = appointments.id) ASC"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

// FindByDate returns an appointment on day regardless of doctor or client.
// Appointments without a cancellation come first, then the lowest id.
func (r *appointmentRepository) FindByDate(db *gorm.DB, day time.Time) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.
		Where("appointment_date = ?", day).
		Order(uncancelledFirst).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDoctorID(db *gorm.DB, doctorID int64) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.
		Where("doctor_id = ?", doctorID).
		Where(notCancelled).
		Order("appointment_date ASC, id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) ExistsActiveForDoctorOn(db *gorm.DB, doctorID int64, day time.Time) (bool, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Where("appointment_date = ?", day).
		Where(notCancelled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
