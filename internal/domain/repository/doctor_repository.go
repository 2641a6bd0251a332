package repository

import (
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	FindByNIF(db *gorm.DB, nif string) (*entity.Doctor, error)
	FindBatch(db *gorm.DB, afterID int64, limit int) ([]entity.Doctor, error)

	// IncrementIfSlotFree adds one to the doctor's counter only when exactly one
	// active appointment exists for the doctor on day. Zero rows affected means
	// the slot was already taken.
	IncrementIfSlotFree(db *gorm.DB, doctorID int64, day time.Time) (int64, error)

	// DecrementIfFirstCancellation subtracts one from the doctor's counter only
	// when no active appointment remains for the doctor on day and every
	// appointment there carries exactly one cancellation. Zero rows affected
	// means the appointment had already been cancelled.
	DecrementIfFirstCancellation(db *gorm.DB, doctorID int64, day time.Time) (int64, error)
}
