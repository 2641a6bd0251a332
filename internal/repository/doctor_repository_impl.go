package repository

import (
	"errors"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
)

// Both predicates compare cancelled appointments (joined through
// cancellations) with all appointments of the doctor on the same day, so the
// check and the counter write happen in a single statement.
const (
	cancelledOnDay = `(SELECT COUNT(*) FROM appointments a JOIN cancellations c ON c.appointment_id = a.id WHERE a.appointment_date = ? AND a.doctor_id = ?)`
	bookedOnDay    = `(SELECT COUNT(*) FROM appointments a WHERE a.appointment_date = ? AND a.doctor_id = ?)`

	slotFreePredicate          = cancelledOnDay + ` + 1 = ` + bookedOnDay
	firstCancellationPredicate = cancelledOnDay + ` = ` + bookedOnDay
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) FindByNIF(db *gorm.DB, nif string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("nif = ?", nif).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindBatch(db *gorm.DB, afterID int64, limit int) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) IncrementIfSlotFree(db *gorm.DB, doctorID int64, day time.Time) (int64, error) {
	result := db.Model(&entity.Doctor{}).
		Where("id = ?", doctorID).
		Where(slotFreePredicate, day, doctorID, day, doctorID).
		UpdateColumn("active_appointments", gorm.Expr("active_appointments + ?", 1))
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) DecrementIfFirstCancellation(db *gorm.DB, doctorID int64, day time.Time) (int64, error) {
	result := db.Model(&entity.Doctor{}).
		Where("id = ?", doctorID).
		Where(firstCancellationPredicate, day, doctorID, day, doctorID).
		UpdateColumn("active_appointments", gorm.Expr("active_appointments - ?", 1))
	return result.RowsAffected, result.Error
}
