package repository

import (
	"errors"

	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

// FindAll returns the newest entries first. An empty doctorNIF matches every doctor.
func (r *auditLogRepository) FindAll(db *gorm.DB, doctorNIF string, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	query := db.Order("id DESC")
	if doctorNIF != "" {
		query = query.Where("doctor_nif = ?", doctorNIF)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := db.First(&log, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}
