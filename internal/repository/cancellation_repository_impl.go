package repository

import (
	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type cancellationRepository struct{}

func NewCancellationRepository() domainRepo.CancellationRepository {
	return &cancellationRepository{}
}

func (r *cancellationRepository) Create(db *gorm.DB, cancellation *entity.Cancellation) error {
	return db.Create(cancellation).Error
}
