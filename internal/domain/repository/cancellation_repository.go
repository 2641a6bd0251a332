package repository

import (
	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type CancellationRepository interface {
	Create(db *gorm.DB, cancellation *entity.Cancellation) error
}
