package repository

import (
	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type clientRepository struct{}

func NewClientRepository() domainRepo.ClientRepository {
	return &clientRepository{}
}

func (r *clientRepository) ExistsByNIF(db *gorm.DB, nif string) (bool, error) {
	var count int64
	err := db.Model(&entity.Client{}).Where("nif = ?", nif).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
