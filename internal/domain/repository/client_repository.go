package repository

import "gorm.io/gorm"

type ClientRepository interface {
	ExistsByNIF(db *gorm.DB, nif string) (bool, error)
}
