package usecase

import (
	"context"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DoctorUsecase interface {
	GetDoctorSummary(ctx context.Context, doctorNIF string) (*dto.DoctorSummaryResponse, error)
}

type doctorUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	doctorRepo repository.DoctorRepository
	mirror     CounterMirror
}

func NewDoctorUsecase(db *gorm.DB, log *logrus.Logger, doctorRepo repository.DoctorRepository, mirror CounterMirror) DoctorUsecase {
	return &doctorUsecase{
		db:         db,
		log:        log,
		doctorRepo: doctorRepo,
		mirror:     mirror,
	}
}

// GetDoctorSummary serves the active appointment counter from the Redis mirror
// when it holds the doctor, and from the database otherwise. A database read
// repopulates the mirror.
func (u *doctorUsecase) GetDoctorSummary(ctx context.Context, doctorNIF string) (*dto.DoctorSummaryResponse, error) {
	if u.mirror != nil {
		value, ok, err := u.mirror.GetDoctorCounter(ctx, doctorNIF)
		if err != nil {
			u.log.Warnf("Failed to read counter mirror for doctor %s, falling back to database: %+v", doctorNIF, err)
		} else if ok {
			return &dto.DoctorSummaryResponse{
				NIF:                doctorNIF,
				ActiveAppointments: value,
				Source:             dto.CounterSourceCache,
			}, nil
		}
	}

	doctor, err := u.doctorRepo.FindByNIF(u.db.WithContext(ctx), doctorNIF)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorNIF, err)
		return nil, storeFailure(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if u.mirror != nil {
		if err := u.mirror.SetDoctorCounter(ctx, doctor.NIF, doctor.ActiveAppointments); err != nil {
			u.log.Warnf("Failed to refresh counter mirror for doctor %s: %+v", doctorNIF, err)
		}
	}

	return &dto.DoctorSummaryResponse{
		NIF:                doctor.NIF,
		ActiveAppointments: doctor.ActiveAppointments,
		Source:             dto.CounterSourceDatabase,
	}, nil
}
