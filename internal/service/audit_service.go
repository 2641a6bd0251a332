package service

import (
	"context"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogBooking(ctx context.Context, tx *gorm.DB, doctorNIF string, appointment *entity.Appointment) error
	LogCancellation(ctx context.Context, tx *gorm.DB, doctorNIF string, appointment *entity.Appointment, cancellation *entity.Cancellation) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogBooking records a new appointment. tx must be the booking transaction.
func (s *auditService) LogBooking(ctx context.Context, tx *gorm.DB, doctorNIF string, appointment *entity.Appointment) error {
	metadata := entity.JSON{
		"appointment_id":   appointment.ID,
		"appointment_date": appointment.AppointmentDate.Format(entity.DateLayout),
		"doctor_id":        appointment.DoctorID,
		"client_nif":       appointment.ClientNIF,
	}
	return s.write(tx, entity.AuditActionAppointmentBook, doctorNIF, metadata)
}

// LogCancellation records a cancellation together with the appointment it targets.
func (s *auditService) LogCancellation(ctx context.Context, tx *gorm.DB, doctorNIF string, appointment *entity.Appointment, cancellation *entity.Cancellation) error {
	metadata := entity.JSON{
		"cancellation_id":   cancellation.ID,
		"appointment_id":    appointment.ID,
		"appointment_date":  appointment.AppointmentDate.Format(entity.DateLayout),
		"cancellation_date": cancellation.CancellationDate.Format(entity.DateLayout),
		"reason":            cancellation.Reason,
	}
	return s.write(tx, entity.AuditActionAppointmentCancel, doctorNIF, metadata)
}

func (s *auditService) write(tx *gorm.DB, action, doctorNIF string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		Action:    action,
		DoctorNIF: doctorNIF,
		Metadata:  metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
