package database

import (
	"context"
	"fmt"
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func seedDate(value string) time.Time {
	t, err := time.Parse(entity.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

// ResetTestData empties the booking tables and loads the fixed fixture:
// doctor 222222B with one cancelled appointment and doctor 8766788Y with one
// active appointment. Identities restart, so the rows get ids 1 and 2.
func ResetTestData(ctx context.Context, db *gorm.DB, log *logrus.Logger) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	if err := tx.Exec("TRUNCATE TABLE audit_logs, cancellations, appointments, doctors, clients RESTART IDENTITY CASCADE").Error; err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	clients := []entity.Client{{NIF: "12345678A"}, {NIF: "87654321B"}}
	if err := tx.Create(&clients).Error; err != nil {
		return fmt.Errorf("failed to seed clients: %w", err)
	}

	doctors := []entity.Doctor{
		{NIF: "222222B", ActiveAppointments: 0},
		{NIF: "8766788Y", ActiveAppointments: 1},
	}
	if err := tx.Create(&doctors).Error; err != nil {
		return fmt.Errorf("failed to seed doctors: %w", err)
	}

	appointments := []entity.Appointment{
		{AppointmentDate: seedDate("2022-03-24"), DoctorID: doctors[0].ID, ClientNIF: "12345678A"},
		{AppointmentDate: seedDate("2022-03-25"), DoctorID: doctors[1].ID, ClientNIF: "87654321B"},
	}
	if err := tx.Create(&appointments).Error; err != nil {
		return fmt.Errorf("failed to seed appointments: %w", err)
	}

	cancellation := entity.Cancellation{
		AppointmentID:    appointments[0].ID,
		CancellationDate: seedDate("2022-03-20"),
		Reason:           "Seed cancellation",
	}
	if err := tx.Create(&cancellation).Error; err != nil {
		return fmt.Errorf("failed to seed cancellation: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}

	log.Info("Test data reset: 2 clients, 2 doctors, 2 appointments, 1 cancellation")
	return nil
}
