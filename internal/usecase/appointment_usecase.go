package usecase

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CounterMirror is the post-commit copy of the per-doctor counters.
// *service.CounterSyncService implements it.
type CounterMirror interface {
	AdjustDoctorCounter(ctx context.Context, doctorNIF string, delta int64) error
	GetDoctorCounter(ctx context.Context, doctorNIF string) (int64, bool, error)
	SetDoctorCounter(ctx context.Context, doctorNIF string, value int64) error
}

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, clientNIF, doctorNIF string, appointmentDate time.Time) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, clientNIF, doctorNIF string, appointmentDate, cancellationDate time.Time, reason string) (*dto.CancellationResponse, error)
	ListActiveAppointments(ctx context.Context, doctorNIF string) (*dto.DoctorAppointmentsResponse, error)
}

// AppointmentOptions carries the tunables of AppointmentUsecase.
type AppointmentOptions struct {
	MinNoticeDays int
	Isolation     sql.IsolationLevel
}

type appointmentUsecase struct {
	log              *logrus.Logger
	tx               *txCoordinator
	clientRepo       repository.ClientRepository
	doctorRepo       repository.DoctorRepository
	appointmentRepo  repository.AppointmentRepository
	cancellationRepo repository.CancellationRepository
	auditService     service.AuditService
	reporter         *service.AppointmentReporter
	mirror           CounterMirror
	minNoticeDays    int
}

// NewAppointmentUsecase wires the booking flows. mirror may be nil when Redis
// is disabled.
func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clientRepo repository.ClientRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	cancellationRepo repository.CancellationRepository,
	auditService service.AuditService,
	reporter *service.AppointmentReporter,
	mirror CounterMirror,
	opts AppointmentOptions,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:              log,
		tx:               newTxCoordinator(db, log, opts.Isolation),
		clientRepo:       clientRepo,
		doctorRepo:       doctorRepo,
		appointmentRepo:  appointmentRepo,
		cancellationRepo: cancellationRepo,
		auditService:     auditService,
		reporter:         reporter,
		mirror:           mirror,
		minNoticeDays:    opts.MinNoticeDays,
	}
}

// BookAppointment inserts the appointment first and then claims the doctor's
// day with a conditional counter update. The update only matches when the new
// row is the single non-cancelled appointment of that doctor on that day, so a
// concurrent booking for the same slot leaves it at zero rows and the whole
// transaction rolls back. An unknown client surfaces as a foreign key violation
// on the insert.
//
// Under serializable isolation the loser of a race may instead be aborted with
// a serialization failure. The slot is then checked again outside the
// transaction and, when another active appointment holds it, the loser gets
// SlotAlreadyBooked like it would have from the conditional update.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, clientNIF, doctorNIF string, appointmentDate time.Time) (*dto.AppointmentResponse, error) {
	if len(clientNIF) > entity.NIFMaxLength {
		return nil, ErrClientNotFound
	}

	day := entity.Day(appointmentDate)
	var (
		appointment *entity.Appointment
		doctorID    int64
	)

	err := u.tx.run(ctx, "book appointment", KindClientNotFound, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByNIF(tx, doctorNIF)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		doctorID = doctor.ID

		appointment = &entity.Appointment{
			AppointmentDate: day,
			DoctorID:        doctor.ID,
			ClientNIF:       clientNIF,
		}
		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			return err
		}

		affected, err := u.doctorRepo.IncrementIfSlotFree(tx, doctor.ID, day)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSlotAlreadyBooked
		}

		return u.auditService.LogBooking(ctx, tx, doctorNIF, appointment)
	})
	if err != nil {
		if doctorID != 0 && isSerializationFailure(err) {
			return nil, u.recheckSlot(ctx, doctorID, day, err)
		}
		return nil, err
	}

	u.adjustMirror(ctx, doctorNIF, 1)
	u.log.Infof("Appointment %d booked for doctor %s on %s", appointment.ID, doctorNIF, day.Format(entity.DateLayout))

	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment records a cancellation for the appointment on the given
// date. The appointment is located by date alone. The counter decrement only
// matches when every appointment of the doctor on that day is cancelled with
// exactly one row per appointment, so a second cancellation of the same
// appointment affects zero rows and fails as already cancelled.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, clientNIF, doctorNIF string, appointmentDate, cancellationDate time.Time, reason string) (*dto.CancellationResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}

	apptDay := entity.Day(appointmentDate)
	cancelDay := entity.Day(cancellationDate)
	var cancellation *entity.Cancellation

	err := u.tx.run(ctx, "cancel appointment", KindAppointmentNotFound, func(tx *gorm.DB) error {
		exists, err := u.clientRepo.ExistsByNIF(tx, clientNIF)
		if err != nil {
			return err
		}
		if !exists {
			return ErrClientNotFound
		}

		doctor, err := u.doctorRepo.FindByNIF(tx, doctorNIF)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		if noticeDays(apptDay, cancelDay) < u.minNoticeDays {
			return ErrNoticeTooShort
		}

		appointment, err := u.appointmentRepo.FindByDate(tx, apptDay)
		if err != nil {
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}

		cancellation = &entity.Cancellation{
			AppointmentID:    appointment.ID,
			CancellationDate: cancelDay,
			Reason:           reason,
		}
		if err := u.cancellationRepo.Create(tx, cancellation); err != nil {
			return err
		}

		affected, err := u.doctorRepo.DecrementIfFirstCancellation(tx, doctor.ID, apptDay)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAlreadyCancelled
		}

		return u.auditService.LogCancellation(ctx, tx, doctorNIF, appointment, cancellation)
	})
	if err != nil {
		return nil, err
	}

	u.adjustMirror(ctx, doctorNIF, -1)
	u.log.Infof("Appointment %d cancelled for doctor %s", cancellation.AppointmentID, doctorNIF)

	return converter.CancellationToResponse(cancellation), nil
}

// ListActiveAppointments reads a doctor's non-cancelled appointments in one
// transaction, writes them to the report sink and returns them.
func (u *appointmentUsecase) ListActiveAppointments(ctx context.Context, doctorNIF string) (*dto.DoctorAppointmentsResponse, error) {
	var (
		doctor       *entity.Doctor
		appointments []entity.Appointment
	)

	err := u.tx.run(ctx, "list appointments", 0, func(tx *gorm.DB) error {
		var err error
		doctor, err = u.doctorRepo.FindByNIF(tx, doctorNIF)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		appointments, err = u.appointmentRepo.FindActiveByDoctorID(tx, doctor.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if u.reporter != nil {
		if err := u.reporter.WriteDoctorAppointments(doctor.ID, appointments); err != nil {
			u.log.Warnf("Failed to write appointment report for doctor %s: %+v", doctorNIF, err)
		}
	}

	return converter.DoctorAppointmentsToResponse(doctor, appointments), nil
}

// recheckSlot resolves a booking aborted by a serialization failure. It is not
// a retry: the booking stays rolled back either way.
func (u *appointmentUsecase) recheckSlot(ctx context.Context, doctorID int64, day time.Time, cause error) error {
	taken, err := u.appointmentRepo.ExistsActiveForDoctorOn(u.tx.db.WithContext(ctx), doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to recheck slot of doctor %d on %s: %+v", doctorID, day.Format(entity.DateLayout), err)
		return cause
	}
	if taken {
		return ErrSlotAlreadyBooked
	}
	return cause
}

func (u *appointmentUsecase) adjustMirror(ctx context.Context, doctorNIF string, delta int64) {
	if u.mirror == nil {
		return
	}
	if err := u.mirror.AdjustDoctorCounter(ctx, doctorNIF, delta); err != nil {
		u.log.Warnf("Failed to adjust counter mirror for doctor %s: %+v", doctorNIF, err)
	}
}

// noticeDays is the number of whole calendar days from the cancellation to the
// appointment. It is negative when the cancellation is dated after the appointment.
func noticeDays(appointmentDay, cancellationDay time.Time) int {
	return int(appointmentDay.Sub(cancellationDay).Hours() / 24)
}
