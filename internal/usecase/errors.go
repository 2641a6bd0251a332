package usecase

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind enumerates the domain failures of the booking and cancellation operations.
type ErrorKind int

const (
	KindClientNotFound ErrorKind = iota + 1
	KindDoctorNotFound
	KindSlotAlreadyBooked
	KindAppointmentNotFound
	KindNoticeTooShort
	KindAlreadyCancelled
	KindMissingReason
)

var kindNames = map[ErrorKind]string{
	KindClientNotFound:      "client not found",
	KindDoctorNotFound:      "doctor not found",
	KindSlotAlreadyBooked:   "doctor already has an appointment on that date",
	KindAppointmentNotFound: "appointment not found",
	KindNoticeTooShort:      "cancellation notice is too short",
	KindAlreadyCancelled:    "appointment is already cancelled",
	KindMissingReason:       "cancellation reason is required",
}

// Code returns the numeric error code reported to callers. NoticeTooShort and
// AlreadyCancelled share code 5.
func (k ErrorKind) Code() int {
	switch k {
	case KindNoticeTooShort, KindAlreadyCancelled:
		return 5
	case KindMissingReason:
		return 6
	default:
		return int(k)
	}
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// AppointmentError is the typed error returned for every domain failure.
type AppointmentError struct {
	Kind ErrorKind
}

func (e *AppointmentError) Error() string {
	return e.Kind.String()
}

func (e *AppointmentError) Code() int {
	return e.Kind.Code()
}

func (e *AppointmentError) Is(target error) bool {
	t, ok := target.(*AppointmentError)
	return ok && t.Kind == e.Kind
}

var (
	ErrClientNotFound      = &AppointmentError{Kind: KindClientNotFound}
	ErrDoctorNotFound      = &AppointmentError{Kind: KindDoctorNotFound}
	ErrSlotAlreadyBooked   = &AppointmentError{Kind: KindSlotAlreadyBooked}
	ErrAppointmentNotFound = &AppointmentError{Kind: KindAppointmentNotFound}
	ErrNoticeTooShort      = &AppointmentError{Kind: KindNoticeTooShort}
	ErrAlreadyCancelled    = &AppointmentError{Kind: KindAlreadyCancelled}
	ErrMissingReason       = &AppointmentError{Kind: KindMissingReason}

	// ErrStoreFailure wraps every store error that is not a domain failure.
	ErrStoreFailure = errors.New("store failure")
)

// KindOf reports the domain kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var appErr *AppointmentError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreFailure, err)
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// isSerializationFailure reports a transaction aborted by the server because it
// could not be serialized against a concurrent one (SQLSTATE 40001).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001"
	}
	return false
}
