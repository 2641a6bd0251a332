package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memState is one snapshot of the booking tables.
type memState struct {
	clients       map[string]bool
	doctors       []entity.Doctor
	appointments  []entity.Appointment
	cancellations []entity.Cancellation
	auditLogs     []entity.AuditLog
}

func (s memState) clone() memState {
	clients := make(map[string]bool, len(s.clients))
	for k, v := range s.clients {
		clients[k] = v
	}
	return memState{
		clients:       clients,
		doctors:       append([]entity.Doctor(nil), s.doctors...),
		appointments:  append([]entity.Appointment(nil), s.appointments...),
		cancellations: append([]entity.Cancellation(nil), s.cancellations...),
		auditLogs:     append([]entity.AuditLog(nil), s.auditLogs...),
	}
}

// memStore implements every repository the usecases need over an in-memory
// working copy. settle keeps or discards the working copy depending on the
// outcome of the operation, mirroring commit and rollback.
type memStore struct {
	mu        sync.Mutex
	committed memState
	working   memState

	findDoctorErr error
	incrementErr  error
	auditErr      error
}

func newSeededStore() *memStore {
	day := func(v string) time.Time {
		t, err := time.Parse(entity.DateLayout, v)
		if err != nil {
			panic(err)
		}
		return t
	}
	state := memState{
		clients: map[string]bool{"12345678A": true, "87654321B": true},
		doctors: []entity.Doctor{
			{ID: 1, NIF: "222222B", ActiveAppointments: 0},
			{ID: 2, NIF: "8766788Y", ActiveAppointments: 1},
		},
		appointments: []entity.Appointment{
			{ID: 1, AppointmentDate: day("2022-03-24"), DoctorID: 1, ClientNIF: "12345678A"},
			{ID: 2, AppointmentDate: day("2022-03-25"), DoctorID: 2, ClientNIF: "87654321B"},
		},
		cancellations: []entity.Cancellation{
			{ID: 1, AppointmentID: 1, CancellationDate: day("2022-03-20"), Reason: "Seed cancellation"},
		},
	}
	return &memStore{committed: state, working: state.clone()}
}

func (s *memStore) settle(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.committed = s.working.clone()
	} else {
		s.working = s.committed.clone()
	}
}

func (s *memStore) doctor(nif string) entity.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.committed.doctors {
		if d.NIF == nif {
			return d
		}
	}
	return entity.Doctor{}
}

func (s *memStore) counts(doctorID int64, day time.Time) (cancelled, total int) {
	for _, a := range s.working.appointments {
		if a.DoctorID != doctorID || !a.AppointmentDate.Equal(day) {
			continue
		}
		total++
		for _, c := range s.working.cancellations {
			if c.AppointmentID == a.ID {
				cancelled++
			}
		}
	}
	return cancelled, total
}

func (s *memStore) adjust(doctorID int64, delta int64) {
	for i := range s.working.doctors {
		if s.working.doctors[i].ID == doctorID {
			s.working.doctors[i].ActiveAppointments += delta
		}
	}
}

// ClientRepository

func (s *memStore) ExistsByNIF(_ *gorm.DB, nif string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.clients[nif], nil
}

// DoctorRepository

func (s *memStore) FindByNIF(_ *gorm.DB, nif string) (*entity.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findDoctorErr != nil {
		return nil, s.findDoctorErr
	}
	for _, d := range s.working.doctors {
		if d.NIF == nif {
			doctor := d
			return &doctor, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindBatch(_ *gorm.DB, afterID int64, limit int) ([]entity.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Doctor
	for _, d := range s.working.doctors {
		if d.ID > afterID && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) IncrementIfSlotFree(_ *gorm.DB, doctorID int64, day time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrementErr != nil {
		return 0, s.incrementErr
	}
	cancelled, total := s.counts(doctorID, day)
	if cancelled+1 != total {
		return 0, nil
	}
	s.adjust(doctorID, 1)
	return 1, nil
}

func (s *memStore) DecrementIfFirstCancellation(_ *gorm.DB, doctorID int64, day time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled, total := s.counts(doctorID, day)
	if cancelled != total {
		return 0, nil
	}
	s.adjust(doctorID, -1)
	return 1, nil
}

// AppointmentRepository

func (s *memStore) Create(_ *gorm.DB, appointment *entity.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.working.clients[appointment.ClientNIF] {
		return &pgconn.PgError{Code: "23503", Message: "insert or update on table \"appointments\" violates foreign key constraint"}
	}
	appointment.ID = int64(len(s.working.appointments) + 1)
	s.working.appointments = append(s.working.appointments, *appointment)
	return nil
}

func (st memState) isCancelled(appointmentID int64) bool {
	for _, c := range st.cancellations {
		if c.AppointmentID == appointmentID {
			return true
		}
	}
	return false
}

func (s *memStore) FindByDate(_ *gorm.DB, day time.Time) (*entity.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *entity.Appointment
	for _, a := range s.working.appointments {
		if !a.AppointmentDate.Equal(day) {
			continue
		}
		appointment := a
		if !s.working.isCancelled(a.ID) {
			return &appointment, nil
		}
		if found == nil {
			found = &appointment
		}
	}
	return found, nil
}

// ExistsActiveForDoctorOn reads committed rows only, it runs after the
// failed transaction has been rolled back.
func (s *memStore) ExistsActiveForDoctorOn(_ *gorm.DB, doctorID int64, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.committed.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(day) && !s.committed.isCancelled(a.ID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) FindActiveByDoctorID(_ *gorm.DB, doctorID int64) ([]entity.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Appointment
	for _, a := range s.working.appointments {
		if a.DoctorID != doctorID {
			continue
		}
		cancelled := false
		for _, c := range s.working.cancellations {
			if c.AppointmentID == a.ID {
				cancelled = true
			}
		}
		if !cancelled {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].AppointmentDate.Before(out[j].AppointmentDate)
	})
	return out, nil
}

// cancellationStore and auditStore give the two remaining Create methods
// their own receivers.
type cancellationStore struct{ *memStore }

func (s cancellationStore) Create(_ *gorm.DB, cancellation *entity.Cancellation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	known := false
	for _, a := range s.working.appointments {
		if a.ID == cancellation.AppointmentID {
			known = true
		}
	}
	if !known {
		return &pgconn.PgError{Code: "23503"}
	}
	cancellation.ID = int64(len(s.working.cancellations) + 1)
	s.working.cancellations = append(s.working.cancellations, *cancellation)
	return nil
}

type auditStore struct{ *memStore }

func (s auditStore) Create(_ *gorm.DB, log *entity.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auditErr != nil {
		return s.auditErr
	}
	log.ID = int64(len(s.working.auditLogs) + 1)
	s.working.auditLogs = append(s.working.auditLogs, *log)
	return nil
}

func (s auditStore) FindAll(_ *gorm.DB, doctorNIF string, limit int) ([]entity.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.AuditLog
	for i := len(s.committed.auditLogs) - 1; i >= 0; i-- {
		l := s.committed.auditLogs[i]
		if doctorNIF != "" && l.DoctorNIF != doctorNIF {
			continue
		}
		out = append(out, l)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s auditStore) FindByID(_ *gorm.DB, id int64) (*entity.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.committed.auditLogs {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

// fakeMirror records the deltas applied after commit.
type fakeMirror struct {
	mu        sync.Mutex
	values    map[string]int64
	deltas    []int64
	adjustErr error
	getErr    error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{values: map[string]int64{}}
}

func (m *fakeMirror) AdjustDoctorCounter(_ context.Context, doctorNIF string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adjustErr != nil {
		return m.adjustErr
	}
	m.deltas = append(m.deltas, delta)
	m.values[doctorNIF] += delta
	return nil
}

func (m *fakeMirror) GetDoctorCounter(_ context.Context, doctorNIF string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, false, m.getErr
	}
	v, ok := m.values[doctorNIF]
	return v, ok, nil
}

func (m *fakeMirror) SetDoctorCounter(_ context.Context, doctorNIF string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[doctorNIF] = value
	return nil
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newMockDB opens gorm over sqlmock. Only transaction boundaries reach it, the
// statements themselves go to memStore.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

var errBoom = errors.New("connection reset by peer")
