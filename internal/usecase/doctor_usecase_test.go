package usecase

import (
	"context"
	"testing"

	"medical-appointment-booking/internal/delivery/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDoctorSummary_FromMirror(t *testing.T) {
	db, _ := newMockDB(t)
	store := newSeededStore()
	mirror := newFakeMirror()
	mirror.values["8766788Y"] = 7

	uc := NewDoctorUsecase(db, newTestLogger(), store, mirror)
	summary, err := uc.GetDoctorSummary(context.Background(), "8766788Y")

	require.NoError(t, err)
	assert.Equal(t, int64(7), summary.ActiveAppointments)
	assert.Equal(t, dto.CounterSourceCache, summary.Source)
}

func TestGetDoctorSummary_DatabaseFallbackRefreshesMirror(t *testing.T) {
	db, _ := newMockDB(t)
	store := newSeededStore()
	mirror := newFakeMirror()

	uc := NewDoctorUsecase(db, newTestLogger(), store, mirror)
	summary, err := uc.GetDoctorSummary(context.Background(), "8766788Y")

	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.ActiveAppointments)
	assert.Equal(t, dto.CounterSourceDatabase, summary.Source)
	assert.Equal(t, int64(1), mirror.values["8766788Y"])
}

func TestGetDoctorSummary_MirrorErrorFallsBack(t *testing.T) {
	db, _ := newMockDB(t)
	store := newSeededStore()
	mirror := newFakeMirror()
	mirror.getErr = errBoom

	uc := NewDoctorUsecase(db, newTestLogger(), store, mirror)
	summary, err := uc.GetDoctorSummary(context.Background(), "222222B")

	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.ActiveAppointments)
	assert.Equal(t, dto.CounterSourceDatabase, summary.Source)
}

func TestGetDoctorSummary_WithoutMirror(t *testing.T) {
	db, _ := newMockDB(t)

	uc := NewDoctorUsecase(db, newTestLogger(), newSeededStore(), nil)
	summary, err := uc.GetDoctorSummary(context.Background(), "8766788Y")

	require.NoError(t, err)
	assert.Equal(t, dto.CounterSourceDatabase, summary.Source)
}

func TestGetDoctorSummary_UnknownDoctor(t *testing.T) {
	db, _ := newMockDB(t)

	uc := NewDoctorUsecase(db, newTestLogger(), newSeededStore(), newFakeMirror())
	_, err := uc.GetDoctorSummary(context.Background(), "222288B")

	assert.ErrorIs(t, err, ErrDoctorNotFound)
}
