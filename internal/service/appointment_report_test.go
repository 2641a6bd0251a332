package service

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDoctorAppointments(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewAppointmentReporter(&buf)

	err := reporter.WriteDoctorAppointments(2, []entity.Appointment{
		{ID: 2, AppointmentDate: time.Date(2022, 3, 25, 0, 0, 0, 0, time.UTC), DoctorID: 2, ClientNIF: "87654321B"},
		{ID: 7, AppointmentDate: time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC), DoctorID: 2, ClientNIF: "12345678A"},
	})

	require.NoError(t, err)
	assert.Equal(t,
		"Consultas para el médico 2\n"+
			"*Fecha: 2022-03-25   *Consulta: 2   *NIF Paciente: 87654321B\n"+
			"*Fecha: 2022-04-01   *Consulta: 7   *NIF Paciente: 12345678A\n",
		buf.String())
}

func TestWriteDoctorAppointments_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewAppointmentReporter(&buf).WriteDoctorAppointments(1, nil))
	assert.Equal(t, "Consultas para el médico 1\n", buf.String())
}

func TestWriteDoctorAppointments_ConcurrentListingsDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewAppointmentReporter(&buf)

	appointments := make([]entity.Appointment, 50)
	for i := range appointments {
		appointments[i] = entity.Appointment{ID: int64(i + 1), AppointmentDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ClientNIF: "12345678A"}
	}

	var wg sync.WaitGroup
	for doctorID := int64(1); doctorID <= 4; doctorID++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, reporter.WriteDoctorAppointments(id, appointments))
		}(doctorID)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4*51)
	for block := 0; block < 4; block++ {
		assert.True(t, strings.HasPrefix(lines[block*51], "Consultas para el médico "))
		for _, line := range lines[block*51+1 : (block+1)*51] {
			assert.True(t, strings.HasPrefix(line, "*Fecha: "))
		}
	}
}
