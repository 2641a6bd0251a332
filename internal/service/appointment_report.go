package service

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"medical-appointment-booking/internal/domain/entity"
)

// AppointmentReporter writes the line-oriented listing of a doctor's active
// appointments. A whole listing is written under one lock so concurrent
// listings never interleave.
type AppointmentReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewAppointmentReporter(out io.Writer) *AppointmentReporter {
	return &AppointmentReporter{out: out}
}

func (r *AppointmentReporter) WriteDoctorAppointments(doctorID int64, appointments []entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := bufio.NewWriter(r.out)
	fmt.Fprintf(w, "Consultas para el médico %d\n", doctorID)
	for _, a := range appointments {
		fmt.Fprintf(w, "*Fecha: %s   *Consulta: %d   *NIF Paciente: %s\n",
			a.AppointmentDate.Format(entity.DateLayout), a.ID, a.ClientNIF)
	}
	return w.Flush()
}
