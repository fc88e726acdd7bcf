package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vitalpet/internal/domain/appointments"
)

type appointmentRepo struct {
	mu   sync.Mutex
	byID map[string]appointments.Appointment
}

func NewAppointmentRepo() appointments.Repository {
	return &appointmentRepo{
		byID: make(map[string]appointments.Appointment),
	}
}

// CreateIfFree hace el chequeo de conflicto y la inserción bajo el mismo
// lock: no hay ventana entre leer la agenda y escribir la cita.
func (r *appointmentRepo) CreateIfFree(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}
	if r.slotTakenLocked(a.Date, a.Time, "") {
		return appointments.ErrConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) MoveIfFree(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return appointments.ErrNotFound
	}
	if r.slotTakenLocked(a.Date, a.Time, a.ID) {
		return appointments.ErrConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) Update(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return appointments.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) List(ctx context.Context) ([]appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]appointments.Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *appointmentRepo) ListByDate(ctx context.Context, date string) ([]appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *appointmentRepo) ListByPet(ctx context.Context, petID string) ([]appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.PetID == petID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *appointmentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return appointments.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// slotTakenLocked: citas no canceladas en la misma fecha y hora.
// Se llama con r.mu tomado.
func (r *appointmentRepo) slotTakenLocked(date, t, excludeID string) bool {
	for _, a := range r.byID {
		if a.Status == appointments.StatusCancelled {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if a.Date == date && a.Time == t {
			return true
		}
	}
	return false
}
