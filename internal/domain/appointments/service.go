package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"vitalpet/internal/domain/schedule"
	"vitalpet/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("appointment not found")
	ErrConflict          = errors.New("slot already booked")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoDate distingue "falta elegir fecha" de "día sin horas libres"
	// (ambos casos terminan en cero slots, pero el caller los muestra distinto).
	ErrNoDate = errors.New("no date selected")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Schedule es lo que el módulo de citas necesita del horario semanal.
// Lo implementa *schedule.Service.
type Schedule interface {
	GetConfig(ctx context.Context) (schedule.Config, error)
	ListHolidays(ctx context.Context) ([]schedule.Holiday, error)
	SlotsForDate(ctx context.Context, date string) (schedule.DayStatus, []string, error)
}

type Service struct {
	repo  Repository
	sched Schedule
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, sched Schedule, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		sched: sched,
		log:   log,
		now:   time.Now,
	}
}

type CreateInput struct {
	PetID  string
	Date   string // YYYY-MM-DD
	Time   string // HH:MM
	Reason string
}

// Create agenda una cita nueva en estado pending. El chequeo de
// conflicto y la inserción son una sola operación del repo.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(in.PetID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	date, t, err := parseSlot(in.Date, in.Time)
	if err != nil {
		return Appointment{}, err
	}

	a := Appointment{
		ID:        uuid.NewString(),
		PetID:     strings.TrimSpace(in.PetID),
		Date:      date,
		Time:      t,
		Reason:    strings.TrimSpace(in.Reason),
		Status:    StatusPending,
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateIfFree(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

type ListFilter struct {
	Date   string
	Status Status
}

// List devuelve citas filtradas, ordenadas como la agenda de recepción:
// fecha descendente y, dentro del mismo día, hora ascendente.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Appointment, 0, len(items))
	for _, a := range items {
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].Time < out[j].Time
		}
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Appointment, error) {
	items, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date == items[j].Date {
			return items[i].Time < items[j].Time
		}
		return items[i].Date > items[j].Date
	})
	return items, nil
}

// Complete marca la cita como atendida. Solo desde pending/postponed.
func (s *Service) Complete(ctx context.Context, id string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if !a.Status.Schedulable() {
		return Appointment{}, fmt.Errorf("%w: cannot complete a %s appointment", ErrInvalidTransition, a.Status)
	}

	now := s.now()
	a.Status = StatusCompleted
	a.CompletedAt = &now

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Cancel libera el slot pero conserva la cita para el historial.
func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status.Terminal() {
		return Appointment{}, fmt.Errorf("%w: cannot cancel a %s appointment", ErrInvalidTransition, a.Status)
	}

	now := s.now()
	a.Status = StatusCancelled
	a.CancelledAt = &now

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Postpone mueve la cita a otra fecha/hora guardando las previas como
// historial. Si el nuevo slot está ocupado por otra cita no cancelada,
// no se aplica nada.
func (s *Service) Postpone(ctx context.Context, id, newDate, newTime, reason string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if !a.Status.Schedulable() {
		return Appointment{}, fmt.Errorf("%w: cannot postpone a %s appointment", ErrInvalidTransition, a.Status)
	}

	date, t, err := parseSlot(newDate, newTime)
	if err != nil {
		return Appointment{}, err
	}

	moved := a
	moved.OriginalDate = a.Date
	moved.OriginalTime = a.Time
	moved.PostponeReason = strings.TrimSpace(reason)
	moved.Date = date
	moved.Time = t
	moved.Status = StatusPostponed

	if err := s.repo.MoveIfFree(ctx, moved); err != nil {
		return Appointment{}, err
	}
	return moved, nil
}

// PurgeNonPending borra toda cita cuyo estado no sea pending. Cada
// borrado es independiente: un fallo se loguea y se sigue con el resto.
// Devuelve cuántas se borraron efectivamente.
func (s *Service) PurgeNonPending(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	failed := 0
	for _, a := range items {
		if a.Status == StatusPending {
			continue
		}
		if err := s.repo.Delete(ctx, a.ID); err != nil {
			failed++
			s.log.Error("purge: could not delete appointment", map[string]any{
				"appointment_id": a.ID,
				"status":         string(a.Status),
				"error":          err.Error(),
			})
			continue
		}
		deleted++
	}

	if failed > 0 {
		s.log.Warn("purge finished with failures", map[string]any{
			"deleted": deleted,
			"failed":  failed,
		})
	}
	return deleted, nil
}

// AvailableSlots lista las horas libres de una fecha. Día cerrado o
// festivo => lista vacía. Con excludeID se ignora la cita que se está
// editando/aplazando, para que no bloquee su propio slot.
func (s *Service) AvailableSlots(ctx context.Context, date, excludeID string) ([]string, error) {
	if strings.TrimSpace(date) == "" {
		return nil, ErrNoDate
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrInvalidInput
	}

	status, candidates, err := s.sched.SlotsForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if status != schedule.DayOpen {
		return []string{}, nil
	}

	occupied, err := s.occupiedTimes(ctx, date, excludeID)
	if err != nil {
		return nil, err
	}

	free := make([]string, 0, len(candidates))
	for _, slot := range candidates {
		if occupied[slot] {
			continue
		}
		free = append(free, slot)
	}
	return free, nil
}

// CheckConflict dice si ya existe una cita no cancelada en esa fecha y
// hora (excluyendo excludeID). Es la versión de solo-lectura del guard;
// la escritura real vuelve a chequear de forma atómica en el repo.
func (s *Service) CheckConflict(ctx context.Context, date, t, excludeID string) (bool, error) {
	date, t, err := parseSlot(date, t)
	if err != nil {
		return false, err
	}
	occupied, err := s.occupiedTimes(ctx, date, excludeID)
	if err != nil {
		return false, err
	}
	return occupied[t], nil
}

func (s *Service) occupiedTimes(ctx context.Context, date, excludeID string) (map[string]bool, error) {
	items, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]bool, len(items))
	for _, a := range items {
		if a.Status == StatusCancelled {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		occupied[a.Time] = true
	}
	return occupied, nil
}

func parseSlot(date, t string) (string, string, error) {
	date = strings.TrimSpace(date)
	t = strings.TrimSpace(t)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", "", ErrInvalidInput
	}
	if _, err := time.Parse(timeLayout, t); err != nil {
		return "", "", ErrInvalidInput
	}
	return date, t, nil
}
