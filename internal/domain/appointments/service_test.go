package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"vitalpet/internal/domain/schedule"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID      map[string]Appointment
	deleteErr map[string]error // fallos inyectados por id
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:      map[string]Appointment{},
		deleteErr: map[string]error{},
	}
}

func (r *testRepo) slotTaken(date, t, excludeID string) bool {
	for _, a := range r.byID {
		if a.ID == excludeID {
			continue
		}
		if a.Status == StatusCancelled {
			continue
		}
		if a.Date == date && a.Time == t {
			return true
		}
	}
	return false
}

func (r *testRepo) CreateIfFree(ctx context.Context, a Appointment) error {
	if r.slotTaken(a.Date, a.Time, "") {
		return ErrConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) MoveIfFree(ctx context.Context, a Appointment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	if r.slotTaken(a.Date, a.Time, a.ID) {
		return ErrConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Appointment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) List(ctx context.Context) ([]Appointment, error) {
	out := make([]Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *testRepo) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) ListByPet(ctx context.Context, petID string) ([]Appointment, error) {
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.PetID == petID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// testSchedule: lunes a viernes 09:00-18:00 cada 30 min, más festivos fijos.
type testSchedule struct {
	holidays map[string]bool
}

func newTestSchedule(holidays ...string) *testSchedule {
	hs := map[string]bool{}
	for _, h := range holidays {
		hs[h] = true
	}
	return &testSchedule{holidays: hs}
}

func (s *testSchedule) GetConfig(ctx context.Context) (schedule.Config, error) {
	return schedule.DefaultConfig(), nil
}

func (s *testSchedule) ListHolidays(ctx context.Context) ([]schedule.Holiday, error) {
	out := make([]schedule.Holiday, 0, len(s.holidays))
	for d := range s.holidays {
		out = append(out, schedule.Holiday{ID: d, Date: d})
	}
	return out, nil
}

func (s *testSchedule) SlotsForDate(ctx context.Context, date string) (schedule.DayStatus, []string, error) {
	if s.holidays[date] {
		return schedule.DayHoliday, nil, nil
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return schedule.DayClosed, nil, ErrInvalidInput
	}
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return schedule.DayClosed, nil, nil
	}
	slots, err := schedule.GenerateSlots("09:00", "18:00", 30)
	if err != nil {
		return schedule.DayClosed, nil, err
	}
	return schedule.DayOpen, slots, nil
}

func newTestService(repo *testRepo, sched Schedule) *Service {
	svc := NewService(repo, sched, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_RejectsDoubleBooking(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	a1, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-05", Time: "09:00", Reason: "vacuna",
	})
	if err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	if a1.Status != StatusPending {
		t.Fatalf("expected pending, got %s", a1.Status)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		PetID: "pet-2", Date: "2026-01-05", Time: "09:00", Reason: "control",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Otro horario del mismo día sí entra.
	if _, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-2", Date: "2026-01-05", Time: "09:30",
	}); err != nil {
		t.Fatalf("Create on free slot error: %v", err)
	}
}

func TestService_Create_ValidatesInput(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	cases := []CreateInput{
		{PetID: "", Date: "2026-01-05", Time: "09:00"},
		{PetID: "pet-1", Date: "05/01/2026", Time: "09:00"},
		{PetID: "pet-1", Date: "2026-01-05", Time: "9am"},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_CancelThenRebookSameSlot(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	a, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-05", Time: "10:00",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if cancelled.Status != StatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled with timestamp, got %+v", cancelled)
	}

	// El slot queda libre: otra mascota puede tomarlo.
	if _, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-2", Date: "2026-01-05", Time: "10:00",
	}); err != nil {
		t.Fatalf("rebook after cancel error: %v", err)
	}
}

func TestService_InvalidTransitions(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	mk := func(tm string) Appointment {
		a, err := svc.Create(context.Background(), CreateInput{
			PetID: "pet-1", Date: "2026-01-05", Time: tm,
		})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		return a
	}

	done := mk("09:00")
	if _, err := svc.Complete(context.Background(), done.ID); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if _, err := svc.Complete(context.Background(), done.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-complete: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), done.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel completed: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Postpone(context.Background(), done.ID, "2026-01-06", "09:00", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("postpone completed: expected ErrInvalidTransition, got %v", err)
	}

	gone := mk("09:30")
	if _, err := svc.Cancel(context.Background(), gone.ID); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if _, err := svc.Complete(context.Background(), gone.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete cancelled: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), gone.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-cancel: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Postpone(context.Background(), gone.ID, "2026-01-06", "09:00", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("postpone cancelled: expected ErrInvalidTransition, got %v", err)
	}
}

func TestService_Postpone_KeepsOriginalSlot(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	a, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-05", Time: "11:00",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	moved, err := svc.Postpone(context.Background(), a.ID, "2026-01-06", "09:00", "viaje")
	if err != nil {
		t.Fatalf("Postpone error: %v", err)
	}
	if moved.Status != StatusPostponed {
		t.Fatalf("expected postponed, got %s", moved.Status)
	}
	if moved.OriginalDate != "2026-01-05" || moved.OriginalTime != "11:00" {
		t.Fatalf("expected original slot preserved, got %s %s", moved.OriginalDate, moved.OriginalTime)
	}
	if moved.Date != "2026-01-06" || moved.Time != "09:00" {
		t.Fatalf("expected new slot applied, got %s %s", moved.Date, moved.Time)
	}

	// Segundo aplazo: el historial guarda el slot inmediatamente anterior.
	moved2, err := svc.Postpone(context.Background(), a.ID, "2026-01-07", "10:00", "")
	if err != nil {
		t.Fatalf("Postpone #2 error: %v", err)
	}
	if moved2.OriginalDate != "2026-01-06" || moved2.OriginalTime != "09:00" {
		t.Fatalf("expected original updated to previous slot, got %s %s", moved2.OriginalDate, moved2.OriginalTime)
	}

	// El slot viejo queda libre.
	if _, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-2", Date: "2026-01-05", Time: "11:00",
	}); err != nil {
		t.Fatalf("rebook after postpone error: %v", err)
	}
}

func TestService_Postpone_ConflictLeavesAppointmentUntouched(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	if _, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-06", Time: "09:00",
	}); err != nil {
		t.Fatalf("Create blocker error: %v", err)
	}

	a, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-2", Date: "2026-01-05", Time: "11:00",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Postpone(context.Background(), a.ID, "2026-01-06", "09:00", ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// La cita sigue en su slot original, sin rastros del intento.
	cur, err := svc.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if cur.Date != "2026-01-05" || cur.Time != "11:00" || cur.Status != StatusPending {
		t.Fatalf("appointment mutated on failed postpone: %+v", cur)
	}
	if cur.OriginalDate != "" || cur.OriginalTime != "" {
		t.Fatalf("expected no postpone history, got %s %s", cur.OriginalDate, cur.OriginalTime)
	}
}

func TestService_Postpone_ToOwnSlotSucceeds(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	a, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-05", Time: "11:00",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// La cita no bloquea su propio slot al moverse.
	if _, err := svc.Postpone(context.Background(), a.ID, "2026-01-05", "11:00", "misma hora"); err != nil {
		t.Fatalf("postpone onto own slot error: %v", err)
	}
}

func TestService_PurgeNonPending(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	pending, _ := svc.Create(context.Background(), CreateInput{PetID: "p", Date: "2026-01-05", Time: "09:00"})
	done, _ := svc.Create(context.Background(), CreateInput{PetID: "p", Date: "2026-01-05", Time: "09:30"})
	gone, _ := svc.Create(context.Background(), CreateInput{PetID: "p", Date: "2026-01-05", Time: "10:00"})
	late, _ := svc.Create(context.Background(), CreateInput{PetID: "p", Date: "2026-01-05", Time: "10:30"})

	if _, err := svc.Complete(context.Background(), done.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), gone.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := svc.Postpone(context.Background(), late.ID, "2026-01-06", "09:00", ""); err != nil {
		t.Fatalf("Postpone: %v", err)
	}

	deleted, err := svc.PurgeNonPending(context.Background())
	if err != nil {
		t.Fatalf("PurgeNonPending error: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", deleted)
	}
	if _, err := svc.GetByID(context.Background(), pending.ID); err != nil {
		t.Fatalf("pending appointment should survive, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), done.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("completed appointment should be gone, got %v", err)
	}
}

func TestService_PurgeNonPending_ContinuesPastFailures(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	a1, _ := svc.Create(context.Background(), CreateInput{PetID: "p", Date: "2026-01-05", Time: "09:00"})
	a2, _ := svc.Create(context.Background(), CreateInput{PetID: "p", Date: "2026-01-05", Time: "09:30"})
	if _, err := svc.Complete(context.Background(), a1.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := svc.Complete(context.Background(), a2.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	repo.deleteErr[a1.ID] = errors.New("storage down")

	deleted, err := svc.PurgeNonPending(context.Background())
	if err != nil {
		t.Fatalf("PurgeNonPending should not fail outright: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted despite failure, got %d", deleted)
	}
	if _, err := svc.GetByID(context.Background(), a1.ID); err != nil {
		t.Fatalf("failed delete should leave appointment in place, got %v", err)
	}
}

func TestService_AvailableSlots(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule("2026-01-07"))

	if _, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-05", Time: "09:00",
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	free, err := svc.AvailableSlots(context.Background(), "2026-01-05", "")
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(free) != 17 {
		t.Fatalf("expected 17 free slots, got %d", len(free))
	}
	for _, s := range free {
		if s == "09:00" {
			t.Fatalf("booked slot 09:00 should not be listed")
		}
	}

	// Festivo y fin de semana: lista vacía, sin error.
	for _, d := range []string{"2026-01-07", "2026-01-04"} {
		free, err := svc.AvailableSlots(context.Background(), d, "")
		if err != nil {
			t.Fatalf("AvailableSlots %s error: %v", d, err)
		}
		if len(free) != 0 {
			t.Fatalf("expected no slots on %s, got %v", d, free)
		}
	}

	// Sin fecha: error propio, distinguible de "día lleno".
	if _, err := svc.AvailableSlots(context.Background(), "", ""); !errors.Is(err, ErrNoDate) {
		t.Fatalf("expected ErrNoDate, got %v", err)
	}
	if _, err := svc.AvailableSlots(context.Background(), "2026/01/05", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_AvailableSlots_ExcludeSelfOnEdit(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	a, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-05", Time: "09:00",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	free, err := svc.AvailableSlots(context.Background(), "2026-01-05", a.ID)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	found := false
	for _, s := range free {
		if s == "09:00" {
			found = true
		}
	}
	if !found {
		t.Fatalf("editing appointment should see its own slot as free")
	}
}

func TestService_CheckConflict(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	a, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-05", Time: "09:00",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	busy, err := svc.CheckConflict(context.Background(), "2026-01-05", "09:00", "")
	if err != nil || !busy {
		t.Fatalf("expected conflict, got busy=%v err=%v", busy, err)
	}
	busy, err = svc.CheckConflict(context.Background(), "2026-01-05", "09:00", a.ID)
	if err != nil || busy {
		t.Fatalf("expected no conflict excluding self, got busy=%v err=%v", busy, err)
	}
	busy, err = svc.CheckConflict(context.Background(), "2026-01-05", "09:30", "")
	if err != nil || busy {
		t.Fatalf("expected free slot, got busy=%v err=%v", busy, err)
	}
}

func TestService_List_FilterAndOrder(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule())

	mk := func(date, tm string) Appointment {
		a, err := svc.Create(context.Background(), CreateInput{PetID: "p", Date: date, Time: tm})
		if err != nil {
			t.Fatalf("Create %s %s: %v", date, tm, err)
		}
		return a
	}

	mk("2026-01-05", "10:00")
	mk("2026-01-05", "09:00")
	mk("2026-01-06", "09:30")
	done := mk("2026-01-06", "11:00")
	if _, err := svc.Complete(context.Background(), done.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	all, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	// Fecha descendente, hora ascendente dentro del día.
	wantOrder := [][2]string{
		{"2026-01-06", "09:30"},
		{"2026-01-06", "11:00"},
		{"2026-01-05", "09:00"},
		{"2026-01-05", "10:00"},
	}
	if len(all) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(all))
	}
	for i, w := range wantOrder {
		if all[i].Date != w[0] || all[i].Time != w[1] {
			t.Fatalf("position %d: expected %s %s, got %s %s", i, w[0], w[1], all[i].Date, all[i].Time)
		}
	}

	byDate, err := svc.List(context.Background(), ListFilter{Date: "2026-01-05"})
	if err != nil {
		t.Fatalf("List by date error: %v", err)
	}
	if len(byDate) != 2 {
		t.Fatalf("expected 2 items on 2026-01-05, got %d", len(byDate))
	}

	byStatus, err := svc.List(context.Background(), ListFilter{Status: StatusCompleted})
	if err != nil {
		t.Fatalf("List by status error: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != done.ID {
		t.Fatalf("expected only the completed appointment, got %+v", byStatus)
	}

	if _, err := svc.List(context.Background(), ListFilter{Status: "archived"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestService_ComputeWeekView(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, newTestSchedule("2026-01-07"))

	if _, err := svc.Create(context.Background(), CreateInput{
		PetID: "pet-1", Date: "2026-01-05", Time: "09:00",
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// 2026-01-05 es lunes.
	view, err := svc.ComputeWeekView(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("ComputeWeekView error: %v", err)
	}
	if view.Start != "2026-01-05" || view.End != "2026-01-11" {
		t.Fatalf("unexpected range %s..%s", view.Start, view.End)
	}
	if len(view.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(view.Days))
	}

	monday := view.Days[0]
	if monday.Status != schedule.DayOpen || monday.Weekday != schedule.Monday {
		t.Fatalf("unexpected monday: %+v", monday)
	}
	if len(monday.Slots) != 18 {
		t.Fatalf("expected 18 monday slots, got %d", len(monday.Slots))
	}
	if !monday.Slots[0].Occupied {
		t.Fatalf("09:00 should be occupied")
	}
	if monday.Slots[1].Occupied {
		t.Fatalf("09:30 should be free")
	}

	wednesday := view.Days[2]
	if wednesday.Status != schedule.DayHoliday || len(wednesday.Slots) != 0 {
		t.Fatalf("expected holiday wednesday without slots, got %+v", wednesday)
	}

	sunday := view.Days[6]
	if sunday.Status != schedule.DayClosed || len(sunday.Slots) != 0 {
		t.Fatalf("expected closed sunday, got %+v", sunday)
	}

	// El inicio de semana es explícito: cualquier fecha sirve de ancla.
	shifted, err := svc.ComputeWeekView(context.Background(), "2026-01-08")
	if err != nil {
		t.Fatalf("ComputeWeekView shifted error: %v", err)
	}
	if shifted.Start != "2026-01-08" || shifted.Days[0].Weekday != schedule.Thursday {
		t.Fatalf("expected week anchored on thursday, got %+v", shifted.Days[0])
	}

	if _, err := svc.ComputeWeekView(context.Background(), "not-a-date"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
