package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vitalpet/internal/domain/schedule"
)

type scheduleRepo struct {
	mu       sync.RWMutex
	config   *schedule.Config
	holidays map[string]schedule.Holiday
}

func NewScheduleRepo() schedule.Repository {
	return &scheduleRepo{
		holidays: make(map[string]schedule.Holiday),
	}
}

func (r *scheduleRepo) GetConfig(ctx context.Context) (schedule.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.config == nil {
		return schedule.Config{}, schedule.ErrNotFound
	}
	return *r.config, nil
}

func (r *scheduleRepo) ReplaceConfig(ctx context.Context, cfg schedule.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.config = &cfg
	return nil
}

func (r *scheduleRepo) ListHolidays(ctx context.Context) ([]schedule.Holiday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.Holiday, 0, len(r.holidays))
	for _, h := range r.holidays {
		out = append(out, h)
	}
	return out, nil
}

func (r *scheduleRepo) AddHoliday(ctx context.Context, h schedule.Holiday) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(h.ID) == "" {
		return errors.New("holiday id required")
	}
	// fechas repetidas permitidas; solo el id es único
	r.holidays[h.ID] = h
	return nil
}

func (r *scheduleRepo) RemoveHoliday(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.holidays[id]; !exists {
		return schedule.ErrNotFound
	}
	delete(r.holidays, id)
	return nil
}
