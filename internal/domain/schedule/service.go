package schedule

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid schedule config")
	ErrNotFound      = errors.New("not found")
)

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// GetConfig devuelve el horario vigente. Si todavía no existe, siembra
// el horario por defecto y devuelve ese (primer uso).
func (s *Service) GetConfig(ctx context.Context) (Config, error) {
	cfg, err := s.repo.GetConfig(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Config{}, err
	}

	cfg = DefaultConfig()
	if err := s.repo.ReplaceConfig(ctx, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReplaceConfig reemplaza el horario completo. Solo valida forma:
// duración positiva y las 7 entradas de día presentes.
func (s *Service) ReplaceConfig(ctx context.Context, cfg Config) error {
	if cfg.SlotDurationMinutes <= 0 {
		return ErrInvalidConfig
	}
	for _, wd := range Weekdays {
		if _, ok := cfg.Days[wd]; !ok {
			return ErrInvalidConfig
		}
	}
	return s.repo.ReplaceConfig(ctx, cfg)
}

func (s *Service) ListHolidays(ctx context.Context) ([]Holiday, error) {
	out, err := s.repo.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	// Orden ascendente por fecha. Fechas duplicadas se permiten.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Service) AddHoliday(ctx context.Context, date, reason string) (Holiday, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Holiday{}, ErrInvalidInput
	}

	h := Holiday{
		ID:        uuid.NewString(),
		Date:      date,
		Reason:    strings.TrimSpace(reason),
		CreatedAt: s.now(),
	}
	if err := s.repo.AddHoliday(ctx, h); err != nil {
		return Holiday{}, err
	}
	return h, nil
}

func (s *Service) RemoveHoliday(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.RemoveHoliday(ctx, id)
}

// SlotsForDate resuelve una fecha contra el horario y los festivos:
// festivo o día inactivo => sin slots. Un día de la semana que no
// aparece en la config (data vieja/malformada) cuenta como cerrado.
func (s *Service) SlotsForDate(ctx context.Context, date string) (DayStatus, []string, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return DayClosed, nil, ErrInvalidInput
	}

	holidays, err := s.repo.ListHolidays(ctx)
	if err != nil {
		return DayClosed, nil, err
	}
	for _, h := range holidays {
		if h.Date == date {
			return DayHoliday, nil, nil
		}
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return DayClosed, nil, err
	}

	day, ok := cfg.Days[WeekdayOf(t)]
	if !ok || !day.Active {
		return DayClosed, nil, nil
	}

	slots, err := GenerateSlots(day.Open, day.Close, cfg.SlotDurationMinutes)
	if err != nil {
		return DayClosed, nil, err
	}
	return DayOpen, slots, nil
}
