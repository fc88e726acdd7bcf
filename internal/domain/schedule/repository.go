package schedule

import "context"

type Repository interface {
	// GetConfig devuelve ErrNotFound mientras nadie haya guardado un horario.
	GetConfig(ctx context.Context) (Config, error)
	ReplaceConfig(ctx context.Context, cfg Config) error

	ListHolidays(ctx context.Context) ([]Holiday, error)
	AddHoliday(ctx context.Context, h Holiday) error
	RemoveHoliday(ctx context.Context, id string) error
}
