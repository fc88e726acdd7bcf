package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"vitalpet/internal/domain/schedule"
)

// El horario semanal vive en una sola fila con id fijo, como siempre.
const scheduleConfigID = "config"

type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

type holidayDoc struct {
	Date      string    `json:"date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *ScheduleRepo) GetConfig(ctx context.Context) (schedule.Config, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM schedule_config WHERE id = $1`, scheduleConfigID).Scan(&raw)
	if err == sql.ErrNoRows {
		return schedule.Config{}, schedule.ErrNotFound
	}
	if err != nil {
		return schedule.Config{}, err
	}

	var cfg schedule.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return schedule.Config{}, err
	}
	return cfg, nil
}

func (r *ScheduleRepo) ReplaceConfig(ctx context.Context, cfg schedule.Config) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO schedule_config (id, data) VALUES ($1, $2::jsonb)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
	`, scheduleConfigID, doc)
	return err
}

func (r *ScheduleRepo) ListHolidays(ctx context.Context) ([]schedule.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, data FROM holidays`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.Holiday, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var doc holidayDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		out = append(out, schedule.Holiday{
			ID:        id,
			Date:      doc.Date,
			Reason:    doc.Reason,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, rows.Err()
}

func (r *ScheduleRepo) AddHoliday(ctx context.Context, h schedule.Holiday) error {
	doc, err := json.Marshal(holidayDoc{
		Date:      h.Date,
		Reason:    h.Reason,
		CreatedAt: h.CreatedAt,
	})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO holidays (id, data) VALUES ($1, $2::jsonb)`, h.ID, doc)
	return err
}

func (r *ScheduleRepo) RemoveHoliday(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}
