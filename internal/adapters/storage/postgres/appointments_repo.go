package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"vitalpet/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

type appointmentDoc struct {
	PetID          string     `json:"pet_id"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	OriginalDate   string     `json:"original_date,omitempty"`
	OriginalTime   string     `json:"original_time,omitempty"`
	PostponeReason string     `json:"postpone_reason,omitempty"`
}

func toAppointmentDoc(a appointments.Appointment) appointmentDoc {
	return appointmentDoc{
		PetID:          a.PetID,
		Date:           a.Date,
		Time:           a.Time,
		Reason:         a.Reason,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
		CompletedAt:    a.CompletedAt,
		CancelledAt:    a.CancelledAt,
		OriginalDate:   a.OriginalDate,
		OriginalTime:   a.OriginalTime,
		PostponeReason: a.PostponeReason,
	}
}

// CreateIfFree inserta solo si no hay otra cita no cancelada en la misma
// fecha y hora: el chequeo y la escritura van en el mismo statement.
func (r *AppointmentsRepo) CreateIfFree(ctx context.Context, a appointments.Appointment) error {
	doc, err := json.Marshal(toAppointmentDoc(a))
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (id, data)
		SELECT $1, $2::jsonb
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE data->>'date' = $3
			  AND data->>'time' = $4
			  AND data->>'status' <> 'cancelled'
		)
	`, a.ID, doc, a.Date, a.Time)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrConflict
	}
	return nil
}

func (r *AppointmentsRepo) MoveIfFree(ctx context.Context, a appointments.Appointment) error {
	doc, err := json.Marshal(toAppointmentDoc(a))
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET data = $2::jsonb
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE id <> $1
			  AND data->>'date' = $3
			  AND data->>'time' = $4
			  AND data->>'status' <> 'cancelled'
		)
	`, a.ID, doc, a.Date, a.Time)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	// 0 filas: o la cita no existe o el slot nuevo está ocupado
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return appointments.ErrNotFound
	}
	return appointments.ErrConflict
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	doc, err := json.Marshal(toAppointmentDoc(a))
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET data = $2::jsonb WHERE id = $1`, a.ID, doc)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, data FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, err
}

func (r *AppointmentsRepo) List(ctx context.Context) ([]appointments.Appointment, error) {
	return r.queryAppointments(ctx, `SELECT id, data FROM appointments`)
}

func (r *AppointmentsRepo) ListByDate(ctx context.Context, date string) ([]appointments.Appointment, error) {
	return r.queryAppointments(ctx,
		`SELECT id, data FROM appointments WHERE data->>'date' = $1`, date)
}

func (r *AppointmentsRepo) ListByPet(ctx context.Context, petID string) ([]appointments.Appointment, error) {
	return r.queryAppointments(ctx,
		`SELECT id, data FROM appointments WHERE data->>'pet_id' = $1`, petID)
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) queryAppointments(ctx context.Context, query string, args ...any) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var id string
	var raw []byte
	if err := row.Scan(&id, &raw); err != nil {
		return appointments.Appointment{}, err
	}

	var doc appointmentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return appointments.Appointment{}, err
	}

	return appointments.Appointment{
		ID:             id,
		PetID:          doc.PetID,
		Date:           doc.Date,
		Time:           doc.Time,
		Reason:         doc.Reason,
		Status:         appointments.Status(doc.Status),
		CreatedAt:      doc.CreatedAt,
		CompletedAt:    doc.CompletedAt,
		CancelledAt:    doc.CancelledAt,
		OriginalDate:   doc.OriginalDate,
		OriginalTime:   doc.OriginalTime,
		PostponeReason: doc.PostponeReason,
	}, nil
}
