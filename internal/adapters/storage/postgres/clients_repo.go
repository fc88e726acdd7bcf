package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"vitalpet/internal/domain/clients"
)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

// clientDoc es el documento que va a la columna jsonb.
type clientDoc struct {
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	doc, err := json.Marshal(clientDoc{
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		RegisteredAt: c.RegisteredAt,
	})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO clients (id, data) VALUES ($1, $2::jsonb)`, c.ID, doc)
	return err
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	doc, err := json.Marshal(clientDoc{
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		RegisteredAt: c.RegisteredAt,
	})
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET data = $2::jsonb WHERE id = $1`, c.ID, doc)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return clients.ErrNotFound
	}
	return nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, data FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return clients.Client{}, clients.ErrNotFound
	}
	return c, err
}

func (r *ClientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data FROM clients ORDER BY data->>'registered_at' ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return clients.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (clients.Client, error) {
	var id string
	var raw []byte
	if err := row.Scan(&id, &raw); err != nil {
		return clients.Client{}, err
	}

	var doc clientDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return clients.Client{}, err
	}

	return clients.Client{
		ID:           id,
		Name:         doc.Name,
		Phone:        doc.Phone,
		Email:        doc.Email,
		Address:      doc.Address,
		RegisteredAt: doc.RegisteredAt,
	}, nil
}
