package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"vitalpet/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

type petDoc struct {
	ClientID     string    `json:"client_id"`
	Name         string    `json:"name"`
	Species      string    `json:"species"`
	Breed        string    `json:"breed,omitempty"`
	AgeYears     *int      `json:"age_years,omitempty"`
	WeightKg     *float64  `json:"weight_kg,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toPetDoc(p pets.Pet) petDoc {
	return petDoc{
		ClientID:     p.ClientID,
		Name:         p.Name,
		Species:      string(p.Species),
		Breed:        p.Breed,
		AgeYears:     p.AgeYears,
		WeightKg:     p.WeightKg,
		Notes:        p.Notes,
		RegisteredAt: p.RegisteredAt,
	}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	doc, err := json.Marshal(toPetDoc(p))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pets (id, data) VALUES ($1, $2::jsonb)`, p.ID, doc)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	doc, err := json.Marshal(toPetDoc(p))
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE pets SET data = $2::jsonb WHERE id = $1`, p.ID, doc)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, data FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.queryPets(ctx,
		`SELECT id, data FROM pets ORDER BY data->>'registered_at' ASC`)
}

func (r *PetsRepo) ListByClient(ctx context.Context, clientID string) ([]pets.Pet, error) {
	return r.queryPets(ctx,
		`SELECT id, data FROM pets WHERE data->>'client_id' = $1 ORDER BY data->>'registered_at' ASC`,
		clientID)
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) queryPets(ctx context.Context, query string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var id string
	var raw []byte
	if err := row.Scan(&id, &raw); err != nil {
		return pets.Pet{}, err
	}

	var doc petDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return pets.Pet{}, err
	}

	return pets.Pet{
		ID:           id,
		ClientID:     doc.ClientID,
		Name:         doc.Name,
		Species:      pets.Species(doc.Species),
		Breed:        doc.Breed,
		AgeYears:     doc.AgeYears,
		WeightKg:     doc.WeightKg,
		Notes:        doc.Notes,
		RegisteredAt: doc.RegisteredAt,
	}, nil
}
