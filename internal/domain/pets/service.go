package pets

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

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

type CreateInput struct {
	ClientID string
	Name     string
	Species  string
	Breed    string
	AgeYears *int
	WeightKg *float64
	Notes    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	if strings.TrimSpace(in.ClientID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	species := Species(strings.TrimSpace(in.Species))
	if !ValidSpecies(species) {
		return Pet{}, ErrInvalidInput
	}

	p := Pet{
		ID:           uuid.NewString(),
		ClientID:     strings.TrimSpace(in.ClientID),
		Name:         strings.TrimSpace(in.Name),
		Species:      species,
		Breed:        strings.TrimSpace(in.Breed),
		AgeYears:     in.AgeYears,
		WeightKg:     in.WeightKg,
		Notes:        strings.TrimSpace(in.Notes),
		RegisteredAt: s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	species := Species(strings.TrimSpace(in.Species))
	if !ValidSpecies(species) {
		return Pet{}, ErrInvalidInput
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Species = species
	p.Breed = strings.TrimSpace(in.Breed)
	p.AgeYears = in.AgeYears
	p.WeightKg = in.WeightKg
	p.Notes = strings.TrimSpace(in.Notes)

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Pet, error) {
	out, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out, nil
}

// Delete borra la mascota. Sus citas quedan tal cual, apuntando a un id
// que ya no existe (comportamiento heredado, pendiente de definición de
// producto; ver DESIGN.md).
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// DeleteByClient borra todas las mascotas de un cliente (cascade al
// eliminar el cliente). Devuelve cuántas borró.
func (s *Service) DeleteByClient(ctx context.Context, clientID string) (int, error) {
	items, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, p := range items {
		if err := s.repo.Delete(ctx, p.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
