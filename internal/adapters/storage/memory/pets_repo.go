package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vitalpet/internal/domain/pets"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *petRepo) ListByClient(ctx context.Context, clientID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
