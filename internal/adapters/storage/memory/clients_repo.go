package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vitalpet/internal/domain/clients"
)

type clientRepo struct {
	mu   sync.RWMutex
	byID map[string]clients.Client
}

func NewClientRepo() clients.Repository {
	return &clientRepo{
		byID: make(map[string]clients.Client),
	}
}

func (r *clientRepo) Create(ctx context.Context, c clients.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("client id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("client already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clientRepo) Update(ctx context.Context, c clients.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return clients.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return clients.Client{}, clients.ErrNotFound
	}
	return c, nil
}

func (r *clientRepo) List(ctx context.Context) ([]clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clients.Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return clients.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
