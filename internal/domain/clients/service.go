package clients

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
	ErrNotFound     = errors.New("client not found")
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
	Name    string
	Phone   string
	Email   string
	Address string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Client, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Client{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Phone) == "" {
		return Client{}, ErrInvalidInput
	}

	c := Client{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Address:      strings.TrimSpace(in.Address),
		RegisteredAt: s.now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Client, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return Client{}, ErrInvalidInput
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.Address = strings.TrimSpace(in.Address)

	if err := s.repo.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out, nil
}

// Delete borra solo el cliente; el cascade a sus mascotas lo orquesta
// el handler junto con el módulo de mascotas.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
