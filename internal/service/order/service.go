package order

import (
	"context"
	"strings"

	"bookstore/internal/domain"
)

// Service reads a user's purchase history. Orders are immutable after
// creation; this layer is read-only.
type Service struct {
	repo orderRepo
}

type orderRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
}

func New(repo orderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) History(ctx context.Context, identity domain.Identity) ([]domain.Order, error) {
	if !identity.IsUser() {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, identity.ID)
}

func (s *Service) Get(ctx context.Context, identity domain.Identity, orderID string) (*domain.Order, error) {
	if !identity.IsUser() {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.Validationf("order id required")
	}
	return s.repo.GetByID(ctx, identity.ID, orderID)
}
