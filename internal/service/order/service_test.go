package order

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/domain"
)

type stubRepo struct {
	orders     []domain.Order
	order      *domain.Order
	err        error
	lastUserID string
	lastOrder  string
}

func (s *stubRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.lastUserID = userID
	return s.orders, s.err
}

func (s *stubRepo) GetByID(_ context.Context, userID, orderID string) (*domain.Order, error) {
	s.lastUserID = userID
	s.lastOrder = orderID
	return s.order, s.err
}

func TestHistoryRequiresUser(t *testing.T) {
	svc := New(&stubRepo{})
	if _, err := svc.History(context.Background(), domain.GuestIdentity("tok")); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("guest history accepted: %v", err)
	}
}

func TestHistoryScopesToUser(t *testing.T) {
	repo := &stubRepo{orders: []domain.Order{{ID: "o1"}}}
	svc := New(repo)

	got, err := svc.History(context.Background(), domain.UserIdentity("u1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "o1" {
		t.Fatalf("unexpected orders: %+v", got)
	}
	if repo.lastUserID != "u1" {
		t.Fatalf("queried user %q, want u1", repo.lastUserID)
	}
}

func TestGetRequiresOrderID(t *testing.T) {
	svc := New(&stubRepo{})
	if _, err := svc.Get(context.Background(), domain.UserIdentity("u1"), " "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetScopesToUser(t *testing.T) {
	repo := &stubRepo{order: &domain.Order{ID: "o1", UserID: "u1"}}
	svc := New(repo)

	got, err := svc.Get(context.Background(), domain.UserIdentity("u1"), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "o1" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if repo.lastUserID != "u1" || repo.lastOrder != "o1" {
		t.Fatalf("queried %q/%q", repo.lastUserID, repo.lastOrder)
	}
}

func TestGetOtherUsersOrderIsNotFound(t *testing.T) {
	svc := New(&stubRepo{err: domain.ErrNotFound})
	_, err := svc.Get(context.Background(), domain.UserIdentity("u2"), "o1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
