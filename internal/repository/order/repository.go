package order

import (
	"context"

	"bookstore/internal/domain"
)

type CheckoutInput struct {
	UserID        string
	PaymentMethod string
}

// Repository creates and reads purchase records. Checkout is the single
// transactional unit that turns a cart into an order: stock validation, order
// and line creation, stock decrement, and cart clearing commit together or
// not at all.
type Repository interface {
	Checkout(ctx context.Context, in CheckoutInput) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	SetStatus(ctx context.Context, orderID, status string) error
}
