package checkout

import (
	"context"
	"strings"

	"bookstore/internal/domain"
	orderrepo "bookstore/internal/repository/order"
)

// Service guards the cart-to-order transition. The repository runs the
// transactional unit; this layer enforces the preconditions: only an
// authenticated identity may check out, and the payment method is a
// normalized tag.
type Service struct {
	orders orderRepo
}

type orderRepo interface {
	Checkout(ctx context.Context, in orderrepo.CheckoutInput) (*domain.Order, error)
}

func New(orders orderRepo) *Service {
	return &Service{orders: orders}
}

// Checkout converts the identity's cart into an order. It either fully
// succeeds or leaves no observable mutation, so a failed call is safely
// re-issuable.
func (s *Service) Checkout(ctx context.Context, identity domain.Identity, paymentMethod string) (*domain.Order, error) {
	if !identity.IsUser() {
		return nil, domain.ErrUnauthenticated
	}
	method := strings.TrimSpace(strings.ToLower(paymentMethod))
	if method == "" {
		method = domain.DefaultPaymentMethod
	}
	return s.orders.Checkout(ctx, orderrepo.CheckoutInput{
		UserID:        identity.ID,
		PaymentMethod: method,
	})
}
