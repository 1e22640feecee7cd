package cart

import (
	"context"
	"strings"

	"bookstore/internal/domain"
)

// Service holds the cart decision logic. Every operation receives an explicit
// owner identity; ownership of individual lines is verified here before any
// mutation.
type Service struct {
	repo cartRepo
}

type cartRepo interface {
	ListByOwner(ctx context.Context, owner domain.Identity) ([]domain.CartLine, error)
	GetLine(ctx context.Context, lineID string) (*domain.CartLine, error)
	AddLine(ctx context.Context, owner domain.Identity, productID string, quantity int) (*domain.CartLine, error)
	SetLineQuantity(ctx context.Context, lineID string, quantity int) (*domain.CartLine, error)
	DeleteLine(ctx context.Context, lineID string) error
	MergeInto(ctx context.Context, guest, user domain.Identity) error
}

func New(repo cartRepo) *Service {
	return &Service{repo: repo}
}

// List returns the identity's cart lines with products resolved.
func (s *Service) List(ctx context.Context, owner domain.Identity) ([]domain.CartLine, error) {
	if owner.IsZero() {
		return nil, nil
	}
	return s.repo.ListByOwner(ctx, owner)
}

// TotalCents sums current price times quantity over the cart. Informative
// only; the checkout transaction recomputes the total it freezes.
func (s *Service) TotalCents(ctx context.Context, owner domain.Identity) (int64, error) {
	lines, err := s.List(ctx, owner)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, l := range lines {
		total += l.SubtotalCents()
	}
	return total, nil
}

// Add creates or increments the (owner, product) line. The repository rejects
// the whole operation when the resulting quantity would exceed stock.
func (s *Service) Add(ctx context.Context, owner domain.Identity, productID string, quantity int) (*domain.CartLine, error) {
	if owner.IsZero() {
		return nil, domain.Validationf("cart owner required")
	}
	if strings.TrimSpace(productID) == "" {
		return nil, domain.Validationf("productId required")
	}
	if quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}
	return s.repo.AddLine(ctx, owner, productID, quantity)
}

// UpdateLine sets an absolute quantity on a line the identity owns.
func (s *Service) UpdateLine(ctx context.Context, owner domain.Identity, lineID string, quantity int) (*domain.CartLine, error) {
	if quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}
	if err := s.checkOwnership(ctx, owner, lineID); err != nil {
		return nil, err
	}
	return s.repo.SetLineQuantity(ctx, lineID, quantity)
}

// RemoveLine deletes a line the identity owns.
func (s *Service) RemoveLine(ctx context.Context, owner domain.Identity, lineID string) error {
	if err := s.checkOwnership(ctx, owner, lineID); err != nil {
		return err
	}
	return s.repo.DeleteLine(ctx, lineID)
}

// MergeGuest moves a guest cart onto the user at login. Missing guest carts
// are not an error; there is simply nothing to merge.
func (s *Service) MergeGuest(ctx context.Context, guestToken, userID string) error {
	if strings.TrimSpace(guestToken) == "" || strings.TrimSpace(userID) == "" {
		return nil
	}
	return s.repo.MergeInto(ctx, domain.GuestIdentity(guestToken), domain.UserIdentity(userID))
}

func (s *Service) checkOwnership(ctx context.Context, owner domain.Identity, lineID string) error {
	if owner.IsZero() {
		return domain.ErrForbidden
	}
	if strings.TrimSpace(lineID) == "" {
		return domain.Validationf("line id required")
	}
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	if line.Owner != owner {
		return domain.ErrForbidden
	}
	return nil
}
