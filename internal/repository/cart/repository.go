package cart

import (
	"context"

	"bookstore/internal/domain"
)

// Repository persists cart lines keyed on (identity, product). Quantity
// mutations run inside a transaction so the stock-ceiling check and the write
// observe a consistent stock value.
type Repository interface {
	ListByOwner(ctx context.Context, owner domain.Identity) ([]domain.CartLine, error)
	GetLine(ctx context.Context, lineID string) (*domain.CartLine, error)
	// AddLine creates the (owner, product) line or increments an existing one.
	// The resulting quantity must not exceed current stock.
	AddLine(ctx context.Context, owner domain.Identity, productID string, quantity int) (*domain.CartLine, error)
	// SetLineQuantity replaces the quantity; the absolute new value must not
	// exceed current stock.
	SetLineQuantity(ctx context.Context, lineID string, quantity int) (*domain.CartLine, error)
	DeleteLine(ctx context.Context, lineID string) error
	// MergeInto moves every guest line to the user identity; colliding
	// (user, product) lines absorb the guest quantity.
	MergeInto(ctx context.Context, guest, user domain.Identity) error
}
