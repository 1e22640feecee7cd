package domain

import "time"

// CartLine is one (identity, product, quantity) record. At most one line
// exists per (identity, product); repeated adds increment the quantity.
type CartLine struct {
	ID        string    `json:"id"`
	Owner     Identity  `json:"-"`
	ProductID string    `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubtotalCents is the line's current price times quantity. It is informative
// only; order totals are frozen separately at checkout.
func (l CartLine) SubtotalCents() int64 {
	if l.Product == nil {
		return 0
	}
	return l.Product.PriceCents * int64(l.Quantity)
}
