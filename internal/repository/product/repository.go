package product

import (
	"context"

	"bookstore/internal/domain"
)

// Filter narrows and orders catalog listings. Sort must be one of the keys
// accepted by SortKeys; the service validates it before it reaches SQL.
type Filter struct {
	CategoryID    string
	PriceMinCents *int64
	PriceMaxCents *int64
	Search        string
	Sort          string
}

// SortKeys maps accepted sort keys to ORDER BY clauses. A leading dash means
// descending, mirroring the query-parameter convention.
var SortKeys = map[string]string{
	"name":        "p.name ASC",
	"-name":       "p.name DESC",
	"author":      "p.author ASC",
	"-author":     "p.author DESC",
	"price":       "p.price_cents ASC",
	"-price":      "p.price_cents DESC",
	"created_at":  "p.created_at ASC",
	"-created_at": "p.created_at DESC",
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
