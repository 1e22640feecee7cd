package catalog

import (
	"context"
	"strings"

	"bookstore/internal/domain"
	productrepo "bookstore/internal/repository/product"
)

// Service exposes the read-only catalog: categories plus filtered, sorted
// product listings.
type Service struct {
	products   productRepo
	categories categoryRepo
}

type productRepo interface {
	List(ctx context.Context, f productrepo.Filter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type categoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

func New(products productRepo, categories categoryRepo) *Service {
	return &Service{products: products, categories: categories}
}

// ListInput mirrors the catalog query parameters. Prices are inclusive cent
// bounds; Search matches name or author case-insensitively.
type ListInput struct {
	CategoryID    string
	PriceMinCents *int64
	PriceMaxCents *int64
	Search        string
	Sort          string
}

func (s *Service) ListProducts(ctx context.Context, in ListInput) ([]domain.Product, error) {
	sort := strings.TrimSpace(in.Sort)
	if sort != "" {
		if _, ok := productrepo.SortKeys[sort]; !ok {
			return nil, domain.Validationf("unsupported sort key %q", sort)
		}
	}
	if in.PriceMinCents != nil && *in.PriceMinCents < 0 {
		return nil, domain.Validationf("price_min must not be negative")
	}
	if in.PriceMaxCents != nil && *in.PriceMaxCents < 0 {
		return nil, domain.Validationf("price_max must not be negative")
	}
	if in.PriceMinCents != nil && in.PriceMaxCents != nil && *in.PriceMinCents > *in.PriceMaxCents {
		return nil, domain.Validationf("price_min must not exceed price_max")
	}

	return s.products.List(ctx, productrepo.Filter{
		CategoryID:    strings.TrimSpace(in.CategoryID),
		PriceMinCents: in.PriceMinCents,
		PriceMaxCents: in.PriceMaxCents,
		Search:        strings.TrimSpace(in.Search),
		Sort:          sort,
	})
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Validationf("product id required")
	}
	return s.products.GetByID(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Validationf("category id required")
	}
	return s.categories.GetByID(ctx, id)
}
