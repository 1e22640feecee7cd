package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"bookstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `
p.id::text, p.name, p.author, p.description, COALESCE(p.back_cover, ''), p.price_cents, p.image,
p.category_id::text, p.stock, p.created_at, p.updated_at,
c.id::text, c.name, c.description, c.created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`
SELECT ` + productColumns + `
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE 1=1`)

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		fmt.Fprintf(&sb, " AND p.category_id = $%d", len(args))
	}
	if f.PriceMinCents != nil {
		args = append(args, *f.PriceMinCents)
		fmt.Fprintf(&sb, " AND p.price_cents >= $%d", len(args))
	}
	if f.PriceMaxCents != nil {
		args = append(args, *f.PriceMaxCents)
		fmt.Fprintf(&sb, " AND p.price_cents <= $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		fmt.Fprintf(&sb, " AND (p.name ILIKE $%d OR p.author ILIKE $%d)", len(args), len(args))
	}

	orderBy, ok := SortKeys[f.Sort]
	if !ok {
		orderBy = SortKeys["-created_at"]
	}
	sb.WriteString(" ORDER BY " + orderBy)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE p.id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

// Upsert inserts or updates a product keyed on (name, author). Products have
// no unique natural key column, so seeding dedupes via an explicit lookup.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	existing, err := r.findByNameAuthor(ctx, p.Name, p.Author)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		const upd = `
UPDATE products
SET description = $1, back_cover = NULLIF($2, ''), price_cents = $3, image = $4, category_id = $5, stock = $6, updated_at = now()
WHERE id = $7
RETURNING created_at, updated_at
`
		out := p
		out.ID = existing.ID
		if err := r.pool.QueryRow(ctx, upd, p.Description, p.BackCover, p.PriceCents, p.Image, p.CategoryID, p.Stock, existing.ID).
			Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
			r.logger.Printf("product repo: update name=%q error=%v", p.Name, err)
			return nil, err
		}
		return &out, nil
	}

	const ins = `
INSERT INTO products (name, author, description, back_cover, price_cents, image, category_id, stock)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
RETURNING id::text, created_at, updated_at
`
	out := p
	if err := r.pool.QueryRow(ctx, ins, p.Name, p.Author, p.Description, p.BackCover, p.PriceCents, p.Image, p.CategoryID, p.Stock).
		Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		r.logger.Printf("product repo: insert name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted name=%q id=%s", out.Name, out.ID)
	return &out, nil
}

func (r *postgresRepo) findByNameAuthor(ctx context.Context, name, author string) (*domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE p.name = $1 AND p.author = $2
LIMIT 1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, name, author))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// escapeLike neutralizes LIKE metacharacters so a search term matches
// literally instead of acting as a pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var c domain.Category
	if err := row.Scan(
		&p.ID, &p.Name, &p.Author, &p.Description, &p.BackCover, &p.PriceCents, &p.Image,
		&p.CategoryID, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Description, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}
