package cart

import (
	"context"
	"errors"

	"bookstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lineColumns = `
l.id::text, l.owner_kind, l.owner_id, l.product_id::text, l.quantity, l.created_at, l.updated_at,
p.id::text, p.name, p.author, p.description, COALESCE(p.back_cover, ''), p.price_cents, p.image,
p.category_id::text, p.stock, p.created_at, p.updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByOwner(ctx context.Context, owner domain.Identity) ([]domain.CartLine, error) {
	q := `
SELECT ` + lineColumns + `
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.owner_kind = $1 AND l.owner_id = $2
ORDER BY l.created_at ASC`
	rows, err := r.pool.Query(ctx, q, owner.Kind, owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CartLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetLine(ctx context.Context, lineID string) (*domain.CartLine, error) {
	q := `
SELECT ` + lineColumns + `
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.id = $1`
	line, err := scanLine(r.pool.QueryRow(ctx, q, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, owner domain.Identity, productID string, quantity int) (*domain.CartLine, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var stock int
	var productName string
	err = tx.QueryRow(ctx, `
SELECT stock, name
FROM products
WHERE id = $1
FOR UPDATE
`, productID).Scan(&stock, &productName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_lines
WHERE owner_kind = $1 AND owner_id = $2 AND product_id = $3
`, owner.Kind, owner.ID, productID).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	newQty := existingQty + quantity
	if newQty > stock {
		return nil, &domain.InsufficientStockError{
			ProductID:   productID,
			ProductName: productName,
			Requested:   newQty,
			Available:   stock,
		}
	}

	if lineID != "" {
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, updated_at = now()
WHERE id = $2
`, newQty, lineID); err != nil {
			return nil, err
		}
	} else {
		if err := tx.QueryRow(ctx, `
INSERT INTO cart_lines (owner_kind, owner_id, product_id, quantity)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`, owner.Kind, owner.ID, productID, quantity).Scan(&lineID); err != nil {
			return nil, err
		}
	}

	line, err := fetchLineTx(ctx, tx, lineID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, lineID string, quantity int) (*domain.CartLine, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var productID, productName string
	var stock int
	err = tx.QueryRow(ctx, `
SELECT p.id::text, p.name, p.stock
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.id = $1
FOR UPDATE OF p
`, lineID).Scan(&productID, &productName, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if quantity > stock {
		return nil, &domain.InsufficientStockError{
			ProductID:   productID,
			ProductName: productName,
			Requested:   quantity,
			Available:   stock,
		}
	}

	if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, updated_at = now()
WHERE id = $2
`, quantity, lineID); err != nil {
		return nil, err
	}

	line, err := fetchLineTx(ctx, tx, lineID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) DeleteLine(ctx context.Context, lineID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, lineID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MergeInto(ctx context.Context, guest, user domain.Identity) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Fold guest quantities into user lines for products present in both.
	if _, err := tx.Exec(ctx, `
UPDATE cart_lines AS u
SET quantity = u.quantity + g.quantity, updated_at = now()
FROM cart_lines AS g
WHERE u.owner_kind = $1 AND u.owner_id = $2
  AND g.owner_kind = $3 AND g.owner_id = $4
  AND g.product_id = u.product_id
`, user.Kind, user.ID, guest.Kind, guest.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines AS g
WHERE g.owner_kind = $1 AND g.owner_id = $2
  AND EXISTS (
    SELECT 1 FROM cart_lines u
    WHERE u.owner_kind = $3 AND u.owner_id = $4 AND u.product_id = g.product_id
  )
`, guest.Kind, guest.ID, user.Kind, user.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET owner_kind = $1, owner_id = $2, updated_at = now()
WHERE owner_kind = $3 AND owner_id = $4
`, user.Kind, user.ID, guest.Kind, guest.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func fetchLineTx(ctx context.Context, tx pgx.Tx, lineID string) (*domain.CartLine, error) {
	q := `
SELECT ` + lineColumns + `
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.id = $1`
	return scanLine(tx.QueryRow(ctx, q, lineID))
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var line domain.CartLine
	var p domain.Product
	var ownerKind string
	if err := row.Scan(
		&line.ID, &ownerKind, &line.Owner.ID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt,
		&p.ID, &p.Name, &p.Author, &p.Description, &p.BackCover, &p.PriceCents, &p.Image,
		&p.CategoryID, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	line.Owner.Kind = domain.IdentityKind(ownerKind)
	line.Product = &p
	return &line, nil
}
