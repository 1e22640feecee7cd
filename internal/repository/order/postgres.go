package order

import (
	"context"
	"errors"
	"io"
	"log"

	"bookstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

type checkoutLine struct {
	productID   string
	productName string
	quantity    int
	priceCents  int64
	stock       int
}

func (r *postgresRepo) Checkout(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Snapshot the cart with the product rows locked, so the stock check and
	// the decrements below observe the same values under concurrent checkouts.
	rows, err := tx.Query(ctx, `
SELECT l.product_id::text, p.name, l.quantity, p.price_cents, p.stock
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.owner_kind = $1 AND l.owner_id = $2
ORDER BY l.created_at ASC
FOR UPDATE OF p
`, domain.IdentityUser, in.UserID)
	if err != nil {
		return nil, err
	}

	var lines []checkoutLine
	for rows.Next() {
		var l checkoutLine
		if err := rows.Scan(&l.productID, &l.productName, &l.quantity, &l.priceCents, &l.stock); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var total int64
	for _, l := range lines {
		if l.quantity > l.stock {
			return nil, &domain.InsufficientStockError{
				ProductID:   l.productID,
				ProductName: l.productName,
				Requested:   l.quantity,
				Available:   l.stock,
			}
		}
		total += l.priceCents * int64(l.quantity)
	}

	var order domain.Order
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (user_id, total_cents, status, payment_method)
VALUES ($1, $2, $3, $4)
RETURNING id::text, user_id::text, total_cents, status, payment_method, created_at
`, in.UserID, total, domain.OrderStatusCompleted, in.PaymentMethod).Scan(
		&order.ID, &order.UserID, &order.TotalCents, &order.Status, &order.PaymentMethod, &order.CreatedAt,
	); err != nil {
		return nil, err
	}

	for _, l := range lines {
		var line domain.OrderLine
		if err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, product_id, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4)
RETURNING id::text, order_id::text, product_id::text, quantity, unit_price_cents, created_at
`, order.ID, l.productID, l.quantity, l.priceCents).Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPriceCents, &line.CreatedAt,
		); err != nil {
			return nil, err
		}
		line.ProductName = l.productName
		order.Lines = append(order.Lines, line)

		if _, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $1, updated_at = now()
WHERE id = $2
`, l.quantity, l.productID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE owner_kind = $1 AND owner_id = $2
`, domain.IdentityUser, in.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: checkout user_id=%s order_id=%s total_cents=%d lines=%d", in.UserID, order.ID, total, len(order.Lines))
	return &order, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, total_cents, status, payment_method, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.Status, &o.PaymentMethod, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		lines, err := r.fetchLines(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Lines = lines
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, total_cents, status, payment_method, created_at
FROM orders
WHERE id = $1 AND user_id = $2
`
	var o domain.Order
	if err := r.pool.QueryRow(ctx, q, orderID, userID).Scan(
		&o.ID, &o.UserID, &o.TotalCents, &o.Status, &o.PaymentMethod, &o.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	lines, err := r.fetchLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, orderID, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT ol.id::text, ol.order_id::text, ol.product_id::text, p.name, ol.quantity, ol.unit_price_cents, ol.created_at
FROM order_lines ol
JOIN products p ON p.id = ol.product_id
WHERE ol.order_id = $1
ORDER BY ol.created_at ASC, ol.id
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPriceCents, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
