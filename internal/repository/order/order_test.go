package order

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore/internal/domain"
	"bookstore/internal/migrate"
	cartrepo "bookstore/internal/repository/cart"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, cart_lines, tokens, users, products, categories RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

type fixture struct {
	userID   string
	productA string
	productB string
}

// setupFixture builds a user whose cart holds 2 of product A (10.00 each) and
// 1 of product B (5.00), with the given stock on B.
func setupFixture(ctx context.Context, t *testing.T, pool *pgxpool.Pool, stockB int) fixture {
	t.Helper()

	var categoryID string
	err := pool.QueryRow(ctx, `
INSERT INTO categories (name) VALUES ('Libros de Ficción') RETURNING id::text`).Scan(&categoryID)
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}

	insert := func(name string, priceCents int64, stock int) string {
		var id string
		err := pool.QueryRow(ctx, `
INSERT INTO products (name, author, price_cents, category_id, stock)
VALUES ($1, 'Autor', $2, $3, $4)
RETURNING id::text`, name, priceCents, categoryID, stock).Scan(&id)
		if err != nil {
			t.Fatalf("insert product %s: %v", name, err)
		}
		return id
	}
	productA := insert("Libro A", 1000, 10)
	productB := insert("Libro B", 500, stockB)

	var userID string
	err = pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash) VALUES ('buyer@example.com', 'x')
RETURNING id::text`).Scan(&userID)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	carts := cartrepo.NewPostgres(pool)
	owner := domain.UserIdentity(userID)
	if _, err := carts.AddLine(ctx, owner, productA, 2); err != nil {
		t.Fatalf("add product A: %v", err)
	}
	if stockB > 0 {
		if _, err := carts.AddLine(ctx, owner, productB, 1); err != nil {
			t.Fatalf("add product B: %v", err)
		}
	} else {
		// Bypass the add-time ceiling so checkout faces a line whose stock
		// ran out after it was added.
		_, err := pool.Exec(ctx, `
INSERT INTO cart_lines (owner_kind, owner_id, product_id, quantity)
VALUES ('user', $1, $2, 1)`, userID, productB)
		if err != nil {
			t.Fatalf("insert stale line: %v", err)
		}
	}

	return fixture{userID: userID, productA: productA, productB: productB}
}

func stockOf(ctx context.Context, t *testing.T, pool *pgxpool.Pool, productID string) int {
	t.Helper()
	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock
}

func TestPostgres_CheckoutHappyPath(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	fx := setupFixture(ctx, t, pool, 5)

	repo := NewPostgres(pool, log.New(io.Discard, "", 0))
	order, err := repo.Checkout(ctx, CheckoutInput{UserID: fx.userID, PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// 2 x 10.00 + 1 x 5.00.
	if order.TotalCents != 2500 {
		t.Fatalf("total = %d, want 2500", order.TotalCents)
	}
	if order.Status != domain.OrderStatusCompleted {
		t.Fatalf("status = %q, want %q", order.Status, domain.OrderStatusCompleted)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(order.Lines))
	}
	for _, l := range order.Lines {
		switch l.ProductID {
		case fx.productA:
			if l.Quantity != 2 || l.UnitPriceCents != 1000 {
				t.Fatalf("product A line wrong: %+v", l)
			}
		case fx.productB:
			if l.Quantity != 1 || l.UnitPriceCents != 500 {
				t.Fatalf("product B line wrong: %+v", l)
			}
		default:
			t.Fatalf("unexpected product in order: %+v", l)
		}
	}

	if got := stockOf(ctx, t, pool, fx.productA); got != 8 {
		t.Fatalf("product A stock = %d, want 8", got)
	}
	if got := stockOf(ctx, t, pool, fx.productB); got != 4 {
		t.Fatalf("product B stock = %d, want 4", got)
	}

	carts := cartrepo.NewPostgres(pool)
	lines, err := carts.ListByOwner(ctx, domain.UserIdentity(fx.userID))
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("cart not emptied: %+v", lines)
	}
}

func TestPostgres_CheckoutFrozenPrice(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	fx := setupFixture(ctx, t, pool, 5)

	repo := NewPostgres(pool, log.New(io.Discard, "", 0))
	order, err := repo.Checkout(ctx, CheckoutInput{UserID: fx.userID, PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// Raising the price afterwards must not touch the recorded order.
	if _, err := pool.Exec(ctx, `UPDATE products SET price_cents = 99999 WHERE id = $1`, fx.productA); err != nil {
		t.Fatalf("update price: %v", err)
	}

	fetched, err := repo.GetByID(ctx, fx.userID, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if fetched.TotalCents != 2500 {
		t.Fatalf("total drifted to %d", fetched.TotalCents)
	}
	for _, l := range fetched.Lines {
		if l.ProductID == fx.productA && l.UnitPriceCents != 1000 {
			t.Fatalf("unit price drifted: %+v", l)
		}
	}
}

func TestPostgres_CheckoutInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	fx := setupFixture(ctx, t, pool, 0)

	repo := NewPostgres(pool, log.New(io.Discard, "", 0))
	_, err := repo.Checkout(ctx, CheckoutInput{UserID: fx.userID, PaymentMethod: "card"})
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ProductID != fx.productB || stockErr.Available != 0 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}

	// Nothing may have moved: no order, full cart, untouched stock.
	var orderCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orderCount); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("order created despite failure")
	}
	if got := stockOf(ctx, t, pool, fx.productA); got != 10 {
		t.Fatalf("product A stock = %d, want 10", got)
	}

	carts := cartrepo.NewPostgres(pool)
	lines, err := carts.ListByOwner(ctx, domain.UserIdentity(fx.userID))
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("cart mutated: %+v", lines)
	}
}

func TestPostgres_CheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	var userID string
	err := pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash) VALUES ('empty@example.com', 'x')
RETURNING id::text`).Scan(&userID)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	repo := NewPostgres(pool, log.New(io.Discard, "", 0))
	if _, err := repo.Checkout(ctx, CheckoutInput{UserID: userID, PaymentMethod: "card"}); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestPostgres_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	fx := setupFixture(ctx, t, pool, 5)

	repo := NewPostgres(pool, log.New(io.Discard, "", 0))
	first, err := repo.Checkout(ctx, CheckoutInput{UserID: fx.userID, PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	carts := cartrepo.NewPostgres(pool)
	if _, err := carts.AddLine(ctx, domain.UserIdentity(fx.userID), fx.productA, 1); err != nil {
		t.Fatalf("refill cart: %v", err)
	}
	second, err := repo.Checkout(ctx, CheckoutInput{UserID: fx.userID, PaymentMethod: "paypal"})
	if err != nil {
		t.Fatalf("second checkout: %v", err)
	}

	orders, err := repo.ListByUser(ctx, fx.userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Fatalf("orders not newest-first: %+v", orders)
	}

	// Scoped lookup: another user never sees these orders.
	if _, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000", first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}
