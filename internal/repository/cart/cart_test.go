package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore/internal/domain"
	"bookstore/internal/migrate"
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

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, priceCents int64, stock int) string {
	t.Helper()
	var categoryID string
	err := pool.QueryRow(ctx, `
INSERT INTO categories (name) VALUES ('Libros de Ficción')
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text`).Scan(&categoryID)
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	var id string
	err = pool.QueryRow(ctx, `
INSERT INTO products (name, author, price_cents, category_id, stock)
VALUES ($1, 'Autor', $2, $3, $4)
RETURNING id::text`, name, priceCents, categoryID, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func TestPostgres_AddLineMergesQuantity(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Maus", 3200, 10)
	repo := NewPostgres(pool)
	owner := domain.GuestIdentity("tok-merge")

	first, err := repo.AddLine(ctx, owner, productID, 2)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", first.Quantity)
	}

	second, err := repo.AddLine(ctx, owner, productID, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second add created a new line: %s vs %s", second.ID, first.ID)
	}
	if second.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", second.Quantity)
	}

	lines, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}

func TestPostgres_AddLineStockCeiling(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Maus", 3200, 3)
	repo := NewPostgres(pool)
	owner := domain.GuestIdentity("tok-ceiling")

	if _, err := repo.AddLine(ctx, owner, productID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}

	// 2 already in the cart; 2 more would make 4 against stock 3.
	_, err := repo.AddLine(ctx, owner, productID, 2)
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Requested != 4 || stockErr.Available != 3 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}

	// The failed add must not have changed the line.
	lines, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("cart mutated by failed add: %+v", lines)
	}
}

func TestPostgres_SeparateOwnersSeparateCarts(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Maus", 3200, 10)
	repo := NewPostgres(pool)

	if _, err := repo.AddLine(ctx, domain.GuestIdentity("tok-a"), productID, 1); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := repo.AddLine(ctx, domain.GuestIdentity("tok-b"), productID, 2); err != nil {
		t.Fatalf("add b: %v", err)
	}

	linesA, err := repo.ListByOwner(ctx, domain.GuestIdentity("tok-a"))
	if err != nil {
		t.Fatalf("list a: %v", err)
	}
	if len(linesA) != 1 || linesA[0].Quantity != 1 {
		t.Fatalf("cart a polluted: %+v", linesA)
	}
}

func TestPostgres_MergeInto(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	shared := insertProduct(ctx, t, pool, "Maus", 3200, 100)
	guestOnly := insertProduct(ctx, t, pool, "Watchmen", 3500, 100)

	var userID string
	err := pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash) VALUES ('a@b.com', 'x')
RETURNING id::text`).Scan(&userID)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	repo := NewPostgres(pool)
	guest := domain.GuestIdentity("tok-merge-login")
	user := domain.UserIdentity(userID)

	// User already holds 1 of the shared product; guest holds 2 of it plus
	// another product.
	if _, err := repo.AddLine(ctx, user, shared, 1); err != nil {
		t.Fatalf("user add: %v", err)
	}
	if _, err := repo.AddLine(ctx, guest, shared, 2); err != nil {
		t.Fatalf("guest add shared: %v", err)
	}
	if _, err := repo.AddLine(ctx, guest, guestOnly, 1); err != nil {
		t.Fatalf("guest add own: %v", err)
	}

	if err := repo.MergeInto(ctx, guest, user); err != nil {
		t.Fatalf("merge: %v", err)
	}

	guestLines, err := repo.ListByOwner(ctx, guest)
	if err != nil {
		t.Fatalf("list guest: %v", err)
	}
	if len(guestLines) != 0 {
		t.Fatalf("guest cart not emptied: %+v", guestLines)
	}

	userLines, err := repo.ListByOwner(ctx, user)
	if err != nil {
		t.Fatalf("list user: %v", err)
	}
	if len(userLines) != 2 {
		t.Fatalf("expected 2 user lines, got %+v", userLines)
	}
	byProduct := map[string]int{}
	for _, l := range userLines {
		byProduct[l.ProductID] = l.Quantity
	}
	if byProduct[shared] != 3 {
		t.Fatalf("shared product quantity = %d, want 3", byProduct[shared])
	}
	if byProduct[guestOnly] != 1 {
		t.Fatalf("guest-only product quantity = %d, want 1", byProduct[guestOnly])
	}
}
