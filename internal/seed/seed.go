package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type bookSeed struct {
	Name        string
	Author      string
	Description string
	BackCover   string
	PriceCents  int64
	Image       string
	Category    string
	Stock       int
}

type categorySeed struct {
	Name        string
	Description string
}

var categories = []categorySeed{
	{Name: "Libros de Ficción", Description: "Novelas y relatos de ficción"},
	{Name: "Mangas", Description: "Historietas japonesas"},
	{Name: "Novelas Gráficas", Description: "Narrativa ilustrada de formato largo"},
	{Name: "Libros de No Ficción", Description: "Ensayo, divulgación y biografía"},
	{Name: "Cómics", Description: "Historietas y tiras cómicas"},
}

var books = []bookSeed{
	{
		Name:        "Cien años de soledad",
		Author:      "Gabriel García Márquez",
		Description: "La saga de la familia Buendía en Macondo.",
		BackCover:   "Una de las obras fundamentales de la literatura hispanoamericana.",
		PriceCents:  2500,
		Image:       "img/cien-anos-de-soledad.jpg",
		Category:    "Libros de Ficción",
		Stock:       12,
	},
	{
		Name:        "El nombre del viento",
		Author:      "Patrick Rothfuss",
		Description: "Primera entrega de la Crónica del Asesino de Reyes.",
		BackCover:   "La historia de Kvothe contada por él mismo.",
		PriceCents:  2999,
		Image:       "img/el-nombre-del-viento.jpg",
		Category:    "Libros de Ficción",
		Stock:       8,
	},
	{
		Name:        "1984",
		Author:      "George Orwell",
		Description: "Distopía clásica sobre la vigilancia total.",
		BackCover:   "El Gran Hermano te vigila.",
		PriceCents:  1850,
		Image:       "img/1984.jpg",
		Category:    "Libros de Ficción",
		Stock:       15,
	},
	{
		Name:        "One Piece Vol. 1",
		Author:      "Eiichiro Oda",
		Description: "Monkey D. Luffy comienza su viaje pirata.",
		BackCover:   "El inicio de la gran era de la piratería.",
		PriceCents:  1200,
		Image:       "img/one-piece-1.jpg",
		Category:    "Mangas",
		Stock:       30,
	},
	{
		Name:        "Berserk Vol. 1",
		Author:      "Kentaro Miura",
		Description: "La marca del sacrificio persigue a Guts.",
		BackCover:   "Fantasía oscura medieval.",
		PriceCents:  1700,
		Image:       "img/berserk-1.jpg",
		Category:    "Mangas",
		Stock:       10,
	},
	{
		Name:        "Watchmen",
		Author:      "Alan Moore",
		Description: "¿Quién vigila a los vigilantes?",
		BackCover:   "La novela gráfica que redefinió el género de superhéroes.",
		PriceCents:  3500,
		Image:       "img/watchmen.jpg",
		Category:    "Novelas Gráficas",
		Stock:       6,
	},
	{
		Name:        "Maus",
		Author:      "Art Spiegelman",
		Description: "Relato del Holocausto en viñetas.",
		BackCover:   "Ganadora del premio Pulitzer.",
		PriceCents:  3200,
		Image:       "img/maus.jpg",
		Category:    "Novelas Gráficas",
		Stock:       7,
	},
	{
		Name:        "Sapiens",
		Author:      "Yuval Noah Harari",
		Description: "Breve historia de la humanidad.",
		BackCover:   "De animales insignificantes a dueños del mundo.",
		PriceCents:  2800,
		Image:       "img/sapiens.jpg",
		Category:    "Libros de No Ficción",
		Stock:       9,
	},
	{
		Name:        "Una breve historia de casi todo",
		Author:      "Bill Bryson",
		Description: "Divulgación científica con humor.",
		BackCover:   "Del Big Bang al ser humano.",
		PriceCents:  2400,
		Image:       "img/breve-historia.jpg",
		Category:    "Libros de No Ficción",
		Stock:       5,
	},
	{
		Name:        "Mafalda Tomo 1",
		Author:      "Quino",
		Description: "Las tiras clásicas de la niña que odia la sopa.",
		BackCover:   "Humor argentino con mirada crítica.",
		PriceCents:  1500,
		Image:       "img/mafalda-1.jpg",
		Category:    "Cómics",
		Stock:       20,
	},
	{
		Name:        "Asterix el Galo",
		Author:      "René Goscinny",
		Description: "Primera aventura de la aldea gala irreductible.",
		BackCover:   "Con guion de Goscinny y dibujo de Uderzo.",
		PriceCents:  1600,
		Image:       "img/asterix-el-galo.jpg",
		Category:    "Cómics",
		Stock:       14,
	},
}

// Apply inserts the demo catalog for manual testing. Safe to run repeatedly:
// categories conflict on name and books are matched by (name, author).
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		id, err := upsertCategory(ctx, pool, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Name, err)
		}
		categoryIDs[c.Name] = id
	}

	for _, b := range books {
		categoryID, ok := categoryIDs[b.Category]
		if !ok {
			return fmt.Errorf("book %q references unknown category %q", b.Name, b.Category)
		}
		if err := upsertBook(ctx, pool, categoryID, b); err != nil {
			return fmt.Errorf("upsert book %s: %w", b.Name, err)
		}
	}

	return nil
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) (string, error) {
	const q = `
INSERT INTO categories (name, description)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, c.Name, c.Description).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertBook(ctx context.Context, pool *pgxpool.Pool, categoryID string, b bookSeed) error {
	const find = `SELECT id::text FROM products WHERE name = $1 AND author = $2`
	const update = `
UPDATE products
SET description = $2,
    back_cover = $3,
    price_cents = $4,
    image = $5,
    category_id = $6,
    stock = $7,
    updated_at = now()
WHERE id = $1
`
	const insert = `
INSERT INTO products (name, author, description, back_cover, price_cents, image, category_id, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

	var id string
	err := pool.QueryRow(ctx, find, b.Name, b.Author).Scan(&id)
	switch {
	case err == nil:
		_, err = pool.Exec(ctx, update, id, b.Description, b.BackCover, b.PriceCents, b.Image, categoryID, b.Stock)
		return err
	case errors.Is(err, pgx.ErrNoRows):
		_, err = pool.Exec(ctx, insert, b.Name, b.Author, b.Description, b.BackCover, b.PriceCents, b.Image, categoryID, b.Stock)
		return err
	default:
		return err
	}
}
