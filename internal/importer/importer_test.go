package importer

import (
	"context"
	"strings"
	"testing"

	"bookstore/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

type stubCategoryRepo struct {
	items []domain.Category
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	out := c
	out.ID = "cat-" + c.Name
	s.items = append(s.items, out)
	return &out, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,author,description,back_cover,price,image,category,stock
Cien años de soledad,Gabriel García Márquez,La saga de los Buendía,Contraportada,25.00,img/cien.jpg,Libros de Ficción,12
One Piece Vol. 1,Eiichiro Oda,Luffy zarpa,Contraportada,12.50,img/op1.jpg,Mangas,30
Berserk Vol. 1,Kentaro Miura,La marca,Contraportada,17,img/berserk1.jpg,Mangas,10`

	products := &stubProductRepo{}
	categories := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), products, categories)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 books imported, got %d", count)
	}
	if len(products.items) != 3 {
		t.Fatalf("expected 3 products saved, got %d", len(products.items))
	}

	first := products.items[0]
	if first.Name != "Cien años de soledad" || first.Author != "Gabriel García Márquez" {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if first.PriceCents != 2500 || first.Stock != 12 {
		t.Fatalf("price/stock not parsed: %+v", first)
	}
	if first.CategoryID != "cat-Libros de Ficción" {
		t.Fatalf("category not resolved: %+v", first)
	}
	if products.items[2].PriceCents != 1700 {
		t.Fatalf("whole-number price not parsed: %+v", products.items[2])
	}

	// Two books share Mangas; the category is upserted once.
	if len(categories.items) != 2 {
		t.Fatalf("expected 2 category upserts, got %d", len(categories.items))
	}
}

func TestCSVImporter_SkipsBlankRows(t *testing.T) {
	csvData := `name,author,description,back_cover,price,image,category,stock
Maus,Art Spiegelman,Pulitzer,Contraportada,32.00,img/maus.jpg,Novelas Gráficas,7
,,,,,,,`

	products := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), products, &stubCategoryRepo{})

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 book imported, got %d", count)
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	cases := []string{
		// Missing category.
		"name,author,price,category\nMaus,Art Spiegelman,32.00,",
		// Unparseable price.
		"name,author,price,category\nMaus,Art Spiegelman,treinta,Cómics",
		// Negative stock.
		"name,author,price,category,stock\nMaus,Art Spiegelman,32.00,Cómics,-1",
	}
	for _, csvData := range cases {
		imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{}, &stubCategoryRepo{})
		if _, err := imp.Run(context.Background()); err == nil {
			t.Fatalf("bad CSV accepted:\n%s", csvData)
		}
	}
}
