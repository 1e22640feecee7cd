package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookstore/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// CSVImporter reads a book catalog export and inserts/updates categories and
// products. Expected columns: name, author, description, back_cover, price,
// image, category, stock. Price is decimal (e.g. "19.99").
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter

	// categoryIDs caches category name to id so repeated rows of the same
	// category hit the database once.
	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		categoryIDs: make(map[string]string),
	}
}

type csvRow struct {
	Name       string
	Author     string
	Desc       string
	BackCover  string
	PriceCents int64
	Image      string
	Category   string
	Stock      int
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if row == nil {
			continue
		}

		if err := i.save(ctx, row); err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	categoryID, err := i.ensureCategory(ctx, row.Category)
	if err != nil {
		return fmt.Errorf("ensure category %q: %w", row.Category, err)
	}

	p := domain.Product{
		Name:        row.Name,
		Author:      row.Author,
		Description: row.Desc,
		BackCover:   row.BackCover,
		PriceCents:  row.PriceCents,
		Image:       row.Image,
		CategoryID:  categoryID,
		Stock:       row.Stock,
	}
	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

func (i *CSVImporter) ensureCategory(ctx context.Context, name string) (string, error) {
	if id, ok := i.categoryIDs[name]; ok {
		return id, nil
	}
	c, err := i.categories.Upsert(ctx, domain.Category{Name: name})
	if err != nil {
		return "", err
	}
	i.categoryIDs[name] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*csvRow, error) {
	name := pick(record, index, "name")
	author := pick(record, index, "author")
	category := pick(record, index, "category")
	priceStr := pick(record, index, "price")

	if name == "" && author == "" {
		return nil, nil // blank row
	}
	if name == "" || author == "" || category == "" || priceStr == "" {
		return nil, fmt.Errorf("missing required field for %q (need name, author, category, price)", name)
	}

	cents, err := domain.ParseCents(priceStr)
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", priceStr, err)
	}

	stock := 0
	if stockStr := pick(record, index, "stock"); stockStr != "" {
		stock, err = strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock %q", stockStr)
		}
	}

	return &csvRow{
		Name:       name,
		Author:     author,
		Desc:       pick(record, index, "description"),
		BackCover:  pick(record, index, "back_cover"),
		PriceCents: cents,
		Image:      pick(record, index, "image"),
		Category:   category,
		Stock:      stock,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
