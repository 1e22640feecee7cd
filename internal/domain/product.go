package domain

import "time"

// Product is a book in the catalog. Stock is the only field mutated under
// contention; checkout decrements it inside a transaction.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	BackCover   string    `json:"backCover,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Image       string    `json:"image,omitempty"`
	CategoryID  string    `json:"categoryId"`
	Category    *Category `json:"category,omitempty"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
