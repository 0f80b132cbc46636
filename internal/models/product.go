package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductSearchFilter holds search and filter criteria for catalog queries
type ProductSearchFilter struct {
	Query      string     `json:"query,omitempty"`       // Full-text search across name and description
	CategoryID *uuid.UUID `json:"category_id,omitempty"` // Filter by category
	MinPrice   *float64   `json:"min_price,omitempty"`   // Minimum price
	MaxPrice   *float64   `json:"max_price,omitempty"`   // Maximum price
	InStock    *bool      `json:"in_stock,omitempty"`    // Only products with stock_quantity > 0
	SortBy     string     `json:"sort_by,omitempty"`     // Sort field: name, price, stock_quantity, created_at
	SortOrder  string     `json:"sort_order,omitempty"`  // Sort order: asc, desc
	Limit      int        `json:"limit,omitempty"`       // Page size
	Offset     int        `json:"offset,omitempty"`      // Page offset
}

type Product struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	Description   *string     `json:"description" db:"description"`
	Price         float64     `json:"price" db:"price"`
	StockQuantity int         `json:"stock_quantity" db:"stock_quantity"`
	CategoryIDs   []uuid.UUID `json:"categories,omitempty" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// ProductSummary carries the product display fields resolved onto order
// and order-item responses.
type ProductSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
}

func (p *Product) Summary() *ProductSummary {
	if p == nil {
		return nil
	}
	return &ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}
