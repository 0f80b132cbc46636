package models

import (
	"github.com/google/uuid"
)

// OrderItem is a priced snapshot of one product within one order. Price is
// copied from the product at the time the line is added and never follows
// later catalog price changes. At most one line exists per (order, product).
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// OrderItemFilter narrows order-item listings. Nil fields are not applied.
type OrderItemFilter struct {
	OrderID   *uuid.UUID
	ProductID *uuid.UUID
}

// OrderItemResponse is an order item with related display fields resolved.
type OrderItemResponse struct {
	OrderItem
	Product *ProductSummary `json:"product,omitempty"`
	Order   *Order          `json:"order,omitempty"`
}

// OrderItemsSummary aggregates the lines of one order.
type OrderItemsSummary struct {
	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
}

// ProductSalesStats aggregates all historical lines for one product.
type ProductSalesStats struct {
	TotalQuantitySold int     `json:"total_quantity_sold"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
}
