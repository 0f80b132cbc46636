package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Any of these values may be set through the status
// endpoint; cancellation and deletion have their own guarded paths.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatuses lists every accepted status value in display order.
var ValidOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether status is one of the five accepted values.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// OrderFilter narrows order listings. Nil fields are not applied.
type OrderFilter struct {
	Status *string
	UserID *uuid.UUID
}

// OrderResponse is an order with its owner's display fields resolved.
type OrderResponse struct {
	Order
	User *UserSummary `json:"user,omitempty"`
}

// OrderWithItems is the detail payload for a single order.
type OrderWithItems struct {
	Order *OrderResponse       `json:"order"`
	Items []*OrderItemResponse `json:"items"`
}
