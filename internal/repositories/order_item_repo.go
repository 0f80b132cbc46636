package repositories

import (
	"context"
	"errors"
	"fmt"

	"shopmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	// GetByIDForUpdate locks the item row; acquired after the order and
	// product locks in mutation paths.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	GetByOrderAndProduct(ctx context.Context, orderID, productID uuid.UUID) (*models.OrderItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	List(ctx context.Context, filter *models.OrderItemFilter, limit, offset int) ([]*models.OrderItem, error)
	Count(ctx context.Context, filter *models.OrderItemFilter) (int, error)
	// SalesStatsByProduct folds quantity and revenue over every historical
	// line of a product, cancelled orders included.
	SalesStatsByProduct(ctx context.Context, productID uuid.UUID) (*models.ProductSalesStats, error)
}

type orderItemRepo struct {
	db Database
}

func NewOrderItemRepo(db Database) OrderItemRepository {
	return &orderItemRepo{db: db}
}

const orderItemColumns = `id, order_id, product_id, quantity, price`

func scanOrderItem(row pgx.Row) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
	return err
}

func (r *orderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE id = $1`
	return scanOrderItem(r.db.QueryRow(ctx, query, id))
}

func (r *orderItemRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE id = $1 FOR UPDATE`
	return scanOrderItem(r.db.QueryRow(ctx, query, id))
}

func (r *orderItemRepo) GetByOrderAndProduct(ctx context.Context, orderID, productID uuid.UUID) (*models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 AND product_id = $2`
	return scanOrderItem(r.db.QueryRow(ctx, query, orderID, productID))
}

func (r *orderItemRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `UPDATE order_items SET quantity = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, quantity, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order item %s not found", id)
	}
	return nil
}

func (r *orderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM order_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *orderItemRepo) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	query := `DELETE FROM order_items WHERE order_id = $1`
	_, err := r.db.Exec(ctx, query, orderID)
	return err
}

func (r *orderItemRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrderItems(rows)
}

func buildOrderItemFilter(filter *models.OrderItemFilter, args *[]interface{}) string {
	if filter == nil {
		return ""
	}
	clause := ""
	if filter.OrderID != nil {
		*args = append(*args, *filter.OrderID)
		clause += fmt.Sprintf(` AND order_id = $%d`, len(*args))
	}
	if filter.ProductID != nil {
		*args = append(*args, *filter.ProductID)
		clause += fmt.Sprintf(` AND product_id = $%d`, len(*args))
	}
	return clause
}

func (r *orderItemRepo) List(ctx context.Context, filter *models.OrderItemFilter, limit, offset int) ([]*models.OrderItem, error) {
	args := []interface{}{}
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE 1=1` + buildOrderItemFilter(filter, &args)
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY id DESC LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrderItems(rows)
}

func (r *orderItemRepo) Count(ctx context.Context, filter *models.OrderItemFilter) (int, error) {
	args := []interface{}{}
	query := `SELECT COUNT(*) FROM order_items WHERE 1=1` + buildOrderItemFilter(filter, &args)
	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderItemRepo) SalesStatsByProduct(ctx context.Context, productID uuid.UUID) (*models.ProductSalesStats, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * price), 0), COUNT(*)
		FROM order_items
		WHERE product_id = $1
	`
	stats := &models.ProductSalesStats{}
	err := r.db.QueryRow(ctx, query, productID).Scan(&stats.TotalQuantitySold, &stats.TotalRevenue, &stats.TotalOrders)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func collectOrderItems(rows pgx.Rows) ([]*models.OrderItem, error) {
	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
