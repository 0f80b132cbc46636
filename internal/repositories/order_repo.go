package repositories

import (
	"context"
	"errors"
	"fmt"

	"shopmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetByIDForUpdate locks the order row for the rest of the enclosing
	// transaction. Mutation paths lock the order before any product row.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// UpdateStatus reports whether a row was updated.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
	// AdjustTotal applies a signed delta to total_amount.
	AdjustTotal(ctx context.Context, id uuid.UUID, delta float64) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.OrderFilter, limit, offset int) ([]*models.Order, error)
	Count(ctx context.Context, filter *models.OrderFilter) (int, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, user_id, total_amount, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.Status,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.UserID, order.TotalAmount, order.Status)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepo) AdjustTotal(ctx context.Context, id uuid.UUID, delta float64) error {
	query := `UPDATE orders SET total_amount = total_amount + $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", id)
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM orders WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func buildOrderFilter(filter *models.OrderFilter, args *[]interface{}) string {
	if filter == nil {
		return ""
	}
	clause := ""
	if filter.Status != nil {
		*args = append(*args, *filter.Status)
		clause += fmt.Sprintf(` AND status = $%d`, len(*args))
	}
	if filter.UserID != nil {
		*args = append(*args, *filter.UserID)
		clause += fmt.Sprintf(` AND user_id = $%d`, len(*args))
	}
	return clause
}

func (r *orderRepo) List(ctx context.Context, filter *models.OrderFilter, limit, offset int) ([]*models.Order, error) {
	args := []interface{}{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1` + buildOrderFilter(filter, &args)
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.Status,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) Count(ctx context.Context, filter *models.OrderFilter) (int, error) {
	args := []interface{}{}
	query := `SELECT COUNT(*) FROM orders WHERE 1=1` + buildOrderFilter(filter, &args)
	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
