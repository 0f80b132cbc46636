package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// GetByIDForUpdate locks the product row for the rest of the enclosing
	// transaction. Stock may only be read through this method inside the
	// order/stock mutation paths.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	Count(ctx context.Context, filter *models.ProductSearchFilter) (int, error)
	// AdjustStock applies a signed delta to stock_quantity. Callers must hold
	// the row lock and have validated the resulting level is non-negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	ListLowStock(ctx context.Context, threshold, limit int) ([]*models.Product, error)
	ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error
	ListCategoryIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, description, price, stock_quantity, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
		&product.StockQuantity, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Description, product.Price, product.StockQuantity)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock_quantity = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price, product.StockQuantity, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	query := `UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

func buildProductFilter(filter *models.ProductSearchFilter, args *[]interface{}) string {
	var conditions []string
	if filter == nil {
		return ""
	}
	if filter.Query != "" {
		*args = append(*args, "%"+filter.Query+"%")
		n := len(*args)
		conditions = append(conditions, fmt.Sprintf(`(name ILIKE $%d OR COALESCE(description, '') ILIKE $%d)`, n, n))
	}
	if filter.CategoryID != nil {
		*args = append(*args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id = $%d)`,
			len(*args)))
	}
	if filter.MinPrice != nil {
		*args = append(*args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf(`price >= $%d`, len(*args)))
	}
	if filter.MaxPrice != nil {
		*args = append(*args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf(`price <= $%d`, len(*args)))
	}
	if filter.InStock != nil && *filter.InStock {
		conditions = append(conditions, `stock_quantity > 0`)
	}
	if len(conditions) == 0 {
		return ""
	}
	return ` WHERE ` + strings.Join(conditions, " AND ")
}

func (r *productRepo) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	args := []interface{}{}
	query := `SELECT ` + productColumns + ` FROM products` + buildProductFilter(filter, &args)

	sortField := "created_at"
	validSortFields := map[string]bool{"name": true, "price": true, "stock_quantity": true, "created_at": true}
	if filter != nil && validSortFields[filter.SortBy] {
		sortField = filter.SortBy
	}
	sortOrder := "DESC"
	if filter != nil && strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s`, sortField, sortOrder)

	limit, offset := 10, 0
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		if filter.Offset > 0 {
			offset = filter.Offset
		}
	}
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
			&product.StockQuantity, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) Count(ctx context.Context, filter *models.ProductSearchFilter) (int, error) {
	args := []interface{}{}
	query := `SELECT COUNT(*) FROM products` + buildProductFilter(filter, &args)
	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold, limit int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE stock_quantity <= $1
		ORDER BY stock_quantity ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
			&product.StockQuantity, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		query := `
			INSERT INTO product_categories (product_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT (product_id, category_id) DO NOTHING
		`
		if _, err := r.db.Exec(ctx, query, productID, categoryID); err != nil {
			return err
		}
	}
	return nil
}

func (r *productRepo) ListCategoryIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT category_id FROM product_categories WHERE product_id = $1`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
