package services

import (
	"context"

	"shopmart/internal/caching"
	"shopmart/internal/common"
	"shopmart/internal/models"
	"shopmart/internal/repositories"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// OrderItemServiceInterface defines the line-item operations.
type OrderItemServiceInterface interface {
	AddItemToOrder(ctx context.Context, orderID, productID uuid.UUID, quantity int) (*models.OrderItemResponse, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.OrderItemResponse, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	GetOrderItemByID(ctx context.Context, itemID uuid.UUID) (*models.OrderItemResponse, error)
	ListOrderItems(ctx context.Context, filter *models.OrderItemFilter, page, limit int) ([]*models.OrderItemResponse, models.Pagination, error)
	GetItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItemResponse, *models.OrderItemsSummary, error)
	GetItemsByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]*models.OrderItemResponse, *models.ProductSalesStats, models.Pagination, error)
}

type orderItemService struct {
	txm   repositories.TxManager
	repos *repositories.Repos
	cache caching.CacheService
}

// NewOrderItemService creates the order-item service. repos must be bound to
// the pool; transactional paths get their own bundle from txm.
func NewOrderItemService(txm repositories.TxManager, repos *repositories.Repos, cache caching.CacheService) OrderItemServiceInterface {
	return &orderItemService{txm: txm, repos: repos, cache: cache}
}

func (s *orderItemService) invalidateProduct(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProduct(ctx, productID); err != nil {
		log.WithError(err).Warn("product cache invalidation failed")
	}
}

// orderModifiable rejects mutations against terminal orders.
func orderModifiable(order *models.Order) error {
	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return common.NewConflictError("Cannot modify delivered or cancelled orders")
	}
	return nil
}

// AddItemToOrder inserts a new line with the product's current price as its
// snapshot, decrements stock and raises the order total, all in one
// transaction. A line for the same product already on the order is a
// conflict; callers adjust quantity through the update operation instead.
func (s *orderItemService) AddItemToOrder(ctx context.Context, orderID, productID uuid.UUID, quantity int) (*models.OrderItemResponse, error) {
	if appErr := common.ValidateQuantity(quantity); appErr != nil {
		return nil, appErr
	}

	var (
		created        *models.OrderItem
		productSummary *models.ProductSummary
	)

	err := s.txm.WithinTx(ctx, func(ctx context.Context, r *repositories.Repos) error {
		order, err := r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return common.NewNotFoundError("Order not found")
		}
		if err := orderModifiable(order); err != nil {
			return err
		}

		product, err := r.Products.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return common.NewNotFoundError("Product not found")
		}
		if product.StockQuantity < quantity {
			return common.NewConflictError("Insufficient stock. Available: %d", product.StockQuantity)
		}

		existing, err := r.OrderItems.GetByOrderAndProduct(ctx, orderID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			return common.NewConflictError("Product already exists in this order. Use update endpoint to modify quantity.")
		}

		created = &models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		}
		if err := r.OrderItems.Create(ctx, created); err != nil {
			return err
		}
		if err := r.Products.AdjustStock(ctx, productID, -quantity); err != nil {
			return err
		}
		if err := r.Orders.AdjustTotal(ctx, orderID, product.Price*float64(quantity)); err != nil {
			return err
		}
		productSummary = product.Summary()
		return nil
	})
	if err != nil {
		return nil, asAppError("add item to order", err)
	}

	s.invalidateProduct(ctx, productID)

	return &models.OrderItemResponse{OrderItem: *created, Product: productSummary}, nil
}

// UpdateItemQuantity moves a line to a new quantity. The stock delta is
// new minus old, so shrinking a line returns stock; the price snapshot never
// changes, only the order total moves by delta×price.
func (s *orderItemService) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.OrderItemResponse, error) {
	if appErr := common.ValidateQuantity(quantity); appErr != nil {
		return nil, appErr
	}

	var (
		updated        *models.OrderItem
		productSummary *models.ProductSummary
	)

	err := s.txm.WithinTx(ctx, func(ctx context.Context, r *repositories.Repos) error {
		// Unlocked read to discover the parent order; the authoritative
		// re-read happens below once the locks are held.
		item, err := r.OrderItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return common.NewNotFoundError("Order item not found")
		}

		order, err := r.Orders.GetByIDForUpdate(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return common.NewNotFoundError("Associated order not found")
		}
		if err := orderModifiable(order); err != nil {
			return err
		}

		product, err := r.Products.GetByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return common.NewNotFoundError("Associated product not found")
		}

		item, err = r.OrderItems.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return common.NewNotFoundError("Order item not found")
		}

		delta := quantity - item.Quantity
		if delta > 0 && product.StockQuantity < delta {
			return common.NewConflictError("Insufficient stock. Available: %d", product.StockQuantity)
		}
		if delta != 0 {
			if err := r.Products.AdjustStock(ctx, product.ID, -delta); err != nil {
				return err
			}
			if err := r.Orders.AdjustTotal(ctx, order.ID, float64(delta)*item.Price); err != nil {
				return err
			}
		}
		if err := r.OrderItems.UpdateQuantity(ctx, itemID, quantity); err != nil {
			return err
		}

		item.Quantity = quantity
		updated = item
		productSummary = product.Summary()
		return nil
	})
	if err != nil {
		return nil, asAppError("update order item quantity", err)
	}

	s.invalidateProduct(ctx, updated.ProductID)

	return &models.OrderItemResponse{OrderItem: *updated, Product: productSummary}, nil
}

// RemoveItem deletes a line, restores its quantity to product stock and
// lowers the order total. A product that no longer exists is tolerated; the
// line is still removable, it just restores nothing.
func (s *orderItemService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	var productID uuid.UUID

	err := s.txm.WithinTx(ctx, func(ctx context.Context, r *repositories.Repos) error {
		item, err := r.OrderItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return common.NewNotFoundError("Order item not found")
		}

		order, err := r.Orders.GetByIDForUpdate(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return common.NewNotFoundError("Associated order not found")
		}
		if err := orderModifiable(order); err != nil {
			return err
		}

		product, err := r.Products.GetByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}

		item, err = r.OrderItems.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return common.NewNotFoundError("Order item not found")
		}

		if product != nil {
			if err := r.Products.AdjustStock(ctx, product.ID, item.Quantity); err != nil {
				return err
			}
			productID = product.ID
		}
		if err := r.Orders.AdjustTotal(ctx, order.ID, -item.Price*float64(item.Quantity)); err != nil {
			return err
		}
		return r.OrderItems.Delete(ctx, itemID)
	})
	if err != nil {
		return asAppError("remove order item", err)
	}

	if productID != uuid.Nil {
		s.invalidateProduct(ctx, productID)
	}
	return nil
}

// GetOrderItemByID loads one line with its order and product resolved.
func (s *orderItemService) GetOrderItemByID(ctx context.Context, itemID uuid.UUID) (*models.OrderItemResponse, error) {
	item, err := s.repos.OrderItems.GetByID(ctx, itemID)
	if err != nil {
		return nil, common.NewInternalError("retrieve order item", err)
	}
	if item == nil {
		return nil, common.NewNotFoundError("Order item not found")
	}

	order, err := s.repos.Orders.GetByID(ctx, item.OrderID)
	if err != nil {
		return nil, common.NewInternalError("resolve order item order", err)
	}
	productSummary, err := newProductResolver(s.repos.Products, s.cache).resolve(ctx, item.ProductID)
	if err != nil {
		return nil, common.NewInternalError("resolve order item product", err)
	}

	return &models.OrderItemResponse{OrderItem: *item, Order: order, Product: productSummary}, nil
}

// ListOrderItems pages through lines, optionally filtered by order or product.
func (s *orderItemService) ListOrderItems(ctx context.Context, filter *models.OrderItemFilter, page, limit int) ([]*models.OrderItemResponse, models.Pagination, error) {
	offset := (page - 1) * limit
	items, err := s.repos.OrderItems.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, models.Pagination{}, common.NewInternalError("retrieve order items", err)
	}
	total, err := s.repos.OrderItems.Count(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, common.NewInternalError("count order items", err)
	}

	responses, err := s.populateItems(ctx, items, true)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return responses, models.NewPagination(page, limit, total), nil
}

// GetItemsByOrder returns an order's lines plus their fold: line count, total
// quantity and total amount.
func (s *orderItemService) GetItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItemResponse, *models.OrderItemsSummary, error) {
	items, err := s.repos.OrderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, common.NewInternalError("retrieve order items", err)
	}
	if len(items) == 0 {
		return nil, nil, common.NewNotFoundError("No order items found for this order")
	}

	summary := &models.OrderItemsSummary{TotalItems: len(items)}
	for _, item := range items {
		summary.TotalQuantity += item.Quantity
		summary.TotalAmount += item.Price * float64(item.Quantity)
	}

	responses, err := s.populateItems(ctx, items, false)
	if err != nil {
		return nil, nil, err
	}
	return responses, summary, nil
}

// GetItemsByProduct pages a product's historical lines and aggregates its
// all-time sales: units sold and revenue across every order ever placed.
func (s *orderItemService) GetItemsByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]*models.OrderItemResponse, *models.ProductSalesStats, models.Pagination, error) {
	filter := &models.OrderItemFilter{ProductID: &productID}
	offset := (page - 1) * limit

	items, err := s.repos.OrderItems.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, nil, models.Pagination{}, common.NewInternalError("retrieve order items", err)
	}
	total, err := s.repos.OrderItems.Count(ctx, filter)
	if err != nil {
		return nil, nil, models.Pagination{}, common.NewInternalError("count order items", err)
	}
	stats, err := s.repos.OrderItems.SalesStatsByProduct(ctx, productID)
	if err != nil {
		return nil, nil, models.Pagination{}, common.NewInternalError("aggregate product sales", err)
	}
	stats.TotalOrders = total

	responses, err := s.populateItems(ctx, items, true)
	if err != nil {
		return nil, nil, models.Pagination{}, err
	}
	return responses, stats, models.NewPagination(page, limit, total), nil
}

// populateItems resolves product (and optionally order) display fields onto
// raw lines.
func (s *orderItemService) populateItems(ctx context.Context, items []*models.OrderItem, withOrder bool) ([]*models.OrderItemResponse, error) {
	products := newProductResolver(s.repos.Products, s.cache)
	orders := make(map[uuid.UUID]*models.Order)

	responses := make([]*models.OrderItemResponse, 0, len(items))
	for _, item := range items {
		productSummary, err := products.resolve(ctx, item.ProductID)
		if err != nil {
			return nil, common.NewInternalError("resolve order item product", err)
		}
		response := &models.OrderItemResponse{OrderItem: *item, Product: productSummary}
		if withOrder {
			order, ok := orders[item.OrderID]
			if !ok {
				order, err = s.repos.Orders.GetByID(ctx, item.OrderID)
				if err != nil {
					return nil, common.NewInternalError("resolve order item order", err)
				}
				orders[item.OrderID] = order
			}
			response.Order = order
		}
		responses = append(responses, response)
	}
	return responses, nil
}
