package services

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"shopmart/internal/caching"
	"shopmart/internal/common"
	"shopmart/internal/models"
	"shopmart/internal/repositories"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderServiceInterface defines the order-level operations.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*models.OrderWithItems, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.OrderWithItems, error)
	ListOrders(ctx context.Context, filter *models.OrderFilter, page, limit int) ([]*models.OrderResponse, models.Pagination, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.OrderResponse, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	txm   repositories.TxManager
	repos *repositories.Repos
	users repositories.UserRepository
	cache caching.CacheService
}

// NewOrderService creates the order service. repos must be bound to the pool;
// transactional paths get their own bundle from txm.
func NewOrderService(txm repositories.TxManager, repos *repositories.Repos, users repositories.UserRepository, cache caching.CacheService) OrderServiceInterface {
	return &orderService{txm: txm, repos: repos, users: users, cache: cache}
}

// sortLinesByProduct orders requested lines by ascending product UUID. Every
// transaction that locks more than one product row acquires the locks in this
// order, so two concurrent multi-line transactions cannot deadlock.
func sortLinesByProduct(items []OrderItemInput) []OrderItemInput {
	sorted := make([]OrderItemInput, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].ProductID[:], sorted[j].ProductID[:]) < 0
	})
	return sorted
}

func sortItemsByProduct(items []*models.OrderItem) []*models.OrderItem {
	sorted := make([]*models.OrderItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].ProductID[:], sorted[j].ProductID[:]) < 0
	})
	return sorted
}

// invalidateProducts drops cached entries for products whose stock just
// changed. Runs after commit; failures only log, the store is authoritative.
func (s *orderService) invalidateProducts(ctx context.Context, productIDs []uuid.UUID) {
	if s.cache == nil || len(productIDs) == 0 {
		return
	}
	if err := s.cache.DeleteProducts(ctx, productIDs); err != nil {
		log.WithError(err).Warn("product cache invalidation failed")
	}
}

// CreateOrder validates every requested line, decrements stock and persists
// the order with its item snapshots as one transaction. Any failing line
// aborts the whole order; no partial stock decrement survives.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*models.OrderWithItems, error) {
	if len(items) == 0 {
		return nil, common.NewValidationError("Order must contain at least one item")
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, common.NewValidationError("Quantity must be greater than 0")
		}
		if seen[item.ProductID] {
			return nil, common.NewConflictError("Product %s appears more than once in the order", item.ProductID)
		}
		seen[item.ProductID] = true
	}

	var (
		orderID    = uuid.New()
		productIDs = make([]uuid.UUID, 0, len(items))
		summaries  = make(map[uuid.UUID]*models.ProductSummary, len(items))
		created    []*models.OrderItem
	)

	err := s.txm.WithinTx(ctx, func(ctx context.Context, r *repositories.Repos) error {
		totalAmount := 0.0
		created = created[:0]
		for _, line := range sortLinesByProduct(items) {
			product, err := r.Products.GetByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return common.NewNotFoundError("Product with id %s not found", line.ProductID)
			}
			if product.StockQuantity < line.Quantity {
				return common.NewConflictError("Insufficient stock for product %s. Available: %d",
					product.Name, product.StockQuantity)
			}
			if err := r.Products.AdjustStock(ctx, product.ID, -line.Quantity); err != nil {
				return err
			}
			totalAmount += product.Price * float64(line.Quantity)
			summaries[product.ID] = product.Summary()
			productIDs = append(productIDs, product.ID)
			created = append(created, &models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
		}

		order := &models.Order{
			ID:          orderID,
			UserID:      userID,
			TotalAmount: totalAmount,
			Status:      models.OrderStatusPending,
		}
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range created {
			if err := r.OrderItems.Create(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, asAppError("create order", err)
	}

	s.invalidateProducts(ctx, productIDs)

	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil || order == nil {
		return nil, common.NewInternalError("load created order", err)
	}

	userSummary, err := newUserResolver(s.users).resolve(ctx, userID)
	if err != nil {
		return nil, common.NewInternalError("resolve order owner", err)
	}

	itemResponses := make([]*models.OrderItemResponse, 0, len(created))
	for _, item := range created {
		itemResponses = append(itemResponses, &models.OrderItemResponse{
			OrderItem: *item,
			Product:   summaries[item.ProductID],
		})
	}

	return &models.OrderWithItems{
		Order: &models.OrderResponse{Order: *order, User: userSummary},
		Items: itemResponses,
	}, nil
}

// GetOrderByID loads one order with its lines and resolved display fields.
func (s *orderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.OrderWithItems, error) {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, common.NewInternalError("retrieve order", err)
	}
	if order == nil {
		return nil, common.NewNotFoundError("Order not found")
	}

	items, err := s.repos.OrderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, common.NewInternalError("retrieve order items", err)
	}

	userSummary, err := newUserResolver(s.users).resolve(ctx, order.UserID)
	if err != nil {
		return nil, common.NewInternalError("resolve order owner", err)
	}

	products := newProductResolver(s.repos.Products, s.cache)
	itemResponses := make([]*models.OrderItemResponse, 0, len(items))
	for _, item := range items {
		summary, err := products.resolve(ctx, item.ProductID)
		if err != nil {
			return nil, common.NewInternalError("resolve order item product", err)
		}
		itemResponses = append(itemResponses, &models.OrderItemResponse{OrderItem: *item, Product: summary})
	}

	return &models.OrderWithItems{
		Order: &models.OrderResponse{Order: *order, User: userSummary},
		Items: itemResponses,
	}, nil
}

// ListOrders pages through orders newest-first. Listings read outside any
// transaction and tolerate concurrent mutations.
func (s *orderService) ListOrders(ctx context.Context, filter *models.OrderFilter, page, limit int) ([]*models.OrderResponse, models.Pagination, error) {
	offset := (page - 1) * limit
	orders, err := s.repos.Orders.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, models.Pagination{}, common.NewInternalError("retrieve orders", err)
	}
	total, err := s.repos.Orders.Count(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, common.NewInternalError("count orders", err)
	}

	users := newUserResolver(s.users)
	responses := make([]*models.OrderResponse, 0, len(orders))
	for _, order := range orders {
		userSummary, err := users.resolve(ctx, order.UserID)
		if err != nil {
			return nil, models.Pagination{}, common.NewInternalError("resolve order owner", err)
		}
		responses = append(responses, &models.OrderResponse{Order: *order, User: userSummary})
	}

	return responses, models.NewPagination(page, limit, total), nil
}

// UpdateOrderStatus sets any of the five valid statuses unconditionally.
// There is deliberately no transition guard here; cancellation goes through
// CancelOrder so that stock is restored.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.OrderResponse, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, common.NewValidationError("Invalid status. Valid statuses: %s",
			strings.Join(models.ValidOrderStatuses, ", "))
	}

	updated, err := s.repos.Orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, common.NewInternalError("update order status", err)
	}
	if !updated {
		return nil, common.NewNotFoundError("Order not found")
	}

	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil || order == nil {
		return nil, common.NewInternalError("load updated order", err)
	}
	userSummary, err := newUserResolver(s.users).resolve(ctx, order.UserID)
	if err != nil {
		return nil, common.NewInternalError("resolve order owner", err)
	}
	return &models.OrderResponse{Order: *order, User: userSummary}, nil
}

// CancelOrder restores the stock of every line and flips the status to
// cancelled, all inside one transaction. A missing product is tolerated and
// its line simply restores nothing, but any store failure aborts the whole
// cancellation.
func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var productIDs []uuid.UUID

	err := s.txm.WithinTx(ctx, func(ctx context.Context, r *repositories.Repos) error {
		order, err := r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return common.NewNotFoundError("Order not found")
		}
		if order.Status == models.OrderStatusCancelled {
			return common.NewConflictError("Order is already cancelled")
		}
		if order.Status == models.OrderStatusDelivered {
			return common.NewConflictError("Cannot cancel delivered order")
		}

		items, err := r.OrderItems.ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range sortItemsByProduct(items) {
			product, err := r.Products.GetByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}
			if err := r.Products.AdjustStock(ctx, product.ID, item.Quantity); err != nil {
				return err
			}
			productIDs = append(productIDs, product.ID)
		}

		_, err = r.Orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled)
		return err
	})
	if err != nil {
		return nil, asAppError("cancel order", err)
	}

	s.invalidateProducts(ctx, productIDs)

	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil || order == nil {
		return nil, common.NewInternalError("load cancelled order", err)
	}
	return order, nil
}

// DeleteOrder hard-deletes the order and its lines as one unit. Stock is NOT
// restored: deletion is an administrative purge, not a cancellation.
func (s *orderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	err := s.txm.WithinTx(ctx, func(ctx context.Context, r *repositories.Repos) error {
		order, err := r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return common.NewNotFoundError("Order not found")
		}
		if err := r.OrderItems.DeleteByOrderID(ctx, orderID); err != nil {
			return err
		}
		return r.Orders.Delete(ctx, orderID)
	})
	if err != nil {
		return asAppError("delete order", err)
	}
	return nil
}
