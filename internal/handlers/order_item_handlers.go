package handlers

import (
	"net/http"

	"shopmart/internal/common"
	"shopmart/internal/models"
	"shopmart/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderItemHandlers handles HTTP requests for order line items
type OrderItemHandlers struct {
	itemService services.OrderItemServiceInterface
}

// NewOrderItemHandlers creates a new order item handlers instance
func NewOrderItemHandlers(itemService services.OrderItemServiceInterface) *OrderItemHandlers {
	return &OrderItemHandlers{itemService: itemService}
}

// GetOrderItems handles GET /order-items
func (h *OrderItemHandlers) GetOrderItems(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := common.ParsePagination(c)

	filter := &models.OrderItemFilter{}
	if orderParam := c.QueryParam("order_id"); orderParam != "" {
		orderID, appErr := common.ParseUUID(orderParam, "order ID")
		if appErr != nil {
			return common.RespondError(c, appErr)
		}
		filter.OrderID = &orderID
	}
	if productParam := c.QueryParam("product_id"); productParam != "" {
		productID, appErr := common.ParseUUID(productParam, "product ID")
		if appErr != nil {
			return common.RespondError(c, appErr)
		}
		filter.ProductID = &productID
	}

	items, pagination, err := h.itemService.ListOrderItems(ctx, filter, page, limit)
	if err != nil {
		return common.RespondError(c, err)
	}

	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"order_items": items,
		"pagination": map[string]interface{}{
			"current_page": pagination.CurrentPage,
			"total_pages":  pagination.TotalPages,
			"total_items":  pagination.TotalItems,
			"per_page":     pagination.PerPage,
		},
	})
}

// GetOrderItemByID handles GET /order-items/:id
func (h *OrderItemHandlers) GetOrderItemByID(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, appErr := common.ParseUUID(c.Param("id"), "order item ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	item, err := h.itemService.GetOrderItemByID(ctx, itemID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusOK, item)
}

// GetOrderItemsByOrderID handles GET /order-items/order/:orderId
func (h *OrderItemHandlers) GetOrderItemsByOrderID(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, appErr := common.ParseUUID(c.Param("orderId"), "order ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	items, summary, err := h.itemService.GetItemsByOrder(ctx, orderID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"order_items": items,
		"summary":     summary,
	})
}

// GetOrderItemsByProductID handles GET /order-items/product/:productId
func (h *OrderItemHandlers) GetOrderItemsByProductID(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := common.ParsePagination(c)

	productID, appErr := common.ParseUUID(c.Param("productId"), "product ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	items, stats, pagination, err := h.itemService.GetItemsByProduct(ctx, productID, page, limit)
	if err != nil {
		return common.RespondError(c, err)
	}

	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"order_items": items,
		"summary":     stats,
		"pagination": map[string]interface{}{
			"current_page": pagination.CurrentPage,
			"total_pages":  pagination.TotalPages,
			"total_items":  pagination.TotalItems,
			"per_page":     pagination.PerPage,
		},
	})
}

// AddItemToOrder handles POST /order-items/order/:orderId
func (h *OrderItemHandlers) AddItemToOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, appErr := common.ParseUUID(c.Param("orderId"), "order ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("Invalid request format"))
	}

	productID, appErr := common.ParseUUID(req.ProductID, "product ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	item, err := h.itemService.AddItemToOrder(ctx, orderID, productID, req.Quantity)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusCreated, item)
}

// UpdateOrderItemQuantity handles PUT /order-items/:id/quantity
func (h *OrderItemHandlers) UpdateOrderItemQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, appErr := common.ParseUUID(c.Param("id"), "order item ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("Invalid request format"))
	}

	item, err := h.itemService.UpdateItemQuantity(ctx, itemID, req.Quantity)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusOK, item)
}

// RemoveOrderItem handles DELETE /order-items/:id
func (h *OrderItemHandlers) RemoveOrderItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, appErr := common.ParseUUID(c.Param("id"), "order item ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	if err := h.itemService.RemoveItem(ctx, itemID); err != nil {
		return common.RespondError(c, err)
	}
	return common.SendMessage(c, http.StatusOK, "Order item removed successfully")
}
