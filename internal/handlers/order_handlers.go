package handlers

import (
	"net/http"

	"shopmart/internal/common"
	"shopmart/internal/models"
	"shopmart/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	UserID string             `json:"user_id"`
	Items  []orderItemRequest `json:"items"`
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("Invalid request format"))
	}

	userID, appErr := common.ParseUUID(req.UserID, "user ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, appErr := common.ParseUUID(item.ProductID, "product ID")
		if appErr != nil {
			return common.RespondError(c, appErr)
		}
		items = append(items, services.OrderItemInput{ProductID: productID, Quantity: item.Quantity})
	}

	result, err := h.orderService.CreateOrder(ctx, userID, items)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusCreated, result)
}

// GetOrders handles GET /orders
func (h *OrderHandlers) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := common.ParsePagination(c)

	filter := &models.OrderFilter{}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}
	if userParam := c.QueryParam("user_id"); userParam != "" {
		userID, appErr := common.ParseUUID(userParam, "user ID")
		if appErr != nil {
			return common.RespondError(c, appErr)
		}
		filter.UserID = &userID
	}

	orders, pagination, err := h.orderService.ListOrders(ctx, filter, page, limit)
	if err != nil {
		return common.RespondError(c, err)
	}

	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"pagination": map[string]interface{}{
			"current_page": pagination.CurrentPage,
			"total_pages":  pagination.TotalPages,
			"total_orders": pagination.TotalItems,
			"per_page":     pagination.PerPage,
		},
	})
}

// GetOrderByID handles GET /orders/:id
func (h *OrderHandlers) GetOrderByID(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, appErr := common.ParseUUID(c.Param("id"), "order ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	result, err := h.orderService.GetOrderByID(ctx, orderID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusOK, result)
}

// UpdateOrderStatus handles PUT /orders/:id/status
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, appErr := common.ParseUUID(c.Param("id"), "order ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("Invalid request format"))
	}

	order, err := h.orderService.UpdateOrderStatus(ctx, orderID, req.Status)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusOK, order)
}

// GetOrdersByUserID handles GET /orders/user/:userId
func (h *OrderHandlers) GetOrdersByUserID(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := common.ParsePagination(c)

	userID, appErr := common.ParseUUID(c.Param("userId"), "user ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	filter := &models.OrderFilter{UserID: &userID}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}

	orders, pagination, err := h.orderService.ListOrders(ctx, filter, page, limit)
	if err != nil {
		return common.RespondError(c, err)
	}

	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"pagination": map[string]interface{}{
			"current_page": pagination.CurrentPage,
			"total_pages":  pagination.TotalPages,
			"total_orders": pagination.TotalItems,
			"per_page":     pagination.PerPage,
		},
	})
}

// CancelOrder handles PUT /orders/:id/cancel
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, appErr := common.ParseUUID(c.Param("id"), "order ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	order, err := h.orderService.CancelOrder(ctx, orderID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, common.SuccessResponse{
		Success: true,
		Message: "Order cancelled successfully",
		Data:    order,
	})
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, appErr := common.ParseUUID(c.Param("id"), "order ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	if err := h.orderService.DeleteOrder(ctx, orderID); err != nil {
		return common.RespondError(c, err)
	}
	return common.SendMessage(c, http.StatusOK, "Order deleted successfully")
}
