package handlers

import (
	"net/http"
	"strconv"

	"shopmart/internal/common"
	"shopmart/internal/models"
	"shopmart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ProductHandlers handles HTTP requests for the product catalog
type ProductHandlers struct {
	productService services.ProductServiceInterface
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductServiceInterface) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type productRequest struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Price         float64  `json:"price"`
	StockQuantity int      `json:"stock_quantity"`
	Categories    []string `json:"categories"`
}

func (r *productRequest) toModel(id uuid.UUID) (*models.Product, *common.AppError) {
	product := &models.Product{
		ID:            id,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
	}
	if r.Categories != nil {
		product.CategoryIDs = make([]uuid.UUID, 0, len(r.Categories))
		for _, raw := range r.Categories {
			categoryID, appErr := common.ParseUUID(raw, "category ID")
			if appErr != nil {
				return nil, appErr
			}
			product.CategoryIDs = append(product.CategoryIDs, categoryID)
		}
	}
	return product, nil
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("Invalid request format"))
	}

	product, appErr := req.toModel(uuid.New())
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	if err := h.productService.CreateProduct(ctx, product); err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusCreated, product)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, appErr := common.ParseUUID(c.Param("id"), "product ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	product, err := h.productService.GetProduct(ctx, productID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, appErr := common.ParseUUID(c.Param("id"), "product ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("Invalid request format"))
	}

	product, appErr := req.toModel(productID)
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	if err := h.productService.UpdateProduct(ctx, product); err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, appErr := common.ParseUUID(c.Param("id"), "product ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	if err := h.productService.DeleteProduct(ctx, productID); err != nil {
		return common.RespondError(c, err)
	}
	return common.SendMessage(c, http.StatusOK, "Product deleted successfully")
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := common.ParsePagination(c)

	filter := &models.ProductSearchFilter{
		Query:     c.QueryParam("query"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
	if categoryParam := c.QueryParam("category_id"); categoryParam != "" {
		categoryID, appErr := common.ParseUUID(categoryParam, "category ID")
		if appErr != nil {
			return common.RespondError(c, appErr)
		}
		filter.CategoryID = &categoryID
	}
	if minPrice := c.QueryParam("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if maxPrice := c.QueryParam("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if inStock := c.QueryParam("in_stock"); inStock != "" {
		v := inStock == "true"
		filter.InStock = &v
	}

	products, total, err := h.productService.ListProducts(ctx, filter)
	if err != nil {
		return common.RespondError(c, err)
	}

	pagination := models.NewPagination(page, limit, total)
	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"products": products,
		"pagination": map[string]interface{}{
			"current_page": pagination.CurrentPage,
			"total_pages":  pagination.TotalPages,
			"total_items":  pagination.TotalItems,
			"per_page":     pagination.PerPage,
		},
	})
}

// UploadProductImage handles POST /products/:id/image
func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()

	productID, appErr := common.ParseUUID(c.Param("id"), "product ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.RespondError(c, common.NewValidationError("Image file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.RespondError(c, common.NewInternalError("read uploaded image", err))
	}
	defer file.Close()

	if err := h.productService.UploadProductImage(ctx, productID, file, fileHeader.Size); err != nil {
		return common.RespondError(c, err)
	}
	return common.SendMessage(c, http.StatusCreated, "Product image uploaded successfully")
}

// GetProductImage handles GET /products/:id/image
func (h *ProductHandlers) GetProductImage(c echo.Context) error {
	ctx := c.Request().Context()

	productID, appErr := common.ParseUUID(c.Param("id"), "product ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	url, err := h.productService.ProductImageURL(ctx, productID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.SendData(c, http.StatusOK, map[string]string{"url": url})
}
