package handlers

import (
	"net/http"

	"shopmart/internal/common"
	"shopmart/internal/models"
	"shopmart/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles HTTP requests for product categories
type CategoryHandlers struct {
	categories repositories.CategoryRepository
}

// NewCategoryHandlers creates a new category handlers instance
func NewCategoryHandlers(categories repositories.CategoryRepository) *CategoryHandlers {
	return &CategoryHandlers{categories: categories}
}

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateCategory handles POST /categories
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("Invalid request format"))
	}
	if req.Name == "" {
		return common.RespondError(c, common.NewValidationError("Category name is required"))
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.categories.Create(ctx, category); err != nil {
		return common.RespondError(c, common.NewInternalError("create category", err))
	}
	return common.SendData(c, http.StatusCreated, category)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, appErr := common.ParseUUID(c.Param("id"), "category ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	category, err := h.categories.GetByID(ctx, categoryID)
	if err != nil {
		return common.RespondError(c, common.NewInternalError("get category", err))
	}
	if category == nil {
		return common.RespondError(c, common.NewNotFoundError("Category not found"))
	}
	return common.SendData(c, http.StatusOK, category)
}

// UpdateCategory handles PUT /categories/:id
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, appErr := common.ParseUUID(c.Param("id"), "category ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("Invalid request format"))
	}
	if req.Name == "" {
		return common.RespondError(c, common.NewValidationError("Category name is required"))
	}

	existing, err := h.categories.GetByID(ctx, categoryID)
	if err != nil {
		return common.RespondError(c, common.NewInternalError("get category", err))
	}
	if existing == nil {
		return common.RespondError(c, common.NewNotFoundError("Category not found"))
	}

	existing.Name = req.Name
	existing.Description = req.Description
	if err := h.categories.Update(ctx, existing); err != nil {
		return common.RespondError(c, common.NewInternalError("update category", err))
	}
	return common.SendData(c, http.StatusOK, existing)
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, appErr := common.ParseUUID(c.Param("id"), "category ID")
	if appErr != nil {
		return common.RespondError(c, appErr)
	}

	if err := h.categories.Delete(ctx, categoryID); err != nil {
		return common.RespondError(c, common.NewInternalError("delete category", err))
	}
	return common.SendMessage(c, http.StatusOK, "Category deleted successfully")
}

// ListCategories handles GET /categories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := common.ParsePagination(c)

	categories, err := h.categories.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return common.RespondError(c, common.NewInternalError("list categories", err))
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return common.SendData(c, http.StatusOK, categories)
}
