package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"shopmart/internal/caching"
	"shopmart/internal/common"
	"shopmart/internal/models"
	"shopmart/internal/repositories"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Stock levels are owned by the order/stock transactions. This service only
// manages catalog fields plus the initial stock of a brand-new product.

type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	ListProducts(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, int, error)
	UploadProductImage(ctx context.Context, productID uuid.UUID, reader io.Reader, size int64) error
	ProductImageURL(ctx context.Context, productID uuid.UUID) (string, error)
}

type productService struct {
	products repositories.ProductRepository
	cache    caching.CacheService
	images   ProductImageService
}

func NewProductService(products repositories.ProductRepository, cache caching.CacheService, images ProductImageService) ProductServiceInterface {
	return &productService{products: products, cache: cache, images: images}
}

func validateProduct(product *models.Product) error {
	if product.Name == "" {
		return common.NewValidationError("Product name is required")
	}
	if product.Price < 0 {
		return common.NewValidationError("Price cannot be negative")
	}
	if product.StockQuantity < 0 {
		return common.NewValidationError("Stock quantity cannot be negative")
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.products.Create(ctx, product); err != nil {
		return common.NewInternalError("create product", err)
	}
	if len(product.CategoryIDs) > 0 {
		if err := s.products.ReplaceCategories(ctx, product.ID, product.CategoryIDs); err != nil {
			return common.NewInternalError("assign product categories", err)
		}
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProduct(ctx, productID)
		if err != nil {
			log.WithError(err).Warn("product cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, common.NewInternalError("retrieve product", err)
	}
	if product == nil {
		return nil, common.NewNotFoundError("Product not found")
	}
	categoryIDs, err := s.products.ListCategoryIDs(ctx, productID)
	if err != nil {
		return nil, common.NewInternalError("retrieve product categories", err)
	}
	product.CategoryIDs = categoryIDs

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product, caching.ProductTTL); err != nil {
			log.WithError(err).Warn("product cache write failed")
		}
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	existing, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return common.NewInternalError("retrieve product", err)
	}
	if existing == nil {
		return common.NewNotFoundError("Product not found")
	}

	if err := s.products.Update(ctx, product); err != nil {
		return common.NewInternalError("update product", err)
	}
	if product.CategoryIDs != nil {
		if err := s.products.ReplaceCategories(ctx, product.ID, product.CategoryIDs); err != nil {
			return common.NewInternalError("assign product categories", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.DeleteProduct(ctx, product.ID); err != nil {
			log.WithError(err).Warn("product cache invalidation failed")
		}
	}
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	existing, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return common.NewInternalError("retrieve product", err)
	}
	if existing == nil {
		return common.NewNotFoundError("Product not found")
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return common.NewInternalError("delete product", err)
	}
	if s.cache != nil {
		if err := s.cache.DeleteProduct(ctx, productID); err != nil {
			log.WithError(err).Warn("product cache invalidation failed")
		}
	}
	if s.images != nil {
		if err := s.images.RemoveImage(ctx, productID); err != nil {
			log.WithError(err).WithField("product_id", productID).Warn("product image cleanup failed")
		}
	}
	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, int, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, common.NewInternalError("retrieve products", err)
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, common.NewInternalError("count products", err)
	}
	return products, total, nil
}

func (s *productService) UploadProductImage(ctx context.Context, productID uuid.UUID, reader io.Reader, size int64) error {
	if s.images == nil {
		return common.NewInternalError("upload product image", fmt.Errorf("object storage not configured"))
	}
	existing, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return common.NewInternalError("retrieve product", err)
	}
	if existing == nil {
		return common.NewNotFoundError("Product not found")
	}
	if err := s.images.StoreImage(ctx, productID, reader, size); err != nil {
		return common.NewInternalError("upload product image", err)
	}
	return nil
}

func (s *productService) ProductImageURL(ctx context.Context, productID uuid.UUID) (string, error) {
	if s.images == nil {
		return "", common.NewInternalError("presign product image", fmt.Errorf("object storage not configured"))
	}
	existing, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", common.NewInternalError("retrieve product", err)
	}
	if existing == nil {
		return "", common.NewNotFoundError("Product not found")
	}
	url, err := s.images.ImageURL(ctx, productID, 15*time.Minute)
	if err != nil {
		return "", common.NewInternalError("presign product image", err)
	}
	return url, nil
}
