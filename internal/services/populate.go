package services

import (
	"context"
	"errors"

	"shopmart/internal/caching"
	"shopmart/internal/common"
	"shopmart/internal/models"
	"shopmart/internal/repositories"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// The read paths denormalize by explicit fetch-and-assemble: each response
// carries the related display fields resolved at request time, never stored.

// userResolver memoizes owner lookups within one request.
type userResolver struct {
	users repositories.UserRepository
	seen  map[uuid.UUID]*models.UserSummary
}

func newUserResolver(users repositories.UserRepository) *userResolver {
	return &userResolver{users: users, seen: make(map[uuid.UUID]*models.UserSummary)}
}

func (r *userResolver) resolve(ctx context.Context, userID uuid.UUID) (*models.UserSummary, error) {
	if summary, ok := r.seen[userID]; ok {
		return summary, nil
	}
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	r.seen[userID] = summary
	return summary, nil
}

// productResolver memoizes product lookups within one request, going through
// the cache first. Cache failures degrade to direct reads.
type productResolver struct {
	products repositories.ProductRepository
	cache    caching.CacheService
	seen     map[uuid.UUID]*models.ProductSummary
}

func newProductResolver(products repositories.ProductRepository, cache caching.CacheService) *productResolver {
	return &productResolver{products: products, cache: cache, seen: make(map[uuid.UUID]*models.ProductSummary)}
}

func (r *productResolver) resolve(ctx context.Context, productID uuid.UUID) (*models.ProductSummary, error) {
	if summary, ok := r.seen[productID]; ok {
		return summary, nil
	}
	if r.cache != nil {
		if cached, err := r.cache.GetProduct(ctx, productID); err != nil {
			log.WithError(err).Warn("product cache read failed")
		} else if cached != nil {
			summary := cached.Summary()
			r.seen[productID] = summary
			return summary, nil
		}
	}
	product, err := r.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product != nil && r.cache != nil {
		if err := r.cache.SetProduct(ctx, product, caching.ProductTTL); err != nil {
			log.WithError(err).Warn("product cache write failed")
		}
	}
	summary := product.Summary()
	r.seen[productID] = summary
	return summary, nil
}

// asAppError passes typed application errors through unchanged and wraps
// anything else as an internal failure of the named operation.
func asAppError(operation string, err error) error {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return common.NewInternalError(operation, err)
}
