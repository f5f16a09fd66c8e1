package service

import (
	"context"
	"time"

	"github.com/Nihaar75858/Cartify/internal/models"
	"github.com/Nihaar75858/Cartify/internal/redisclient"
	"github.com/Nihaar75858/Cartify/internal/util"

	"go.uber.org/zap"
)

const catalogCacheKey = "catalog:instock"

// CatalogService serves product listings with a Redis cache in front of
// the database. A cache failure degrades to a database read, never to a
// failed request.
type CatalogService struct {
	store  CatalogStore
	cache  *redisclient.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil to
// disable caching.
func NewCatalogService(store CatalogStore, cache *redisclient.Client, ttl time.Duration) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// ListInStock returns all products currently in stock
func (s *CatalogService) ListInStock(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListInStock")
	defer span.End()

	if s.cache != nil {
		var cached []models.Product
		hit, err := s.cache.GetJSON(ctx, catalogCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		} else if hit {
			util.CatalogCacheHits.Inc()
			return cached, nil
		}
		util.CatalogCacheMisses.Inc()
	}

	products, err := s.store.ListInStock(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, catalogCacheKey, products, s.ttl); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return products, nil
}
