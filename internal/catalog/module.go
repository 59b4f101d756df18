// Package catalog provides the product-catalog bounded context: the search
// client for the external product API plus its optional Redis cache.
package catalog

import (
	"context"

	"tradequote_backend/internal/catalog/cache"
	"tradequote_backend/internal/catalog/client"
	"tradequote_backend/platform/config"
	"tradequote_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Searcher is the lookup surface the catalog module exposes to consumers.
type Searcher interface {
	Search(ctx context.Context, query string) ([]client.Product, error)
}

// ModuleConfig combines the config interfaces the catalog module needs.
type ModuleConfig interface {
	config.CatalogConfig
	config.CacheConfig
}

// Module wires the catalog search client and its cache.
type Module struct {
	searcher Searcher
	cache    *cache.Cache
}

// NewModule creates the catalog module. When no catalog base URL is
// configured the module is inert: Searcher() returns nil and the pipeline
// degrades to manual-entry placeholders for every material.
func NewModule(cfg ModuleConfig, log *logger.Logger) *Module {
	if !cfg.IsCatalogEnabled() {
		log.Warn("CATALOG_BASE_URL not configured; product search disabled")
		return &Module{}
	}

	cli := client.New(cfg.GetCatalogBaseURL(), cfg.GetCatalogTimeout(), cfg.GetCatalogRatePerSec(), log)

	m := &Module{searcher: cli}
	if cfg.IsCacheEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
		m.cache = cache.New(cli, rdb, cfg.GetCatalogCacheTTL(), log)
		m.searcher = m.cache
		log.Info("catalog search cache enabled", "addr", cfg.GetRedisAddr(), "ttl", cfg.GetCatalogCacheTTL())
	}
	return m
}

// Searcher returns the (possibly cached) search client, or nil when the
// catalog is disabled.
func (m *Module) Searcher() Searcher {
	if m.searcher == nil {
		return nil
	}
	return m.searcher
}

// CacheHealth returns the cache for health checks, or nil when disabled.
func (m *Module) CacheHealth() *cache.Cache {
	return m.cache
}
