package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradequote_backend/internal/catalog/client"
	"tradequote_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingSearcher struct {
	calls    int
	products []client.Product
	err      error
}

func (s *countingSearcher) Search(ctx context.Context, query string) ([]client.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func newTestCache(t *testing.T, next Searcher) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(next, rdb, time.Minute, logger.New("development")), mr
}

func TestSearchCachesByQuery(t *testing.T) {
	next := &countingSearcher{products: []client.Product{{ID: "1", Name: "Patio Pack"}}}
	c, _ := newTestCache(t, next)

	ctx := context.Background()
	first, err := c.Search(ctx, "Patio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Search(ctx, "patio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", next.calls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Name != "Patio Pack" {
		t.Fatalf("unexpected cached results: %+v / %+v", first, second)
	}
}

func TestSearchExpiredEntryHitsUpstreamAgain(t *testing.T) {
	next := &countingSearcher{products: []client.Product{{ID: "1", Name: "Patio Pack"}}}
	c, mr := newTestCache(t, next)

	ctx := context.Background()
	if _, err := c.Search(ctx, "patio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := c.Search(ctx, "patio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.calls != 2 {
		t.Fatalf("expected upstream call after TTL expiry, got %d", next.calls)
	}
}

func TestSearchUpstreamErrorIsNotCached(t *testing.T) {
	next := &countingSearcher{err: errors.New("connection refused")}
	c, _ := newTestCache(t, next)

	ctx := context.Background()
	if _, err := c.Search(ctx, "patio"); err == nil {
		t.Fatal("expected upstream error to propagate")
	}

	next.err = nil
	next.products = []client.Product{{ID: "1", Name: "Patio Pack"}}
	products, err := c.Search(ctx, "patio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected fresh upstream result, got %+v", products)
	}
	if next.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", next.calls)
	}
}
