package quotes

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/shopspring/decimal"

	"carteira/internal/ledger"
	"carteira/internal/logger"
)

const referenceRateKey = "reference-rate"

// CachedProvider memoizes catalogs and the reference rate of an underlying
// Provider. Quotes are always fetched live so purchases see current names
// and logos.
type CachedProvider struct {
	next  Provider
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps next with a ristretto cache. maxCost bounds the
// number of cached catalog entries.
func NewCachedProvider(next Provider, maxCost int64, ttl time.Duration) (*CachedProvider, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedProvider{next: next, cache: c, ttl: ttl}, nil
}

// Quote implements Provider without caching.
func (p *CachedProvider) Quote(ctx context.Context, class ledger.AssetClass, ticker string) (*Quote, error) {
	return p.next.Quote(ctx, class, ticker)
}

// List implements Provider.
func (p *CachedProvider) List(ctx context.Context, class ledger.AssetClass) ([]Listing, error) {
	key := "list:" + string(class)
	if v, ok := p.cache.Get(key); ok {
		return v.([]Listing), nil
	}

	listings, err := p.next.List(ctx, class)
	if err != nil {
		return nil, err
	}
	cost := int64(len(listings))
	if cost == 0 {
		cost = 1
	}
	if !p.cache.SetWithTTL(key, listings, cost, p.ttl) {
		logger.Get().Debugw("catalog not cached", "asset_class", class, "entries", len(listings))
	}
	p.cache.Wait()
	return listings, nil
}

// ReferenceRate implements Provider.
func (p *CachedProvider) ReferenceRate(ctx context.Context) (decimal.Decimal, error) {
	if v, ok := p.cache.Get(referenceRateKey); ok {
		return v.(decimal.Decimal), nil
	}

	rate, err := p.next.ReferenceRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	p.cache.SetWithTTL(referenceRateKey, rate, 1, p.ttl)
	p.cache.Wait()
	return rate, nil
}

// Clear drops every cached entry.
func (p *CachedProvider) Clear() {
	p.cache.Clear()
}

// Close stops the cache's background goroutines.
func (p *CachedProvider) Close() {
	p.cache.Close()
}
