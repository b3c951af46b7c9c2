// Package quotes fetches market data (quotes, catalogs and the reference
// interest rate) from external providers.
package quotes

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"carteira/internal/ledger"
)

var (
	// ErrNotFound is returned when the provider has no data for a ticker.
	ErrNotFound = errors.New("quote not found")
	// ErrUnavailable is returned when the provider cannot be reached or
	// answers with an unexpected payload.
	ErrUnavailable = errors.New("quote provider unavailable")
)

// Quote is the current market data for one ticker.
type Quote struct {
	Ticker string          `json:"ticker"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Logo   string          `json:"logo,omitempty"`
}

// Listing is one entry of a provider catalog.
type Listing struct {
	Ticker string           `json:"ticker"`
	Name   string           `json:"name"`
	Logo   string           `json:"logo,omitempty"`
	Price  *decimal.Decimal `json:"price,omitempty"`
}

// Provider looks up market data for the traded asset classes.
type Provider interface {
	// Quote returns the current quote of ticker. Errors wrap ErrNotFound or
	// ErrUnavailable.
	Quote(ctx context.Context, class ledger.AssetClass, ticker string) (*Quote, error)

	// List returns every ticker the provider knows for class.
	List(ctx context.Context, class ledger.AssetClass) ([]Listing, error)

	// ReferenceRate returns the current reference (SELIC) rate, in percent.
	ReferenceRate(ctx context.Context) (decimal.Decimal, error)
}
