package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/logger"
	"carteira/internal/quotes"
)

// quoteService translates provider errors into AppErrors.
type quoteService struct {
	provider quotes.Provider
}

// NewQuoteService creates a new QuoteServicer.
func NewQuoteService(provider quotes.Provider) QuoteServicer {
	return &quoteService{provider: provider}
}

func (s *quoteService) classify(err error, op string, fields ...any) error {
	if errors.Is(err, quotes.ErrNotFound) {
		return apperrors.Wrap(apperrors.ErrQuoteNotFound, err)
	}
	logger.Get().Warnw("quote provider failed", append([]any{"op", op, "error", err}, fields...)...)
	return apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
}

// Lookup returns the current quote of ticker.
func (s *quoteService) Lookup(ctx context.Context, class ledger.AssetClass, ticker string) (*quotes.Quote, error) {
	if _, ok := ledger.Describe(class); !ok {
		return nil, apperrors.ErrUnsupportedAssetClass
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ticker is required")
	}

	q, err := s.provider.Quote(ctx, class, ticker)
	if err != nil {
		return nil, s.classify(err, "quote", "asset_class", class, "ticker", ticker)
	}
	return q, nil
}

// Catalog returns the tickers available for class.
func (s *quoteService) Catalog(ctx context.Context, class ledger.AssetClass) ([]quotes.Listing, error) {
	if _, ok := ledger.Describe(class); !ok {
		return nil, apperrors.ErrUnsupportedAssetClass
	}
	list, err := s.provider.List(ctx, class)
	if err != nil {
		return nil, s.classify(err, "list", "asset_class", class)
	}
	return list, nil
}

// ReferenceRate returns the current reference interest rate.
func (s *quoteService) ReferenceRate(ctx context.Context) (decimal.Decimal, error) {
	rate, err := s.provider.ReferenceRate(ctx)
	if err != nil {
		// The prime-rate endpoint has no notion of a missing ticker.
		return decimal.Zero, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	return rate, nil
}
