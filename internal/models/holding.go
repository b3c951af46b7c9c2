package models

import (
	"time"

	"github.com/shopspring/decimal"

	"carteira/internal/ledger"
)

// Holding is a user's aggregated position in one ticker of a traded asset
// class. At most one row exists per (user, class, ticker).
type Holding struct {
	Base
	UserID       string            `gorm:"type:uuid;not null;uniqueIndex:idx_holdings_owner_ticker" json:"user_id"`
	AssetClass   ledger.AssetClass `gorm:"size:20;not null;uniqueIndex:idx_holdings_owner_ticker" json:"asset_class"`
	Ticker       string            `gorm:"size:20;not null;uniqueIndex:idx_holdings_owner_ticker" json:"ticker"`
	Name         string            `gorm:"size:200" json:"name"`
	Logo         string            `json:"logo,omitempty"`
	Quantity     decimal.Decimal   `gorm:"type:numeric(30,10);not null" json:"quantity"`
	CostBasis    decimal.Decimal   `gorm:"type:numeric(30,10);not null" json:"cost_basis"`
	PurchaseDate time.Time         `gorm:"not null" json:"purchase_date"`
}

// Position converts the row into its ledger state.
func (h *Holding) Position() ledger.Position {
	return ledger.Position{
		Ticker:       h.Ticker,
		Name:         h.Name,
		Logo:         h.Logo,
		Quantity:     h.Quantity,
		CostBasis:    h.CostBasis,
		PurchaseDate: h.PurchaseDate,
	}
}

// Apply copies a ledger state onto the row.
func (h *Holding) Apply(p ledger.Position) {
	h.Ticker = p.Ticker
	h.Name = p.Name
	h.Logo = p.Logo
	h.Quantity = p.Quantity
	h.CostBasis = p.CostBasis
	h.PurchaseDate = p.PurchaseDate
}

// FixedIncomeHolding is a fixed-income application, merged per issuer.
// A nil MaturityDate means liquidity on demand.
type FixedIncomeHolding struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;uniqueIndex:idx_fixed_income_owner_issuer" json:"user_id"`
	Issuer       string          `gorm:"size:200;not null;uniqueIndex:idx_fixed_income_owner_issuer" json:"issuer"`
	PurchaseDate time.Time       `gorm:"not null" json:"purchase_date"`
	MaturityDate *time.Time      `json:"maturity_date"`
	Value        decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"value"`
	Rate         decimal.Decimal `gorm:"type:numeric(12,6);not null" json:"rate"`
}

// Position converts the row into its ledger state.
func (f *FixedIncomeHolding) Position() ledger.FixedIncomePosition {
	return ledger.FixedIncomePosition{
		Issuer:       f.Issuer,
		PurchaseDate: f.PurchaseDate,
		MaturityDate: f.MaturityDate,
		Value:        f.Value,
		Rate:         f.Rate,
	}
}

// Apply copies a ledger state onto the row.
func (f *FixedIncomeHolding) Apply(p ledger.FixedIncomePosition) {
	f.Issuer = p.Issuer
	f.PurchaseDate = p.PurchaseDate
	f.MaturityDate = p.MaturityDate
	f.Value = p.Value
	f.Rate = p.Rate
}
