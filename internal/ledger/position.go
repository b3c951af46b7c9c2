package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "carteira/internal/errors"
)

// Position is the accounting state of a ticker-based holding.
// CostBasis is the running total amount paid, not a unit price.
type Position struct {
	Ticker       string
	Name         string
	Logo         string
	Quantity     decimal.Decimal
	CostBasis    decimal.Decimal
	PurchaseDate time.Time
}

// Purchase is a buy order merged into a position.
type Purchase struct {
	Ticker       string
	Name         string
	Logo         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	PurchaseDate time.Time
}

// SaleOutcome is the result of a sale: either the reduced position or a
// closed one that must be deleted.
type SaleOutcome struct {
	Position Position
	Closed   bool
	Entry    Entry
}

func validationError(format string, args ...any) error {
	return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateOrder checks the quantity and unit price of a buy order.
func (d Descriptor) ValidateOrder(quantity, unitPrice decimal.Decimal) error {
	if !quantity.IsPositive() {
		return validationError("Quantity must be greater than zero")
	}
	if !unitPrice.IsPositive() {
		return validationError("Price must be greater than zero")
	}
	if !fitsScale(quantity) || !fitsScale(unitPrice) {
		return validationError("Quantity and price accept at most %d decimal places", Scale)
	}
	if d.WholeUnits && !quantity.Equal(quantity.Truncate(0)) {
		return validationError("%s must be bought in whole units", d.Label)
	}
	return nil
}

// ApplyPurchase merges a purchase into existing (nil when the user holds none
// of the ticker yet) and returns the new state with its Buy entry.
func (d Descriptor) ApplyPurchase(existing *Position, in Purchase) (Position, Entry, error) {
	if err := d.ValidateOrder(in.Quantity, in.UnitPrice); err != nil {
		return Position{}, Entry{}, err
	}

	total := in.Quantity.Mul(in.UnitPrice).Round(Scale)

	next := Position{
		Ticker:    in.Ticker,
		Quantity:  in.Quantity,
		CostBasis: total,
	}
	if existing != nil {
		next = *existing
		next.Quantity = existing.Quantity.Add(in.Quantity)
		next.CostBasis = existing.CostBasis.Add(total)
	}
	next.Name = in.Name
	next.PurchaseDate = in.PurchaseDate
	next.Logo = ""
	if d.HasLogo {
		next.Logo = in.Logo
	}

	entry := Entry{
		Kind:       KindBuy,
		Class:      d.Class,
		AssetLabel: in.Ticker,
		Quantity:   in.Quantity,
		TotalValue: total,
		Timestamp:  in.PurchaseDate,
	}
	return next, entry, nil
}

// ApplySale liquidates quantity units of held at price. Preconditions are
// checked in order and the first violation is returned; nothing is mutated
// on failure.
func (d Descriptor) ApplySale(held *Position, quantity, price decimal.Decimal, at time.Time) (SaleOutcome, error) {
	if held == nil {
		return SaleOutcome{}, apperrors.ErrHoldingNotFound
	}
	if !quantity.IsPositive() || !price.IsPositive() {
		return SaleOutcome{}, validationError("Sale quantity and price must be greater than zero")
	}
	if !fitsScale(quantity) || !fitsScale(price) {
		return SaleOutcome{}, validationError("Quantity and price accept at most %d decimal places", Scale)
	}
	if d.WholeUnits && !quantity.Equal(quantity.Truncate(0)) {
		return SaleOutcome{}, validationError("%s must be sold in whole units", d.Label)
	}
	if !d.CloseOnOversell && quantity.GreaterThan(held.Quantity) {
		return SaleOutcome{}, validationError("You cannot sell %s units of %s: you only hold %s",
			quantity.String(), held.Ticker, held.Quantity.String())
	}

	value := quantity.Mul(price).Round(Scale)
	if value.GreaterThan(held.CostBasis) {
		return SaleOutcome{}, validationError("The sale value (%s) cannot exceed the total value of your asset (%s)",
			FormatBRL(value), FormatBRL(held.CostBasis))
	}

	entry := Entry{
		Kind:       KindSell,
		Class:      d.Class,
		AssetLabel: held.Ticker,
		Quantity:   quantity,
		TotalValue: value,
		Timestamp:  at,
	}

	closed := quantity.Equal(held.Quantity)
	if d.CloseOnOversell {
		closed = quantity.GreaterThanOrEqual(held.Quantity)
	}
	if closed {
		return SaleOutcome{Position: *held, Closed: true, Entry: entry}, nil
	}

	next := *held
	next.Quantity = held.Quantity.Sub(quantity)
	next.CostBasis = held.CostBasis.Sub(value)
	return SaleOutcome{Position: next, Entry: entry}, nil
}
