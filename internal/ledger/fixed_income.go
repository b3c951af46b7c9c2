package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "carteira/internal/errors"
)

// RateMode selects how a fixed-income rate is obtained.
type RateMode string

const (
	// RateFixed takes the nominal rate typed by the user ("pré-fixado").
	RateFixed RateMode = "pre"
	// RateIndexed is a percentage of the reference index ("pós-fixado").
	RateIndexed RateMode = "post"
)

// DefaultIndexSpread is subtracted from the reference rate to approximate the
// interbank index.
var DefaultIndexSpread = decimal.RequireFromString("0.1")

var hundred = decimal.NewFromInt(100)

// FixedIncomePosition is the accounting state of a fixed-income holding.
// A nil MaturityDate means liquidity on demand.
type FixedIncomePosition struct {
	Issuer       string
	PurchaseDate time.Time
	MaturityDate *time.Time
	Value        decimal.Decimal
	Rate         decimal.Decimal
}

// FixedIncomePurchase is an application into a fixed-income instrument.
type FixedIncomePurchase struct {
	Issuer            string
	PurchaseDate      time.Time
	MaturityDate      *time.Time
	Value             decimal.Decimal
	RateMode          RateMode
	RateInput         string
	LiquidityOnDemand bool
}

// RedemptionOutcome is the result of a redemption by value.
type RedemptionOutcome struct {
	Position FixedIncomePosition
	Closed   bool
	Entry    Entry
}

// Normalize applies the liquidity flag and trims the issuer.
func (in FixedIncomePurchase) Normalize() FixedIncomePurchase {
	in.Issuer = strings.TrimSpace(in.Issuer)
	if in.LiquidityOnDemand {
		in.MaturityDate = nil
	}
	return in
}

// ValidateFixedIncome checks a normalized purchase.
func ValidateFixedIncome(in FixedIncomePurchase) error {
	if in.Issuer == "" {
		return validationError("Issuer is required")
	}
	if !in.Value.IsPositive() {
		return validationError("Value must be greater than zero")
	}
	if !fitsScale(in.Value) {
		return validationError("Value accepts at most %d decimal places", Scale)
	}
	if in.MaturityDate != nil && !in.MaturityDate.After(in.PurchaseDate) {
		return validationError("The maturity date must be later than the purchase date")
	}
	switch in.RateMode {
	case RateFixed, RateIndexed:
	default:
		return validationError("Unknown rate mode %q", string(in.RateMode))
	}
	return nil
}

// ResolveRate computes the effective rate for a purchase. reference is only
// called in indexed mode; its error is returned unchanged so callers keep the
// upstream classification.
func ResolveRate(mode RateMode, input string, spread decimal.Decimal, reference func() (decimal.Decimal, error)) (decimal.Decimal, error) {
	if mode == RateFixed {
		rate, err := ParseAmount(input)
		if err != nil {
			return decimal.Zero, validationError("Invalid rate %q", input)
		}
		return rate.Round(RateScale), nil
	}

	pct := hundred
	if strings.TrimSpace(input) != "" {
		p, err := ParseAmount(input)
		if err != nil {
			return decimal.Zero, validationError("Invalid index percentage %q", input)
		}
		pct = p
	}

	ref, err := reference()
	if err != nil {
		return decimal.Zero, err
	}
	index := ref.Sub(spread)
	return pct.Div(hundred).Mul(index).Round(RateScale), nil
}

// ApplyFixedIncomePurchase merges a normalized, validated purchase into
// existing (nil for a new instrument). The value accumulates. The purchase
// date, maturity date and rate of the latest application replace the
// previous ones for the whole merged value, so the earlier rate is lost.
func ApplyFixedIncomePurchase(existing *FixedIncomePosition, in FixedIncomePurchase, rate decimal.Decimal) (FixedIncomePosition, Entry, error) {
	if err := ValidateFixedIncome(in); err != nil {
		return FixedIncomePosition{}, Entry{}, err
	}

	next := FixedIncomePosition{Issuer: in.Issuer, Value: in.Value}
	if existing != nil {
		next = *existing
		next.Value = existing.Value.Add(in.Value)
	}
	next.PurchaseDate = in.PurchaseDate
	next.MaturityDate = in.MaturityDate
	next.Rate = rate

	entry := Entry{
		Kind:       KindBuy,
		Class:      FixedIncome,
		AssetLabel: FixedIncomeLabel(in.Issuer),
		Quantity:   decimal.NewFromInt(1),
		TotalValue: in.Value,
		Timestamp:  in.PurchaseDate,
	}
	return next, entry, nil
}

// ApplyRedemption withdraws value from held.
func ApplyRedemption(held *FixedIncomePosition, value decimal.Decimal, at time.Time) (RedemptionOutcome, error) {
	if held == nil {
		return RedemptionOutcome{}, apperrors.ErrFixedIncomeNotFound
	}
	if !value.IsPositive() {
		return RedemptionOutcome{}, validationError("Value must be greater than zero")
	}
	if !fitsScale(value) {
		return RedemptionOutcome{}, validationError("Value accepts at most %d decimal places", Scale)
	}
	if value.GreaterThan(held.Value) {
		return RedemptionOutcome{}, validationError("You cannot redeem %s: the holding is worth %s",
			FormatBRL(value), FormatBRL(held.Value))
	}

	entry := Entry{
		Kind:       KindSell,
		Class:      FixedIncome,
		AssetLabel: FixedIncomeLabel(held.Issuer),
		Quantity:   decimal.NewFromInt(1),
		TotalValue: value,
		Timestamp:  at,
	}
	if value.Equal(held.Value) {
		return RedemptionOutcome{Position: *held, Closed: true, Entry: entry}, nil
	}

	next := *held
	next.Value = held.Value.Sub(value)
	return RedemptionOutcome{Position: next, Entry: entry}, nil
}

// FixedIncomeLabel is the journal label of a fixed-income instrument.
func FixedIncomeLabel(issuer string) string {
	return "Renda Fixa - " + issuer
}
