package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a journal entry.
type Kind string

const (
	KindBuy  Kind = "buy"
	KindSell Kind = "sell"
)

// Entry is the immutable journal line produced by every successful mutation.
type Entry struct {
	Kind       Kind
	Class      AssetClass
	AssetLabel string
	Quantity   decimal.Decimal
	TotalValue decimal.Decimal
	Timestamp  time.Time
}

// SignedValue returns the entry value as a net flow: buys add, sells subtract.
func (e Entry) SignedValue() decimal.Decimal {
	if e.Kind == KindSell {
		return e.TotalValue.Neg()
	}
	return e.TotalValue
}
