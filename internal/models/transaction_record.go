package models

import (
	"time"

	"github.com/shopspring/decimal"

	"carteira/internal/ledger"
)

// TransactionRecord is an append-only journal line written alongside every
// holding mutation. Records are never updated or deleted.
type TransactionRecord struct {
	Base
	UserID     string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind       ledger.Kind       `gorm:"size:10;not null" json:"kind"`
	AssetClass ledger.AssetClass `gorm:"size:20;not null" json:"asset_class"`
	AssetLabel string            `gorm:"size:250;not null" json:"asset_label"`
	Quantity   decimal.Decimal   `gorm:"type:numeric(30,10);not null" json:"quantity"`
	TotalValue decimal.Decimal   `gorm:"type:numeric(30,10);not null" json:"total_value"`
	Timestamp  time.Time         `gorm:"not null;index" json:"timestamp"`
}

// NewTransactionRecord builds the record for a ledger entry.
func NewTransactionRecord(userID string, e ledger.Entry) *TransactionRecord {
	return &TransactionRecord{
		UserID:     userID,
		Kind:       e.Kind,
		AssetClass: e.Class,
		AssetLabel: e.AssetLabel,
		Quantity:   e.Quantity,
		TotalValue: e.TotalValue,
		Timestamp:  e.Timestamp,
	}
}
