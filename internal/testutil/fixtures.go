package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"carteira/internal/ledger"
	"carteira/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique login.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithLogin(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithLogin creates a user with the given login.
func CreateTestUserWithLogin(t *testing.T, db *gorm.DB, login string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Login:    login,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHolding creates a holding with the given quantity and cost basis.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID string, class ledger.AssetClass, ticker, quantity, costBasis string) *models.Holding {
	t.Helper()

	h := &models.Holding{
		UserID:       userID,
		AssetClass:   class,
		Ticker:       ticker,
		Name:         "Test " + ticker,
		Quantity:     decimal.RequireFromString(quantity),
		CostBasis:    decimal.RequireFromString(costBasis),
		PurchaseDate: time.Now().UTC().Truncate(time.Second),
	}
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return h
}

// CreateTestFixedIncome creates a fixed-income holding worth value.
func CreateTestFixedIncome(t *testing.T, db *gorm.DB, userID, issuer, value string) *models.FixedIncomeHolding {
	t.Helper()

	f := &models.FixedIncomeHolding{
		UserID:       userID,
		Issuer:       issuer,
		PurchaseDate: time.Now().UTC().Truncate(time.Second),
		Value:        decimal.RequireFromString(value),
		Rate:         decimal.NewFromInt(12),
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("failed to create test fixed income: %v", err)
	}
	return f
}

// CreateTestRecord appends a journal record.
func CreateTestRecord(t *testing.T, db *gorm.DB, userID string, kind ledger.Kind, label, total string, at time.Time) *models.TransactionRecord {
	t.Helper()

	r := &models.TransactionRecord{
		UserID:     userID,
		Kind:       kind,
		AssetClass: ledger.Stock,
		AssetLabel: label,
		Quantity:   decimal.NewFromInt(1),
		TotalValue: decimal.RequireFromString(total),
		Timestamp:  at,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return r
}
