package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"carteira/internal/ledger"
	"carteira/internal/models"
	"carteira/internal/pagination"
	"carteira/internal/quotes"
)

// UserContext identifies the authenticated caller of a ledger operation.
// Every query and mutation is scoped to UserID.
type UserContext struct {
	UserID string
	Login  string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(login, password, confirmPassword string) (*models.User, error)
	GetUserByLogin(login string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(login, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	RenameUser(userID, newLogin string) (*models.User, error)
	ChangePassword(userID, password, confirmPassword string) error
}

// QuoteServicer exposes market data with errors translated to AppErrors.
type QuoteServicer interface {
	Lookup(ctx context.Context, class ledger.AssetClass, ticker string) (*quotes.Quote, error)
	Catalog(ctx context.Context, class ledger.AssetClass) ([]quotes.Listing, error)
	ReferenceRate(ctx context.Context) (decimal.Decimal, error)
}

// BuyInput is a purchase order for a traded asset class.
type BuyInput struct {
	Ticker       string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	PurchaseDate time.Time
}

// TradeResult is the outcome of a buy or sell. Holding holds the last state
// of the position; when Closed is true the row has been deleted.
type TradeResult struct {
	Holding *models.Holding           `json:"holding"`
	Closed  bool                      `json:"closed"`
	Record  *models.TransactionRecord `json:"record"`
}

// HoldingServicer defines the contract for stock, crypto and real-estate fund
// positions.
type HoldingServicer interface {
	Buy(ctx context.Context, uc UserContext, class ledger.AssetClass, in BuyInput) (*TradeResult, error)
	Sell(ctx context.Context, uc UserContext, class ledger.AssetClass, holdingID string, quantity, price decimal.Decimal) (*TradeResult, error)
	ListHoldings(ctx context.Context, uc UserContext, class ledger.AssetClass, sort string) ([]models.Holding, error)
	GetHolding(ctx context.Context, uc UserContext, class ledger.AssetClass, holdingID string) (*models.Holding, error)
}

// FixedIncomeResult is the outcome of an application or a redemption.
type FixedIncomeResult struct {
	Holding *models.FixedIncomeHolding `json:"holding"`
	Closed  bool                       `json:"closed"`
	Record  *models.TransactionRecord  `json:"record"`
}

// FixedIncomeServicer defines the contract for fixed-income positions.
type FixedIncomeServicer interface {
	Apply(ctx context.Context, uc UserContext, in ledger.FixedIncomePurchase) (*FixedIncomeResult, error)
	Redeem(ctx context.Context, uc UserContext, holdingID string, value decimal.Decimal) (*FixedIncomeResult, error)
	ListHoldings(ctx context.Context, uc UserContext, sort string) ([]models.FixedIncomeHolding, error)
	GetHolding(ctx context.Context, uc UserContext, holdingID string) (*models.FixedIncomeHolding, error)
}

// TransactionRecordServicer lists the journal.
type TransactionRecordServicer interface {
	ListRecords(ctx context.Context, uc UserContext, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionRecord], error)
}

// ClassSummary aggregates the holdings of one asset class.
type ClassSummary struct {
	Class ledger.AssetClass `json:"asset_class"`
	Label string            `json:"label"`
	Total decimal.Decimal   `json:"total"`
	Count int64             `json:"count"`
}

// MonthlyPoint is the cumulative net invested amount at the end of a month.
// Value is nil for months before the first movement of the year.
type MonthlyPoint struct {
	Month int              `json:"month"`
	Value *decimal.Decimal `json:"value"`
}

// Dashboard summarizes a user's portfolio.
type Dashboard struct {
	Total         decimal.Decimal            `json:"total"`
	Classes       []ClassSummary             `json:"classes"`
	RecentRecords []models.TransactionRecord `json:"recent_records"`
	Year          int                        `json:"year"`
	Evolution     []MonthlyPoint             `json:"evolution"`
}

// DashboardServicer computes the portfolio overview.
type DashboardServicer interface {
	GetDashboard(ctx context.Context, uc UserContext, now time.Time) (*Dashboard, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
