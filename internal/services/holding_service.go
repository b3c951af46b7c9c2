package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/models"
	"carteira/internal/pagination"
)

// HoldingSortOrder lists the accepted sort keys for holding listings.
var HoldingSortOrder = pagination.SortOrder{
	"":                   "ticker ASC",
	"ticker":             "ticker ASC",
	"ticker_desc":        "ticker DESC",
	"name":               "name ASC",
	"name_desc":          "name DESC",
	"cost_basis":         "cost_basis ASC",
	"cost_basis_desc":    "cost_basis DESC",
	"quantity":           "quantity ASC",
	"quantity_desc":      "quantity DESC",
	"purchase_date":      "purchase_date ASC",
	"purchase_date_desc": "purchase_date DESC",
}

// holdingService reconciles buys and sells of ticker-based holdings.
type holdingService struct {
	db     *gorm.DB
	quotes QuoteServicer
	now    func() time.Time
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(db *gorm.DB, quotes QuoteServicer) HoldingServicer {
	return &holdingService{db: db, quotes: quotes, now: time.Now}
}

func describeTraded(class ledger.AssetClass) (ledger.Descriptor, error) {
	d, ok := ledger.Describe(class)
	if !ok {
		return ledger.Descriptor{}, apperrors.ErrUnsupportedAssetClass
	}
	return d, nil
}

// lockHolding loads the caller's holding matching the conditions for update.
// It returns nil without error when no row matches.
func lockHolding(tx *gorm.DB, userID string, class ledger.AssetClass, query string, arg any) (*models.Holding, error) {
	var h models.Holding
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND asset_class = ?", userID, class).
		Where(query, arg).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	return &h, nil
}

// Buy merges a purchase into the caller's holding of the ticker, creating
// it when absent, and journals a buy record.
func (s *holdingService) Buy(ctx context.Context, uc UserContext, class ledger.AssetClass, in BuyInput) (*TradeResult, error) {
	d, err := describeTraded(class)
	if err != nil {
		return nil, err
	}
	ticker := strings.ToUpper(strings.TrimSpace(in.Ticker))
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Ticker is required")
	}
	if err := d.ValidateOrder(in.Quantity, in.UnitPrice); err != nil {
		return nil, err
	}

	quote, err := s.quotes.Lookup(ctx, class, ticker)
	if err != nil {
		return nil, err
	}

	purchaseDate := in.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = s.now()
	}
	purchase := ledger.Purchase{
		Ticker:       ticker,
		Name:         quote.Name,
		Logo:         quote.Logo,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		PurchaseDate: purchaseDate,
	}

	result := &TradeResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		holding, txErr := lockHolding(tx, uc.UserID, class, "ticker = ?", ticker)
		if txErr != nil {
			return txErr
		}

		var existing *ledger.Position
		if holding != nil {
			p := holding.Position()
			existing = &p
		} else {
			holding = &models.Holding{UserID: uc.UserID, AssetClass: class}
		}

		next, entry, txErr := d.ApplyPurchase(existing, purchase)
		if txErr != nil {
			return txErr
		}
		holding.Apply(next)

		if existing == nil {
			txErr = tx.Create(holding).Error
		} else {
			txErr = tx.Save(holding).Error
		}
		if txErr != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, txErr)
		}

		record := models.NewTransactionRecord(uc.UserID, entry)
		if txErr := tx.Create(record).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, txErr)
		}

		result.Holding = holding
		result.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Sell liquidates quantity units of the caller's holding at price. A sale
// that empties the holding deletes it.
func (s *holdingService) Sell(ctx context.Context, uc UserContext, class ledger.AssetClass, holdingID string, quantity, price decimal.Decimal) (*TradeResult, error) {
	d, err := describeTraded(class)
	if err != nil {
		return nil, err
	}

	result := &TradeResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		holding, txErr := lockHolding(tx, uc.UserID, class, "id = ?", holdingID)
		if txErr != nil {
			return txErr
		}

		var held *ledger.Position
		if holding != nil {
			p := holding.Position()
			held = &p
		}

		outcome, txErr := d.ApplySale(held, quantity, price, s.now())
		if txErr != nil {
			return txErr
		}

		if outcome.Closed {
			txErr = tx.Unscoped().Delete(holding).Error
		} else {
			holding.Apply(outcome.Position)
			txErr = tx.Model(holding).Select("quantity", "cost_basis", "updated_at").Updates(holding).Error
		}
		if txErr != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, txErr)
		}

		record := models.NewTransactionRecord(uc.UserID, outcome.Entry)
		if txErr := tx.Create(record).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, txErr)
		}

		result.Holding = holding
		result.Closed = outcome.Closed
		result.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListHoldings returns the caller's holdings of class in the requested order.
func (s *holdingService) ListHoldings(ctx context.Context, uc UserContext, class ledger.AssetClass, sort string) ([]models.Holding, error) {
	if _, err := describeTraded(class); err != nil {
		return nil, err
	}
	if sort != "" && !HoldingSortOrder.Allows(sort) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown sort key "+sort)
	}

	var holdings []models.Holding
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND asset_class = ?", uc.UserID, class).
		Scopes(pagination.OrderBy(HoldingSortOrder, sort)).
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}

// GetHolding returns one of the caller's holdings.
func (s *holdingService) GetHolding(ctx context.Context, uc UserContext, class ledger.AssetClass, holdingID string) (*models.Holding, error) {
	if _, err := describeTraded(class); err != nil {
		return nil, err
	}

	var h models.Holding
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND asset_class = ?", holdingID, uc.UserID, class).
		First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &h, nil
}
