package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/models"
	"carteira/internal/pagination"
)

// FixedIncomeSortOrder lists the accepted sort keys for fixed-income listings.
var FixedIncomeSortOrder = pagination.SortOrder{
	"":                   "issuer ASC",
	"issuer":             "issuer ASC",
	"issuer_desc":        "issuer DESC",
	"value":              "value ASC",
	"value_desc":         "value DESC",
	"rate":               "rate ASC",
	"rate_desc":          "rate DESC",
	"purchase_date":      "purchase_date ASC",
	"purchase_date_desc": "purchase_date DESC",
}

// fixedIncomeService reconciles applications and redemptions of fixed-income
// holdings.
type fixedIncomeService struct {
	db     *gorm.DB
	quotes QuoteServicer
	spread decimal.Decimal
	now    func() time.Time
}

// NewFixedIncomeService creates a new FixedIncomeServicer. spread is
// subtracted from the reference rate for indexed applications.
func NewFixedIncomeService(db *gorm.DB, quotes QuoteServicer, spread decimal.Decimal) FixedIncomeServicer {
	return &fixedIncomeService{db: db, quotes: quotes, spread: spread, now: time.Now}
}

func lockFixedIncome(tx *gorm.DB, userID, query string, arg any) (*models.FixedIncomeHolding, error) {
	var f models.FixedIncomeHolding
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Where(query, arg).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	return &f, nil
}

// Apply records an application, merging it into the caller's holding with
// the same issuer.
func (s *fixedIncomeService) Apply(ctx context.Context, uc UserContext, in ledger.FixedIncomePurchase) (*FixedIncomeResult, error) {
	if in.PurchaseDate.IsZero() {
		in.PurchaseDate = s.now()
	}
	in = in.Normalize()
	if err := ledger.ValidateFixedIncome(in); err != nil {
		return nil, err
	}

	rate, err := ledger.ResolveRate(in.RateMode, in.RateInput, s.spread, func() (decimal.Decimal, error) {
		return s.quotes.ReferenceRate(ctx)
	})
	if err != nil {
		return nil, err
	}

	result := &FixedIncomeResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		holding, txErr := lockFixedIncome(tx, uc.UserID, "issuer = ?", in.Issuer)
		if txErr != nil {
			return txErr
		}

		var existing *ledger.FixedIncomePosition
		if holding != nil {
			p := holding.Position()
			existing = &p
		} else {
			holding = &models.FixedIncomeHolding{UserID: uc.UserID}
		}

		next, entry, txErr := ledger.ApplyFixedIncomePurchase(existing, in, rate)
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

// Redeem withdraws value from one of the caller's holdings. Redeeming the
// full value deletes it.
func (s *fixedIncomeService) Redeem(ctx context.Context, uc UserContext, holdingID string, value decimal.Decimal) (*FixedIncomeResult, error) {
	result := &FixedIncomeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		holding, txErr := lockFixedIncome(tx, uc.UserID, "id = ?", holdingID)
		if txErr != nil {
			return txErr
		}

		var held *ledger.FixedIncomePosition
		if holding != nil {
			p := holding.Position()
			held = &p
		}

		outcome, txErr := ledger.ApplyRedemption(held, value, s.now())
		if txErr != nil {
			return txErr
		}

		if outcome.Closed {
			txErr = tx.Unscoped().Delete(holding).Error
		} else {
			holding.Apply(outcome.Position)
			txErr = tx.Model(holding).Select("value", "updated_at").Updates(holding).Error
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

// ListHoldings returns the caller's fixed-income holdings.
func (s *fixedIncomeService) ListHoldings(ctx context.Context, uc UserContext, sort string) ([]models.FixedIncomeHolding, error) {
	if sort != "" && !FixedIncomeSortOrder.Allows(sort) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown sort key "+sort)
	}

	var holdings []models.FixedIncomeHolding
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", uc.UserID).
		Scopes(pagination.OrderBy(FixedIncomeSortOrder, sort)).
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}

// GetHolding returns one of the caller's fixed-income holdings.
func (s *fixedIncomeService) GetHolding(ctx context.Context, uc UserContext, holdingID string) (*models.FixedIncomeHolding, error) {
	var f models.FixedIncomeHolding
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", holdingID, uc.UserID).
		First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFixedIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &f, nil
}
