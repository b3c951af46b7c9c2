package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/models"
)

// recentRecordsLimit is the number of journal lines shown on the dashboard.
const recentRecordsLimit = 5

// dashboardService computes portfolio overviews.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// GetDashboard summarizes the caller's holdings and the journal of now's year.
func (s *dashboardService) GetDashboard(ctx context.Context, uc UserContext, now time.Time) (*Dashboard, error) {
	db := s.db.WithContext(ctx)

	classes, err := s.classSummaries(db, uc.UserID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, c := range classes {
		total = total.Add(c.Total)
	}

	var recent []models.TransactionRecord
	if err := db.Where("user_id = ?", uc.UserID).
		Order("timestamp DESC").
		Limit(recentRecordsLimit).
		Find(&recent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if recent == nil {
		recent = []models.TransactionRecord{}
	}

	evolution, err := s.evolution(db, uc.UserID, now)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Total:         total,
		Classes:       classes,
		RecentRecords: recent,
		Year:          now.Year(),
		Evolution:     evolution,
	}, nil
}

// classSummaries returns one summary per asset class, traded classes first
// and fixed income last. Sums are computed in decimal to keep sqlite and
// postgres results identical.
func (s *dashboardService) classSummaries(db *gorm.DB, userID string) ([]ClassSummary, error) {
	var holdings []models.Holding
	if err := db.Select("asset_class", "cost_basis").
		Where("user_id = ?", userID).
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byClass := make(map[ledger.AssetClass]*ClassSummary)
	summaries := make([]ClassSummary, 0, 4)
	for _, d := range ledger.TradedClasses() {
		summaries = append(summaries, ClassSummary{Class: d.Class, Label: d.Label, Total: decimal.Zero})
	}
	for i := range summaries {
		byClass[summaries[i].Class] = &summaries[i]
	}
	for _, h := range holdings {
		c, ok := byClass[h.AssetClass]
		if !ok {
			continue
		}
		c.Total = c.Total.Add(h.CostBasis)
		c.Count++
	}

	var fixed []models.FixedIncomeHolding
	if err := db.Select("value").
		Where("user_id = ?", userID).
		Find(&fixed).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	fi := ClassSummary{Class: ledger.FixedIncome, Label: ledger.FixedIncome.Label(), Total: decimal.Zero}
	for _, f := range fixed {
		fi.Total = fi.Total.Add(f.Value)
		fi.Count++
	}
	return append(summaries, fi), nil
}

// evolution returns the cumulative net amount invested at the end of each
// month of now's year. Buys add and sells subtract. Months before the first
// movement and months after now are nil.
func (s *dashboardService) evolution(db *gorm.DB, userID string, now time.Time) ([]MonthlyPoint, error) {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(1, 0, 0)

	var records []models.TransactionRecord
	if err := db.Select("kind", "total_value", "timestamp").
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, start, end).
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var flows [12]decimal.Decimal
	var moved [12]bool
	for _, r := range records {
		m := r.Timestamp.In(now.Location()).Month() - 1
		e := ledger.Entry{Kind: r.Kind, TotalValue: r.TotalValue}
		flows[m] = flows[m].Add(e.SignedValue())
		moved[m] = true
	}

	points := make([]MonthlyPoint, 12)
	running := decimal.Zero
	started := false
	for i := range points {
		points[i].Month = i + 1
		if moved[i] {
			started = true
		}
		running = running.Add(flows[i])
		if started && time.Month(i+1) <= now.Month() {
			v := running
			points[i].Value = &v
		}
	}
	return points, nil
}
