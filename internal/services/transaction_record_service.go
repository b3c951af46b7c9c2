package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/models"
	"carteira/internal/pagination"
)

// RecordSortOrder lists the accepted sort keys for the journal. Ties are
// broken by the most recent timestamp.
var RecordSortOrder = pagination.SortOrder{
	"":              "kind ASC, timestamp DESC",
	"kind":          "kind ASC, timestamp DESC",
	"kind_desc":     "kind DESC, timestamp DESC",
	"asset":         "asset_label ASC, timestamp DESC",
	"asset_desc":    "asset_label DESC, timestamp DESC",
	"quantity":      "quantity ASC, timestamp DESC",
	"quantity_desc": "quantity DESC, timestamp DESC",
	"total":         "total_value ASC, timestamp DESC",
	"total_desc":    "total_value DESC, timestamp DESC",
	"date":          "timestamp ASC",
	"date_desc":     "timestamp DESC",
}

// transactionRecordService reads the append-only journal.
type transactionRecordService struct {
	db *gorm.DB
}

// NewTransactionRecordService creates a new TransactionRecordServicer.
func NewTransactionRecordService(db *gorm.DB) TransactionRecordServicer {
	return &transactionRecordService{db: db}
}

// ListRecords returns a page of the caller's journal.
func (s *transactionRecordService) ListRecords(ctx context.Context, uc UserContext, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionRecord], error) {
	page.Defaults()
	if page.Sort != "" && !RecordSortOrder.Allows(page.Sort) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown sort key "+page.Sort)
	}

	query := s.db.WithContext(ctx).Model(&models.TransactionRecord{}).
		Where("user_id = ?", uc.UserID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.TransactionRecord
	if err := query.
		Scopes(pagination.OrderBy(RecordSortOrder, page.Sort), pagination.Paginate(page)).
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(records, page.Page, page.PageSize, total)
	return &resp, nil
}
