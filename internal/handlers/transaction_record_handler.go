package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "carteira/internal/errors"
	"carteira/internal/pagination"
	"carteira/internal/services"
)

// TransactionRecordHandler serves the journal.
type TransactionRecordHandler struct {
	recordService services.TransactionRecordServicer
}

// NewTransactionRecordHandler creates a new TransactionRecordHandler.
func NewTransactionRecordHandler(recordService services.TransactionRecordServicer) *TransactionRecordHandler {
	return &TransactionRecordHandler{recordService: recordService}
}

// ListRecords handles listing the caller's journal.
// @Summary     List transactions
// @Description Paginated journal of buys and sells
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 12, max 100)"
// @Param       sort      query string false "kind, kind_desc, asset, asset_desc, quantity, quantity_desc, total, total_desc, date, date_desc"
// @Success     200 {object} pagination.PageResponse[models.TransactionRecord] "Paginated records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionRecordHandler) ListRecords(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.recordService.ListRecords(c.Request.Context(), uc, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
