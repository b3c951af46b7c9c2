package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/services"
)

// FixedIncomeHandler handles fixed-income requests.
type FixedIncomeHandler struct {
	fixedIncomeService services.FixedIncomeServicer
	quoteService       services.QuoteServicer
	auditService       services.AuditServicer
}

// NewFixedIncomeHandler creates a new FixedIncomeHandler.
func NewFixedIncomeHandler(
	fixedIncomeService services.FixedIncomeServicer,
	quoteService services.QuoteServicer,
	auditService services.AuditServicer,
) *FixedIncomeHandler {
	return &FixedIncomeHandler{
		fixedIncomeService: fixedIncomeService,
		quoteService:       quoteService,
		auditService:       auditService,
	}
}

// ApplyRequest represents a fixed-income application. Rate is the nominal
// rate in "pre" mode and the percentage of the reference index in "post"
// mode, where it defaults to 100.
type ApplyRequest struct {
	Issuer            string        `json:"issuer" binding:"required,max=200"`
	PurchaseDate      string        `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
	MaturityDate      string        `json:"maturity_date" binding:"omitempty,datetime=2006-01-02"`
	Value             ledger.Amount `json:"value"`
	RateMode          string        `json:"rate_mode" binding:"required,rate_mode"`
	Rate              string        `json:"rate" binding:"max=20"`
	LiquidityOnDemand bool          `json:"liquidity_on_demand"`
}

// RedeemRequest represents a redemption by value.
type RedeemRequest struct {
	Value ledger.Amount `json:"value"`
}

// ListHoldings handles listing the caller's fixed-income holdings.
// @Summary     List fixed-income holdings
// @Tags        fixed-income
// @Produce     json
// @Security    BearerAuth
// @Param       sort query string false "issuer, issuer_desc, value, value_desc, rate, rate_desc, purchase_date, purchase_date_desc"
// @Success     200 {array}  models.FixedIncomeHolding "Holdings"
// @Failure     400 {object} ErrorResponse "Invalid sort key"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /fixed-income [get]
func (h *FixedIncomeHandler) ListHoldings(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q SortQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holdings, err := h.fixedIncomeService.ListHoldings(c.Request.Context(), uc, q.Sort)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// GetHolding handles retrieving one fixed-income holding.
// @Summary     Get fixed-income holding
// @Tags        fixed-income
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Holding ID"
// @Success     200 {object} models.FixedIncomeHolding "Holding"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /fixed-income/{id} [get]
func (h *FixedIncomeHandler) GetHolding(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.fixedIncomeService.GetHolding(c.Request.Context(), uc, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// Apply handles a fixed-income application.
// @Summary     Apply
// @Description Apply into a fixed-income instrument, merging by issuer
// @Tags        fixed-income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ApplyRequest true "Application"
// @Success     201 {object} services.FixedIncomeResult "Updated holding and journal record"
// @Failure     400 {object} ErrorResponse "Invalid input or ledger rule violated"
// @Failure     502 {object} ErrorResponse "Reference rate unavailable"
// @Router      /fixed-income [post]
func (h *FixedIncomeHandler) Apply(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	purchase, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	maturity, err := parseDate("maturity_date", req.MaturityDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in := ledger.FixedIncomePurchase{
		Issuer:            req.Issuer,
		PurchaseDate:      purchase,
		Value:             req.Value.Decimal,
		RateMode:          ledger.RateMode(req.RateMode),
		RateInput:         req.Rate,
		LiquidityOnDemand: req.LiquidityOnDemand,
	}
	if !maturity.IsZero() {
		in.MaturityDate = &maturity
	}

	result, err := h.fixedIncomeService.Apply(c.Request.Context(), uc, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(uc.UserID, services.AuditApply, string(ledger.FixedIncome), result.Holding.ID, c.ClientIP(),
		map[string]interface{}{"issuer": result.Holding.Issuer, "value": req.Value.String(), "rate": result.Holding.Rate.String()})

	c.JSON(http.StatusCreated, result)
}

// Redeem handles a redemption.
// @Summary     Redeem
// @Description Redeem value from a fixed-income holding; redeeming everything closes it
// @Tags        fixed-income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Holding ID"
// @Param       request body RedeemRequest true "Redemption"
// @Success     200 {object} services.FixedIncomeResult "Updated holding and journal record"
// @Failure     400 {object} ErrorResponse "Invalid input or ledger rule violated"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /fixed-income/{id}/redeem [post]
func (h *FixedIncomeHandler) Redeem(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.fixedIncomeService.Redeem(c.Request.Context(), uc, id, req.Value.Decimal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(uc.UserID, services.AuditRedeem, string(ledger.FixedIncome), id, c.ClientIP(),
		map[string]interface{}{"value": req.Value.String(), "closed": result.Closed})

	c.JSON(http.StatusOK, result)
}

// ReferenceRate returns the current reference interest rate.
// @Summary     Reference rate
// @Tags        fixed-income
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Rate in percent"
// @Failure     502 {object} ErrorResponse "Quote provider unavailable"
// @Router      /fixed-income/reference-rate [get]
func (h *FixedIncomeHandler) ReferenceRate(c *gin.Context) {
	rate, err := h.quoteService.ReferenceRate(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rate": rate})
}
