package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/services"
)

// HoldingHandler serves the holdings of one traded asset class. The same
// handler type is mounted once per class.
type HoldingHandler struct {
	class          ledger.AssetClass
	holdingService services.HoldingServicer
	quoteService   services.QuoteServicer
	auditService   services.AuditServicer
}

// NewHoldingHandler creates a HoldingHandler for class.
func NewHoldingHandler(
	class ledger.AssetClass,
	holdingService services.HoldingServicer,
	quoteService services.QuoteServicer,
	auditService services.AuditServicer,
) *HoldingHandler {
	return &HoldingHandler{
		class:          class,
		holdingService: holdingService,
		quoteService:   quoteService,
		auditService:   auditService,
	}
}

// Class returns the asset class served by the handler.
func (h *HoldingHandler) Class() ledger.AssetClass {
	return h.class
}

// BuyRequest represents a purchase order. Amounts accept numbers or strings
// in Brazilian notation.
type BuyRequest struct {
	Ticker       string        `json:"ticker" binding:"required,ticker"`
	Quantity     ledger.Amount `json:"quantity"`
	Price        ledger.Amount `json:"price"`
	PurchaseDate string        `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
}

// SellRequest represents a sale order.
type SellRequest struct {
	Quantity ledger.Amount `json:"quantity"`
	Price    ledger.Amount `json:"price"`
}

// SortQuery holds the sort key of listing endpoints.
type SortQuery struct {
	Sort string `form:"sort" binding:"omitempty,max=40"`
}

// ListHoldings handles listing the caller's holdings.
// @Summary     List holdings
// @Description List the caller's holdings of the asset class (stocks, cryptos or funds)
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       sort query string false "ticker, ticker_desc, name, name_desc, cost_basis, cost_basis_desc, quantity, quantity_desc, purchase_date, purchase_date_desc"
// @Success     200 {array}  models.Holding "Holdings"
// @Failure     400 {object} ErrorResponse "Invalid sort key"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /stocks [get]
func (h *HoldingHandler) ListHoldings(c *gin.Context) {
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

	holdings, err := h.holdingService.ListHoldings(c.Request.Context(), uc, h.class, q.Sort)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// GetHolding handles retrieving one holding.
// @Summary     Get holding
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Holding ID"
// @Success     200 {object} models.Holding "Holding"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /stocks/{id} [get]
func (h *HoldingHandler) GetHolding(c *gin.Context) {
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

	holding, err := h.holdingService.GetHolding(c.Request.Context(), uc, h.class, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// Buy handles a purchase.
// @Summary     Buy
// @Description Buy units of a ticker, merging into the existing holding
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BuyRequest true "Purchase order"
// @Success     201 {object} services.TradeResult "Updated holding and journal record"
// @Failure     400 {object} ErrorResponse "Invalid input or ledger rule violated"
// @Failure     404 {object} ErrorResponse "Ticker not found"
// @Failure     502 {object} ErrorResponse "Quote provider unavailable"
// @Router      /stocks [post]
func (h *HoldingHandler) Buy(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	purchaseDate, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.holdingService.Buy(c.Request.Context(), uc, h.class, services.BuyInput{
		Ticker:       req.Ticker,
		Quantity:     req.Quantity.Decimal,
		UnitPrice:    req.Price.Decimal,
		PurchaseDate: purchaseDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(uc.UserID, services.AuditBuy, string(h.class), result.Holding.ID, c.ClientIP(),
		map[string]interface{}{"ticker": result.Holding.Ticker, "quantity": req.Quantity.String(), "price": req.Price.String()})

	c.JSON(http.StatusCreated, result)
}

// Sell handles a sale.
// @Summary     Sell
// @Description Sell units of a holding; selling everything closes it
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string      true "Holding ID"
// @Param       request body SellRequest true "Sale order"
// @Success     200 {object} services.TradeResult "Updated holding and journal record"
// @Failure     400 {object} ErrorResponse "Invalid input or ledger rule violated"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /stocks/{id}/sell [post]
func (h *HoldingHandler) Sell(c *gin.Context) {
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

	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.holdingService.Sell(c.Request.Context(), uc, h.class, id, req.Quantity.Decimal, req.Price.Decimal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(uc.UserID, services.AuditSell, string(h.class), id, c.ClientIP(),
		map[string]interface{}{"quantity": req.Quantity.String(), "price": req.Price.String(), "closed": result.Closed})

	c.JSON(http.StatusOK, result)
}

// Catalog lists the tickers available for the asset class.
// @Summary     Ticker catalog
// @Tags        quotes
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  quotes.Listing "Available tickers"
// @Failure     502 {object} ErrorResponse "Quote provider unavailable"
// @Router      /stocks/catalog [get]
func (h *HoldingHandler) Catalog(c *gin.Context) {
	list, err := h.quoteService.Catalog(c.Request.Context(), h.class)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": list})
}

// Quote returns the current quote of a ticker.
// @Summary     Quote
// @Tags        quotes
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker"
// @Success     200 {object} quotes.Quote "Current quote"
// @Failure     404 {object} ErrorResponse "Ticker not found"
// @Failure     502 {object} ErrorResponse "Quote provider unavailable"
// @Router      /stocks/quote/{ticker} [get]
func (h *HoldingHandler) Quote(c *gin.Context) {
	q, err := h.quoteService.Lookup(c.Request.Context(), h.class, c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": q})
}
