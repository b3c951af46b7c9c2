package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carteira/internal/logger"
)

// CacheClearer drops cached market data.
type CacheClearer interface {
	Clear()
}

// OpsHandler serves operations endpoints guarded by the admin API key.
type OpsHandler struct {
	cache CacheClearer
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cache CacheClearer) *OpsHandler {
	return &OpsHandler{cache: cache}
}

// ClearQuoteCache drops the cached catalogs and reference rate.
// @Summary     Clear quote cache
// @Tags        ops
// @Produce     json
// @Param       X-Admin-Key header string true "Admin API key"
// @Success     204 "Cache cleared"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Operations disabled"
// @Router      /ops/quote-cache/clear [post]
func (h *OpsHandler) ClearQuoteCache(c *gin.Context) {
	h.cache.Clear()
	logger.Get().Infow("quote cache cleared", "client_ip", c.ClientIP())
	c.Status(http.StatusNoContent)
}
