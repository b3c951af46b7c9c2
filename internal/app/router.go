// Package app assembles the HTTP router from services.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "carteira/internal/docs" // swagger docs
	"carteira/internal/handlers"
	"carteira/internal/ledger"
	"carteira/internal/middleware"
	"carteira/internal/quotes"
	"carteira/internal/services"
)

// Deps holds what the router needs to build its services.
type Deps struct {
	DB *gorm.DB
	// Quotes is the market data source. When it also implements
	// handlers.CacheClearer the ops cache endpoint drops its cache.
	Quotes      quotes.Provider
	IndexSpread decimal.Decimal
	AdminAPIKey string
}

// tradedRoutes maps URL segments to the traded asset classes they serve.
var tradedRoutes = []struct {
	path  string
	class ledger.AssetClass
}{
	{"stocks", ledger.Stock},
	{"cryptos", ledger.Crypto},
	{"funds", ledger.RealEstateFund},
}

type noopClearer struct{}

func (noopClearer) Clear() {}

// NewRouter builds the API router.
func NewRouter(deps Deps) *gin.Engine {
	db := deps.DB

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	quoteService := services.NewQuoteService(deps.Quotes)
	holdingService := services.NewHoldingService(db, quoteService)
	fixedIncomeService := services.NewFixedIncomeService(db, quoteService, deps.IndexSpread)
	recordService := services.NewTransactionRecordService(db)
	dashboardService := services.NewDashboardService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	fixedIncomeHandler := handlers.NewFixedIncomeHandler(fixedIncomeService, quoteService, auditService)
	recordHandler := handlers.NewTransactionRecordHandler(recordService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	var clearer handlers.CacheClearer = noopClearer{}
	if c, ok := deps.Quotes.(handlers.CacheClearer); ok {
		clearer = c
	}
	opsHandler := handlers.NewOpsHandler(clearer)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Operations
	ops := v1.Group("/ops")
	ops.Use(middleware.AdminAuthMiddleware(deps.AdminAPIKey))
	ops.POST("/quote-cache/clear", opsHandler.ClearQuoteCache)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/login", authHandler.UpdateLogin)
	protected.PUT("/profile/password", authHandler.UpdatePassword)

	protected.GET("/dashboard", dashboardHandler.GetDashboard)
	protected.GET("/transactions", recordHandler.ListRecords)

	for _, route := range tradedRoutes {
		h := handlers.NewHoldingHandler(route.class, holdingService, quoteService, auditService)
		g := protected.Group("/" + route.path)
		g.GET("", h.ListHoldings)
		g.POST("", h.Buy)
		g.GET("/catalog", h.Catalog)
		g.GET("/quote/:ticker", h.Quote)
		g.GET("/:id", h.GetHolding)
		g.POST("/:id/sell", h.Sell)
	}

	fixedIncome := protected.Group("/fixed-income")
	fixedIncome.GET("", fixedIncomeHandler.ListHoldings)
	fixedIncome.POST("", fixedIncomeHandler.Apply)
	fixedIncome.GET("/reference-rate", fixedIncomeHandler.ReferenceRate)
	fixedIncome.GET("/:id", fixedIncomeHandler.GetHolding)
	fixedIncome.POST("/:id/redeem", fixedIncomeHandler.Redeem)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.AdminKeyHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
