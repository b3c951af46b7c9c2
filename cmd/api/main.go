package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/shopspring/decimal"

	"carteira/internal/app"
	"carteira/internal/config"
	"carteira/internal/database"
	"carteira/internal/logger"
	"carteira/internal/quotes"
	"carteira/internal/validator"
)

// @title           Carteira API
// @version         1.0
// @description     Carteira tracks a personal portfolio of stocks, cryptocurrencies, real-estate funds and fixed-income applications.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	spread, err := decimal.NewFromString(appConfig.IndexSpread)
	if err != nil {
		return fmt.Errorf("invalid INDEX_SPREAD %q: %w", appConfig.IndexSpread, err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	brapi := quotes.NewBrapiClient(&http.Client{Timeout: appConfig.QuoteTimeout}, appConfig.QuoteBaseURL, appConfig.QuoteToken)
	provider, err := quotes.NewCachedProvider(brapi, appConfig.QuoteCacheCost, appConfig.QuoteCacheTTL)
	if err != nil {
		return fmt.Errorf("failed to create quote cache: %w", err)
	}
	defer provider.Close()

	validator.Register()

	router := app.NewRouter(app.Deps{
		DB:          dbManager.DB(),
		Quotes:      provider,
		IndexSpread: spread,
		AdminAPIKey: appConfig.AdminAPIKey,
	})

	log.Infof("Starting Carteira API on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
