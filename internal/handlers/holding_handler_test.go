package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "carteira/internal/errors"
	"carteira/internal/ledger"
	"carteira/internal/models"
	"carteira/internal/quotes"
	"carteira/internal/services"
)

func setupHoldingRouter(handler *HoldingHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/stocks", injectUser(testUserID, "alice"))
	g.GET("", handler.ListHoldings)
	g.POST("", handler.Buy)
	g.GET("/catalog", handler.Catalog)
	g.GET("/quote/:ticker", handler.Quote)
	g.GET("/:id", handler.GetHolding)
	g.POST("/:id/sell", handler.Sell)
	return r
}

func TestHoldingHandler_Buy(t *testing.T) {
	t.Run("returns 201 and forwards the order", func(t *testing.T) {
		var got services.BuyInput
		var gotClass ledger.AssetClass
		var gotUser services.UserContext
		svc := &mockHoldingService{
			buyFn: func(uc services.UserContext, class ledger.AssetClass, in services.BuyInput) (*services.TradeResult, error) {
				got, gotClass, gotUser = in, class, uc
				return &services.TradeResult{
					Holding: &models.Holding{Base: models.Base{ID: testHoldingID}, Ticker: "PETR4"},
					Record:  &models.TransactionRecord{Kind: ledger.KindBuy},
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, svc, &mockQuoteService{}, audit))

		rec := doRequest(r, "POST", "/stocks",
			`{"ticker":"PETR4","quantity":10,"price":"1.234,50","purchase_date":"2024-03-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotClass != ledger.Stock || gotUser.UserID != testUserID || gotUser.Login != "alice" {
			t.Errorf("unexpected call %s %+v", gotClass, gotUser)
		}
		if !got.Quantity.Equal(decimal.NewFromInt(10)) || !got.UnitPrice.Equal(decimal.RequireFromString("1234.5")) {
			t.Errorf("unexpected amounts %s %s", got.Quantity, got.UnitPrice)
		}
		if !got.PurchaseDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected purchase date %s", got.PurchaseDate)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditBuy || audit.entries[0].resourceID != testHoldingID {
			t.Errorf("unexpected audit entries %v", audit.entries)
		}
	})

	t.Run("returns 400 on bad ticker", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, &mockHoldingService{}, &mockQuoteService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks", `{"ticker":"PE TR4","quantity":1,"price":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on bad amount", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, &mockHoldingService{}, &mockQuoteService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks", `{"ticker":"PETR4","quantity":"ten","price":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, &mockHoldingService{}, &mockQuoteService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks", `{"ticker":"PETR4","quantity":1,"price":1,"purchase_date":"01/03/2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("maps ledger violations", func(t *testing.T) {
		svc := &mockHoldingService{
			buyFn: func(services.UserContext, ledger.AssetClass, services.BuyInput) (*services.TradeResult, error) {
				return nil, apperrors.WithMessage(apperrors.ErrValidation, "Quantity must be greater than zero")
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, svc, &mockQuoteService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks", `{"ticker":"PETR4","quantity":0,"price":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "VALIDATION_FAILED")
		if msg := result["error"].(map[string]interface{})["message"]; msg != "Quantity must be greater than zero" {
			t.Errorf("unexpected message %v", msg)
		}
	})

	t.Run("maps upstream failures", func(t *testing.T) {
		svc := &mockHoldingService{
			buyFn: func(services.UserContext, ledger.AssetClass, services.BuyInput) (*services.TradeResult, error) {
				return nil, apperrors.ErrUpstreamUnavailable
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, svc, &mockQuoteService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks", `{"ticker":"PETR4","quantity":1,"price":1}`)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})
}

func TestHoldingHandler_Sell(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		var gotID string
		svc := &mockHoldingService{
			sellFn: func(_ services.UserContext, _ ledger.AssetClass, id string, _, _ decimal.Decimal) (*services.TradeResult, error) {
				gotID = id
				return &services.TradeResult{Holding: &models.Holding{}, Closed: true, Record: &models.TransactionRecord{}}, nil
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, svc, &mockQuoteService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks/"+testHoldingID+"/sell", `{"quantity":"10","price":"12,5"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != testHoldingID {
			t.Errorf("expected %s, got %s", testHoldingID, gotID)
		}
		if parseJSON(t, rec)["closed"] != true {
			t.Error("expected closed flag")
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, &mockHoldingService{}, &mockQuoteService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks/42/sell", `{"quantity":1,"price":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not owned", func(t *testing.T) {
		svc := &mockHoldingService{
			sellFn: func(services.UserContext, ledger.AssetClass, string, decimal.Decimal, decimal.Decimal) (*services.TradeResult, error) {
				return nil, apperrors.ErrHoldingNotFound
			},
		}
		r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, svc, &mockQuoteService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/stocks/"+testHoldingID+"/sell", `{"quantity":1,"price":1}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "HOLDING_NOT_FOUND")
	})
}

func TestHoldingHandler_List(t *testing.T) {
	var gotSort string
	svc := &mockHoldingService{
		listFn: func(_ services.UserContext, _ ledger.AssetClass, sort string) ([]models.Holding, error) {
			gotSort = sort
			return []models.Holding{{Ticker: "ITUB4"}, {Ticker: "VALE3"}}, nil
		},
	}
	r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, svc, &mockQuoteService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/stocks?sort=name_desc", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotSort != "name_desc" {
		t.Errorf("expected sort name_desc, got %q", gotSort)
	}
	if holdings := parseJSON(t, rec)["holdings"].([]interface{}); len(holdings) != 2 {
		t.Errorf("expected 2 holdings, got %d", len(holdings))
	}
}

func TestHoldingHandler_Get(t *testing.T) {
	svc := &mockHoldingService{
		getFn: func(_ services.UserContext, _ ledger.AssetClass, id string) (*models.Holding, error) {
			if id != testHoldingID {
				return nil, apperrors.ErrHoldingNotFound
			}
			return &models.Holding{Base: models.Base{ID: id}, Ticker: "PETR4"}, nil
		},
	}
	r := setupHoldingRouter(NewHoldingHandler(ledger.Stock, svc, &mockQuoteService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/stocks/"+testHoldingID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(r, "GET", "/stocks/0190a1b2-c3d4-7e5f-8a9b-0000000000ff", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHoldingHandler_Quotes(t *testing.T) {
	quoteSvc := &mockQuoteService{
		lookupFn: func(class ledger.AssetClass, ticker string) (*quotes.Quote, error) {
			if ticker == "XXXX" {
				return nil, apperrors.ErrQuoteNotFound
			}
			return &quotes.Quote{Ticker: ticker, Price: decimal.NewFromInt(10)}, nil
		},
		catalogFn: func(class ledger.AssetClass) ([]quotes.Listing, error) {
			if class != ledger.RealEstateFund {
				t.Errorf("expected fund catalog, got %s", class)
			}
			return []quotes.Listing{{Ticker: "HGLG11"}}, nil
		},
	}
	handler := NewHoldingHandler(ledger.RealEstateFund, &mockHoldingService{}, quoteSvc, &mockAuditService{})
	r := setupHoldingRouter(handler)

	rec := doRequest(r, "GET", "/stocks/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if listings := parseJSON(t, rec)["listings"].([]interface{}); len(listings) != 1 {
		t.Errorf("expected 1 listing, got %d", len(listings))
	}

	rec = doRequest(r, "GET", "/stocks/quote/HGLG11", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(r, "GET", "/stocks/quote/XXXX", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "QUOTE_NOT_FOUND")
}
