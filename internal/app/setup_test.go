package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"carteira/internal/ledger"
	"carteira/internal/logger"
	"carteira/internal/quotes"
	"carteira/internal/testutil"
	"carteira/internal/validator"
)

const testAdminKey = "ops-secret"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Quotes *stubProvider
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// stubProvider serves fixed market data.
type stubProvider struct {
	rate    decimal.Decimal
	cleared int
}

func (p *stubProvider) Quote(_ context.Context, _ ledger.AssetClass, ticker string) (*quotes.Quote, error) {
	if ticker == "XXXX" {
		return nil, quotes.ErrNotFound
	}
	return &quotes.Quote{Ticker: ticker, Name: "Company " + ticker, Price: decimal.NewFromInt(10)}, nil
}

func (p *stubProvider) List(_ context.Context, class ledger.AssetClass) ([]quotes.Listing, error) {
	if class == ledger.Crypto {
		return []quotes.Listing{{Ticker: "BTC", Name: "Bitcoin"}}, nil
	}
	return []quotes.Listing{{Ticker: "PETR4", Name: "Petrobras"}, {Ticker: "VALE3", Name: "Vale"}}, nil
}

func (p *stubProvider) ReferenceRate(context.Context) (decimal.Decimal, error) {
	return p.rate, nil
}

func (p *stubProvider) Clear() { p.cleared++ }

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	provider := &stubProvider{rate: decimal.RequireFromString("10.75")}
	router := NewRouter(Deps{
		DB:          db,
		Quotes:      provider,
		IndexSpread: ledger.DefaultIndexSpread,
		AdminAPIKey: testAdminKey,
	})
	return &testApp{DB: db, Router: router, Quotes: provider}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) requestWithHeader(method, path, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(header, value)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// decimalField reads a decimal encoded as a JSON string.
func decimalField(t *testing.T, obj map[string]interface{}, key string) decimal.Decimal {
	t.Helper()
	s, ok := obj[key].(string)
	if !ok {
		t.Fatalf("expected %s to be a decimal string, got %v", key, obj[key])
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %s=%q: %v", key, s, err)
	}
	return d
}

func assertDecimal(t *testing.T, obj map[string]interface{}, key, want string) {
	t.Helper()
	if got := decimalField(t, obj, key); !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s=%s, got %s", key, want, got)
	}
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, login, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"login":%q,"password":%q,"confirm_password":%q}`, login, password, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, login, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"login":%q,"password":%q}`, login, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}
