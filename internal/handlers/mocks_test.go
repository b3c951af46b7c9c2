package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"carteira/internal/ledger"
	"carteira/internal/middleware"
	"carteira/internal/models"
	"carteira/internal/pagination"
	"carteira/internal/quotes"
	"carteira/internal/services"
	"carteira/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn            func(login, password, confirm string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	attemptLoginFn          func(login, password string) (*models.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
	renameUserFn            func(userID, login string) (*models.User, error)
	changePasswordFn        func(userID, password, confirm string) error
}

func (m *mockUserService) CreateUser(login, password, confirm string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(login, password, confirm)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByLogin(login string) (*models.User, error) {
	return &models.User{Login: login}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) VerifyPassword(*models.User, string) bool {
	return true
}

func (m *mockUserService) AttemptLogin(login, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(login, password)
	}
	return &models.User{Login: login}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func (m *mockUserService) RenameUser(userID, login string) (*models.User, error) {
	if m.renameUserFn != nil {
		return m.renameUserFn(userID, login)
	}
	return &models.User{Base: models.Base{ID: userID}, Login: login}, nil
}

func (m *mockUserService) ChangePassword(userID, password, confirm string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(userID, password, confirm)
	}
	return nil
}

type mockHoldingService struct {
	buyFn  func(uc services.UserContext, class ledger.AssetClass, in services.BuyInput) (*services.TradeResult, error)
	sellFn func(uc services.UserContext, class ledger.AssetClass, id string, qty, price decimal.Decimal) (*services.TradeResult, error)
	listFn func(uc services.UserContext, class ledger.AssetClass, sort string) ([]models.Holding, error)
	getFn  func(uc services.UserContext, class ledger.AssetClass, id string) (*models.Holding, error)
}

func (m *mockHoldingService) Buy(_ context.Context, uc services.UserContext, class ledger.AssetClass, in services.BuyInput) (*services.TradeResult, error) {
	if m.buyFn != nil {
		return m.buyFn(uc, class, in)
	}
	return &services.TradeResult{Holding: &models.Holding{}, Record: &models.TransactionRecord{}}, nil
}

func (m *mockHoldingService) Sell(_ context.Context, uc services.UserContext, class ledger.AssetClass, id string, qty, price decimal.Decimal) (*services.TradeResult, error) {
	if m.sellFn != nil {
		return m.sellFn(uc, class, id, qty, price)
	}
	return &services.TradeResult{Holding: &models.Holding{}, Record: &models.TransactionRecord{}}, nil
}

func (m *mockHoldingService) ListHoldings(_ context.Context, uc services.UserContext, class ledger.AssetClass, sort string) ([]models.Holding, error) {
	if m.listFn != nil {
		return m.listFn(uc, class, sort)
	}
	return []models.Holding{}, nil
}

func (m *mockHoldingService) GetHolding(_ context.Context, uc services.UserContext, class ledger.AssetClass, id string) (*models.Holding, error) {
	if m.getFn != nil {
		return m.getFn(uc, class, id)
	}
	return &models.Holding{}, nil
}

type mockFixedIncomeService struct {
	applyFn  func(uc services.UserContext, in ledger.FixedIncomePurchase) (*services.FixedIncomeResult, error)
	redeemFn func(uc services.UserContext, id string, value decimal.Decimal) (*services.FixedIncomeResult, error)
	listFn   func(uc services.UserContext, sort string) ([]models.FixedIncomeHolding, error)
	getFn    func(uc services.UserContext, id string) (*models.FixedIncomeHolding, error)
}

func (m *mockFixedIncomeService) Apply(_ context.Context, uc services.UserContext, in ledger.FixedIncomePurchase) (*services.FixedIncomeResult, error) {
	if m.applyFn != nil {
		return m.applyFn(uc, in)
	}
	return &services.FixedIncomeResult{Holding: &models.FixedIncomeHolding{}, Record: &models.TransactionRecord{}}, nil
}

func (m *mockFixedIncomeService) Redeem(_ context.Context, uc services.UserContext, id string, value decimal.Decimal) (*services.FixedIncomeResult, error) {
	if m.redeemFn != nil {
		return m.redeemFn(uc, id, value)
	}
	return &services.FixedIncomeResult{Holding: &models.FixedIncomeHolding{}, Record: &models.TransactionRecord{}}, nil
}

func (m *mockFixedIncomeService) ListHoldings(_ context.Context, uc services.UserContext, sort string) ([]models.FixedIncomeHolding, error) {
	if m.listFn != nil {
		return m.listFn(uc, sort)
	}
	return []models.FixedIncomeHolding{}, nil
}

func (m *mockFixedIncomeService) GetHolding(_ context.Context, uc services.UserContext, id string) (*models.FixedIncomeHolding, error) {
	if m.getFn != nil {
		return m.getFn(uc, id)
	}
	return &models.FixedIncomeHolding{}, nil
}

type mockQuoteService struct {
	lookupFn  func(class ledger.AssetClass, ticker string) (*quotes.Quote, error)
	catalogFn func(class ledger.AssetClass) ([]quotes.Listing, error)
	rateFn    func() (decimal.Decimal, error)
}

func (m *mockQuoteService) Lookup(_ context.Context, class ledger.AssetClass, ticker string) (*quotes.Quote, error) {
	if m.lookupFn != nil {
		return m.lookupFn(class, ticker)
	}
	return &quotes.Quote{Ticker: ticker}, nil
}

func (m *mockQuoteService) Catalog(_ context.Context, class ledger.AssetClass) ([]quotes.Listing, error) {
	if m.catalogFn != nil {
		return m.catalogFn(class)
	}
	return []quotes.Listing{}, nil
}

func (m *mockQuoteService) ReferenceRate(context.Context) (decimal.Decimal, error) {
	if m.rateFn != nil {
		return m.rateFn()
	}
	return decimal.Zero, nil
}

type mockRecordService struct {
	listFn func(uc services.UserContext, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionRecord], error)
}

func (m *mockRecordService) ListRecords(_ context.Context, uc services.UserContext, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionRecord], error) {
	if m.listFn != nil {
		return m.listFn(uc, page)
	}
	resp := pagination.NewPageResponse[models.TransactionRecord](nil, 1, pagination.DefaultPageSize, 0)
	return &resp, nil
}

type mockDashboardService struct {
	getFn func(uc services.UserContext, now time.Time) (*services.Dashboard, error)
}

func (m *mockDashboardService) GetDashboard(_ context.Context, uc services.UserContext, now time.Time) (*services.Dashboard, error) {
	if m.getFn != nil {
		return m.getFn(uc, now)
	}
	return &services.Dashboard{}, nil
}

type auditEntry struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID})
}

// --- test helpers ---

const (
	testUserID    = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"
	testHoldingID = "0190a1b2-c3d4-7e5f-8a9b-000000000001"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUser(userID, login string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.LoginKey, login)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
