package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"defter/internal/handlers"
	"defter/internal/logger"
	"defter/internal/middleware"
	"defter/internal/models"
	"defter/internal/services"
	"defter/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Account{},
		&models.FiscalPeriod{},
		&models.JournalEntry{},
		&models.JournalLine{},
		&models.AccountBalance{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	balanceService := services.NewBalanceService(db)
	accountService := services.NewAccountService(db, balanceService)
	periodService := services.NewPeriodService(db)
	journalService := services.NewJournalService(db, periodService)
	cacheService := services.NewBalanceCacheService(db)
	reportService := services.NewReportService(db, "6", "7")

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService)
	periodHandler := handlers.NewPeriodHandler(periodService)
	journalHandler := handlers.NewJournalHandler(journalService)
	reportHandler := handlers.NewReportHandler(reportService, cacheService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/balance", accountHandler.GetAccountBalance)

	periods := v1.Group("/periods")
	periods.GET("", periodHandler.ListPeriods)
	periods.POST("/close", periodHandler.ClosePeriod)
	periods.POST("/reopen", periodHandler.ReopenPeriod)

	entries := v1.Group("/entries")
	entries.POST("", journalHandler.CreateEntry)
	entries.GET("", journalHandler.ListEntries)
	entries.GET("/:id", journalHandler.GetEntry)
	entries.PUT("/:id", journalHandler.UpdateEntry)
	entries.POST("/:id/post", journalHandler.PostEntry)
	entries.DELETE("/:id", journalHandler.DeleteEntry)

	reports := v1.Group("/reports")
	reports.GET("/trial-balance", reportHandler.TrialBalance)
	reports.GET("/balance-sheet/:year", reportHandler.BalanceSheet)
	reports.GET("/income-statement/:year", reportHandler.IncomeStatement)

	balances := v1.Group("/balances")
	balances.GET("", reportHandler.ListMonthlyBalances)
	balances.POST("/rebuild", reportHandler.RebuildMonthlyBalances)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
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

// createAccount creates an account through the API and returns its ID.
func (app *testApp) createAccount(t *testing.T, code, name, accountType string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"code":%q,"name":%q,"type":%q}`, code, name, accountType)
	rec := app.request("POST", "/api/v1/accounts", body)
	if rec.Code != 201 {
		t.Fatalf("create account %s failed: %d %s", code, rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	return account["id"].(float64)
}

// createEntry creates a draft entry through the API and returns its ID.
func (app *testApp) createEntry(t *testing.T, date, description string, lines string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"date":%q,"description":%q,"lines":%s}`, date, description, lines)
	rec := app.request("POST", "/api/v1/entries", body)
	if rec.Code != 201 {
		t.Fatalf("create entry failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	entry := result["entry"].(map[string]interface{})
	return entry["id"].(float64)
}

// postEntry posts a draft entry through the API.
func (app *testApp) postEntry(t *testing.T, id float64) {
	t.Helper()
	rec := app.request("POST", fmt.Sprintf("/api/v1/entries/%.0f/post", id), "")
	if rec.Code != 200 {
		t.Fatalf("post entry failed: %d %s", rec.Code, rec.Body.String())
	}
}

// assertErrorCode checks the error envelope of a failed response.
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
