package main

import (
	"fmt"
	"net/http"
	"os"

	"defter/internal/config"
	"defter/internal/database"
	"defter/internal/handlers"
	"defter/internal/logger"
	"defter/internal/middleware"
	"defter/internal/services"
	"defter/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "defter/internal/docs" // Import swagger docs
)

// @title           Defter API
// @version         1.0
// @description     Defter is a double-entry bookkeeping ledger: chart of accounts, balanced journal entries, fiscal period closing, and financial reports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

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

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	balanceService := services.NewBalanceService(db)
	accountService := services.NewAccountService(db, balanceService)
	periodService := services.NewPeriodService(db)
	journalService := services.NewJournalService(db, periodService)
	cacheService := services.NewBalanceCacheService(db)
	reportService := services.NewReportService(db, appConfig.IncomeCodePrefix, appConfig.ExpenseCodePrefix)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService)
	periodHandler := handlers.NewPeriodHandler(periodService)
	journalHandler := handlers.NewJournalHandler(journalService)
	reportHandler := handlers.NewReportHandler(reportService, cacheService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Liveness probes
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "PING OK")
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Chart of accounts
	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/balance", accountHandler.GetAccountBalance)

	// Fiscal periods
	periods := v1.Group("/periods")
	periods.GET("", periodHandler.ListPeriods)
	periods.POST("/close", periodHandler.ClosePeriod)
	periods.POST("/reopen", periodHandler.ReopenPeriod)

	// Journal entries
	entries := v1.Group("/entries")
	entries.POST("", journalHandler.CreateEntry)
	entries.GET("", journalHandler.ListEntries)
	entries.GET("/:id", journalHandler.GetEntry)
	entries.PUT("/:id", journalHandler.UpdateEntry)
	entries.POST("/:id/post", journalHandler.PostEntry)
	entries.DELETE("/:id", journalHandler.DeleteEntry)

	// Reports
	reports := v1.Group("/reports")
	reports.GET("/trial-balance", reportHandler.TrialBalance)
	reports.GET("/balance-sheet/:year", reportHandler.BalanceSheet)
	reports.GET("/income-statement/:year", reportHandler.IncomeStatement)

	// Monthly balance cache
	balances := v1.Group("/balances")
	balances.GET("", reportHandler.ListMonthlyBalances)
	balances.POST("/rebuild", reportHandler.RebuildMonthlyBalances)

	log.Infof("Starting defter backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
