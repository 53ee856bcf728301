package main

import (
	"context"

	_ "tindahan/api/swagger" // swagger docs
	"tindahan/internal/config"
	"tindahan/internal/database"
	"tindahan/internal/handler"
	"tindahan/internal/middleware"
	"tindahan/internal/repository"
	"tindahan/internal/service"
	"tindahan/internal/websocket"
	"tindahan/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Tindahan Store API
// @version         1.0
// @description     Backend for a single-operator grocery store: catalog, stock ledger, credit sales, expenses and reports.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load("configs/.env")
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.NewConnection(cfg.Store.DBPath)
	if err != nil {
		log.Fatal("failed to open store database", zap.Error(err), zap.String("path", cfg.Store.DBPath))
	}
	log.Info("store database ready", zap.String("path", cfg.Store.DBPath))

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	itemRepo := repository.NewItemRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	creditRepo := repository.NewCreditSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	if _, err := service.SeedOperator(context.Background(), operatorRepo, cfg.Security.OperatorUsername, cfg.Security.OperatorPassword); err != nil {
		log.Fatal("failed to seed operator account", zap.Error(err))
	}

	catalogService := service.NewCatalogService(itemRepo, auditRepo, txManager, cfg.Pricing)
	stockService := service.NewStockService(itemRepo, movementRepo, creditRepo, auditRepo, txManager, catalogService, wsHub)
	creditService := service.NewCreditService(creditRepo, auditRepo, txManager)
	expenseService := service.NewExpenseService(expenseRepo, auditRepo, txManager)
	transferService := service.NewTransferService(itemRepo, auditRepo, txManager)
	reportService := service.NewReportService(itemRepo, movementRepo, expenseRepo)
	authService := service.NewAuthService(operatorRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, transferService)
	stockHandler := handler.NewStockHandler(stockService)
	creditHandler := handler.NewCreditHandler(creditService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.New()
	router.Use(middleware.Logger(log), gin.Recovery())

	// CORS configuration; the desktop UI serves its pages from localhost
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	stockHandler.RegisterRoutes(router.Group(""))
	creditHandler.RegisterRoutes(router.Group(""))
	expenseHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	log.Info("server listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
