package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "bank-recon/docs"
	"bank-recon/internal/config"
	"bank-recon/internal/handler"
	"bank-recon/internal/middleware"
	"bank-recon/internal/repository"
	"bank-recon/internal/service"
	"bank-recon/pkg/logger"
)

// @title Bank Reconciliation API
// @version 1.0
// @description API for reconciling uploaded bank statements against system payments

// @contact.name API Support
// @contact.email support@bank-recon.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting Bank Reconciliation Service")

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	logger.GetLogger().Info("Database connection established")

	paymentRepo := repository.NewPaymentRepository(db)
	reconRepo := repository.NewReconciliationRepository(db)

	paymentService := service.NewPaymentService(paymentRepo)
	reconService := service.NewReconciliationService(paymentRepo, reconRepo, cfg.Recon)

	paymentHandler := handler.NewPaymentHandler(paymentService)
	reconHandler := handler.NewReconciliationHandler(reconService)

	router := setupRouter(paymentHandler, reconHandler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.GetLogger().WithField("address", addr).Info("Server starting")

	if err := router.Run(addr); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to start server")
	}
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func setupRouter(paymentHandler *handler.PaymentHandler, reconHandler *handler.ReconciliationHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		payments := v1.Group("/payments")
		{
			payments.POST("", paymentHandler.CreatePayment)
			payments.POST("/bulk", paymentHandler.BulkCreatePayments)
			payments.GET("/:id", paymentHandler.GetPayment)
			payments.GET("", paymentHandler.GetPaymentsByDateRange)
		}

		reconciliation := v1.Group("/reconciliation")
		{
			reconciliation.POST("/upload", reconHandler.UploadStatement)
			reconciliation.GET("/runs/:run_id", reconHandler.GetRunStatus)
			reconciliation.GET("/runs/:run_id/summary", reconHandler.GetRunSummary)
			reconciliation.GET("/results", reconHandler.GetResultsByStatus)
			reconciliation.POST("/results/batch", reconHandler.BatchAction)
		}
	}

	return router
}
