package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/backoffice/backend/internal/application/identity"
	numberingapp "github.com/backoffice/backend/internal/application/numbering"
	"github.com/backoffice/backend/internal/application/reporting"
	"github.com/backoffice/backend/internal/domain/numbering"
	"github.com/backoffice/backend/internal/domain/reconciliation"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
	"github.com/backoffice/backend/internal/interfaces/http/handler"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/backoffice/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting backoffice backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLevel := gormlogger.Silent
	if cfg.IsDevelopment() {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormLevel))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Token blacklist lives in Redis so logout revocation is shared
	// across instances. The middleware fails open when Redis is down.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = redisClient.Close()
	}()
	blacklist := auth.NewRedisTokenBlacklist(redisClient)
	log.Info("Token blacklist connected", zap.String("addr", cfg.Redis.Addr()))

	// Receipt attachment storage
	var receipts reporting.ReceiptURLResolver
	if cfg.Storage.Provider == "s3" {
		s3Storage, err := storage.NewS3ReceiptStorage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		receipts = s3Storage
		log.Info("S3 receipt storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		receipts = storage.NewStubReceiptStorage()
		log.Warn("Using stub receipt storage")
	}

	// Repositories
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	paymentRecordRepo := persistence.NewGormPaymentRecordRepository(db.DB)
	numberRegistry := persistence.NewGormDocumentNumberRegistry(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	engine := reconciliation.NewEngine(transactionRepo, salesOrderRepo, numberRegistry, customerRepo)
	reportService := reporting.NewService(engine, paymentRecordRepo, receipts, log)
	numberService := numberingapp.NewDocumentNumberService(
		numbering.NewAllocator(numberRegistry), numberRegistry, salesOrderRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	// HTTP server
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	ginEngine := gin.New()
	middleware.SetupValidator()
	ginEngine.Use(gin.Recovery())
	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(middleware.RequestLogger(log))
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig := middleware.DefaultCORSConfig()
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
		if len(cfg.HTTP.CORSAllowMethods) > 0 {
			corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
		}
		if len(cfg.HTTP.CORSAllowHeaders) > 0 {
			corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
		}
		ginEngine.Use(middleware.CORSWithConfig(corsConfig))
	}
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	systemHandler := handler.NewSystemHandler(db, log)
	ginEngine.GET("/health", systemHandler.Health)
	ginEngine.GET("/ready", systemHandler.Ready)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	ginEngine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	router.NewRouter(ginEngine, router.WithAPIVersion("v1")).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewReportHandler(reportService)).
		Register(handler.NewDocumentNumberHandler(numberService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
