package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/audit"
	"github.com/vidora-labs/vidora/api/auth"
	"github.com/vidora-labs/vidora/api/config"
	"github.com/vidora-labs/vidora/api/controller"
	"github.com/vidora-labs/vidora/api/db"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/router"
	"github.com/vidora-labs/vidora/api/service"
	"github.com/vidora-labs/vidora/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger("logging")
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	// Initialize token service
	tokenService, err := auth.NewTokenService(
		config.GetString("auth.jwtSecret"),
		config.GetDuration("auth.accessTokenTTL"),
		config.GetDuration("auth.refreshTokenTTL"),
		auth.RedisRevocationStore{},
	)
	if err != nil {
		logger.Fatal("Failed to initialize token service", zap.Error(err))
	}

	// Plan table, loaded once at startup
	planQuotas := map[string]int{
		"free":    config.GetInt("billing.plans.free"),
		"creator": config.GetInt("billing.plans.creator"),
		"studio":  config.GetInt("billing.plans.studio"),
	}

	// Initialize services
	services, err := service.InitializeServices(
		db.Neo4jDriver,
		auditService,
		validationUtil,
		cacheService,
		notificationService,
		eventBus,
		config.GetString("quota.upgradeURL"),
		planQuotas,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Initialize controllers
	controllers := controller.InitializeControllers(services, tokenService, auditService)

	// Route limits, loaded once at startup; unmatched routes fall back
	// to the default
	rateLimits := &middleware.RateLimitTable{
		Default: middleware.RouteLimit{
			Limit:  config.GetInt("ratelimit.defaultLimit"),
			Window: config.GetDuration("ratelimit.defaultWindow"),
		},
		Rules: []middleware.RouteRule{
			{Prefix: "/auth", RouteLimit: middleware.RouteLimit{Limit: 20, Window: time.Minute}},
			{Prefix: "/video/render", RouteLimit: middleware.RouteLimit{Limit: 10, Window: time.Minute}},
			{Prefix: "/audio/generate", RouteLimit: middleware.RouteLimit{Limit: 10, Window: time.Minute}},
			{Prefix: "/writer/generate", RouteLimit: middleware.RouteLimit{Limit: 30, Window: time.Minute}},
			{Prefix: "/remotion/render", RouteLimit: middleware.RouteLimit{Limit: 10, Window: time.Minute}},
		},
	}

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(controllers, tokenService, services.APIKey, rateLimits)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
