package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/internal/cache"
	"github.com/mentorlink/mentorlink-api/internal/database/memory"
	"github.com/mentorlink/mentorlink-api/internal/database/postgres"
	"github.com/mentorlink/mentorlink-api/internal/handlers"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/internal/services"
	"github.com/mentorlink/mentorlink-api/pkg/db"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"github.com/mentorlink/mentorlink-api/pkg/objstore"
	"github.com/mentorlink/mentorlink-api/pkg/profiling"
	"github.com/mentorlink/mentorlink-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerRoutes wires the versioned API surface onto the router
func registerRoutes(
	router *gin.Engine,
	generalRateLimiter, authRateLimiter, profileRateLimiter *middleware.RateLimiter,
	authService services.AuthServiceInterface,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	mentorHandler *handlers.MentorHandler,
	matchHandler *handlers.MatchRequestsHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Operational endpoints (not versioned)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/signup", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.Signup)
	v1.POST("/login", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.Login)

	// Authenticated routes
	authed := v1.Group("")
	authed.Use(generalRateLimiter.Middleware(), middleware.AuthMiddleware(authService))

	authed.POST("/logout", authHandler.Logout)
	authed.GET("/me", authHandler.Me)

	authed.PUT("/profile", profileRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), profileHandler.UpdateProfile)
	authed.POST("/profile/picture", profileRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(2*1024*1024), profileHandler.UploadPicture)

	authed.GET("/mentors", middleware.RequireRole(models.RoleMentee), mentorHandler.ListMentors)

	requests := authed.Group("/match-requests")
	requests.POST("", middleware.RequireRole(models.RoleMentee), middleware.BodySizeLimitMiddleware(100*1024), matchHandler.Create)
	requests.GET("/incoming", middleware.RequireRole(models.RoleMentor), matchHandler.ListIncoming)
	requests.GET("/outgoing", middleware.RequireRole(models.RoleMentee), matchHandler.ListOutgoing)
	requests.POST("/:id/decide", middleware.RequireRole(models.RoleMentor), middleware.BodySizeLimitMiddleware(100*1024), matchHandler.Decide)
	requests.DELETE("/:id", middleware.RequireRole(models.RoleMentee), matchHandler.Cancel)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting MentorLink API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	// Continuous profiling is opt-in
	if cfg.Profiling.Enabled {
		stopProfiler, profErr := profiling.InitProfiler(
			profiling.Config{
				Enabled:               cfg.Profiling.Enabled,
				Endpoint:              cfg.Profiling.Endpoint,
				AppName:               cfg.Profiling.AppName,
				SampleTypes:           cfg.Profiling.SampleTypes,
				UploadIntervalSeconds: cfg.Profiling.UploadIntervalSeconds,
			},
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv,
		)
		if profErr != nil {
			logger.Error("Failed to initialize profiler", zap.Error(profErr))
		} else {
			defer stopProfiler()
		}
	}

	// Select the store backend. Offline mode keeps everything in process,
	// which is how local development and CI run without a database.
	var store repository.Store
	if cfg.Database.WorkOffline {
		logger.Warn("Running with the in-memory store - all data is lost on restart")
		store = memory.NewStore()
	} else {
		pool, poolErr := db.NewPool(context.Background(), db.PoolConfig{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if poolErr != nil {
			logger.Fatal("Failed to initialize database connection pool", zap.Error(poolErr))
		}
		defer pool.Close()
		store = postgres.NewClient(pool)
	}

	// Object storage for profile pictures, optional
	var storageClient *objstore.Client
	if cfg.ObjectStorageConfigured() {
		storageClient, err = objstore.NewClient(
			cfg.ObjectStorage.AccessKeyID,
			cfg.ObjectStorage.SecretAccessKey,
			cfg.ObjectStorage.BucketName,
			cfg.ObjectStorage.Endpoint,
			cfg.ObjectStorage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
	} else {
		logger.Warn("Object storage not configured - profile picture uploads disabled")
	}

	// Session plumbing
	tokenManager := jwt.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.SessionTTLHours)
	revokedCache := cache.NewRevokedSessionCache(cfg.Cache.RevokedTTLSeconds)

	// Mentor directory snapshot cache, populated before accepting requests
	var mentorCache *cache.MentorCache
	if cfg.Cache.DisableMentorsCache {
		logger.Warn("Mentor cache is DISABLED - reading from the store on every directory request")
	} else {
		mentorCache = cache.NewMentorCache(store.ListMentors, cfg.Cache.MentorTTLSeconds)
		if err := mentorCache.Initialize(); err != nil {
			logger.Fatal("Failed to initialize mentor cache", zap.Error(err))
		}
	}

	// Initialize services
	authService := services.NewAuthService(store, store, revokedCache, tokenManager)
	mentorService := services.NewMentorService(store, mentorCache)
	profileService := services.NewProfileService(store, storageClient, mentorService)
	matchService := services.NewMatchService(store, store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	mentorHandler := handlers.NewMentorHandler(mentorService)
	matchHandler := handlers.NewMatchRequestsHandler(matchService)
	healthHandler := handlers.NewHealthHandler(store.Ping)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Separate limits per endpoint class: login and signup are the abuse
	// targets, profile writes are bursty, reads are cheap.
	generalRateLimiter := middleware.NewRateLimiter(100, 200)
	authRateLimiter := middleware.NewRateLimiter(5, 10)
	profileRateLimiter := middleware.NewRateLimiter(10, 20)

	registerRoutes(router, generalRateLimiter, authRateLimiter, profileRateLimiter,
		authService, authHandler, profileHandler, mentorHandler, matchHandler, healthHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
