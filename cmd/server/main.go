package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"carpool-backend-go/internal/api"
	"carpool-backend-go/internal/cache"
	"carpool-backend-go/internal/config"
	"carpool-backend-go/internal/core"
	"carpool-backend-go/internal/db"
	"carpool-backend-go/internal/middleware"
	"carpool-backend-go/internal/routing"
	"carpool-backend-go/internal/store"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- Firebase Admin SDK (Realtime Database + Auth) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()

	firebaseApp, err := store.NewFirebaseApp(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	firebaseAuthClient, err := firebaseApp.Auth(initCtx)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Auth client", zap.Error(err))
	}
	dataStore, err := store.NewFirebaseStore(initCtx, firebaseApp, appConfig.StorePollInterval, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Realtime Database store", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Realtime Database, Auth) initialized successfully.")

	// --- Repositories ---
	userRepo := db.NewUserRepository(dataStore)
	groupRepo := db.NewGroupRepository(dataStore)
	rideRepo := db.NewRideRepository(dataStore)
	routeRepo := db.NewRouteRepository(dataStore)
	chatRepo := db.NewChatRepository(dataStore)
	zapLogger.Info("Repositories initialized successfully.")

	// --- Route planner, optionally memoized through Redis ---
	var planner routing.Planner = routing.NewOSRMClient(appConfig.OSRMEndpoint)
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis (unset REDIS_ADDR to run without the route cache)", zap.Error(err))
		}
		defer redisCache.Close()
		planner = routing.NewCachedPlanner(planner, redisCache, appConfig.RouteCacheTTL, zapLogger)
		zapLogger.Info("Route cache enabled", zap.String("redisAddr", appConfig.RedisAddr))
	} else {
		zapLogger.Warn("Route cache disabled: REDIS_ADDR is not configured. Every recompute hits the routing provider.")
	}

	// --- Core services ---
	userService := core.NewUserService(userRepo, zapLogger)
	groupService := core.NewGroupService(groupRepo, zapLogger)
	rideService := core.NewRideService(rideRepo, routeRepo, userRepo, planner, zapLogger)
	chatService := core.NewChatService(chatRepo, zapLogger)
	zapLogger.Info("Core services initialized successfully.")

	// --- Gin HTTP engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// Order matters: log first, then recover, then CORS.
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	api.SetupRoutes(router, appConfig, zapLogger, firebaseAuthClient, userService, groupService, rideService, chatService)

	// --- HTTP server with graceful shutdown ---
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Port),
		Handler: router,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("CRITICAL_ERROR: HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited.")
}
