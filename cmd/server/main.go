package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pindropapp/pindrop/internal/config"
	"github.com/pindropapp/pindrop/internal/database"
	"github.com/pindropapp/pindrop/internal/handlers"
	"github.com/pindropapp/pindrop/internal/logging"
	"github.com/pindropapp/pindrop/internal/middleware"
	"github.com/pindropapp/pindrop/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
	}

	logger.Info("Starting Pindrop server...")

	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	// Services
	dbAdapter := services.NewPoolAdapter(db.Pool)
	redisAdapter := services.NewRedisAdapter(redisDB.Client)

	userService := services.NewUserService(dbAdapter)
	authService := services.NewAuthService(dbAdapter, redisAdapter,
		cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	friendService := services.NewFriendService(dbAdapter)
	accessService := services.NewAccessService(dbAdapter)
	pinService := services.NewPinService(dbAdapter, accessService)
	categoryService := services.NewCategoryService(dbAdapter, accessService)
	shareService := services.NewShareService(dbAdapter, friendService, logger)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, redisDB)
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	friendHandler := handlers.NewFriendHandler(friendService)
	pinHandler := handlers.NewPinHandler(pinService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, pinService)
	shareHandler := handlers.NewShareHandler(shareService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, userService)
	requestLogger := middleware.NewRequestLogger(logger)
	authRateLimiter := middleware.NewAuthRateLimiter(redisDB.Client)
	apiRateLimiter := middleware.NewAPIRateLimiter(redisDB.Client)

	requireAuth := authMiddleware.RequireAuth

	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Auth endpoints
	mux.Handle("POST /api/v1/auth/register", authRateLimiter.Limit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", authRateLimiter.Limit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/v1/auth/refresh", authRateLimiter.Limit(http.HandlerFunc(authHandler.Refresh)))
	mux.Handle("POST /api/v1/auth/logout", http.HandlerFunc(authHandler.Logout))
	mux.Handle("GET /api/v1/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))

	// User endpoints
	mux.Handle("PUT /api/v1/users/me", requireAuth(http.HandlerFunc(userHandler.UpdateProfile)))
	mux.Handle("PUT /api/v1/users/me/password", requireAuth(http.HandlerFunc(userHandler.ChangePassword)))
	mux.Handle("GET /api/v1/users/search", requireAuth(http.HandlerFunc(userHandler.Search)))

	// Friend endpoints
	mux.Handle("GET /api/v1/friends", requireAuth(http.HandlerFunc(friendHandler.List)))
	mux.Handle("GET /api/v1/friends/requests", requireAuth(http.HandlerFunc(friendHandler.ListPending)))
	mux.Handle("POST /api/v1/friends/requests", requireAuth(http.HandlerFunc(friendHandler.SendRequest)))
	mux.Handle("PUT /api/v1/friends/requests/{id}/accept", requireAuth(http.HandlerFunc(friendHandler.AcceptRequest)))
	mux.Handle("PUT /api/v1/friends/requests/{id}/reject", requireAuth(http.HandlerFunc(friendHandler.RejectRequest)))
	mux.Handle("DELETE /api/v1/friends/{id}", requireAuth(http.HandlerFunc(friendHandler.Remove)))

	// Pin endpoints
	mux.Handle("POST /api/v1/pins", requireAuth(http.HandlerFunc(pinHandler.Create)))
	mux.Handle("GET /api/v1/pins", requireAuth(http.HandlerFunc(pinHandler.List)))
	mux.Handle("GET /api/v1/pins/public", http.HandlerFunc(pinHandler.ListPublic))
	mux.Handle("GET /api/v1/pins/{id}", requireAuth(http.HandlerFunc(pinHandler.Get)))
	mux.Handle("PUT /api/v1/pins/{id}", requireAuth(http.HandlerFunc(pinHandler.Update)))
	mux.Handle("DELETE /api/v1/pins/{id}", requireAuth(http.HandlerFunc(pinHandler.Delete)))

	// Category endpoints
	mux.Handle("POST /api/v1/categories", requireAuth(http.HandlerFunc(categoryHandler.Create)))
	mux.Handle("GET /api/v1/categories", requireAuth(http.HandlerFunc(categoryHandler.List)))
	mux.Handle("GET /api/v1/categories/public", http.HandlerFunc(categoryHandler.ListPublic))
	mux.Handle("GET /api/v1/categories/{id}", requireAuth(http.HandlerFunc(categoryHandler.Get)))
	mux.Handle("GET /api/v1/categories/{id}/pins", requireAuth(http.HandlerFunc(categoryHandler.GetPins)))
	mux.Handle("PUT /api/v1/categories/{id}", requireAuth(http.HandlerFunc(categoryHandler.Update)))
	mux.Handle("DELETE /api/v1/categories/{id}", requireAuth(http.HandlerFunc(categoryHandler.Delete)))

	// Share endpoints
	mux.Handle("POST /api/v1/pins/{id}/share", requireAuth(http.HandlerFunc(shareHandler.SharePin)))
	mux.Handle("POST /api/v1/pins/{id}/share/all", requireAuth(http.HandlerFunc(shareHandler.SharePinWithAllFriends)))
	mux.Handle("DELETE /api/v1/pins/{id}/share", requireAuth(http.HandlerFunc(shareHandler.UnsharePin)))
	mux.Handle("GET /api/v1/pins/{id}/shares", requireAuth(http.HandlerFunc(shareHandler.GetPinShares)))
	mux.Handle("POST /api/v1/categories/{id}/share", requireAuth(http.HandlerFunc(shareHandler.ShareCategory)))
	mux.Handle("DELETE /api/v1/categories/{id}/share", requireAuth(http.HandlerFunc(shareHandler.UnshareCategory)))
	mux.Handle("GET /api/v1/categories/{id}/shares", requireAuth(http.HandlerFunc(shareHandler.GetCategoryShares)))
	mux.Handle("GET /api/v1/shared", requireAuth(http.HandlerFunc(shareHandler.ListSharedWithMe)))

	// Middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = apiRateLimiter.Limit(handler)
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
