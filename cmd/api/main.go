package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spinquest/spinwheel-backend/api/routes"
	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/handlers"
	mongorepo "github.com/spinquest/spinwheel-backend/internal/repositories/mongodb"
	"github.com/spinquest/spinwheel-backend/internal/services"
	"github.com/spinquest/spinwheel-backend/pkg/mongodb"
	"golang.org/x/exp/slog"
)

func main() {
	// Load .env if present; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is not configured")
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Connect to MongoDB using the pkg helper
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if err := mongorepo.EnsureIndexes(startupCtx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize repositories
	prizeRepo := mongorepo.NewPrizeRepository(db)
	tokenRepo := mongorepo.NewTokenRepository(db)
	resultRepo := mongorepo.NewSpinResultRepository(db)
	adminRepo := mongorepo.NewAdminRepository(db)

	// Initialize services
	prizeService := services.NewPrizeService(prizeRepo)
	tokenService := services.NewTokenService(tokenRepo, cfg.Token)
	spinService := services.NewSpinService(tokenService, prizeRepo, resultRepo, tokenRepo)
	authService := services.NewAuthService(adminRepo, cfg)
	adminService := services.NewAdminService(adminRepo)

	// Seed the superadmin account and the default prize table once
	if err := authService.EnsureSuperAdmin(startupCtx); err != nil {
		log.Fatalf("Failed to seed superadmin: %v", err)
	}
	if err := prizeService.EnsureInitialized(startupCtx); err != nil {
		log.Fatalf("Failed to seed prize table: %v", err)
	}

	// Initialize handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:  handlers.NewAuthHandler(authService),
		AdminHandler: handlers.NewAdminHandler(adminService),
		PrizeHandler: handlers.NewPrizeHandler(prizeService),
		TokenHandler: handlers.NewTokenHandler(tokenService),
		SpinHandler:  handlers.NewSpinHandler(spinService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Run server in a goroutine so that it doesn't block
	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}
