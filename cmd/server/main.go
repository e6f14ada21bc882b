package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkfolio/internal/api"
	"inkfolio/internal/api/middleware"
	"inkfolio/internal/app/service"
	"inkfolio/internal/common/security"
	"inkfolio/internal/domain/repository"
	"inkfolio/internal/platform/assets"
	"inkfolio/internal/platform/config"
	"inkfolio/internal/platform/database"
	"inkfolio/internal/platform/metrics"
	"inkfolio/internal/platform/sessions"
)

func main() {
	// 1. Configuration
	cfg := config.Load()
	log.Println("Configuration loaded.")

	// 2. Session token signing
	tokenAuth := security.NewTokenAuth(cfg.SessionSecret)
	tokenIssuer := security.NewTokenIssuer(tokenAuth, cfg.SessionTTL)

	// 3. Database
	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database connected.")

	// 4. Session store
	sessionStore, err := sessions.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer sessionStore.Close()
	log.Println("Session store connected.")

	// 5. Asset store
	assetStore, err := assets.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Asset store init failed: %v", err)
	}

	// 6. Metrics
	metrics.Register()

	// 7. Repositories
	userRepo := repository.NewPgUserRepository(db)
	postRepo := repository.NewPgPostRepository(db)
	projectRepo := repository.NewPgProjectRepository(db)

	// 8. Services
	authService := service.NewAuthService(userRepo, sessionStore, tokenIssuer, cfg.AdminEmail)
	postService := service.NewPostService(postRepo, assetStore, cfg.PageSize)
	projectService := service.NewProjectService(projectRepo, assetStore, cfg.PageSize)

	// 9. Router & HTTP server
	authn := middleware.NewAuthenticator(sessionStore, userRepo)
	router := api.NewRouter(cfg, tokenAuth, authn, authService, postService, projectService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully.")
}
