package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/redmonkez12/taskflow/docs" // Swagger docs (generated)
	"github.com/redmonkez12/taskflow/internal/auth"
	"github.com/redmonkez12/taskflow/internal/config"
	"github.com/redmonkez12/taskflow/internal/database"
	httpServer "github.com/redmonkez12/taskflow/internal/http"
	"github.com/redmonkez12/taskflow/internal/logging"
	"github.com/redmonkez12/taskflow/internal/task"
	"github.com/redmonkez12/taskflow/internal/team"
	"github.com/redmonkez12/taskflow/internal/user"
	"github.com/redmonkez12/taskflow/internal/web"
)

// @title           TaskFlow API
// @version         1.0
// @description     Task management backend: accounts, per-user tasks and a shared team directory.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description The raw token returned by /api/signin, without a scheme prefix.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"token_format", cfg.Auth.TokenFormat,
	)

	// Initialize database connection
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Create tables and seed the team before accepting requests
	if err := database.Init(context.Background(), db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)
	teamRepo := team.NewRepository(db)

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	authService := auth.NewService(userRepo, hasher, tokenService)

	// Initialize HTTP handlers
	handlers := httpServer.Handlers{
		Auth: auth.NewHandler(authService),
		Task: task.NewHandler(taskRepo),
		Team: team.NewHandler(teamRepo),
		Site: web.NewSite(cfg.Static.Dir),
	}
	authMiddleware := auth.NewMiddleware(tokenService)

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, authMiddleware, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
