package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/auth"
	"pagebuilder_app_echo/internal/components"
	"pagebuilder_app_echo/internal/config"
	"pagebuilder_app_echo/internal/handlers"
	"pagebuilder_app_echo/internal/logging"
	authMiddleware "pagebuilder_app_echo/internal/middleware"
	"pagebuilder_app_echo/internal/pagedata"
	"pagebuilder_app_echo/internal/services"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Sync()

	ctx := context.Background()

	// Page source
	cms := pagedata.NewHTTPFetcher(cfg.CMSBaseURL, cfg.CMSAPIKey)
	var source pagedata.Fetcher = cms
	if cfg.PageSource == "database" {
		if cfg.DatabaseURL == "" {
			logging.Fatal("PAGE_SOURCE=database requires DATABASE_URL")
		}
		db, err := services.InitDB(cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := services.AutoMigrate(db); err != nil {
			logging.Fatal("Failed to run database migrations", zap.Error(err))
		}
		source = pagedata.NewGormFetcher(db)
	}

	// Shared descriptor cache
	var refresher handlers.Refresher
	if cfg.RedisURL != "" {
		cache, err := services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logging.Warn("Redis unavailable, page cache disabled", zap.Error(err))
		} else {
			defer cache.Close()
			cached := pagedata.NewCachedFetcher(source, cache, cfg.PageCacheTTL)
			source = cached
			refresher = cached
		}
	}

	// Component registry
	registry := components.NewRegistry()
	components.DefineComponents(registry, cms)
	logging.Info("Components registered", zap.Strings("components", registry.Names()))

	// Authorization
	var authClient *firebaseauth.Client
	policy := auth.Policy(auth.AllowAll)
	if cfg.AuthProvider == "firebase" {
		client, err := services.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logging.Warn("Firebase initialization failed, protected pages will redirect to sign-in", zap.Error(err))
			policy = auth.FirebaseSessionPolicy(nil, cfg.LoginPath)
		} else {
			authClient = client
			policy = auth.FirebaseSessionPolicy(client, cfg.LoginPath)
		}
	}

	// Handlers
	static := handlers.NewStaticPage("/", source, registry, cfg.RevalidateAfter)
	if err := static.Build(ctx); err != nil {
		logging.Fatal("Failed to generate the root page", zap.Error(err))
	}
	pages := handlers.NewPageHandler(cfg.RenderStrategy, source, registry, cfg.FragmentWait, cfg.FragmentStale)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = authMiddleware.CustomErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logging.RequestLogger())
	e.Use(middleware.Recover())

	e.Static("/static", "web/static")

	handlers.Register(e, handlers.Routes{
		Static:     static,
		Pages:      pages,
		Auth:       handlers.NewAuthHandler(authClient, cfg),
		Revalidate: handlers.NewRevalidateHandler(cfg.RevalidateToken, static, pages, refresher),
		Policy:     policy,
		LoginPath:  cfg.LoginPath,
		Strategy:   string(cfg.RenderStrategy),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.String("strategy", string(cfg.RenderStrategy)),
			zap.String("page_source", cfg.PageSource))
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logging.Info("Server exiting")
}
