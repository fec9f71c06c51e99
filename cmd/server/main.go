package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/crypto/bcrypt"

	"github.com/testdeck/backend/internal/api"
	"github.com/testdeck/backend/internal/auth"
	"github.com/testdeck/backend/internal/catalog"
	"github.com/testdeck/backend/internal/infrastructure/config"
	"github.com/testdeck/backend/internal/recordstore"
	"github.com/testdeck/backend/internal/recordstore/httpstore"
	"github.com/testdeck/backend/internal/scheduler"
	"github.com/testdeck/backend/internal/scoring"
	"github.com/testdeck/backend/internal/seed"
	"github.com/testdeck/backend/internal/service"
	"github.com/testdeck/backend/internal/store"

	_ "github.com/testdeck/backend/docs" // generated swagger docs
)

// @title           Testdeck API
// @version         1.0
// @description     Timed multiple-choice mock tests: catalog, test sessions, scoring, progress and admin views.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// ── Dependencies ────────────────────────────────────────────────
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	db, err := store.Open(startCtx, store.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err, "driver", cfg.DBDriver)
		os.Exit(1)
	}
	defer db.Close()

	loadSeed := func() (*seed.Document, error) { return seed.Load(cfg.SeedPath) }

	var records recordstore.Store = db
	switch cfg.RecordStore {
	case "http":
		records = httpstore.New(cfg.RecordStoreURL)
		logger.Info("using http record store", "url", cfg.RecordStoreURL)
	default:
		if doc, err := loadSeed(); err != nil {
			logger.Warn("seed document unavailable, catalog not seeded", "error", err, "path", cfg.SeedPath)
		} else if n, err := db.SeedTestSeries(startCtx, doc.TestSeries); err != nil {
			logger.Error("failed to seed test series", "error", err)
		} else {
			logger.Info("test series seeded", "inserted", n, "total", len(doc.TestSeries))
		}
	}

	cache := catalog.New(records, db, loadSeed, logger)
	cache.Hydrate(startCtx)
	if cache.Degraded() {
		logger.Warn("catalog is empty, serving in degraded mode")
	}

	attempts := service.NewAttemptService(cache, scoring.MultipleChoice{}, cfg.SessionTick, logger)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(records, auth.NewBcryptHasher(bcrypt.DefaultCost), tokens, cfg.AdminSignupEnabled, logger)
	admin := service.NewAdminService(records, cache, attempts, authSvc, logger)
	handler := api.NewHandler(authSvc, cache, attempts, admin, logger)

	refresh := scheduler.New(cache, cfg.CatalogRefreshInterval, logger)
	if err := refresh.Start(); err != nil {
		logger.Error("failed to start catalog refresh", "error", err)
		os.Exit(1)
	}

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "database unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(cfg.CORSOrigins)(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
		refresh.Stop()
		// in-flight forced submits still need the database
		attempts.Close()
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "record_store", cfg.RecordStore)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
	<-idle
}
