package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/vikrantan5/PenSilc/internal/auth"
	"github.com/vikrantan5/PenSilc/internal/autosave"
	"github.com/vikrantan5/PenSilc/internal/config"
	"github.com/vikrantan5/PenSilc/internal/db"
	"github.com/vikrantan5/PenSilc/internal/export"
	"github.com/vikrantan5/PenSilc/internal/metrics"
	mw "github.com/vikrantan5/PenSilc/internal/middleware"
	"github.com/vikrantan5/PenSilc/internal/note"
	"github.com/vikrantan5/PenSilc/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway, closeGateway, err := openGateway(ctx, cfg)
	if err != nil {
		slog.Error("open note store", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	defer closeGateway()

	collector := metrics.NewCollector()

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler()
	noteHandler := note.NewHandler(gateway)
	exportHandler := export.NewHandler(gateway)

	hub := session.NewHub(gateway,
		session.WithMetrics(collector),
		session.WithSaverOptions(autosave.WithDelay(cfg.AutosaveDelay)),
	)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", collector.Handler()).Methods("GET")

	// Read-only share links need no account
	r.HandleFunc("/shared/{shareId}", noteHandler.GetShared).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	api.Use(collector.Middleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/notes/{noteId}/scene", noteHandler.GetScene).Methods("GET")
	api.HandleFunc("/notes/{noteId}/scene", noteHandler.PutScene).Methods("PUT")
	api.HandleFunc("/notes/{noteId}/share", noteHandler.Share).Methods("POST")
	api.HandleFunc("/notes/{noteId}/export.png", exportHandler.ExportPNG).Methods("GET")
	api.HandleFunc("/notes/{noteId}/export.pdf", exportHandler.ExportPDF).Methods("GET")

	// WebSocket endpoint, token in the query string
	r.HandleFunc("/ws/notes/{noteId}", hub.ServeWS(authService, cfg.OriginHosts()))

	// Preflight requests only need the CORS middleware to run
	r.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first so pending autosaves are written
		slog.Info("flushing editing sessions...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openGateway builds the note store named by the config. The returned func
// releases its resources.
func openGateway(ctx context.Context, cfg *config.Config) (note.Gateway, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return note.NewPGStore(pool), pool.Close, nil
	case config.StoreSupabase:
		store, err := note.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		slog.Warn("using in-memory note store, notes are lost on restart")
		return note.NewMemoryStore(), func() {}, nil
	}
}
