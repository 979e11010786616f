package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/config"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/db"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/log"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/migrations"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/seed"
	"github.com/stevanusherianto7-glitch/pawon-salam-finance-system/internal/store"
)

type server struct {
	store    *store.Store
	validate *validator.Validate
	currency string
}

func newServer(st *store.Store, currency string) *server {
	return &server{store: st, validate: newValidator(), currency: currency}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database); err != nil {
			return err
		}
		stats, err := seed.Run(ctx, database)
		if err != nil {
			return err
		}
		log.Info(ctx, "seed complete", "inserts", stats.Inserts)
	}

	srv := newServer(store.New(database), cfg.Currency)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", httpServer.Addr, "env", cfg.Env)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stock-items", s.handleStockItemsList)
		r.Post("/stock-items", s.handleStockItemsCreate)
		r.Put("/stock-items/{id}", s.handleStockItemsUpdate)

		r.Get("/overheads", s.handleOverheadsList)
		r.Post("/overheads", s.handleOverheadsCreate)
		r.Put("/overheads/{id}", s.handleOverheadsUpdate)

		r.Post("/hpp/calculate", s.handleCalculate)
		r.Post("/hpp/simulate", s.handleSimulate)

		r.Get("/costings", s.handleCostingsList)
		r.Post("/costings", s.handleCostingsCreate)
		r.Get("/costings/{id}", s.handleCostingsGet)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
