package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/internal/betesporte-simulator/board"
	"github.com/radieske/superodds-monitor/internal/shared/config"
	"github.com/radieske/superodds-monitor/internal/shared/logger"
	"github.com/radieske/superodds-monitor/internal/shared/metrics"
)

var (
	pagesServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_pages_served_total",
		Help: "Páginas servidas por modo",
	}, []string{"mode"})
	rotations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulator_rotations_total",
		Help: "Trocas do conjunto de SuperOdds",
	})
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "betesporte-simulator"
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	prometheus.MustRegister(pagesServed, rotations)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := board.New(uint64(time.Now().UnixNano()))

	// Sorteia um novo conjunto de odds a cada intervalo
	go func() {
		ticker := time.NewTicker(cfg.SimRotateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.Rotate()
				rotations.Inc()
				log.Debug("superodds rotated", zap.Int("version", b.Version()), zap.Int("offers", len(b.Offers())))
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/sports/desktop/sport-league/{league}/{id}", pageHandler(b, cfg.SimMode, log))
	// mesmas rotas alternativas tentadas pelo fetcher
	r.Get("/sports/mobile/sport-league/{league}/{id}", pageHandler(b, cfg.SimMode, log))
	r.Get("/sports/sport-league/{league}/{id}", pageHandler(b, cfg.SimMode, log))

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil, log)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("betesporte simulator running",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.SimMode),
			zap.Duration("rotate", cfg.SimRotateInterval),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("public server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("betesporte simulator stopped")
}

// pageHandler serve a página no modo configurado; ?mode= sobrepõe por requisição
func pageHandler(b *board.Board, defaultMode string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("mode")
		if mode == "" {
			mode = defaultMode
		}
		pagesServed.WithLabelValues(mode).Inc()

		switch mode {
		case board.ModeForbidden:
			http.Error(w, "403 Forbidden", http.StatusForbidden)
			return
		case board.ModeCaptcha:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(board.RenderChallenge()))
			return
		}

		html, err := b.Render()
		if err != nil {
			log.Error("render failed", zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}
}
