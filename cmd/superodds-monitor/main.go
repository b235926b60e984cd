package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/internal/scraper/extractor"
	"github.com/radieske/superodds-monitor/internal/scraper/fetcher"
	"github.com/radieske/superodds-monitor/internal/shared/config"
	"github.com/radieske/superodds-monitor/internal/shared/kafka"
	"github.com/radieske/superodds-monitor/internal/shared/logger"
	"github.com/radieske/superodds-monitor/internal/shared/metrics"
	"github.com/radieske/superodds-monitor/internal/shared/publisher"
	"github.com/radieske/superodds-monitor/internal/superodds-monitor/service"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "superodds-monitor"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Métricas Prometheus do monitor
	checks := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "superodds_monitor_checks_total", Help: "verificações por status"}, []string{"status"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "superodds_monitor_snapshots_published_total", Help: "snapshots publicados (mudanças)"})
	fetchAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "superodds_monitor_fetch_attempts_total", Help: "tentativas de fetch por estratégia e resultado"}, []string{"strategy", "result"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "superodds_monitor_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(checks, published, fetchAttempts, errorsBy)

	f := fetcher.New(fetcher.Options{
		Browser:    cfg.FetchBrowser,
		ChromePath: cfg.ChromePath,
		Timeout:    cfg.FetchTimeout,
	}, log)
	f.OnAttempt = func(strategy string, err error) {
		result := "ok"
		if err != nil {
			result = "error"
		}
		fetchAttempts.WithLabelValues(strategy, result).Inc()
	}

	pub := publisher.NewKafkaPublisher(kafka.Brokers(cfg.KafkaBrokers), cfg.TopicSnapshots, cfg.Env == "local" || cfg.Env == "dev", log)
	defer pub.Close()

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil, log)

	poller := &service.Poller{
		Log:         log,
		URL:         cfg.TargetURL,
		Interval:    cfg.MonitorInterval,
		Fetcher:     f,
		Extractor:   extractor.New(extractor.DefaultConfig(), log),
		Publisher:   pub,
		OnCheck:     func(status string) { checks.WithLabelValues(status).Inc() },
		OnPublished: func() { published.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	log.Info("superodds-monitor started", zap.Strings("strategies", f.Strategies()))
	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("poller stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("superodds-monitor stopped")
}
