package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/internal/scraper/extractor"
	"github.com/radieske/superodds-monitor/internal/scraper/fetcher"
	sharedcache "github.com/radieske/superodds-monitor/internal/shared/cache"
	"github.com/radieske/superodds-monitor/internal/shared/config"
	"github.com/radieske/superodds-monitor/internal/shared/kafka"
	"github.com/radieske/superodds-monitor/internal/shared/logger"
	"github.com/radieske/superodds-monitor/internal/shared/metrics"
	"github.com/radieske/superodds-monitor/internal/shared/publisher"
	"github.com/radieske/superodds-monitor/internal/superodds-api/cache"
	httpapi "github.com/radieske/superodds-monitor/internal/superodds-api/http"
	"github.com/radieske/superodds-monitor/internal/superodds-api/ws"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "superodds-api"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis é opcional: sem ele a API usa cache em memória e não tem WS em tempo real
	var redisClient *redis.Client
	if rc, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr); err != nil {
		log.Warn("redis unavailable, running without pub/sub", zap.Error(err))
	} else {
		redisClient = rc
		defer redisClient.Close()
		log.Info("redis connected")
	}

	var resultCache cache.Cache
	switch {
	case cfg.CacheBackend == "redis" && redisClient != nil:
		resultCache = cache.NewRedisCache(redisClient, cfg.CacheTTL)
	default:
		if cfg.CacheBackend == "redis" {
			log.Warn("redis cache requested but redis is unavailable, using memory")
		}
		mem := cache.NewMemoryCache(cfg.CacheTTL)
		resultCache = mem
		go sweep(ctx, mem, cfg.CacheTTL, log)
	}
	log.Info("cache ready", zap.String("backend", fmt.Sprintf("%T", resultCache)), zap.Duration("ttl", cfg.CacheTTL))

	// Métricas Prometheus
	extractions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "superodds_api_extractions_total", Help: "extrações por origem e status"}, []string{"source", "status"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{Name: "superodds_api_cache_hits_total", Help: "respostas servidas do cache"})
	fetchAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "superodds_api_fetch_attempts_total", Help: "tentativas de fetch por estratégia e resultado"}, []string{"strategy", "result"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "superodds_api_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(extractions, cacheHits, fetchAttempts, errorsBy)

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
	log.Info("fetcher ready", zap.Strings("strategies", f.Strategies()))

	brokers := kafka.Brokers(cfg.KafkaBrokers)
	pub := publisher.NewKafkaPublisher(brokers, cfg.TopicSnapshots, cfg.Env == "local" || cfg.Env == "dev", log)
	defer pub.Close()

	api := &httpapi.API{
		Log:          log,
		Fetcher:      f,
		Extractor:    extractor.New(extractor.DefaultConfig(), log),
		Cache:        resultCache,
		Publisher:    pub,
		DefaultURL:   cfg.TargetURL,
		CacheTTL:     cfg.CacheTTL,
		OnExtraction: func(source, status string) { extractions.WithLabelValues(source, status).Inc() },
		OnCacheHit:   func() { cacheHits.Inc() },
		OnError:      func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	var health metrics.HealthFunc
	if redisClient != nil {
		hub := ws.NewHub(func(*http.Request) bool { return true }, log)
		ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)
		api.WS = hub.HandleWS
		health = sharedcache.Health(redisClient)
		log.Info("ws hub ready", zap.String("channel", cfg.RedisPubSubChannel))
	}

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, health, log)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr), zap.String("target", cfg.TargetURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("superodds-api stopped")
}

// sweep remove periodicamente as entradas velhas do cache em memória
func sweep(ctx context.Context, c cache.Cache, every time.Duration, log *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := c.Sweep(ctx); err != nil {
				log.Warn("cache sweep failed", zap.Error(err))
			} else if n > 0 {
				log.Debug("cache swept", zap.Int("removed", n))
			}
		}
	}
}
