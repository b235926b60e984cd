package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	sharedcache "github.com/radieske/superodds-monitor/internal/shared/cache"
	"github.com/radieske/superodds-monitor/internal/shared/config"
	"github.com/radieske/superodds-monitor/internal/shared/kafka"
	"github.com/radieske/superodds-monitor/internal/shared/logger"
	"github.com/radieske/superodds-monitor/internal/shared/metrics"
	"github.com/radieske/superodds-monitor/internal/superodds-notifier/consumer"
	"github.com/radieske/superodds-monitor/internal/superodds-notifier/pubsub"
	"github.com/radieske/superodds-monitor/internal/superodds-notifier/store"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "superodds-notifier"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Consumer Kafka (consumer group superodds-notifier) e DLQ para mensagens inválidas
	brokers := kafka.Brokers(cfg.KafkaBrokers)
	reader := kafka.NewReader(brokers, cfg.TopicSnapshots, "superodds-notifier")
	defer reader.Close()
	dlq := kafka.NewWriter(brokers, cfg.TopicSnapshotsDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "superodds_notifier_messages_consumed_total", Help: "snapshots consumidos"})
	changed := prometheus.NewCounter(prometheus.CounterOpts{Name: "superodds_notifier_changes_total", Help: "mudanças publicadas no pub/sub"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "superodds_notifier_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, changed, errorsBy)

	proc := &consumer.Processor{
		Log:         log,
		Reader:      reader,
		DLQ:         dlq,
		Store:       store.NewRedisStore(redisClient, store.DefaultTTL),
		Broadcaster: pubsub.NewRedisBroadcaster(redisClient),
		Channel:     cfg.RedisPubSubChannel,
		OnConsumed:  func() { consumed.Inc() },
		OnChanged:   func() { changed.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, sharedcache.Health(redisClient), log)

	log.Info("superodds-notifier started",
		zap.String("topic", cfg.TopicSnapshots),
		zap.String("channel", cfg.RedisPubSubChannel),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("processor stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("superodds-notifier stopped")
}
