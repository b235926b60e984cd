package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	skafka "github.com/radieske/superodds-monitor/internal/shared/kafka"
	"github.com/radieske/superodds-monitor/pkg/contracts/events"
)

// MessageWriter é a parte do kafka.Writer usada pelo publisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher encapsula o writer Kafka e o logger.
type KafkaPublisher struct {
	writer MessageWriter
	log    *zap.Logger
}

// NewKafkaPublisher cria um publisher para o tópico de snapshots.
// Em ambiente local/dev garante a existência do tópico antes de criar o writer.
func NewKafkaPublisher(brokers []string, topic string, ensureTopic bool, log *zap.Logger) *KafkaPublisher {
	if ensureTopic {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := skafka.EnsureTopic(ctx, brokers, topic, 1); err != nil {
			log.Warn("failed to ensure kafka topic", zap.String("topic", topic), zap.Error(err))
		}
	}
	return NewWithWriter(skafka.NewWriter(brokers, topic), log)
}

// NewWithWriter usa um writer já construído
func NewWithWriter(w MessageWriter, log *zap.Logger) *KafkaPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaPublisher{writer: w, log: log}
}

// PublishSnapshot serializa a captura em JSON e envia para o tópico.
// A chave é a URL, mantendo as capturas de uma página em ordem na mesma partição.
func (p *KafkaPublisher) PublishSnapshot(ctx context.Context, s events.SuperOddsSnapshot) error {
	value, err := json.Marshal(s)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(s.URL),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish superodds snapshot", zap.String("url", s.URL), zap.Error(err))
		return err
	}

	p.log.Debug("published superodds snapshot",
		zap.String("url", s.URL),
		zap.String("source", s.Source),
		zap.Int("total", s.TotalOdds),
	)
	return nil
}

// Close finaliza o writer e libera recursos associados.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
