package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/internal/scraper/diff"
	"github.com/radieske/superodds-monitor/pkg/contracts/events"
)

// MessageReader é a parte do kafka.Reader usada pelo processor
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// MessageWriter recebe as mensagens que não puderam ser decodificadas (DLQ)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// SnapshotStore guarda o último snapshot de cada URL
type SnapshotStore interface {
	Last(ctx context.Context, url string) (events.SuperOddsSnapshot, bool, error)
	Save(ctx context.Context, s events.SuperOddsSnapshot) error
}

// Broadcaster publica payloads em um canal Pub/Sub
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Processor consome snapshots do Kafka, compara com o último snapshot da URL
// e avisa os clientes WebSocket quando o conjunto de odds muda.
type Processor struct {
	Log         *zap.Logger
	Reader      MessageReader
	DLQ         MessageWriter // opcional
	Store       SnapshotStore
	Broadcaster Broadcaster
	Channel     string

	OnConsumed func()       // métricas (counter++)
	OnChanged  func()       // métricas
	OnError    func(string) // métricas por fase

	now func() time.Time
}

// Run inicia o loop principal de consumo até o contexto ser cancelado
func (p *Processor) Run(ctx context.Context) error {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.stageError("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		p.Handle(ctx, m)
	}
}

// Handle processa uma mensagem. Retorna true quando uma mudança foi publicada.
func (p *Processor) Handle(ctx context.Context, m kafka.Message) bool {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}

	var snap events.SuperOddsSnapshot
	if err := json.Unmarshal(m.Value, &snap); err != nil || snap.URL == "" {
		p.Log.Warn("invalid message", zap.ByteString("key", m.Key), zap.Error(err))
		p.stageError("decode")
		p.deadLetter(ctx, m)
		return false
	}

	prev, _, err := p.Store.Last(ctx, snap.URL)
	if err != nil {
		// sem o estado anterior não dá para comparar; o store fica como está
		// e a próxima captura da URL refaz a comparação
		p.Log.Warn("redis get failed", zap.String("url", snap.URL), zap.Error(err))
		p.stageError("store_get")
		return false
	}

	changed := diff.HasChanges(prev.Odds, snap.Odds)
	if changed {
		ev := events.OddsChanged{
			URL:         snap.URL,
			Source:      snap.Source,
			NewOdds:     diff.NewOdds(prev.Odds, snap.Odds),
			RemovedOdds: diff.RemovedOdds(prev.Odds, snap.Odds),
			Odds:        snap.Odds,
			TotalOdds:   snap.TotalOdds,
			DetectedAt:  p.now(),
		}
		if err := p.broadcast(ctx, ev); err != nil {
			// não salva: a próxima captura da URL ainda detecta a mudança
			p.Log.Warn("ws broadcast publish failed", zap.String("url", snap.URL), zap.Error(err))
			p.stageError("broadcast")
			return false
		}
		p.Log.Info("superodds changed",
			zap.String("url", snap.URL),
			zap.String("source", snap.Source),
			zap.Int("new", len(ev.NewOdds)),
			zap.Int("removed", len(ev.RemovedOdds)),
		)
		if p.OnChanged != nil {
			p.OnChanged()
		}
	}

	if err := p.Store.Save(ctx, snap); err != nil {
		p.Log.Warn("redis set failed", zap.String("url", snap.URL), zap.Error(err))
		p.stageError("store_set")
	}
	return changed
}

func (p *Processor) broadcast(ctx context.Context, ev events.OddsChanged) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return p.Broadcaster.Publish(ctx, p.Channel, b)
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	dl := kafka.Message{Key: m.Key, Value: m.Value, Time: time.Now()}
	if err := p.DLQ.WriteMessages(ctx, dl); err != nil {
		p.Log.Warn("dlq write failed", zap.Error(err))
		p.stageError("dlq")
	}
}

func (p *Processor) stageError(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
