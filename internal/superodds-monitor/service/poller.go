package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/internal/scraper/diff"
	"github.com/radieske/superodds-monitor/internal/scraper/extractor"
	"github.com/radieske/superodds-monitor/internal/scraper/fetcher"
	"github.com/radieske/superodds-monitor/internal/scraper/validator"
	"github.com/radieske/superodds-monitor/pkg/contracts/events"
	"github.com/radieske/superodds-monitor/pkg/models"
)

// DefaultInterval é o intervalo entre verificações quando nada é configurado
const DefaultInterval = time.Minute

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Result, error)
}

type Extractor interface {
	Extract(html string) (extractor.Result, error)
}

type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, s events.SuperOddsSnapshot) error
}

// Poller verifica a página periodicamente e publica um snapshot
// somente quando o conjunto de odds muda em relação à última verificação.
type Poller struct {
	Log       *zap.Logger
	URL       string
	Interval  time.Duration
	Fetcher   Fetcher
	Extractor Extractor
	Publisher SnapshotPublisher

	OnCheck     func(status string) // métricas: found | not_found
	OnPublished func()              // métricas
	OnError     func(stage string)  // métricas por fase

	last []models.OddRecord
}

// Run verifica imediatamente e depois a cada Interval, até o contexto ser cancelado
func (p *Poller) Run(ctx context.Context) error {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.Log.Info("poller started", zap.String("url", p.URL), zap.Duration("interval", interval))
	p.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

// Check faz uma rodada completa: fetch, validação, extração e publicação.
// Retorna true quando um snapshot foi publicado.
func (p *Poller) Check(ctx context.Context) bool {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}

	page, err := p.Fetcher.Fetch(ctx, p.URL)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.Log.Warn("fetch failed",
			zap.String("url", p.URL),
			zap.Bool("blocked", fetcher.IsBlocked(err)),
			zap.Error(err),
		)
		p.stageError("fetch")
		return false
	}

	if err := validator.Validate(page.HTML); err != nil {
		if validator.IsBlocked(err) {
			p.Log.Warn("page blocked", zap.String("url", p.URL), zap.String("method", page.Method), zap.Error(err))
			p.stageError("blocked")
		} else {
			p.Log.Warn("page rejected", zap.String("url", p.URL), zap.Error(err))
			p.stageError("validate")
		}
		return false
	}

	res, err := p.Extractor.Extract(page.HTML)
	if err != nil {
		p.Log.Warn("extract failed", zap.String("url", p.URL), zap.Error(err))
		p.stageError("extract")
		return false
	}
	if p.OnCheck != nil {
		p.OnCheck(res.Status)
	}

	// primeira verificação sem odds também conta como "sem mudança"
	if !diff.HasChanges(p.last, res.Odds) {
		p.Log.Debug("no changes", zap.String("url", p.URL), zap.Int("total", res.TotalOdds))
		return false
	}

	err = p.Publisher.PublishSnapshot(ctx, events.SuperOddsSnapshot{
		URL:        p.URL,
		Source:     events.SourceMonitor,
		Status:     res.Status,
		TotalOdds:  res.TotalOdds,
		Odds:       res.Odds,
		HTMLSize:   len(page.HTML),
		CapturedAt: time.Now(),
	})
	if err != nil {
		p.Log.Warn("snapshot publish failed", zap.String("url", p.URL), zap.Error(err))
		p.stageError("publish")
		// mantém o estado anterior para tentar de novo na próxima rodada
		return false
	}

	p.Log.Info("superodds changed",
		zap.String("url", p.URL),
		zap.String("tier", res.Tier),
		zap.Int("total", res.TotalOdds),
		zap.Int("new", len(diff.NewOdds(p.last, res.Odds))),
		zap.Int("removed", len(diff.RemovedOdds(p.last, res.Odds))),
	)
	p.last = res.Odds
	if p.OnPublished != nil {
		p.OnPublished()
	}
	return true
}

func (p *Poller) stageError(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
