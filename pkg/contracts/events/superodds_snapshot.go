package events

import (
	"time"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// Origem de uma captura
const (
	SourceAPI     = "api"
	SourceManual  = "manual"
	SourceMonitor = "monitor"
	SourceWebhook = "webhook"
)

// Evento publicado no tópico "superodds_snapshots", chaveado pela URL
type SuperOddsSnapshot struct {
	URL        string             `json:"url"`
	Source     string             `json:"source"` // api | manual | monitor | webhook
	Status     string             `json:"status"` // found | not_found
	TotalOdds  int                `json:"totalOdds"`
	Odds       []models.OddRecord `json:"odds"`
	HTMLSize   int                `json:"htmlSize,omitempty"`
	CapturedAt time.Time          `json:"capturedAt"`
}
