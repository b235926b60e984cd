package events

import (
	"time"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// OddsChanged é publicado no canal Redis "superodds_broadcast" quando o
// conjunto de odds de uma URL muda entre duas capturas
type OddsChanged struct {
	URL         string             `json:"url"`
	Source      string             `json:"source"`
	NewOdds     []models.OddRecord `json:"newOdds"`
	RemovedOdds []models.OddRecord `json:"removedOdds"`
	Odds        []models.OddRecord `json:"odds"` // estado atual completo
	TotalOdds   int                `json:"totalOdds"`
	DetectedAt  time.Time          `json:"detectedAt"`
}
