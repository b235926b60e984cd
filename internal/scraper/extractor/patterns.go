package extractor

import (
	"regexp"
	"strconv"
	"time"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// Placeholders do fallback por padrão de texto
const (
	patternMarket = "Padrão de texto"
	patternTeam   = "Detectado"
	patternEvent  = "Texto"
)

// boostPatterns casam uma palavra de odd turbinada seguida do valor decimal
var boostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)super\s*odds?\s*:?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)odds?\s*turbinadas?\s*:?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)enhanced\s*odds?\s*:?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)boosted?\s*(?:odds?)?\s*:?\s*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)e?special\s*(?:odds?)?\s*:?\s*(\d+\.\d{2})`),
}

// searchPatterns é o nível 3: expressões regulares sobre o HTML bruto
func (e *Extractor) searchPatterns(rawHTML string, c *collector, ts time.Time) bool {
	for _, re := range boostPatterns {
		for _, m := range re.FindAllStringSubmatch(rawHTML, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil || value <= e.cfg.PatternMin || value > e.cfg.PatternMax {
				continue
			}
			c.add(models.OddRecord{
				ID:        newID("pattern"),
				OddValue:  value,
				Market:    patternMarket,
				Team:      patternTeam,
				Event:     patternEvent,
				Timestamp: ts,
				Source:    TierPattern,
				Context:   truncate(m[0], 100),
			})
			if c.full() {
				return true
			}
		}
	}
	return c.len() > 0
}
