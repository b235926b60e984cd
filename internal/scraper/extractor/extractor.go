// Package extractor detecta SuperOdds (odds turbinadas) no HTML da casa de apostas.
//
// A extração é uma cascata de três níveis que para no primeiro nível com resultado:
// seletores estruturais, varredura heurística da página e, por último,
// padrões de texto sobre o HTML bruto. O resultado é deduplicado por
// (oddValue, market) e limitado em tamanho.
package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// Níveis da cascata, gravados em OddRecord.Source e Result.Tier
const (
	TierSelector = "selector"
	TierScan     = "scan"
	TierPattern  = "pattern"
)

// oddPattern casa odds decimais no formato "1-2 dígitos, ponto, 2 dígitos"
var oddPattern = regexp.MustCompile(`\b(\d{1,2}\.\d{2})\b`)

// Config reúne os limites heurísticos da cascata.
type Config struct {
	// faixa do nível de seletores
	StrictMin float64
	StrictMax float64

	// varredura ampla: faixa, janela de tamanho do texto (em caracteres),
	// máximo de elementos inspecionados e máximo de odds
	ScanMin           float64
	ScanMax           float64
	ScanMinText       int
	ScanMaxText       int
	ScanElementBudget int
	ScanMaxResults    int
	ScanMultiplierX   bool // aceita "x" no texto como marcador de odd

	PatternMin float64 // exclusivo
	PatternMax float64

	MaxResults int
}

// DefaultConfig retorna o conjunto canônico de limites
func DefaultConfig() Config {
	return Config{
		StrictMin:         1.01,
		StrictMax:         100,
		ScanMin:           1.50,
		ScanMax:           50.0,
		ScanMinText:       3,
		ScanMaxText:       200,
		ScanElementBudget: 1000,
		ScanMaxResults:    20,
		ScanMultiplierX:   true,
		PatternMin:        1.5,
		PatternMax:        100,
		MaxResults:        50,
	}
}

// Result é a saída de uma extração
type Result struct {
	Odds      []models.OddRecord `json:"odds"`
	TotalOdds int                `json:"totalOdds"`
	Status    string             `json:"status"`
	Tier      string             `json:"tier,omitempty"`
}

// Extractor executa a cascata. Não guarda estado entre chamadas e pode ser
// usado concorrentemente.
type Extractor struct {
	cfg Config
	log *zap.Logger
	now func() time.Time
}

// New cria um extrator. log pode ser nil.
func New(cfg Config, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{cfg: cfg, log: log, now: time.Now}
}

// Config retorna os limites em uso
func (e *Extractor) Config() Config { return e.cfg }

// Extract processa o documento e retorna as odds encontradas.
// Nenhuma odd encontrada é um resultado normal (status not_found);
// erro só ocorre se o documento não puder ser montado.
func (e *Extractor) Extract(rawHTML string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	ts := e.now()
	tier := ""

	c := newCollector(e.cfg.MaxResults)
	if e.searchSelectors(doc, c, ts) {
		tier = TierSelector
	} else if e.scanPage(doc, c, ts) {
		tier = TierScan
	} else if e.searchPatterns(rawHTML, c, ts) {
		tier = TierPattern
	}

	res := Result{
		Odds:      c.odds,
		TotalOdds: len(c.odds),
		Status:    models.StatusNotFound,
		Tier:      tier,
	}
	if res.Odds == nil {
		res.Odds = []models.OddRecord{}
	}
	if res.TotalOdds > 0 {
		res.Status = models.StatusFound
	}

	e.log.Debug("superodds extraction finished",
		zap.String("tier", tier),
		zap.Int("total", res.TotalOdds),
		zap.Int("html_size", len(rawHTML)),
	)
	return res, nil
}

// collector acumula registros deduplicando por (oddValue, market) e respeitando o limite.
type collector struct {
	limit int
	seen  map[models.Key]struct{}
	odds  []models.OddRecord
}

func newCollector(limit int) *collector {
	return &collector{limit: limit, seen: make(map[models.Key]struct{})}
}

// add insere o registro se for inédito; retorna false se já existia ou se o limite foi atingido
func (c *collector) add(o models.OddRecord) bool {
	if c.full() {
		return false
	}
	k := models.KeyOf(o)
	if _, dup := c.seen[k]; dup {
		return false
	}
	c.seen[k] = struct{}{}
	c.odds = append(c.odds, o)
	return true
}

func (c *collector) full() bool { return c.limit > 0 && len(c.odds) >= c.limit }

func (c *collector) len() int { return len(c.odds) }

// newID gera um identificador opaco com o prefixo do nível
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
