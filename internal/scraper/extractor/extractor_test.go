package extractor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/radieske/superodds-monitor/pkg/models"
)

func page(body string) string {
	return "<!DOCTYPE html><html><head><title>BETesporte</title></head><body>" + body + "</body></html>"
}

func mustExtract(t *testing.T, e *Extractor, html string) Result {
	t.Helper()
	res, err := e.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return res
}

func TestExtractSelectorTier(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`
		<div class="event-card">
			<h3>Flamengo x Palmeiras</h3>
			<div class="super-odds">Team A Winner 2.50</div>
		</div>`))

	if res.Tier != TierSelector {
		t.Fatalf("expected tier %q, got %q", TierSelector, res.Tier)
	}
	if res.TotalOdds != 1 || len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd, got %d", res.TotalOdds)
	}
	odd := res.Odds[0]
	if odd.OddValue != 2.5 {
		t.Errorf("expected oddValue 2.5, got %v", odd.OddValue)
	}
	if odd.Market != "Resultado Final" {
		t.Errorf("expected market 'Resultado Final', got %q", odd.Market)
	}
	if odd.Event != "Flamengo x Palmeiras" {
		t.Errorf("expected event from heading, got %q", odd.Event)
	}
	if odd.Team != selectorTeam {
		t.Errorf("expected team placeholder, got %q", odd.Team)
	}
	if odd.Selector != `[class*="super-odds" i]` {
		t.Errorf("unexpected selector %q", odd.Selector)
	}
	if odd.Source != TierSelector {
		t.Errorf("expected source %q, got %q", TierSelector, odd.Source)
	}
	if !strings.HasPrefix(odd.ID, "sel_") {
		t.Errorf("expected id with sel_ prefix, got %q", odd.ID)
	}
	if res.Status != models.StatusFound {
		t.Errorf("expected status found, got %q", res.Status)
	}
}

func TestExtractOriginalOddAndBoost(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`
		<div class="boosted-odd">
			<span class="team-name">Flamengo</span> Vitória
			<s>2.00</s> <strong>2.50</strong>
		</div>`))

	if len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd, got %d", len(res.Odds))
	}
	odd := res.Odds[0]
	if odd.OddValue != 2.5 {
		t.Errorf("boosted value should ignore the struck-through odd, got %v", odd.OddValue)
	}
	if odd.OriginalOdd == nil || *odd.OriginalOdd != 2.0 {
		t.Fatalf("expected originalOdd 2.00, got %v", odd.OriginalOdd)
	}
	if odd.Boost != "25.0%" {
		t.Errorf("expected boost 25.0%%, got %q", odd.Boost)
	}
	if odd.Team != "Flamengo" {
		t.Errorf("expected team Flamengo, got %q", odd.Team)
	}
	if odd.Market != "Resultado Final" {
		t.Errorf("expected market 'Resultado Final', got %q", odd.Market)
	}
}

func TestExtractMarketFromAncestor(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`
		<div class="market-group">
			<span class="market-title">Escanteios</span>
			<div class="superodds-item">3.40</div>
		</div>`))

	if len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd, got %d", len(res.Odds))
	}
	if res.Odds[0].Market != "Escanteios" {
		t.Errorf("expected market from ancestor, got %q", res.Odds[0].Market)
	}
}

func TestExtractSelectorRangeFiltering(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`
		<div class="super-odds">Odd 1.00</div>
		<div class="super-odds">Odd 0.95</div>
		<div class="super-odds">Odd 99.99</div>
		<div class="super-odds">Odd 150.00</div>`))

	if len(res.Odds) != 1 {
		t.Fatalf("expected only the in-range odd, got %d", len(res.Odds))
	}
	if res.Odds[0].OddValue != 99.99 {
		t.Errorf("expected 99.99, got %v", res.Odds[0].OddValue)
	}
	for _, o := range res.Odds {
		if o.OddValue < 1.01 || o.OddValue > 100 {
			t.Errorf("odd %v outside [1.01, 100]", o.OddValue)
		}
	}
}

func TestExtractFirstProductiveSelectorWins(t *testing.T) {
	e := New(DefaultConfig(), nil)

	// data-testid vem antes de class*="promo" na ordem dos seletores
	res := mustExtract(t, e, page(`
		<div class="promo-banner">Empate 4.00</div>
		<div data-testid="SuperOdds-card">Vitória 2.20</div>`))

	if len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd, got %d", len(res.Odds))
	}
	if res.Odds[0].OddValue != 2.2 {
		t.Errorf("expected odd from data-testid selector, got %v", res.Odds[0].OddValue)
	}
}

func TestExtractScanTier(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`<div class="market-row"><p>Odds: 3.75 for Draw</p></div>`))

	if res.Tier != TierScan {
		t.Fatalf("expected tier %q, got %q", TierScan, res.Tier)
	}
	if len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd, got %d", len(res.Odds))
	}
	odd := res.Odds[0]
	if odd.OddValue != 3.75 {
		t.Errorf("expected 3.75, got %v", odd.OddValue)
	}
	if odd.Market != "Empate" {
		t.Errorf("expected market Empate, got %q", odd.Market)
	}
	if odd.Context == "" {
		t.Error("expected context snippet")
	}
}

func TestExtractScanRangeAndCap(t *testing.T) {
	cfg := DefaultConfig()
	e := New(cfg, nil)

	var b strings.Builder
	b.WriteString(`<span class="odd">1.20</span> <span class="odd">75.00</span> `)
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, `<span class="odd">%d.10</span> `, 2+i)
	}
	res := mustExtract(t, e, page(b.String()))

	if res.Tier != TierScan {
		t.Fatalf("expected tier %q, got %q", TierScan, res.Tier)
	}
	if len(res.Odds) != cfg.ScanMaxResults {
		t.Fatalf("expected scan cap %d, got %d", cfg.ScanMaxResults, len(res.Odds))
	}
	for _, o := range res.Odds {
		if o.OddValue < cfg.ScanMin || o.OddValue > cfg.ScanMax {
			t.Errorf("odd %v outside [%v, %v]", o.OddValue, cfg.ScanMin, cfg.ScanMax)
		}
	}
}

func TestExtractScanRequiresContext(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScanMultiplierX = false
	e := New(cfg, nil)

	res := mustExtract(t, e, page(`<div class="footer"><p>Copyright 12.50</p></div>`))

	if res.Status != models.StatusNotFound {
		t.Fatalf("expected not_found without bet context, got %d odds", len(res.Odds))
	}
}

func TestExtractScanSkipsLongText(t *testing.T) {
	e := New(DefaultConfig(), nil)

	long := strings.Repeat("Lorem ipsum dolor sit amet. ", 10)
	res := mustExtract(t, e, page(`<div class="market"><p>`+long+` odd 3.75</p></div>`))

	if res.Tier == TierScan {
		t.Fatalf("long text must not be picked by the scan, got %+v", res.Odds)
	}
}

func TestExtractPatternTier(t *testing.T) {
	e := New(DefaultConfig(), nil)

	long := strings.Repeat("Lorem ipsum dolor sit amet. ", 10)
	res := mustExtract(t, e, page(`<p>`+long+` Super Odds: 3.75 `+long+`</p>`))

	if res.Tier != TierPattern {
		t.Fatalf("expected tier %q, got %q", TierPattern, res.Tier)
	}
	if len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd, got %d", len(res.Odds))
	}
	odd := res.Odds[0]
	if odd.OddValue != 3.75 || odd.Market != patternMarket {
		t.Errorf("unexpected odd %+v", odd)
	}
	if !strings.Contains(odd.Context, "Super Odds") {
		t.Errorf("expected matched text in context, got %q", odd.Context)
	}
}

func TestExtractPatternRange(t *testing.T) {
	e := New(DefaultConfig(), nil)

	long := strings.Repeat("Lorem ipsum dolor sit amet. ", 10)
	res := mustExtract(t, e, page(`<p>`+long+` super odd 1.50 odds turbinadas: 120.00 enhanced odds 7.25 `+long+`</p>`))

	if len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd, got %+v", res.Odds)
	}
	if res.Odds[0].OddValue != 7.25 {
		t.Errorf("expected 7.25, got %v", res.Odds[0].OddValue)
	}
}

func TestExtractTierShortCircuit(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`
		<div class="super-odds">Vitória 2.50</div>
		<div class="market"><p>Odds: 3.75 for Draw</p></div>
		<p>Super Odds: 9.99</p>`))

	if res.Tier != TierSelector {
		t.Fatalf("expected tier %q, got %q", TierSelector, res.Tier)
	}
	for _, o := range res.Odds {
		if o.Source != TierSelector {
			t.Errorf("later tier produced a record: %+v", o)
		}
	}
}

func TestExtractDedupAndBound(t *testing.T) {
	cfg := DefaultConfig()
	e := New(cfg, nil)

	var b strings.Builder
	for i := 0; i < 80; i++ {
		v := fmt.Sprintf("%d.%02d", 2+i/100, i%100)
		fmt.Fprintf(&b, `<div class="super-odds">Vitória %s</div><div class="super-odds">Vitória %s</div>`, v, v)
	}
	res := mustExtract(t, e, page(b.String()))

	if len(res.Odds) != cfg.MaxResults {
		t.Fatalf("expected cap %d, got %d", cfg.MaxResults, len(res.Odds))
	}
	seen := map[models.Key]bool{}
	for _, o := range res.Odds {
		k := models.KeyOf(o)
		if seen[k] {
			t.Fatalf("duplicate (oddValue, market) %+v", k)
		}
		seen[k] = true
	}
	if res.TotalOdds != len(res.Odds) {
		t.Errorf("totalOdds %d != len(odds) %d", res.TotalOdds, len(res.Odds))
	}
}

func TestExtractSameValueDifferentMarkets(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`
		<div class="super-odds">Vitória 2.50</div>
		<div class="super-odds">Empate 2.50</div>
		<div class="super-odds">Vitória do Santos 2.50</div>`))

	if len(res.Odds) != 2 {
		t.Fatalf("expected 2 odds (dedup keeps distinct markets), got %d", len(res.Odds))
	}
	if res.Odds[0].Market != "Resultado Final" || res.Odds[1].Market != "Empate" {
		t.Errorf("expected first-seen order, got %q, %q", res.Odds[0].Market, res.Odds[1].Market)
	}
}

func TestExtractIdempotent(t *testing.T) {
	e := New(DefaultConfig(), nil)
	html := page(`
		<div class="super-odds">Vitória 2.50</div>
		<div class="super-odds">Ambas marcam 1.95</div>`)

	first := mustExtract(t, e, html)
	second := mustExtract(t, e, html)

	if len(first.Odds) != len(second.Odds) {
		t.Fatalf("different lengths: %d vs %d", len(first.Odds), len(second.Odds))
	}
	for i := range first.Odds {
		if models.KeyOf(first.Odds[i]) != models.KeyOf(second.Odds[i]) {
			t.Errorf("record %d differs: %+v vs %+v", i, first.Odds[i], second.Odds[i])
		}
	}
}

func TestExtractNotFound(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`<p>Bem-vindo ao BETesporte</p>`))

	if res.Status != models.StatusNotFound {
		t.Errorf("expected not_found, got %q", res.Status)
	}
	if res.Odds == nil || len(res.Odds) != 0 || res.TotalOdds != 0 {
		t.Errorf("expected empty non-nil list, got %+v", res.Odds)
	}
	if res.Tier != "" {
		t.Errorf("expected no tier, got %q", res.Tier)
	}
}

func TestExtractMalformedMarkup(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, `<html><body><div class="super-odds">Vitória 2.50<span>`)

	if len(res.Odds) != 1 || res.Odds[0].OddValue != 2.5 {
		t.Fatalf("expected markup to be repaired and odd found, got %+v", res.Odds)
	}
}

func TestLookupMarket(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"Vitória do Flamengo", "Resultado Final", true},
		{"DRAW", "Empate", true},
		{"Ambas marcam - sim", "Ambas Marcam", true},
		{"Over 2.5 gols", "Total - Over", true},
		{"Handicap asiático", "Handicap", true},
		{"Mais de 9.5 escanteios", "Escanteios", true},
		{"Primeiro gol", "Gols", true},
		{"Qualquer coisa", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := lookupMarket(tt.text)
			if got != tt.want || ok != tt.ok {
				t.Errorf("lookupMarket(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBoostPercent(t *testing.T) {
	if got := boostPercent(3.0, 2.0); got != "50.0%" {
		t.Errorf("boostPercent(3.0, 2.0) = %q", got)
	}
	if got := boostPercent(2.2, 2.0); got != "10.0%" {
		t.Errorf("boostPercent(2.2, 2.0) = %q", got)
	}
}

func TestExtractSelectorAdjacentTextNodes(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`<div class="super-odds"><span class="team">Flamengo</span><strong>2.50</strong></div>`))

	if res.Tier != TierSelector || len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd from selector tier, got tier=%q total=%d", res.Tier, res.TotalOdds)
	}
	if odd := res.Odds[0]; odd.OddValue != 2.5 || odd.Team != "Flamengo" {
		t.Errorf("unexpected odd %+v", odd)
	}
}

func TestExtractEventFromClosestAncestorOnly(t *testing.T) {
	e := New(DefaultConfig(), nil)

	res := mustExtract(t, e, page(`
		<div class="event-list">
			<h2>Brasileirão Série A</h2>
			<div class="event-row">
				<div class="super-odds">Vitória 2.50</div>
			</div>
		</div>`))

	if len(res.Odds) != 1 {
		t.Fatalf("expected 1 odd, got %d", len(res.Odds))
	}
	if got := res.Odds[0].Event; got != selectorEvent {
		t.Errorf("title of a farther ancestor must not be used, got %q", got)
	}
}
