package extractor

import (
	"fmt"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// Placeholders do nível de seletores
const (
	selectorMarket = "Mercado detectado"
	selectorTeam   = "Time detectado"
	selectorEvent  = "Evento detectado"
)

// boostSelector é um seletor nomeado; o nome vai para OddRecord.Selector.
type boostSelector struct {
	name  string
	match matcher
}

// boostSelectors em ordem de prioridade. O primeiro que produzir odds encerra o nível.
var boostSelectors = []boostSelector{
	{`[data-testid*="superodds" i]`, attrContains("data-testid", "superodds")},
	{`[data-testid*="super-odds" i]`, attrContains("data-testid", "super-odds")},
	{`[class*="superodds" i]`, attrContains("class", "superodds")},
	{`[class*="super-odds" i]`, attrContains("class", "super-odds")},
	{`[class*="boosted" i]`, attrContains("class", "boosted")},
	{`[class*="odds-boost" i]`, attrContains("class", "odds-boost")},
	{`[class*="enhanced" i]`, attrContains("class", "enhanced")},
	{`[class*="turbinada" i]`, attrContains("class", "turbinada")},
	{`[class*="special" i]`, attrContains("class", "special")},
	{`[class*="promo" i]`, attrContains("class", "promo")},
}

// searchSelectors é o nível 1: busca estrutural por marcação de odds promocionais.
func (e *Extractor) searchSelectors(doc *goquery.Document, c *collector, ts time.Time) bool {
	for _, sel := range boostSelectors {
		elements := doc.FindMatcher(sel.match)
		if elements.Length() == 0 {
			continue
		}
		e.log.Debug("selector matched elements",
			zap.String("selector", sel.name),
			zap.Int("count", elements.Length()),
		)

		elements.EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if odd, ok := e.oddFromElement(el, sel.name, ts); ok {
				c.add(odd)
			}
			return !c.full()
		})

		if c.len() > 0 {
			return true
		}
	}
	return false
}

// oddFromElement monta o registro a partir de um elemento casado pelo seletor.
// Elementos sem odd válida são ignorados.
func (e *Extractor) oddFromElement(el *goquery.Selection, selector string, ts time.Time) (models.OddRecord, bool) {
	text := textWithout(el, originalOdds)
	m := oddPattern.FindStringSubmatch(text)
	if m == nil {
		return models.OddRecord{}, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value < e.cfg.StrictMin || value > e.cfg.StrictMax {
		return models.OddRecord{}, false
	}

	odd := models.OddRecord{
		ID:        newID("sel"),
		OddValue:  value,
		Market:    selectorMarket,
		Team:      selectorTeam,
		Event:     selectorEvent,
		Timestamp: ts,
		Source:    TierSelector,
		Selector:  selector,
	}
	if market, ok := marketFor(el); ok {
		odd.Market = market
	}
	if team, ok := teamFor(el); ok {
		odd.Team = team
	}
	if event, ok := eventFor(el); ok {
		odd.Event = event
	}
	if orig, ok := e.originalOddFor(el); ok {
		odd.OriginalOdd = &orig
		odd.Boost = boostPercent(value, orig)
	}
	return odd, true
}

// originalOddFor lê a odd original (riscada) dentro do elemento, se houver
func (e *Extractor) originalOddFor(el *goquery.Selection) (float64, bool) {
	orig := el.FindMatcher(originalOdds).First()
	if orig.Length() == 0 {
		return 0, false
	}
	m := oddPattern.FindStringSubmatch(orig.Text())
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < e.cfg.StrictMin || v > e.cfg.StrictMax {
		return 0, false
	}
	return v, true
}

// boostPercent formata o aumento percentual da odd, ex: 2.50 sobre 2.00 => "25.0%"
func boostPercent(odd, original float64) string {
	return fmt.Sprintf("%.1f%%", (odd/original-1)*100)
}
