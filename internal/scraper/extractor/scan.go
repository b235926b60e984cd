package extractor

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// Placeholders da varredura ampla
const (
	scanMarket = "Detectado automaticamente"
	scanTeam   = "A identificar"
	scanEvent  = "A identificar"
)

var (
	scanContext  = attrContains("class", "sport", "bet", "market", "odd")
	scanSkipTags = hasTag("script", "style", "noscript", "template", "head", "title")
	everyElement = matcher(func(*html.Node) bool { return true })
)

// contextTriggers indicam que o agrupamento ao redor é de apostas
var contextTriggers = []string{"odd", "bet", "market"}

// scanPage é o nível 2: percorre todos os elementos procurando números com cara de odd
// em um contexto de apostas. Limitado por orçamento de elementos e de resultados.
func (e *Extractor) scanPage(doc *goquery.Document, c *collector, ts time.Time) bool {
	inspected := 0
	found := 0

	doc.FindMatcher(everyElement).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if inspected >= e.cfg.ScanElementBudget || found >= e.cfg.ScanMaxResults || c.full() {
			return false
		}
		inspected++

		if scanSkipTags.Match(el.Get(0)) || el.ParentsMatcher(scanSkipTags).Length() > 0 {
			return true
		}

		text := ownText(el)
		n := utf8.RuneCountInString(text)
		if n < e.cfg.ScanMinText || n > e.cfg.ScanMaxText {
			return true
		}

		for _, raw := range oddPattern.FindAllString(text, -1) {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil || value < e.cfg.ScanMin || value > e.cfg.ScanMax {
				continue
			}
			if !e.looksLikeBet(el, text) {
				// o contexto não depende do valor; nenhum outro número do elemento passará
				break
			}
			if c.add(e.scanRecord(el, text, value, ts)) {
				found++
			}
			if found >= e.cfg.ScanMaxResults || c.full() {
				break
			}
		}
		return true
	})

	return c.len() > 0
}

// looksLikeBet verifica o sinal de contexto exigido pela varredura ampla
func (e *Extractor) looksLikeBet(el *goquery.Selection, text string) bool {
	if group := el.ClosestMatcher(scanContext); group.Length() > 0 {
		ctx := strings.ToLower(group.Text())
		for _, t := range contextTriggers {
			if strings.Contains(ctx, t) {
				return true
			}
		}
	}
	if strings.Contains(strings.ToLower(attr(el.Get(0), "class")), "odd") {
		return true
	}
	return e.cfg.ScanMultiplierX && strings.Contains(strings.ToLower(text), "x")
}

func (e *Extractor) scanRecord(el *goquery.Selection, text string, value float64, ts time.Time) models.OddRecord {
	odd := models.OddRecord{
		ID:        newID("scan"),
		OddValue:  value,
		Market:    scanMarket,
		Team:      scanTeam,
		Event:     scanEvent,
		Timestamp: ts,
		Source:    TierScan,
		Context:   truncate(text, 100),
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
	return odd
}
