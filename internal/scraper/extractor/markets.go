package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// marketKeyword associa uma palavra-chave (minúscula) ao rótulo de mercado exibido.
type marketKeyword struct {
	keyword string
	label   string
}

// marketKeywords é avaliada em ordem; a primeira palavra encontrada vence.
// "ambas"/"btts" vêm antes de "over"/"under" porque textos de ambas marcam
// costumam mencionar gols acima/abaixo.
var marketKeywords = []marketKeyword{
	{"vitória", "Resultado Final"},
	{"vitoria", "Resultado Final"},
	{"winner", "Resultado Final"},
	{"empate", "Empate"},
	{"draw", "Empate"},
	{"ambas", "Ambas Marcam"},
	{"btts", "Ambas Marcam"},
	{"both teams", "Ambas Marcam"},
	{"over", "Total - Over"},
	{"under", "Total - Under"},
	{"acima", "Total - Acima"},
	{"abaixo", "Total - Abaixo"},
	{"handicap", "Handicap"},
	{"escanteio", "Escanteios"},
	{"corner", "Escanteios"},
	{"cartões", "Cartões"},
	{"cartao", "Cartões"},
	{"card", "Cartões"},
	{"gol", "Gols"},
}

var (
	marketGroup  = attrContains("class", "market", "bet")
	teamElement  = anyOf(attrContains("class", "team", "participant", "competitor"), attrContains("data-testid", "team"))
	eventGroup   = anyOf(attrContains("class", "event", "match", "game"), attrContains("data-testid", "event"))
	eventTitle   = anyOf(hasTag("h1", "h2", "h3", "h4", "h5", "h6"), attrContains("class", "title"))
	originalOdds = anyOf(
		hasTag("s", "del", "strike"),
		attrContains("class", "original", "old-odd", "odd-old", "strike", "previous"),
		attrContains("style", "line-through"),
	)
)

// lookupMarket procura a primeira palavra-chave de mercado no texto
func lookupMarket(text string) (string, bool) {
	text = strings.ToLower(text)
	for _, mk := range marketKeywords {
		if strings.Contains(text, mk.keyword) {
			return mk.label, true
		}
	}
	return "", false
}

// marketFor resolve o mercado pelo texto do próprio elemento e, se não achar,
// pelo agrupamento de mercado/aposta mais próximo.
func marketFor(s *goquery.Selection) (string, bool) {
	if label, ok := lookupMarket(s.Text()); ok {
		return label, true
	}
	group := s.ClosestMatcher(marketGroup)
	if group.Length() == 0 {
		return "", false
	}
	return lookupMarket(group.Text())
}

// teamFor busca o nome do time/participante nos descendentes e depois na vizinhança
func teamFor(s *goquery.Selection) (string, bool) {
	if t := firstWithText(s.FindMatcher(teamElement)); t != "" {
		return truncate(t, 100), true
	}
	if t := firstWithText(s.Parent().FindMatcher(teamElement)); t != "" {
		return truncate(t, 100), true
	}
	return "", false
}

// eventFor usa o primeiro título dentro do ancestral de evento/partida mais próximo
// (o próprio elemento conta). Ancestrais mais distantes não são consultados.
func eventFor(s *goquery.Selection) (string, bool) {
	group := s.ClosestMatcher(eventGroup)
	if group.Length() == 0 {
		return "", false
	}
	out := firstWithText(group.FindMatcher(eventTitle))
	if out == "" {
		return "", false
	}
	return truncate(out, 120), true
}
