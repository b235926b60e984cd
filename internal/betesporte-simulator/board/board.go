// Package board gera uma página de SuperOdds no formato do BETesporte para
// testes locais do fetcher, do monitor e do notifier.
package board

import (
	"bytes"
	"html/template"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
)

// Offer é uma odd turbinada exibida na página
type Offer struct {
	Event    string
	Team     string
	Market   string
	Original float64
	Boosted  float64
}

// Catálogo fixo de partidas simuladas
var catalog = []Offer{
	{Event: "Flamengo x Palmeiras", Team: "Flamengo", Market: "Vitória"},
	{Event: "Grêmio x Internacional", Team: "Grêmio", Market: "Empate"},
	{Event: "Corinthians x Santos", Team: "Corinthians", Market: "Ambas Marcam"},
	{Event: "São Paulo x Vasco", Team: "São Paulo", Market: "Mais gols (over)"},
}

// Modos de resposta da página
const (
	ModeNormal    = "normal"
	ModeCaptcha   = "captcha"   // 200 com página de desafio
	ModeForbidden = "forbidden" // 403
)

// Board mantém as ofertas atuais; Rotate sorteia um novo conjunto.
type Board struct {
	mu      sync.RWMutex
	rng     *rand.Rand
	offers  []Offer
	version int
}

func New(seed uint64) *Board {
	b := &Board{rng: rand.New(rand.NewPCG(seed, seed^0x5eed))}
	b.Rotate()
	return b
}

// Rotate escolhe de 1 a len(catalog) partidas e novas odds para cada uma
func (b *Board) Rotate() {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 1 + b.rng.IntN(len(catalog))
	perm := b.rng.Perm(len(catalog))[:n]
	offers := make([]Offer, 0, n)
	for _, i := range perm {
		o := catalog[i]
		o.Original = round2(1.40 + b.rng.Float64()*2.60)
		o.Boosted = round2(o.Original * (1.10 + b.rng.Float64()*0.40))
		offers = append(offers, o)
	}
	b.offers = offers
	b.version++
}

// Offers retorna uma cópia das ofertas atuais
func (b *Board) Offers() []Offer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Offer(nil), b.offers...)
}

func (b *Board) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Render monta o HTML da página de SuperOdds
func (b *Board) Render() (string, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, struct {
		Version int
		Offers  []Offer
	}{b.Version(), b.Offers()})
	return buf.String(), err
}

// RenderChallenge monta uma página de desafio anti-bot
func RenderChallenge() string {
	return challengePage
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"odd": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>SuperOdds | BETesporte</title></head>
<body>
<header class="site-header"><nav>Esportes · Ao Vivo · Cassino</nav></header>
<main data-version="{{.Version}}">
<section class="offer-list">
{{- range .Offers}}
  <div class="event-card">
    <h3>{{.Event}}</h3>
    <div class="super-odds-card" data-testid="SuperOdds-card">
      <span class="team-name">{{.Team}}</span>
      <span class="market-name">{{.Market}}</span>
      <s>{{odd .Original}}</s> <strong>{{odd .Boosted}}</strong>
    </div>
  </div>
{{- end}}
</section>
</main>
<footer>Jogue com responsabilidade. Proibido para menores de 18 anos.</footer>
</body>
</html>`))

const challengePage = `<!DOCTYPE html>
<html><head><title>Attention Required!</title></head>
<body><h1>Checking your browser before accessing betesporte.bet.br</h1>
<p>Please complete the security check to continue.</p></body></html>`
