package fetcher

import (
	"strings"
	"time"
)

var desktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
}

const (
	iphoneUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"
	androidUserAgent = "Mozilla/5.0 (Linux; Android 10; SM-G975F) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Mobile Safari/537.36"
	htmlAccept       = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Profile descreve como montar a requisição de uma estratégia HTTP.
// UserAgents e Referers são sorteados a cada tentativa; referer "" omite o header.
type Profile struct {
	Name        string
	UserAgents  []string
	Referers    []string
	Headers     map[string]string
	PreDelayMin time.Duration
	PreDelayMax time.Duration
	Timeout     time.Duration

	// Alternatives gera URLs alternativas; quando definido, a URL original não é usada
	Alternatives func(url string) []string
}

// DefaultProfiles retorna as estratégias HTTP em ordem de prioridade
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name:       "mobile_ua",
			UserAgents: []string{iphoneUserAgent},
			Referers:   []string{"https://www.google.com.br/"},
			Headers: map[string]string{
				"Accept":          htmlAccept,
				"Accept-Language": "pt-BR,pt;q=0.8",
				"Accept-Encoding": "gzip, deflate, br",
				"Cache-Control":   "no-cache",
			},
			Timeout: 20 * time.Second,
		},
		{
			Name:       "random_delay",
			UserAgents: desktopUserAgents,
			Headers: map[string]string{
				"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
				"Accept-Language":           "pt-BR,pt;q=0.9,en;q=0.8",
				"Accept-Encoding":           "gzip, deflate, br",
				"Cache-Control":             "max-age=0",
				"Sec-Fetch-Dest":            "document",
				"Sec-Fetch-Mode":            "navigate",
				"Sec-Fetch-Site":            "none",
				"Sec-Fetch-User":            "?1",
				"Upgrade-Insecure-Requests": "1",
				"DNT":                       "1",
			},
			PreDelayMin: 3 * time.Second,
			PreDelayMax: 8 * time.Second,
			Timeout:     25 * time.Second,
		},
		{
			Name:       "different_referer",
			UserAgents: desktopUserAgents[:1],
			Referers: []string{
				"https://www.bing.com/",
				"https://duckduckgo.com/",
				"https://br.yahoo.com/",
				"https://www.google.com/",
				"",
			},
			Headers: map[string]string{
				"Accept":          htmlAccept,
				"Accept-Language": "pt-BR,pt;q=0.8",
				"Cache-Control":   "no-cache",
				"Pragma":          "no-cache",
			},
			Timeout: 15 * time.Second,
		},
		{
			Name:       "minimal_headers",
			UserAgents: []string{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"},
			Headers:    map[string]string{"Accept": "*/*"},
			Timeout:    10 * time.Second,
		},
		{
			Name:       "alternative_endpoints",
			UserAgents: []string{androidUserAgent},
			Headers: map[string]string{
				"Accept":          htmlAccept,
				"Accept-Language": "pt-BR,pt;q=0.8",
			},
			Timeout:      15 * time.Second,
			Alternatives: AlternativeURLs,
		},
	}
}

// AlternativeURLs gera variantes mobile/simplificadas da URL do BETesporte.
// Variantes iguais à original ou repetidas são descartadas.
func AlternativeURLs(u string) []string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	candidates := []string{
		strings.Replace(u, "desktop", "mobile", 1),
		strings.Replace(u, "sports/desktop", "sports", 1),
		strings.Replace(u, "bet.br", "bet.br/mobile", 1),
		u + sep + "mobile=1",
	}

	seen := map[string]bool{u: true}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
