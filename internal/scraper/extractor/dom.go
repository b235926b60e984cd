package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// matcher é um predicado sobre elementos que implementa goquery.Matcher.
// Permite comparar atributos sem diferenciar maiúsculas/minúsculas,
// o que os seletores CSS do cascadia não suportam de forma portátil.
type matcher func(n *html.Node) bool

var _ goquery.Matcher = matcher(nil)

// Match aplica o predicado apenas a nós do tipo elemento
func (m matcher) Match(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && m(n)
}

// MatchAll retorna n e seus descendentes que satisfazem o predicado, em ordem de documento
func (m matcher) MatchAll(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if m.Match(c) {
			out = append(out, c)
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return out
}

// Filter mantém apenas os nós que satisfazem o predicado
func (m matcher) Filter(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if m.Match(n) {
			out = append(out, n)
		}
	}
	return out
}

// attr retorna o valor de um atributo (ou "")
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// attrContains casa elementos cujo atributo contém algum dos termos (case-insensitive)
func attrContains(key string, terms ...string) matcher {
	return func(n *html.Node) bool {
		v := strings.ToLower(attr(n, key))
		if v == "" {
			return false
		}
		for _, t := range terms {
			if strings.Contains(v, t) {
				return true
			}
		}
		return false
	}
}

// hasTag casa elementos pelo nome da tag
func hasTag(tags ...string) matcher {
	return func(n *html.Node) bool {
		for _, t := range tags {
			if n.Data == t {
				return true
			}
		}
		return false
	}
}

// anyOf combina predicados com OU
func anyOf(ms ...matcher) matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if m(n) {
				return true
			}
		}
		return false
	}
}

// ownText é o texto do elemento (com descendentes) sem espaços nas pontas
func ownText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// textWithout retorna o texto do elemento ignorando os descendentes que casam com m.
// Usado para não confundir a odd original (riscada) com a odd turbinada.
// Os nós de texto são unidos por espaço: "<span>Flamengo</span><b>2.50</b>"
// vira "Flamengo 2.50" e a odd continua isolada para o \b da regex.
func textWithout(s *goquery.Selection, m matcher) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if m.Match(n) || n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	return strings.Join(parts, " ")
}

// firstWithText retorna o texto do primeiro elemento da seleção com texto não vazio
func firstWithText(s *goquery.Selection) string {
	var out string
	s.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		out = ownText(el)
		return out == ""
	})
	return out
}

// truncate corta s em até n runas
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
