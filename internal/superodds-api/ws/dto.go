package ws

import "github.com/radieske/superodds-monitor/pkg/contracts/events"

// AllURLs assina as mudanças de todas as URLs monitoradas
const AllURLs = "*"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// URL: obrigatória em subscribe/unsubscribe ("*" para todas)
type ClientMsg struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ServerMsg é enviada aos clientes: "odds_changed", "pong", "subscribed", "error"
type ServerMsg struct {
	Type    string              `json:"type"`
	URL     string              `json:"url,omitempty"`
	Payload *events.OddsChanged `json:"payload,omitempty"`
	Error   string              `json:"error,omitempty"`
}
