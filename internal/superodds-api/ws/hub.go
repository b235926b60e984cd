package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/pkg/contracts/events"
)

const writeWait = 5 * time.Second

// client serializa as escritas de uma conexão (gorilla não aceita escritas concorrentes)
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *client) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.write(b)
}

// Hub gerencia conexões WebSocket e assinaturas por URL monitorada
// subs: mapeia URL (ou "*") para o conjunto de clientes inscritos
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger
	mu       sync.RWMutex
	subs     map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe por URL e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	c := &client{conn: conn}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			if msg.URL == "" {
				_ = c.writeJSON(ServerMsg{Type: "error", Error: "url is required"})
				continue
			}
			h.subscribe(msg.URL, c)
			_ = c.writeJSON(ServerMsg{Type: "subscribed", URL: msg.URL})
		case "unsubscribe":
			h.unsubscribe(msg.URL, c)
		case "ping":
			_ = c.writeJSON(ServerMsg{Type: "pong"})
		default:
			_ = c.writeJSON(ServerMsg{Type: "error", Error: "unknown message type"})
		}
	}

	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for url, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, url)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) subscribe(url string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[url]; !ok {
		h.subs[url] = make(map[*client]struct{})
	}
	h.subs[url][c] = struct{}{}
}

func (h *Hub) unsubscribe(url string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.subs[url]; ok {
		delete(m, c)
		if len(m) == 0 {
			delete(h.subs, url)
		}
	}
}

// Subscribers retorna quantos clientes estão inscritos na URL
func (h *Hub) Subscribers(url string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[url])
}

// Broadcast envia a mudança para os inscritos na URL e em "*"; retorna quantos receberam
func (h *Hub) Broadcast(ev events.OddsChanged) int {
	h.mu.RLock()
	targets := make(map[*client]struct{}, len(h.subs[ev.URL])+len(h.subs[AllURLs]))
	for c := range h.subs[ev.URL] {
		targets[c] = struct{}{}
	}
	for c := range h.subs[AllURLs] {
		targets[c] = struct{}{}
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return 0
	}

	b, err := json.Marshal(ServerMsg{Type: "odds_changed", URL: ev.URL, Payload: &ev})
	if err != nil {
		h.log.Warn("ws marshal failed", zap.Error(err))
		return 0
	}
	sent := 0
	for c := range targets {
		if err := c.write(b); err != nil {
			h.log.Debug("ws write failed", zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}
