package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// ParseHTMLRequest é o corpo do modo manual (HTML colado pelo usuário)
type ParseHTMLRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url,omitempty"`
}

// WebhookRequest é enviado pela extensão do navegador com as odds já extraídas
type WebhookRequest struct {
	Source     string       `json:"source"`
	URL        string       `json:"url"`
	Odds       []WebhookOdd `json:"odds"`
	Screenshot string       `json:"screenshot,omitempty"` // data URL, não é armazenado
}

// WebhookOdd é uma odd no formato da extensão; timestamp vem como Date.now()
type WebhookOdd struct {
	ID          string    `json:"id"`
	OddValue    float64   `json:"oddValue"`
	Market      string    `json:"market"`
	Team        string    `json:"team"`
	Event       string    `json:"event"`
	OriginalOdd *float64  `json:"originalOdd,omitempty"`
	Boost       string    `json:"boost,omitempty"`
	Timestamp   Timestamp `json:"timestamp"`
	Source      string    `json:"source"`
	Selector    string    `json:"selector,omitempty"`
	Context     string    `json:"context,omitempty"`
}

// Record converte para o modelo interno; sem timestamp usa received
func (o WebhookOdd) Record(received time.Time) models.OddRecord {
	ts := o.Timestamp.Time
	if ts.IsZero() {
		ts = received
	}
	return models.OddRecord{
		ID:          o.ID,
		OddValue:    o.OddValue,
		Market:      o.Market,
		Team:        o.Team,
		Event:       o.Event,
		OriginalOdd: o.OriginalOdd,
		Boost:       o.Boost,
		Timestamp:   ts,
		Source:      o.Source,
		Selector:    o.Selector,
		Context:     o.Context,
	}
}

// Timestamp aceita epoch em milissegundos (número ou string) e RFC3339
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			t.Time = parsed
			return nil
		}
		raw = s
	}

	ms, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("timestamp %s: expected epoch millis or RFC3339", b)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time)
}
