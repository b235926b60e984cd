package models

import "time"

// Status possíveis de uma extração
const (
	StatusFound    = "found"
	StatusNotFound = "not_found"
)

// OddRecord representa uma SuperOdd detectada no HTML da casa de apostas.
// É um valor imutável criado pela extração e descartado ao fim da requisição.
type OddRecord struct {
	ID          string    `json:"id"`
	OddValue    float64   `json:"oddValue"`
	Market      string    `json:"market"`
	Team        string    `json:"team"`
	Event       string    `json:"event"`
	OriginalOdd *float64  `json:"originalOdd,omitempty"` // odd antes do boost (riscada na página)
	Boost       string    `json:"boost,omitempty"`       // ex: "25.0%"
	Timestamp   time.Time `json:"timestamp"`

	// Proveniência (debug/exibição)
	Source   string `json:"source"`             // selector | scan | pattern
	Selector string `json:"selector,omitempty"` // seletor que encontrou o elemento
	Context  string `json:"context,omitempty"`  // trecho de texto ao redor
}

// Key identifica uma odd para deduplicação e detecção de mudanças.
// Time e evento não fazem parte da identidade.
type Key struct {
	OddValue float64
	Market   string
}

// KeyOf retorna a chave (oddValue, market) de um registro
func KeyOf(o OddRecord) Key {
	return Key{OddValue: o.OddValue, Market: o.Market}
}
