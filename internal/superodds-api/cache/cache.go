// Package cache guarda o último resultado de extração por URL alvo.
package cache

import (
	"context"
	"time"

	"github.com/radieske/superodds-monitor/internal/superodds-api/dto"
)

// DefaultTTL é a validade de um resultado em cache
const DefaultTTL = 30 * time.Second

// Entry é o payload com o instante da captura
type Entry struct {
	Payload    dto.SuperOddsResponse `json:"payload"`
	CapturedAt time.Time             `json:"capturedAt"`
}

// Fresh indica se a entrada ainda está dentro do TTL em now
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CapturedAt) < ttl
}

// Cache é injetado na camada HTTP; a chave é a URL alvo.
// Get devolve entradas mesmo expiradas; quem decide é o chamador via Fresh.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, payload dto.SuperOddsResponse) error
	// Sweep remove entradas mais velhas que 2×TTL e retorna quantas saíram
	Sweep(ctx context.Context) (int, error)
}
