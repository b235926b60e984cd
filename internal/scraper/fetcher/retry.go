package fetcher

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryPolicy define a espera entre estratégias que falharam:
// backoff exponencial com teto e jitter.
type RetryPolicy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64 // fração do atraso sorteada para baixo (0..1)
}

// DefaultRetryPolicy começa em 2s, cresce 1.5x até 8s e sorteia até 50% a menos
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialDelay: 2 * time.Second,
		MaxDelay:     8 * time.Second,
		Multiplier:   1.5,
		Jitter:       0.5,
	}
}

// Delay calcula a espera após a falha de número attempt (começando em 0)
func (r RetryPolicy) Delay(attempt int) time.Duration {
	d := float64(r.InitialDelay)
	for i := 0; i < attempt; i++ {
		d *= r.Multiplier
		if r.MaxDelay > 0 && d > float64(r.MaxDelay) {
			d = float64(r.MaxDelay)
			break
		}
	}
	if r.MaxDelay > 0 && d > float64(r.MaxDelay) {
		d = float64(r.MaxDelay)
	}
	if r.Jitter > 0 {
		d -= d * r.Jitter * rand.Float64()
	}
	return time.Duration(d)
}

// Wait dorme Delay(attempt) ou retorna antes se o contexto for cancelado
func (r RetryPolicy) Wait(ctx context.Context, attempt int) error {
	return sleep(ctx, r.Delay(attempt))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// between sorteia uma duração em [lo, hi)
func between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int64N(int64(hi-lo)))
}
