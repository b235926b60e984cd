package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/internal/scraper/extractor"
	"github.com/radieske/superodds-monitor/internal/scraper/fetcher"
	"github.com/radieske/superodds-monitor/internal/superodds-api/cache"
	"github.com/radieske/superodds-monitor/pkg/contracts/events"
)

// Fetcher obtém o HTML da página alvo
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Result, error)
}

// Extractor detecta as SuperOdds no HTML
type Extractor interface {
	Extract(html string) (extractor.Result, error)
}

// SnapshotPublisher envia as capturas para o notifier
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, s events.SuperOddsSnapshot) error
}

// API expõe os endpoints usados pelo dashboard e pela extensão.
// Publisher e WS são opcionais.
type API struct {
	Log        *zap.Logger
	Fetcher    Fetcher
	Extractor  Extractor
	Cache      cache.Cache
	Publisher  SnapshotPublisher
	WS         http.HandlerFunc
	DefaultURL string
	CacheTTL   time.Duration

	OnExtraction func(source, status string) // métricas
	OnCacheHit   func()                      // métricas
	OnError      func(stage string)          // métricas por fase

	now     func() time.Time
	maxBody int64
}

// Router retorna o roteador HTTP com middlewares, CORS e rotas
func (a *API) Router() http.Handler {
	if a.Log == nil {
		a.Log = zap.NewNop()
	}
	if a.CacheTTL <= 0 {
		a.CacheTTL = cache.DefaultTTL
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.maxBody <= 0 {
		a.maxBody = maxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(a.requestLogger)

	// extensão e dashboard rodam em outras origens
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/superodds", a.getSuperOdds) // Scraping da página (com cache)
	r.Post("/api/parse-html", a.parseHTML)  // Modo manual: HTML colado
	r.Post("/api/webhook", a.webhook)       // Odds enviadas pela extensão
	r.Get("/api/proxy", a.proxy)            // HTML bruto via fetcher
	if a.WS != nil {
		r.Get("/ws", a.WS) // Mudanças de odds em tempo real
	}
	return r
}

// requestLogger registra método, rota, status e latência de cada requisição
func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.Log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) stageError(stage string) {
	if a.OnError != nil {
		a.OnError(stage)
	}
}
