package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/superodds-monitor/internal/scraper/fetcher"
	"github.com/radieske/superodds-monitor/internal/scraper/validator"
	"github.com/radieske/superodds-monitor/internal/superodds-api/dto"
	"github.com/radieske/superodds-monitor/pkg/contracts/events"
	"github.com/radieske/superodds-monitor/pkg/models"
)

const (
	// corpo JSON do modo manual: o escape de aspas e tags pode dobrar o HTML
	maxBodyBytes   = 2*validator.MaxHTMLSize + 1<<20
	maxWebhookOdds = 50
	publishTimeout = 2 * time.Second
)

var defaultSuggestions = []string{
	"Tente novamente em alguns minutos",
	"Use o modo manual (cole o HTML da página)",
	"O site pode ter rate limiting, aguarde antes de tentar de novo",
}

const manualModeSuggestion = "Use o modo manual: cole o HTML da página do BETesporte"

// getSuperOdds faz o scraping da URL alvo, preferindo o cache quando fresco
func (a *API) getSuperOdds(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		target = a.DefaultURL
	}
	if err := checkURL(target); err != nil {
		a.writeError(w, http.StatusBadRequest, err, false)
		return
	}
	force := isForce(r.URL.Query().Get("force"))

	if !force {
		entry, ok, err := a.Cache.Get(r.Context(), target)
		if err != nil {
			a.Log.Warn("cache get failed", zap.String("url", target), zap.Error(err))
			a.stageError("cache_get")
		}
		if ok && entry.Fresh(a.now(), a.CacheTTL) {
			if a.OnCacheHit != nil {
				a.OnCacheHit()
			}
			writeJSON(w, http.StatusOK, a.envelope(entry.Payload, true))
			return
		}
	}

	page, err := a.Fetcher.Fetch(r.Context(), target)
	if err != nil {
		a.stageError("fetch")
		a.Log.Warn("fetch failed", zap.String("url", target), zap.Error(err))
		a.writeError(w, http.StatusBadGateway, fmt.Errorf("site bloqueando ou indisponível, use o modo manual: %w", err), fetcher.IsBlocked(err))
		return
	}

	if err := validator.Validate(page.HTML); err != nil {
		a.stageError("validate")
		if validator.IsBlocked(err) {
			a.writeError(w, http.StatusServiceUnavailable, err, true)
			return
		}
		a.writeError(w, http.StatusBadGateway, fmt.Errorf("upstream page rejected: %w", err), false)
		return
	}

	resp, err := a.extract(page.HTML, target, events.SourceAPI)
	if err != nil {
		a.stageError("extract")
		a.writeError(w, http.StatusInternalServerError, err, false)
		return
	}
	resp.FetchMethod = page.Method
	resp.StrategiesTried = page.Attempts

	if err := a.Cache.Set(r.Context(), target, resp); err != nil {
		a.Log.Warn("cache set failed", zap.String("url", target), zap.Error(err))
		a.stageError("cache_set")
	}
	a.publish(r.Context(), resp)

	writeJSON(w, http.StatusOK, a.envelope(resp, false))
}

// parseHTML é o modo manual: o usuário cola o HTML da página
func (a *API) parseHTML(w http.ResponseWriter, r *http.Request) {
	var req dto.ParseHTMLRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err, false)
		return
	}

	if err := validator.Validate(req.HTML); err != nil {
		a.stageError("validate")
		if validator.IsBlocked(err) {
			a.writeError(w, http.StatusServiceUnavailable, err, true)
			return
		}
		a.writeError(w, http.StatusBadRequest, err, false)
		return
	}

	resp, err := a.extract(req.HTML, req.URL, events.SourceManual)
	if err != nil {
		a.stageError("extract")
		a.writeError(w, http.StatusInternalServerError, err, false)
		return
	}
	a.publish(r.Context(), resp)

	env := a.envelope(resp, false)
	env.CacheTTLMs = 0
	writeJSON(w, http.StatusOK, env)
}

// webhook recebe odds já extraídas pela extensão do navegador
func (a *API) webhook(w http.ResponseWriter, r *http.Request) {
	var req dto.WebhookRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err, false)
		return
	}

	now := a.now()
	records := make([]models.OddRecord, 0, len(req.Odds))
	for _, o := range req.Odds {
		records = append(records, o.Record(now))
	}
	odds := dedupOdds(records, maxWebhookOdds)
	target := req.URL
	if target == "" {
		target = a.DefaultURL
	}

	a.Log.Info("webhook received",
		zap.String("source", req.Source),
		zap.String("url", target),
		zap.Int("odds", len(req.Odds)),
		zap.Int("processed", len(odds)),
		zap.Bool("screenshot", req.Screenshot != ""),
	)

	status := models.StatusNotFound
	if len(odds) > 0 {
		status = models.StatusFound
	}
	if a.OnExtraction != nil {
		a.OnExtraction(events.SourceWebhook, status)
	}
	a.publish(r.Context(), dto.SuperOddsResponse{
		Timestamp: now,
		URL:       target,
		TotalOdds: len(odds),
		Odds:      odds,
		Status:    status,
		Source:    events.SourceWebhook,
	})

	writeJSON(w, http.StatusOK, dto.WebhookResponse{Success: true, Received: now, Processed: len(odds)})
}

// proxy devolve o HTML bruto obtido pelas estratégias do fetcher
func (a *API) proxy(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("url is required"), false)
		return
	}
	if err := checkURL(target); err != nil {
		a.writeError(w, http.StatusBadRequest, err, false)
		return
	}

	page, err := a.Fetcher.Fetch(r.Context(), target)
	if err != nil {
		a.stageError("fetch")
		a.writeError(w, http.StatusBadGateway, err, fetcher.IsBlocked(err))
		return
	}
	writeJSON(w, http.StatusOK, dto.ProxyResponse{Success: true, HTML: page.HTML, Method: page.Method})
}

// extract roda a cascata e monta o payload no formato de resposta
func (a *API) extract(html, target, source string) (dto.SuperOddsResponse, error) {
	res, err := a.Extractor.Extract(html)
	if err != nil {
		return dto.SuperOddsResponse{}, err
	}
	if a.OnExtraction != nil {
		a.OnExtraction(source, res.Status)
	}
	a.Log.Info("superodds extracted",
		zap.String("url", target),
		zap.String("source", source),
		zap.String("tier", res.Tier),
		zap.Int("total", res.TotalOdds),
	)
	return dto.SuperOddsResponse{
		Timestamp: a.now(),
		URL:       target,
		TotalOdds: res.TotalOdds,
		Odds:      res.Odds,
		Status:    res.Status,
		HTMLSize:  len(html),
		Tier:      res.Tier,
		Source:    source,
	}, nil
}

// publish envia a captura ao Kafka; falhas não afetam a resposta HTTP
func (a *API) publish(ctx context.Context, resp dto.SuperOddsResponse) {
	if a.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := a.Publisher.PublishSnapshot(ctx, events.SuperOddsSnapshot{
		URL:        resp.URL,
		Source:     resp.Source,
		Status:     resp.Status,
		TotalOdds:  resp.TotalOdds,
		Odds:       resp.Odds,
		HTMLSize:   resp.HTMLSize,
		CapturedAt: resp.Timestamp,
	})
	if err != nil {
		a.Log.Warn("snapshot publish failed", zap.String("url", resp.URL), zap.Error(err))
		a.stageError("publish")
	}
}

func (a *API) envelope(p dto.SuperOddsResponse, cached bool) dto.SuperOddsEnvelope {
	return dto.SuperOddsEnvelope{
		Success:           true,
		Cached:            cached,
		SuperOddsResponse: p,
		LastUpdate:        p.Timestamp,
		CacheTTLMs:        a.CacheTTL.Milliseconds(),
	}
}

// writeError responde no formato único de erro, com sugestões para o usuário
func (a *API) writeError(w http.ResponseWriter, status int, err error, blocked bool) {
	resp := dto.ErrorResponse{
		Success:             false,
		Error:               err.Error(),
		Timestamp:           a.now(),
		Suggestions:         defaultSuggestions,
		ManualModeAvailable: true,
		BlockDetected:       blocked,
	}
	if blocked {
		resp.PrioritySuggestion = manualModeSuggestion
	}
	writeJSON(w, status, resp)
}

// decodeJSON lê o corpo até maxBody; corpo grande demais vira erro de tamanho do HTML
func (a *API) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &validator.ValidationError{Reason: fmt.Sprintf("request body too large (maximum %d bytes)", tooLarge.Limit)}
		}
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

// checkURL aceita apenas URLs absolutas http(s)
func checkURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q", raw)
	}
	return nil
}

// isForce: "force" presente força nova coleta, exceto "0"/"false"
func isForce(v string) bool {
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

// dedupOdds aplica a mesma identidade (oddValue, market) e o limite da extração
func dedupOdds(odds []models.OddRecord, limit int) []models.OddRecord {
	seen := make(map[models.Key]struct{}, len(odds))
	out := make([]models.OddRecord, 0, len(odds))
	for _, o := range odds {
		if o.OddValue <= 0 {
			continue
		}
		k := models.KeyOf(o)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, o)
		if len(out) >= limit {
			break
		}
	}
	return out
}
