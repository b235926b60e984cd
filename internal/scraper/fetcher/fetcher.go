// Package fetcher baixa o HTML da casa de apostas tentando várias estratégias
// em sequência (perfis de headers HTTP e, opcionalmente, navegador headless).
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const (
	// MaxBodySize limita a leitura do corpo da resposta
	MaxBodySize = 10 << 20
	// MinBodySize: respostas com até esse tamanho não são consideradas páginas reais
	MinBodySize = 500
)

// ErrAllStrategiesFailed é embrulhado quando nenhuma estratégia trouxe HTML
var ErrAllStrategiesFailed = errors.New("all fetch strategies failed")

// ErrShortBody indica resposta pequena demais para ser a página
var ErrShortBody = errors.New("response body too short")

// StatusError representa uma resposta HTTP fora da faixa 2xx
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d %s (%s)", e.StatusCode, e.Status, e.URL)
}

// Blocked indica respostas típicas de bloqueio (403) ou rate limit (429)
func (e *StatusError) Blocked() bool {
	return e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusTooManyRequests
}

// IsBlocked reporta se algum erro da cadeia é um StatusError de bloqueio
func IsBlocked(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Blocked()
}

// Result é o HTML obtido e a estratégia que funcionou
type Result struct {
	HTML     string
	Method   string
	FinalURL string
	Attempts int // estratégias tentadas, incluindo a que funcionou
	Duration time.Duration
}

// Strategy é uma forma de obter a página
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, url string) (*Result, error)
}

// Options configura o Fetcher. Campos zerados usam os defaults.
type Options struct {
	Client     *http.Client
	Profiles   []Profile
	Retry      *RetryPolicy
	Browser    bool
	ChromePath string
	Timeout    time.Duration
}

// Fetcher tenta as estratégias em ordem até uma trazer HTML utilizável
type Fetcher struct {
	strategies []Strategy
	retry      RetryPolicy
	log        *zap.Logger

	OnAttempt func(strategy string, err error) // métricas por tentativa
}

// New monta o Fetcher com as estratégias HTTP dos perfis e, se habilitado,
// a estratégia de navegador por último.
func New(opts Options, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	profiles := opts.Profiles
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	retry := DefaultRetryPolicy()
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	strategies := make([]Strategy, 0, len(profiles)+1)
	for _, p := range profiles {
		strategies = append(strategies, &httpStrategy{client: client, profile: p})
	}
	if opts.Browser {
		strategies = append(strategies, NewBrowserStrategy(opts.ChromePath, opts.Timeout))
	}
	return NewWithStrategies(strategies, retry, log)
}

// NewWithStrategies monta um Fetcher com estratégias arbitrárias
func NewWithStrategies(strategies []Strategy, retry RetryPolicy, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{strategies: strategies, retry: retry, log: log}
}

// Strategies retorna os nomes das estratégias em ordem
func (f *Fetcher) Strategies() []string {
	names := make([]string, len(f.strategies))
	for i, s := range f.strategies {
		names[i] = s.Name()
	}
	return names
}

// Fetch executa as estratégias em sequência, esperando conforme a RetryPolicy
// entre falhas. Se todas falharem, o erro embrulha ErrAllStrategiesFailed e
// os erros de cada estratégia.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	start := time.Now()
	var errs []error

	for i, s := range f.strategies {
		res, err := s.Fetch(ctx, url)
		if err == nil && len(res.HTML) <= MinBodySize {
			err = fmt.Errorf("%w (%d bytes)", ErrShortBody, len(res.HTML))
		}
		if f.OnAttempt != nil {
			f.OnAttempt(s.Name(), err)
		}

		if err == nil {
			res.Attempts = i + 1
			res.Duration = time.Since(start)
			f.log.Info("page fetched",
				zap.String("url", url),
				zap.String("method", res.Method),
				zap.Int("attempts", res.Attempts),
				zap.Int("size", len(res.HTML)),
			)
			return res, nil
		}

		f.log.Warn("fetch strategy failed",
			zap.String("strategy", s.Name()),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i < len(f.strategies)-1 {
			if err := f.retry.Wait(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrAllStrategiesFailed, errors.Join(errs...))
}

// httpStrategy faz um GET com os headers de um Profile
type httpStrategy struct {
	client  *http.Client
	profile Profile
}

func (s *httpStrategy) Name() string { return s.profile.Name }

func (s *httpStrategy) Fetch(ctx context.Context, url string) (*Result, error) {
	if s.profile.PreDelayMax > 0 {
		if err := sleep(ctx, between(s.profile.PreDelayMin, s.profile.PreDelayMax)); err != nil {
			return nil, err
		}
	}

	if s.profile.Alternatives == nil {
		html, final, err := s.get(ctx, url)
		if err != nil {
			return nil, err
		}
		return &Result{HTML: html, Method: s.profile.Name, FinalURL: final}, nil
	}

	// endpoints alternativos: primeiro que responder 2xx vence
	var errs []error
	for _, alt := range s.profile.Alternatives(url) {
		html, final, err := s.get(ctx, alt)
		if err == nil {
			return &Result{HTML: html, Method: "alternative_endpoint: " + alt, FinalURL: final}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no alternative endpoints for url")
	}
	return nil, errors.Join(errs...)
}

func (s *httpStrategy) get(ctx context.Context, url string) (string, string, error) {
	if s.profile.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.profile.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	for k, v := range s.profile.Headers {
		req.Header.Set(k, v)
	}
	if ua := pick(s.profile.UserAgents); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	if ref := pick(s.profile.Referers); ref != "" {
		req.Header.Set("Referer", ref)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", "", &StatusError{URL: url, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := readBody(resp)
	if err != nil {
		return "", "", fmt.Errorf("reading response: %w", err)
	}
	return body, resp.Request.URL.String(), nil
}

// readBody descomprime conforme Content-Encoding, converte para UTF-8 e limita o tamanho.
// A descompressão é manual porque o transport só faz gzip quando ele mesmo pede.
func readBody(resp *http.Response) (string, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return "", fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case "deflate":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return "", fmt.Errorf("deflate: %w", err)
		}
		defer zr.Close()
		r = zr
	case "br":
		r = brotli.NewReader(r)
	}

	utf8Reader, err := charset.NewReader(r, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("charset: %w", err)
	}

	b, err := io.ReadAll(io.LimitReader(utf8Reader, MaxBodySize))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func pick(xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	return xs[rand.IntN(len(xs))]
}
