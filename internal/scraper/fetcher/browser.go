package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserStrategy renderiza a página no Chrome headless; útil quando o conteúdo
// das odds é montado por JavaScript.
type BrowserStrategy struct {
	chromePath string
	timeout    time.Duration
	settle     time.Duration
}

// NewBrowserStrategy cria a estratégia. chromePath vazio usa o Chrome do sistema.
func NewBrowserStrategy(chromePath string, timeout time.Duration) *BrowserStrategy {
	if timeout < 30*time.Second {
		timeout = 45 * time.Second
	}
	return &BrowserStrategy{chromePath: chromePath, timeout: timeout, settle: 2 * time.Second}
}

func (b *BrowserStrategy) Name() string { return "browser" }

func (b *BrowserStrategy) Fetch(ctx context.Context, url string) (*Result, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(desktopUserAgents[0]),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(b.chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var html, finalURL string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// odds são carregadas depois do body
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("browser fetch: %w", err)
	}

	return &Result{HTML: html, Method: b.Name(), FinalURL: finalURL}, nil
}
