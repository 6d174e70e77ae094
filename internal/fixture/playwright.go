package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/e2eharness/internal/config"
)

// Playwright owns the engine and the browser of a test process. The
// browser is launched on first use so API-only runs never need one.
type Playwright struct {
	PW  *playwright.Playwright
	cfg *config.Config

	mu      sync.Mutex
	browser playwright.Browser
}

// Launch starts the playwright driver.
func Launch(cfg *config.Config) (*Playwright, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &Playwright{PW: pw, cfg: cfg}, nil
}

// Browser returns the configured browser, launching it if needed.
func (p *Playwright) Browser() (playwright.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.browser != nil {
		return p.browser, nil
	}

	var browserType playwright.BrowserType
	switch p.cfg.Browser.Name {
	case config.Firefox:
		browserType = p.PW.Firefox
	case config.WebKit:
		browserType = p.PW.WebKit
	default:
		browserType = p.PW.Chromium
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(p.cfg.Browser.Headless),
		SlowMo:   playwright.Float(float64(p.cfg.Browser.SlowMo.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", p.cfg.Browser.Name, err)
	}
	p.browser = browser
	return browser, nil
}

// NewSource returns the handle source of one test.
func (p *Playwright) NewSource() *PlaywrightSource {
	return &PlaywrightSource{
		pw:       p.PW,
		browser:  p.Browser,
		ui:       p.cfg.UI,
		api:      p.cfg.API,
		traceDir: p.cfg.Browser.TraceDir,
	}
}

// Close releases the browser and stops playwright.
func (p *Playwright) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.browser != nil {
		errs = append(errs, p.browser.Close())
	}
	return errors.Join(append(errs, p.PW.Stop())...)
}

// PlaywrightSource opens an isolated browser context and request context
// on demand and releases them when the test ends.
type PlaywrightSource struct {
	pw      *playwright.Playwright
	browser func() (playwright.Browser, error)
	ui      *config.UIConfig
	api     *config.APIConfig
	// traceDir enables tracing of every browser context when set.
	traceDir string

	mu       sync.Mutex
	contexts []playwright.BrowserContext
	requests []playwright.APIRequestContext
	// tracing holds the contexts whose trace is still recording.
	tracing []playwright.BrowserContext
}

// Page opens a new tab in a fresh browser context rooted at the UI base URL.
func (s *PlaywrightSource) Page(ctx context.Context) (playwright.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browser, err := s.browser()
	if err != nil {
		return nil, err
	}
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(s.ui.BaseURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	s.mu.Lock()
	s.contexts = append(s.contexts, bctx)
	s.mu.Unlock()

	if s.traceDir != "" {
		err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
			Sources:     playwright.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to start tracing: %w", err)
		}
		s.mu.Lock()
		s.tracing = append(s.tracing, bctx)
		s.mu.Unlock()
	}

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

// Request opens an HTTP request context rooted at the API base URL.
func (s *PlaywrightSource) Request(ctx context.Context) (playwright.APIRequestContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := s.pw.Request.NewContext(playwright.APIRequestNewContextOptions{
		BaseURL:          playwright.String(s.api.BaseURL),
		ExtraHttpHeaders: s.api.Headers(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create request context: %w", err)
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return req, nil
}

// SaveTraces stops the recording traces and writes them under the trace
// directory, one zip per browser context, named after name. It is a no-op
// when tracing is disabled.
func (s *PlaywrightSource) SaveTraces(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tracing) == 0 {
		return nil
	}
	if err := os.MkdirAll(s.traceDir, 0o755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}

	var errs []error
	for i, bctx := range s.tracing {
		if err := bctx.Tracing().Stop(TracePath(s.traceDir, name, i)); err != nil {
			errs = append(errs, fmt.Errorf("failed to save trace: %w", err))
		}
	}
	s.tracing = nil
	return errors.Join(errs...)
}

var unsafeTraceChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// TracePath returns the zip file of the n-th trace of the spec called name.
func TracePath(dir, name string, n int) string {
	base := strings.Trim(unsafeTraceChars.ReplaceAllString(strings.ToLower(name), "-"), "-.")
	if base == "" {
		base = "trace"
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%d.zip", base, n))
}

// Release discards unsaved traces and closes every context the source
// opened.
func (s *PlaywrightSource) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, bctx := range s.tracing {
		errs = append(errs, bctx.Tracing().Stop())
	}
	s.tracing = nil
	for _, req := range s.requests {
		errs = append(errs, req.Dispose())
	}
	for _, bctx := range s.contexts {
		errs = append(errs, bctx.Close())
	}
	s.requests, s.contexts = nil, nil
	return errors.Join(errs...)
}
