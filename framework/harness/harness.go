package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/petelc/NexusPlaywright/framework"
	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/obs"
)

// Options are the browser-level settings shared by every session of a run.
type Options struct {
	// BaseURL is prepended by the browser to relative navigation paths such as "/login".
	BaseURL string

	Headless bool
	SlowMo   time.Duration

	// IgnoreHTTPSErrors disables certificate validation in every browser context. It exists
	// for locally self-signed development certificates and is never turned on implicitly.
	IgnoreHTTPSErrors bool

	ActionTimeout     time.Duration
	NavigationTimeout time.Duration

	Trace      TraceMode
	Screenshot ScreenshotMode

	// OutputDir is the root under which per-attempt artifacts are written.
	OutputDir string
}

// DefaultActionTimeout is the ambient per-action timeout.
const DefaultActionTimeout = 5 * time.Second

func (o Options) actionTimeout() time.Duration {
	if o.ActionTimeout <= 0 {
		return DefaultActionTimeout
	}
	return o.ActionTimeout
}

func (o Options) navigationTimeout() time.Duration {
	if o.NavigationTimeout <= 0 {
		return 2 * o.actionTimeout()
	}
	return o.NavigationTimeout
}

// TestHarness owns the Playwright driver process and one launched browser per engine. It
// contains no Nexus-specific logic; suites get isolated sessions from it.
type TestHarness struct {
	pw       *playwright.Playwright
	browsers map[Engine]playwright.Browser
	opts     Options
	logger   *slog.Logger
	lock     sync.Mutex
	closed   bool
}

// NewTestHarness starts the Playwright driver and launches each requested engine. If any
// engine fails to launch, everything already started is shut down again.
func NewTestHarness(opts Options, engines []Engine, startupOutput io.Writer) (*TestHarness, error) {
	logger := obs.Pkg("harness")
	if opts.IgnoreHTTPSErrors {
		logger.Warn("TLS certificate validation is disabled for all browser contexts",
			"base_url", opts.BaseURL)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, errs.Wrap(errs.BrowserUnavailable,
			"could not start the Playwright driver (run `nexus-e2e install` first)", err)
	}
	h := &TestHarness{
		pw:       pw,
		browsers: make(map[Engine]playwright.Browser),
		opts:     opts,
		logger:   logger,
	}

	for _, engine := range engines {
		if startupOutput != nil {
			fmt.Fprintf(startupOutput, "Launching %s (headless=%t)\n", engine, opts.Headless)
		}
		launchOpts := playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
		}
		if opts.SlowMo > 0 {
			launchOpts.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
		}
		browser, err := engine.browserType(pw).Launch(launchOpts)
		if err != nil {
			_ = h.Close()
			return nil, errs.Wrap(errs.BrowserUnavailable, fmt.Sprintf("could not launch %s", engine), err)
		}
		logger.Info("browser launched", "engine", string(engine), "version", browser.Version())
		h.browsers[engine] = browser
	}
	return h, nil
}

// Options returns the settings the harness was created with.
func (h *TestHarness) Options() Options {
	return h.opts
}

// Engines returns the engines that were launched.
func (h *TestHarness) Engines() []Engine {
	var ret []Engine
	for _, e := range AllEngines {
		if _, ok := h.browsers[e]; ok {
			ret = append(ret, e)
		}
	}
	return ret
}

// SessionSpec identifies the scenario attempt a session is created for.
type SessionSpec struct {
	Engine Engine
	// Slug is a filesystem-safe scenario identifier used for the artifact directory.
	Slug    string
	Attempt int
	Logger  framework.Logger
}

// NewSession creates a fresh browser context (independent cookie and storage jar) with one
// page. Tracing is started here when the trace mode calls for it on this attempt.
func (h *TestHarness) NewSession(ctx context.Context, req SessionSpec) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.lock.Lock()
	browser, ok := h.browsers[req.Engine]
	closed := h.closed
	h.lock.Unlock()
	if closed {
		return nil, errs.New(errs.BrowserUnavailable, "harness is closed")
	}
	if !ok {
		return nil, errs.Newf(errs.BrowserUnavailable, "engine %s was not launched", req.Engine)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(h.opts.IgnoreHTTPSErrors),
	}
	if h.opts.BaseURL != "" {
		contextOpts.BaseURL = playwright.String(h.opts.BaseURL)
	}
	bc, err := browser.NewContext(contextOpts)
	if err != nil {
		return nil, errs.Wrap(errs.BrowserUnavailable, "could not create browser context", err)
	}
	bc.SetDefaultTimeout(float64(h.opts.actionTimeout().Milliseconds()))
	bc.SetDefaultNavigationTimeout(float64(h.opts.navigationTimeout().Milliseconds()))

	s := &Session{
		Engine:      req.Engine,
		Context:     bc,
		opts:        h.opts,
		attempt:     req.Attempt,
		artifactDir: artifactDir(h.opts.OutputDir, req),
		logger:      req.Logger,
	}
	if s.logger == nil {
		s.logger = framework.NullLogger()
	}

	if h.opts.Trace.records(req.Attempt) {
		err := bc.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
			Sources:     playwright.Bool(false),
		})
		if err != nil {
			_ = bc.Close()
			return nil, errs.Wrap(errs.BrowserUnavailable, "could not start tracing", err)
		}
		s.tracing = true
	}

	page, err := bc.NewPage()
	if err != nil {
		_ = bc.Close()
		return nil, errs.Wrap(errs.BrowserUnavailable, "could not open page", err)
	}
	s.Page = page
	return s, nil
}

// Close shuts down every browser and the driver.
func (h *TestHarness) Close() error {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	var firstErr error
	for engine, b := range h.browsers {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", engine, err)
		}
	}
	if h.pw != nil {
		if err := h.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stopping playwright: %w", err)
		}
	}
	return firstErr
}

// Install downloads the driver and the given engines' browser binaries.
func Install(engines []Engine) error {
	names := make([]string, 0, len(engines))
	for _, e := range engines {
		names = append(names, string(e))
	}
	return playwright.Install(&playwright.RunOptions{Browsers: names})
}
