package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/petelc/NexusPlaywright/framework"
	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

// Session is one isolated browser context with a single page, owned by one scenario attempt.
type Session struct {
	Engine  Engine
	Context playwright.BrowserContext
	Page    playwright.Page

	opts        Options
	attempt     int
	artifactDir string
	tracing     bool
	logger      framework.Logger

	lock   sync.Mutex
	closed bool
}

// Artifacts are the files kept for a scenario attempt.
type Artifacts struct {
	Screenshot string
	Trace      string
}

// Empty is true when nothing was written.
func (a Artifacts) Empty() bool {
	return a.Screenshot == "" && a.Trace == ""
}

// ActionTimeout is the ambient per-action timeout of this session.
func (s *Session) ActionTimeout() time.Duration {
	return s.opts.actionTimeout()
}

// NavigationTimeout is the ambient timeout for page loads and URL waits.
func (s *Session) NavigationTimeout() time.Duration {
	return s.opts.navigationTimeout()
}

// Logger is the scenario's debug logger.
func (s *Session) Logger() framework.Logger {
	return s.logger
}

// Scope binds locators to this session's page with the session's action timeout.
func (s *Session) Scope() *locator.Scope {
	return locator.NewScope(s.Page, s.ActionTimeout(), s.logger)
}

// URL is the page's current URL.
func (s *Session) URL() string {
	if s.Page == nil {
		return ""
	}
	return s.Page.URL()
}

// Goto navigates to path relative to the base URL and waits for DOMContentLoaded.
func (s *Session) Goto(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Printf("goto %s", path)
	_, err := s.Page.Goto(path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.NavigationTimeout().Milliseconds())),
	})
	if err != nil {
		return errs.Wrap(errs.NavigationTimeout, fmt.Sprintf("navigating to %s", path), err)
	}
	return nil
}

// Close ends the session. When failed is true, or the configured modes say so, a screenshot
// and the trace are written under the attempt's artifact directory before the context is
// closed. Close is safe to call more than once and from another goroutine than the one
// running the scenario; a second call is a no-op.
func (s *Session) Close(failed bool) (Artifacts, error) {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return Artifacts{}, nil
	}
	s.closed = true
	s.lock.Unlock()

	var arts Artifacts
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	wantScreenshot := s.opts.Screenshot.captures(failed) && s.Page != nil
	wantTrace := s.tracing && s.opts.Trace.keeps(failed)
	if wantScreenshot || wantTrace {
		keep(os.MkdirAll(s.artifactDir, 0o755))
	}

	if wantScreenshot {
		path := filepath.Join(s.artifactDir, "screenshot.png")
		_, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(path),
			FullPage: playwright.Bool(true),
			Timeout:  playwright.Float(float64(s.ActionTimeout().Milliseconds())),
		})
		if err == nil {
			arts.Screenshot = path
		} else {
			keep(fmt.Errorf("screenshot: %w", err))
		}
	}

	if s.tracing {
		if wantTrace {
			path := filepath.Join(s.artifactDir, "trace.zip")
			if err := s.Context.Tracing().Stop(path); err == nil {
				arts.Trace = path
			} else {
				keep(fmt.Errorf("trace: %w", err))
			}
		} else {
			keep(s.Context.Tracing().Stop())
		}
	}

	if s.Context != nil {
		keep(s.Context.Close())
	}
	return arts, firstErr
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Slug turns a scenario ID into a directory name.
func Slug(parts ...string) string {
	var cleaned []string
	for _, p := range parts {
		c := strings.Trim(unsafePathChars.ReplaceAllString(strings.ToLower(p), "-"), "-")
		if c != "" {
			cleaned = append(cleaned, c)
		}
	}
	slug := strings.Join(cleaned, "__")
	if len(slug) > 150 {
		slug = slug[:150]
	}
	return slug
}

func artifactDir(root string, req SessionSpec) string {
	if root == "" {
		root = "test-results"
	}
	attempt := req.Attempt
	if attempt < 1 {
		attempt = 1
	}
	return filepath.Join(root, string(req.Engine), req.Slug, fmt.Sprintf("attempt-%d", attempt))
}
