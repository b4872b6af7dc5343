package harness

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Engine names a browser engine a scenario can run under.
type Engine string

const (
	Chromium Engine = "chromium"
	Firefox  Engine = "firefox"
	WebKit   Engine = "webkit"
)

// AllEngines is every supported engine, in the order runs are reported.
var AllEngines = []Engine{Chromium, Firefox, WebKit} //nolint:gochecknoglobals

// ParseEngine accepts an engine name case-insensitively. "chrome" and "safari" are accepted
// as aliases because they are what people type.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chromium", "chrome":
		return Chromium, nil
	case "firefox", "gecko":
		return Firefox, nil
	case "webkit", "safari":
		return WebKit, nil
	default:
		return "", fmt.Errorf("unknown browser engine %q (want chromium, firefox or webkit)", s)
	}
}

// ParseEngines parses a list of engine names, dropping duplicates but keeping order.
func ParseEngines(names []string) ([]Engine, error) {
	var ret []Engine
	seen := make(map[Engine]bool)
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			e, err := ParseEngine(part)
			if err != nil {
				return nil, err
			}
			if !seen[e] {
				seen[e] = true
				ret = append(ret, e)
			}
		}
	}
	return ret, nil
}

func (e Engine) browserType(pw *playwright.Playwright) playwright.BrowserType {
	switch e {
	case Firefox:
		return pw.Firefox
	case WebKit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// TraceMode controls when a Playwright trace is recorded and kept.
type TraceMode string

const (
	TraceOff             TraceMode = "off"
	TraceOn              TraceMode = "on"
	TraceOnFirstRetry    TraceMode = "on-first-retry"
	TraceRetainOnFailure TraceMode = "retain-on-failure"
)

// ParseTraceMode validates a --trace value.
func ParseTraceMode(s string) (TraceMode, error) {
	switch m := TraceMode(strings.ToLower(strings.TrimSpace(s))); m {
	case TraceOff, TraceOn, TraceOnFirstRetry, TraceRetainOnFailure:
		return m, nil
	default:
		return "", fmt.Errorf("unknown trace mode %q", s)
	}
}

// records reports whether tracing must be started for the given attempt (1-based).
func (m TraceMode) records(attempt int) bool {
	switch m {
	case TraceOn, TraceRetainOnFailure:
		return true
	case TraceOnFirstRetry:
		return attempt == 2
	default:
		return false
	}
}

// keeps reports whether a recorded trace is written to disk.
func (m TraceMode) keeps(failed bool) bool {
	switch m {
	case TraceOn, TraceOnFirstRetry:
		return true
	case TraceRetainOnFailure:
		return failed
	default:
		return false
	}
}

// ScreenshotMode controls when a final screenshot is captured.
type ScreenshotMode string

const (
	ScreenshotOff           ScreenshotMode = "off"
	ScreenshotOn            ScreenshotMode = "on"
	ScreenshotOnlyOnFailure ScreenshotMode = "only-on-failure"
)

// ParseScreenshotMode validates a --screenshot value.
func ParseScreenshotMode(s string) (ScreenshotMode, error) {
	switch m := ScreenshotMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ScreenshotOff, ScreenshotOn, ScreenshotOnlyOnFailure:
		return m, nil
	default:
		return "", fmt.Errorf("unknown screenshot mode %q", s)
	}
}

func (m ScreenshotMode) captures(failed bool) bool {
	return m == ScreenshotOn || (m == ScreenshotOnlyOnFailure && failed)
}
