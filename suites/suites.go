// Package suites registers the Nexus end-to-end scenarios. Each file ports one area of the
// app; Register adds all of them to a plan.
package suites

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/petelc/NexusPlaywright/data"
	"github.com/petelc/NexusPlaywright/fixtures"
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

// Env is the read-only state shared by every scenario of a run.
type Env struct {
	Data   data.SuiteData
	User   fixtures.TestUser
	Tokens *fixtures.TokenSource
}

// Register adds every suite to plan.
func Register(plan *e2etest.Plan, env Env) {
	registerLogin(plan, env)
	registerRegistration(plan, env)
	registerForgotPassword(plan, env)
	registerResetPassword(plan, env)
	registerDocuments(plan, env)
	registerSnippets(plan, env)
	registerTeams(plan, env)
	registerWorkspaces(plan, env)
	registerProperties(plan, env)
}

const (
	// submitOutcomeTimeout is how long a submitted form may take to show its result.
	submitOutcomeTimeout = 10 * time.Second

	// searchDebounce covers the delay between typing in a search box and the list updating.
	searchDebounce = 500 * time.Millisecond
)

//nolint:gochecknoglobals
var (
	dashboardURL      = regexp.MustCompile(`/dashboard`)
	loginURL          = regexp.MustCompile(`/login(\?|$)`)
	registerURL       = regexp.MustCompile(`/register(\?|$)`)
	forgotPasswordURL = regexp.MustCompile(`/forgot-password(\?|$)`)
	documentsURL      = regexp.MustCompile(`/documents`)
	newDocumentURL    = regexp.MustCompile(`/documents/new`)
	newSnippetURL     = regexp.MustCompile(`/snippets/new`)
)

// loginAsSeededUser is the BeforeEach of every suite behind authentication: log in and wait
// for the dashboard. A failure here is a setup failure of each dependent scenario.
func loginAsSeededUser(env Env) func(*e2etest.T) {
	return func(t *e2etest.T) {
		t.Require(fixtures.LoginAs(t.Context(), t.Session(), env.User))
		t.Require(expect.URL(t.Context(), t.Session(), dashboardURL, expect.Within(submitOutcomeTimeout)))
	}
}

// open returns a hook that navigates with goto.
func open(gotoFn func(t *e2etest.T) error) func(*e2etest.T) {
	return func(t *e2etest.T) {
		t.Require(gotoFn(t))
	}
}

func visible(t *e2etest.T, locators ...*locator.Locator) {
	t.Helper()
	for _, l := range locators {
		t.Require(expect.Visible(t.Context(), l))
	}
}

func hidden(t *e2etest.T, locators ...*locator.Locator) {
	t.Helper()
	for _, l := range locators {
		t.Require(expect.Hidden(t.Context(), l))
	}
}

func onRoute(t *e2etest.T, pattern *regexp.Regexp, options ...expect.Option) {
	t.Helper()
	t.Require(expect.URL(t.Context(), t.Session(), pattern, options...))
}

// settled waits for a list's loading spinner to go away so that counts reflect loaded data.
func settled(t *e2etest.T, spinner *locator.Locator) {
	t.Helper()
	t.Require(expect.Hidden(t.Context(), spinner))
}

func count(t *e2etest.T, l *locator.Locator) int {
	t.Helper()
	n, err := l.Count()
	t.Require(err)
	return n
}

// pause waits for d unless the scenario is cancelled first.
func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// padTo returns s extended with filler up to exactly n characters, or truncated to n.
func padTo(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat("a", n-len(s))
}
