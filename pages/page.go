// Package pages contains one page object per screen of the Nexus web app. A page object only
// knows how to find things and how to perform multi-step interactions; it never asserts.
// Every locator method builds a new lazy locator, so page objects can be created before the
// page has loaded and stay valid across re-renders and navigations.
package pages

import (
	"context"
	"fmt"
	"net/url"

	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

// Canonical routes, relative to the configured base URL.
const (
	LoginRoute          = "/login"
	RegisterRoute       = "/register"
	ForgotPasswordRoute = "/forgot-password"
	ResetPasswordRoute  = "/reset-password"
	DashboardRoute      = "/dashboard"
	DocumentsRoute      = "/documents"
	NewDocumentRoute    = "/documents/new"
	SnippetsRoute       = "/snippets"
	MySnippetsRoute     = "/snippets/my"
	NewSnippetRoute     = "/snippets/new"
	TeamsRoute          = "/teams"
	WorkspacesRoute     = "/workspaces"
)

const cardSelector = `[class*="MuiCard-root"]`

const chipSelector = `[class*="MuiChip"]`

type base struct {
	session *harness.Session
}

func (b base) scope() *locator.Scope {
	return b.session.Scope()
}

// Session is the browser session the page object drives.
func (b base) Session() *harness.Session {
	return b.session
}

// Message finds a validation or status message by its visible text.
func (b base) Message(text string) *locator.Locator {
	return b.scope().Text(locator.Str(text))
}

// SubmitControl is the form's submit button found by type. Its accessible name changes to a
// loading text while a request is in flight, so state checks use this instead of the named
// button.
func (b base) SubmitControl() *locator.Locator {
	return b.scope().CSS(`form button[type="submit"]`)
}

// step is one primitive action of a compound interaction.
type step struct {
	name string
	do   func(ctx context.Context) error
}

func fillStep(name string, l *locator.Locator, value string) step {
	return step{name: "fill " + name, do: func(ctx context.Context) error { return l.Fill(ctx, value) }}
}

func clickStep(name string, l *locator.Locator) step {
	return step{name: "click " + name, do: func(ctx context.Context) error { return l.Click(ctx) }}
}

func pressStep(name string, l *locator.Locator, key string) step {
	return step{name: "press " + key + " in " + name, do: func(ctx context.Context) error { return l.Press(ctx, key) }}
}

func typeStep(name string, s *locator.Scope, text string) step {
	return step{name: "type into " + name, do: func(ctx context.Context) error { return s.TypeText(ctx, text) }}
}

func gotoStep(s *harness.Session, route string) step {
	return step{name: "open " + route, do: func(ctx context.Context) error { return s.Goto(ctx, route) }}
}

// sequence runs steps in order and stops at the first failure, which is returned wrapped with
// the compound action and step names. The error code of the failure is preserved.
func sequence(ctx context.Context, action string, steps ...step) error {
	for _, s := range steps {
		if err := s.do(ctx); err != nil {
			return fmt.Errorf("%s: %s: %w", action, s.name, err)
		}
	}
	return nil
}

func withQuery(route, key, value string) string {
	if value == "" {
		return route
	}
	return route + "?" + url.Values{key: []string{value}}.Encode()
}

func entityRoute(collection, id string, suffix ...string) string {
	r := collection + "/" + url.PathEscape(id)
	for _, s := range suffix {
		r += "/" + s
	}
	return r
}
