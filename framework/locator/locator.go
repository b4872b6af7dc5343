// Package locator implements lazy, retry-backed element queries. A Locator is only a
// description: it is resolved against the live page again on every action or assertion, so
// it tolerates elements that do not exist yet or are re-rendered between steps.
package locator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/petelc/NexusPlaywright/framework"
	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/helpers"
)

// Scope binds locators to one browser page and supplies the ambient action timeout.
type Scope struct {
	Page    playwright.Page
	Timeout time.Duration
	Logger  framework.Logger
}

// NewScope creates a Scope. A zero timeout means five seconds.
func NewScope(page playwright.Page, timeout time.Duration, logger framework.Logger) *Scope {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Scope{Page: page, Timeout: timeout, Logger: logger}
}

// Role finds elements by ARIA role and, if name is non-zero, accessible name.
func (s *Scope) Role(role Role, name Pattern) *Locator {
	return s.single(query{kind: byRole, role: role, pattern: name})
}

// Label finds form controls by their label text.
func (s *Scope) Label(p Pattern) *Locator {
	return s.single(query{kind: byLabel, pattern: p})
}

// Text finds elements by visible text.
func (s *Scope) Text(p Pattern) *Locator {
	return s.single(query{kind: byText, pattern: p})
}

// Placeholder finds inputs by placeholder text.
func (s *Scope) Placeholder(p Pattern) *Locator {
	return s.single(query{kind: byPlaceholder, pattern: p})
}

// TestID finds elements by their data-testid attribute.
func (s *Scope) TestID(id string) *Locator {
	return s.single(query{kind: byTestID, raw: id})
}

// CSS is the structural fallback, e.g. `[class*="MuiCard-root"]`.
func (s *Scope) CSS(selector string) *Locator {
	return s.single(query{kind: byCSS, raw: selector})
}

// AnyOf combines alternative locators for the same concept. When resolved, the alternatives
// are checked in order and the first one that has at least one element in the DOM wins.
func (s *Scope) AnyOf(alternatives ...*Locator) *Locator {
	return &Locator{scope: s, alternatives: alternatives, chosen: &choice{index: -1}}
}

func (s *Scope) single(q query) *Locator {
	return &Locator{scope: s, query: &q}
}

type ordinalKind int

const (
	ordinalNone ordinalKind = iota
	ordinalFirst
	ordinalLast
	ordinalNth
)

type choice struct {
	lock  sync.Mutex
	index int
}

// Locator is an immutable deferred query. Refinement methods return new Locators.
type Locator struct {
	scope        *Scope
	parent       *Locator
	query        *query
	hasText      []Pattern
	ordinal      ordinalKind
	nth          int
	alternatives []*Locator
	chosen       *choice
}

func (l *Locator) clone() *Locator {
	c := *l
	c.hasText = append([]Pattern(nil), l.hasText...)
	if l.alternatives != nil {
		c.chosen = &choice{index: -1}
	}
	return &c
}

// HasText narrows the match to elements containing the given text somewhere inside.
func (l *Locator) HasText(p Pattern) *Locator {
	c := l.clone()
	c.hasText = append(c.hasText, p)
	return c
}

// First picks the first of several matches.
func (l *Locator) First() *Locator {
	c := l.clone()
	c.ordinal = ordinalFirst
	return c
}

// Last picks the last of several matches.
func (l *Locator) Last() *Locator {
	c := l.clone()
	c.ordinal = ordinalLast
	return c
}

// Nth picks the match at index i (0-based).
func (l *Locator) Nth(i int) *Locator {
	c := l.clone()
	c.ordinal = ordinalNth
	c.nth = i
	return c
}

// Within scopes l to descendants of parent.
func (l *Locator) Within(parent *Locator) *Locator {
	c := l.clone()
	c.parent = parent
	return c
}

// String describes the locator for reports, e.g.
// `role=button[name=/(?i)sign in/] >> has-text "x"i >> first`.
func (l *Locator) String() string {
	var parts []string
	if l.parent != nil {
		parts = append(parts, l.parent.String())
	}
	if l.alternatives != nil {
		alts := make([]string, 0, len(l.alternatives))
		for _, a := range l.alternatives {
			alts = append(alts, a.String())
		}
		parts = append(parts, "any-of("+strings.Join(alts, " | ")+")")
	} else {
		parts = append(parts, l.query.String())
	}
	for _, p := range l.hasText {
		parts = append(parts, "has-text "+p.String())
	}
	switch l.ordinal {
	case ordinalFirst:
		parts = append(parts, "first")
	case ordinalLast:
		parts = append(parts, "last")
	case ordinalNth:
		parts = append(parts, fmt.Sprintf("nth=%d", l.nth))
	}
	return strings.Join(parts, " >> ")
}

// Chosen reports which alternative of an AnyOf locator matched on the most recent
// resolution, or -1 if none has matched yet or the locator is not an AnyOf.
func (l *Locator) Chosen() int {
	if l.chosen == nil {
		return -1
	}
	l.chosen.lock.Lock()
	defer l.chosen.lock.Unlock()
	return l.chosen.index
}

func (l *Locator) setChosen(i int) {
	l.chosen.lock.Lock()
	l.chosen.index = i
	l.chosen.lock.Unlock()
}

// Scope returns the scope the locator was built in.
func (l *Locator) Scope() *Scope {
	return l.scope
}

// Snapshot captures the current page state for diagnostics about this locator.
func (l *Locator) Snapshot() DOMSnapshot {
	return Snapshot(l.scope.Page, l.String())
}

// Resolve materialises the playwright locator for the DOM as it is now.
func (l *Locator) Resolve() (playwright.Locator, error) {
	return l.resolveNow()
}

// resolveNow builds the playwright locator for the DOM as it is right now. For an AnyOf it
// picks the first alternative that currently has a match, falling back to the first
// alternative when none has.
func (l *Locator) resolveNow() (playwright.Locator, error) {
	var base playwright.Locator
	if l.alternatives != nil {
		if len(l.alternatives) == 0 {
			return nil, errs.New(errs.Internal, "AnyOf locator has no alternatives")
		}
		index := 0
		var fallback playwright.Locator
		for i, alt := range l.alternatives {
			r, err := alt.resolveNow()
			if err != nil {
				return nil, err
			}
			if i == 0 {
				fallback = r
			}
			n, err := r.Count()
			if err != nil {
				return nil, err
			}
			if n > 0 {
				base, index = r, i
				break
			}
		}
		if base == nil {
			base, index = fallback, -1
		}
		l.setChosen(index)
	} else {
		base = l.query.on(l.scope.Page)
	}

	if l.parent != nil {
		p, err := l.parent.resolveNow()
		if err != nil {
			return nil, err
		}
		base = p.Locator(base)
	}
	for _, t := range l.hasText {
		base = base.Filter(playwright.LocatorFilterOptions{HasText: t.value()})
	}
	switch l.ordinal {
	case ordinalFirst:
		base = base.First()
	case ordinalLast:
		base = base.Last()
	case ordinalNth:
		base = base.Nth(l.nth)
	}
	return base, nil
}

// resolve waits, up to timeout, until the locator is structurally present, then returns the
// playwright locator. Single queries are returned immediately because playwright's own
// actions already auto-wait for them; only AnyOf needs to wait here, so that the alternative
// is chosen against a DOM that actually contains one of them.
func (l *Locator) resolve(ctx context.Context, timeout time.Duration) (playwright.Locator, error) {
	if l.alternatives == nil && (l.parent == nil || l.parent.alternatives == nil) {
		return l.resolveNow()
	}
	var resolved playwright.Locator
	err := helpers.Poll(ctx, timeout, helpers.DefaultPollInterval, func() (bool, error) {
		r, err := l.resolveNow()
		if err != nil {
			return false, err
		}
		n, err := r.Count()
		if err != nil {
			return false, err
		}
		resolved = r
		return n > 0, nil
	})
	if err != nil {
		return nil, l.timeoutError("waiting for any alternative to appear", err)
	}
	return resolved, nil
}
