// Package expect holds the assertions scenarios make about the live page. Each one re-reads
// the DOM until the expectation holds or its bounded wait elapses, so it tolerates elements
// that render asynchronously. Failures are returned as classified errors for T.Require.
package expect

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"

	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/helpers"
	"github.com/petelc/NexusPlaywright/framework/locator"
	"github.com/petelc/NexusPlaywright/framework/opt"
)

type settings struct {
	timeout  opt.Maybe[time.Duration]
	interval time.Duration
}

// Option overrides the wait of one assertion.
type Option = helpers.ConfigOption[settings]

// Within overrides the ambient timeout for one assertion.
func Within(d time.Duration) Option {
	return helpers.ConfigOptionFunc[settings](func(s *settings) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		s.timeout = opt.Some(d)
		return nil
	})
}

// PollEvery changes how often the page is re-read.
func PollEvery(d time.Duration) Option {
	return helpers.ConfigOptionFunc[settings](func(s *settings) error {
		s.interval = d
		return nil
	})
}

func resolveSettings(defaultTimeout time.Duration, options []Option) (settings, error) {
	s := settings{interval: helpers.DefaultPollInterval}
	if err := helpers.ApplyOptions(&s, options...); err != nil {
		return s, errs.Wrap(errs.Internal, "invalid expect option", err)
	}
	if !s.timeout.IsDefined() {
		s.timeout = opt.Some(defaultTimeout)
	}
	return s, nil
}

// pending is one assertion in progress: how to read the current state and what it must match.
type pending struct {
	subject  string
	read     func() (interface{}, error)
	matcher  m.Matcher
	detail   func() fmt.Stringer
	failCode errs.Code
}

// eventually polls p until its matcher passes. If the state could never be read at all the
// failure is notFoundCode, otherwise p.failCode; either way the message carries the
// expectation and the last observed value.
func eventually(ctx context.Context, p pending, notFoundCode errs.Code, s settings) error {
	var (
		lastDesc string
		readOnce bool
		lastErr  error
	)
	err := helpers.Poll(ctx, s.timeout.Value(), s.interval, func() (bool, error) {
		v, err := p.read()
		if err != nil {
			lastErr = err
			return false, err
		}
		readOnce = true
		pass, desc := p.matcher.Test(v)
		lastDesc = desc
		return pass, nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	code := p.failCode
	msg := fmt.Sprintf("%s: %s", p.subject, lastDesc)
	if !readOnce {
		code = notFoundCode
		msg = fmt.Sprintf("%s: never readable", p.subject)
		if lastErr != nil {
			err = lastErr
		}
	}
	msg = fmt.Sprintf("%s (waited %s)", msg, s.timeout.Value())
	var detail fmt.Stringer
	if p.detail != nil {
		detail = p.detail()
	}
	return errs.WithDetail(code, msg, err, detail)
}

func onLocator(
	ctx context.Context,
	l *locator.Locator,
	subject string,
	read func() (interface{}, error),
	matcher m.Matcher,
	options []Option,
) error {
	s, err := resolveSettings(l.Scope().Timeout, options)
	if err != nil {
		return err
	}
	l.Scope().Logger.Printf("expect %s %s", l, subject)
	return eventually(ctx, pending{
		subject:  fmt.Sprintf("%s %s", l, subject),
		read:     read,
		matcher:  matcher,
		detail:   func() fmt.Stringer { return l.Snapshot() },
		failCode: errs.AssertionFailure,
	}, errs.LocatorTimeout, s)
}

// Visible asserts that the element becomes visible.
func Visible(ctx context.Context, l *locator.Locator, options ...Option) error {
	return onLocator(ctx, l, "to be visible",
		func() (interface{}, error) { return l.IsVisible() }, m.Equal(true), options)
}

// Hidden asserts that the element is hidden or absent. An element that never existed passes.
func Hidden(ctx context.Context, l *locator.Locator, options ...Option) error {
	return onLocator(ctx, l, "to be hidden",
		func() (interface{}, error) { return l.IsVisible() }, m.Equal(false), options)
}

// Enabled asserts that the element is enabled.
func Enabled(ctx context.Context, l *locator.Locator, options ...Option) error {
	return onLocator(ctx, l, "to be enabled",
		func() (interface{}, error) { return l.IsEnabled() }, m.Equal(true), options)
}

// Disabled asserts that the element is disabled, e.g. a submit button while a request is in
// flight.
func Disabled(ctx context.Context, l *locator.Locator, options ...Option) error {
	return onLocator(ctx, l, "to be disabled",
		func() (interface{}, error) { return l.IsEnabled() }, m.Equal(false), options)
}

// Focused asserts that the element is the document's active element.
func Focused(ctx context.Context, l *locator.Locator, options ...Option) error {
	return onLocator(ctx, l, "to be focused",
		func() (interface{}, error) { return l.IsFocused() }, m.Equal(true), options)
}

// Value asserts that an input holds exactly want. It is the read half of a write-then-read
// echo check after Fill.
func Value(ctx context.Context, l *locator.Locator, want string, options ...Option) error {
	return onLocator(ctx, l, "to have value",
		func() (interface{}, error) { return l.CurrentValue() }, m.Equal(want), options)
}

// Attribute asserts on an attribute value, e.g. Attribute(ctx, pw, "type", m.Equal("password")).
func Attribute(ctx context.Context, l *locator.Locator, name string, matcher m.Matcher, options ...Option) error {
	return onLocator(ctx, l, "to have attribute "+name,
		func() (interface{}, error) { return l.CurrentAttribute(name) }, matcher, options)
}

// Text asserts on the element's text content.
func Text(ctx context.Context, l *locator.Locator, matcher m.Matcher, options ...Option) error {
	return onLocator(ctx, l, "to have text",
		func() (interface{}, error) { return l.CurrentText() }, matcher, options)
}

// Count asserts on the number of matching elements.
func Count(ctx context.Context, l *locator.Locator, matcher m.Matcher, options ...Option) error {
	return onLocator(ctx, l, "to have count",
		func() (interface{}, error) { return l.Count() }, matcher, options)
}

// Navigator is the page-level state URL assertions read. *harness.Session implements it.
type Navigator interface {
	URL() string
	NavigationTimeout() time.Duration
}

// URL asserts that the page URL comes to match pattern. Failure is a NavigationTimeout.
func URL(ctx context.Context, nav Navigator, pattern *regexp.Regexp, options ...Option) error {
	return urlMatching(ctx, nav, MatchesPattern(pattern), options)
}

// URLNot asserts that the page URL comes to no longer match pattern, e.g. after leaving a form.
func URLNot(ctx context.Context, nav Navigator, pattern *regexp.Regexp, options ...Option) error {
	return urlMatching(ctx, nav, m.Not(MatchesPattern(pattern)), options)
}

func urlMatching(ctx context.Context, nav Navigator, matcher m.Matcher, options []Option) error {
	s, err := resolveSettings(nav.NavigationTimeout(), options)
	if err != nil {
		return err
	}
	return eventually(ctx, pending{
		subject:  "page URL",
		read:     func() (interface{}, error) { return nav.URL(), nil },
		matcher:  matcher,
		detail:   func() fmt.Stringer { return urlDetail(nav.URL()) },
		failCode: errs.NavigationTimeout,
	}, errs.NavigationTimeout, s)
}

type urlDetail string

func (u urlDetail) String() string { return "url: " + string(u) }

// MatchesPattern is a matcher for strings matching a regular expression.
func MatchesPattern(pattern *regexp.Regexp) m.Matcher {
	return m.New(
		func(value interface{}) bool {
			s, ok := value.(string)
			return ok && pattern.MatchString(s)
		},
		func() string {
			return fmt.Sprintf("matching /%s/", pattern)
		},
		func(value interface{}) string {
			return fmt.Sprintf("did not match /%s/", pattern)
		},
	)
}

// Contains is a matcher for strings containing substr.
func Contains(substr string) m.Matcher {
	return m.StringContains(substr)
}
