package locator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/helpers"
	"github.com/petelc/NexusPlaywright/framework/opt"
)

type actionSettings struct {
	timeout opt.Maybe[time.Duration]
}

// ActionOption overrides the ambient settings for one call.
type ActionOption = helpers.ConfigOption[actionSettings]

// WithTimeout overrides the ambient action timeout for one call.
func WithTimeout(d time.Duration) ActionOption {
	return helpers.ConfigOptionFunc[actionSettings](func(s *actionSettings) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		s.timeout = opt.Some(d)
		return nil
	})
}

func (l *Locator) timeout(options []ActionOption) (time.Duration, error) {
	var s actionSettings
	if err := helpers.ApplyOptions(&s, options...); err != nil {
		return 0, errs.Wrap(errs.Internal, "invalid action option", err)
	}
	return s.timeout.OrElse(l.scope.Timeout), nil
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// act resolves the locator and runs fn against it, classifying a playwright timeout as a
// LocatorTimeout that carries the last-known DOM state.
func (l *Locator) act(
	ctx context.Context,
	verb string,
	options []ActionOption,
	fn func(pl playwright.Locator, timeout time.Duration) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout, err := l.timeout(options)
	if err != nil {
		return err
	}
	l.scope.Logger.Printf("%s %s", verb, l)
	pl, err := l.resolve(ctx, timeout)
	if err != nil {
		return err
	}
	if err := fn(pl, timeout); err != nil {
		return l.classify(verb, err)
	}
	return nil
}

func (l *Locator) classify(verb string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return l.timeoutError(verb, err)
	}
	return errs.WithDetail(errs.Internal, fmt.Sprintf("%s %s", verb, l), err, Snapshot(l.scope.Page, l.String()))
}

func (l *Locator) timeoutError(verb string, err error) error {
	return errs.WithDetail(errs.LocatorTimeout, fmt.Sprintf("%s %s", verb, l), err, Snapshot(l.scope.Page, l.String()))
}

// Fill replaces the value of an input, textarea or contenteditable element.
func (l *Locator) Fill(ctx context.Context, value string, options ...ActionOption) error {
	return l.act(ctx, "fill", options, func(pl playwright.Locator, timeout time.Duration) error {
		return pl.Fill(value, playwright.LocatorFillOptions{Timeout: ms(timeout)})
	})
}

// Click clicks the element once it is visible, stable and enabled.
func (l *Locator) Click(ctx context.Context, options ...ActionOption) error {
	return l.act(ctx, "click", options, func(pl playwright.Locator, timeout time.Duration) error {
		return pl.Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
	})
}

// Press sends a key, e.g. "Enter", to the element.
func (l *Locator) Press(ctx context.Context, key string, options ...ActionOption) error {
	return l.act(ctx, "press "+key+" on", options, func(pl playwright.Locator, timeout time.Duration) error {
		return pl.Press(key, playwright.LocatorPressOptions{Timeout: ms(timeout)})
	})
}

// Focus moves keyboard focus to the element.
func (l *Locator) Focus(ctx context.Context, options ...ActionOption) error {
	return l.act(ctx, "focus", options, func(pl playwright.Locator, timeout time.Duration) error {
		return pl.Focus(playwright.LocatorFocusOptions{Timeout: ms(timeout)})
	})
}

// SelectOption picks an <option> of a native select by its visible label.
func (l *Locator) SelectOption(ctx context.Context, label string, options ...ActionOption) error {
	return l.act(ctx, "select "+label+" in", options, func(pl playwright.Locator, timeout time.Duration) error {
		_, err := pl.SelectOption(
			playwright.SelectOptionValues{Labels: playwright.StringSlice(label)},
			playwright.LocatorSelectOptionOptions{Timeout: ms(timeout)},
		)
		return err
	})
}

// WaitVisible blocks until the element is visible.
func (l *Locator) WaitVisible(ctx context.Context, options ...ActionOption) error {
	return l.waitFor(ctx, "wait visible", playwright.WaitForSelectorStateVisible, options)
}

// WaitHidden blocks until the element is hidden or detached.
func (l *Locator) WaitHidden(ctx context.Context, options ...ActionOption) error {
	return l.waitFor(ctx, "wait hidden", playwright.WaitForSelectorStateHidden, options)
}

func (l *Locator) waitFor(ctx context.Context, verb string, state *playwright.WaitForSelectorState, options []ActionOption) error {
	return l.act(ctx, verb, options, func(pl playwright.Locator, timeout time.Duration) error {
		return pl.WaitFor(playwright.LocatorWaitForOptions{State: state, Timeout: ms(timeout)})
	})
}

// InputValue reads the current value of an input element.
func (l *Locator) InputValue(ctx context.Context, options ...ActionOption) (string, error) {
	var v string
	err := l.act(ctx, "read value of", options, func(pl playwright.Locator, timeout time.Duration) error {
		var err error
		v, err = pl.InputValue(playwright.LocatorInputValueOptions{Timeout: ms(timeout)})
		return err
	})
	return v, err
}

// Attribute reads an attribute. A missing attribute yields "".
func (l *Locator) Attribute(ctx context.Context, name string, options ...ActionOption) (string, error) {
	var v string
	err := l.act(ctx, "read "+name+" of", options, func(pl playwright.Locator, timeout time.Duration) error {
		var err error
		v, err = pl.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: ms(timeout)})
		return err
	})
	return v, err
}

// TextContent reads the element's text content.
func (l *Locator) TextContent(ctx context.Context, options ...ActionOption) (string, error) {
	var v string
	err := l.act(ctx, "read text of", options, func(pl playwright.Locator, timeout time.Duration) error {
		var err error
		v, err = pl.TextContent(playwright.LocatorTextContentOptions{Timeout: ms(timeout)})
		return err
	})
	return v, err
}

// The following reads do not wait; they report the DOM as it is now and are meant to be
// polled by the expect package.

// Count returns how many elements currently match.
func (l *Locator) Count() (int, error) {
	pl, err := l.resolveNow()
	if err != nil {
		return 0, err
	}
	return pl.Count()
}

// IsVisible reports whether the element is currently visible. A missing element is not
// visible.
func (l *Locator) IsVisible() (bool, error) {
	pl, err := l.resolveNow()
	if err != nil {
		return false, err
	}
	return pl.IsVisible()
}

// IsEnabled reports whether the element is currently enabled.
func (l *Locator) IsEnabled() (bool, error) {
	pl, err := l.resolveNow()
	if err != nil {
		return false, err
	}
	return pl.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: ms(peekTimeout)})
}

// IsFocused reports whether the element is the document's active element.
func (l *Locator) IsFocused() (bool, error) {
	pl, err := l.resolveNow()
	if err != nil {
		return false, err
	}
	v, err := pl.Evaluate("el => el === document.activeElement", nil,
		playwright.LocatorEvaluateOptions{Timeout: ms(peekTimeout)})
	if err != nil {
		return false, err
	}
	focused, _ := v.(bool)
	return focused, nil
}

// CurrentValue reads an input's value without waiting for it to appear.
func (l *Locator) CurrentValue() (string, error) {
	pl, err := l.resolveNow()
	if err != nil {
		return "", err
	}
	return pl.InputValue(playwright.LocatorInputValueOptions{Timeout: ms(peekTimeout)})
}

// CurrentAttribute reads an attribute without waiting for the element to appear.
func (l *Locator) CurrentAttribute(name string) (string, error) {
	pl, err := l.resolveNow()
	if err != nil {
		return "", err
	}
	return pl.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: ms(peekTimeout)})
}

// CurrentText reads the element's text content without waiting for it to appear.
func (l *Locator) CurrentText() (string, error) {
	pl, err := l.resolveNow()
	if err != nil {
		return "", err
	}
	return pl.TextContent(playwright.LocatorTextContentOptions{Timeout: ms(peekTimeout)})
}

// peekTimeout bounds a single non-waiting read so a missing element does not stall a poll.
const peekTimeout = 250 * time.Millisecond

// TypeText types text through the keyboard into whatever element currently has focus. Code
// editor widgets keep their real input hidden, so they are clicked first and then typed into.
func (s *Scope) TypeText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Logger.Printf("type %d characters", len(text))
	if err := s.Page.Keyboard().Type(text); err != nil {
		return errs.Wrap(errs.Internal, "keyboard input failed", err)
	}
	return nil
}
