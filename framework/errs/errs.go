// Package errs classifies scenario failures so that reports can tell an environment problem
// (a broken login, a browser that would not start) apart from a feature regression.
package errs

import (
	"context"
	"errors"
	"fmt"
)

// Code is a failure classification.
type Code string

const (
	// LocatorTimeout means an element never reached the awaited condition.
	LocatorTimeout Code = "locator_timeout"
	// NavigationTimeout means a URL or route was never reached.
	NavigationTimeout Code = "navigation_timeout"
	// AssertionFailure means the resolved state did not match the expectation.
	AssertionFailure Code = "assertion_failure"
	// SetupFailure means a BeforeEach step failed, so the scenario body never ran.
	SetupFailure Code = "setup_failure"
	// ScenarioTimeout means the whole-scenario deadline elapsed.
	ScenarioTimeout Code = "scenario_timeout"
	// BrowserUnavailable means the driver or browser engine could not be started.
	BrowserUnavailable Code = "browser_unavailable"
	// ConfigInvalid means the run configuration was rejected before anything started.
	ConfigInvalid Code = "config_invalid"
	// Internal is anything unclassified.
	Internal Code = "internal"
)

// AllCodes lists every code in report order.
var AllCodes = []Code{ //nolint:gochecknoglobals
	SetupFailure,
	LocatorTimeout,
	NavigationTimeout,
	AssertionFailure,
	ScenarioTimeout,
	BrowserUnavailable,
	ConfigInvalid,
	Internal,
}

// Error is a classified failure.
type Error struct {
	Code    Code
	Message string
	Err     error

	// Detail carries optional diagnostics such as the last-known DOM state.
	Detail fmt.Stringer
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	switch {
	case msg == "" && e.Err != nil:
		msg = e.Err.Error()
	case msg == "":
		msg = string(e.Code)
	case e.Err != nil:
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a classified error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(code Code, format string, args ...interface{}) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause. A nil cause yields nil.
func Wrap(code Code, message string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: cause}
}

// WithDetail attaches diagnostics to a classified error.
func WithDetail(code Code, message string, cause error, detail fmt.Stringer) error {
	return &Error{Code: code, Message: message, Err: cause, Detail: detail}
}

// CodeOf returns the outermost classification of err. Context deadlines are reported as
// ScenarioTimeout; anything else unclassified is Internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Code != "" {
		return coded.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ScenarioTimeout
	}
	return Internal
}

// Is reports whether err carries code anywhere in its chain.
func Is(err error, code Code) bool {
	for err != nil {
		var coded *Error
		if !errors.As(err, &coded) {
			return false
		}
		if coded.Code == code {
			return true
		}
		err = coded.Err
	}
	return false
}

// DetailOf returns the diagnostics attached to the outermost error that has any.
func DetailOf(err error) string {
	for err != nil {
		var coded *Error
		if !errors.As(err, &coded) {
			return ""
		}
		if coded.Detail != nil {
			return coded.Detail.String()
		}
		err = coded.Err
	}
	return ""
}

// Reclassify rewraps err under a new code unless it already carries that code. It is used
// to turn any failure raised during setup into a SetupFailure.
func Reclassify(code Code, message string, err error) error {
	if err == nil || CodeOf(err) == code {
		return err
	}
	return &Error{Code: code, Message: message, Err: err}
}

// MessageOf returns the message of the outermost classified error, or err.Error() if err is
// not classified.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	return err.Error()
}
