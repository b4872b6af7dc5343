package e2etest

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/petelc/NexusPlaywright/framework"
	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

type phase int

const (
	phaseSetup phase = iota
	phaseBody
)

// T is the scope of one scenario attempt. It is similar to Go's testing.T: failures are
// reported with Errorf, and FailNow or Skip end the scenario immediately by unwinding the
// scenario goroutine.
type T struct {
	id          TestID
	ctx         context.Context
	engine      harness.Engine
	attempt     int
	session     *harness.Session
	data        interface{}
	debugLogger *framework.CapturingLogger

	lock       sync.Mutex
	phase      phase
	hookName   string
	failed     bool
	skipped    bool
	skipReason string
	weak       string
	frozen     bool
	errors     []error
	cleanups   []func()
	helperFns  []string
}

// ID returns the full name of the scenario.
func (t *T) ID() TestID {
	return t.id
}

// Engine is the browser engine this attempt runs under.
func (t *T) Engine() harness.Engine {
	return t.engine
}

// Attempt is 1 for the first run and counts up on retries.
func (t *T) Attempt() int {
	return t.attempt
}

// Context is cancelled when the scenario times out or the run is interrupted.
func (t *T) Context() context.Context {
	return t.ctx
}

// Session is this attempt's isolated browser session.
func (t *T) Session() *harness.Session {
	return t.session
}

// Scope binds locators to this attempt's page.
func (t *T) Scope() *locator.Scope {
	return t.session.Scope()
}

// Data returns the suite-wide read-only value given in Config.Data.
func (t *T) Data() interface{} {
	return t.data
}

// Errorf reports a failure without ending the scenario. It is part of this type's
// implementation of assert.TestingT, so testify and matcher helpers can be used directly.
func (t *T) Errorf(format string, args ...interface{}) {
	t.Fail(errs.Newf(errs.AssertionFailure, format, args...))
}

// Fail records a classified error without ending the scenario. Any error recorded while a
// BeforeEach hook is running is reported as a SetupFailure.
func (t *T) Fail(err error) {
	if err == nil {
		return
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.frozen {
		return
	}
	if t.phase == phaseSetup {
		err = errs.Reclassify(errs.SetupFailure, fmt.Sprintf("beforeEach %q failed", t.hookName), err)
	} else {
		var coded *errs.Error
		if !errors.As(err, &coded) {
			err = errs.Wrap(errs.AssertionFailure, "", err)
		}
	}
	t.failed = true
	t.errors = append(t.errors, asFailure(err, callSites(false, t.helperFns)))
}

// FailNow ends the scenario immediately and marks it failed.
func (t *T) FailNow() {
	t.lock.Lock()
	t.failed = true
	t.lock.Unlock()
	panic(t)
}

// Require fails the scenario immediately if err is non-nil. It is how scenario code consumes
// page-object actions and expectations, which return errors instead of asserting.
func (t *T) Require(err error) {
	if err == nil {
		return
	}
	t.Helper()
	t.Fail(err)
	t.FailNow()
}

// Skip ends the scenario immediately and marks it skipped.
func (t *T) Skip() {
	t.lock.Lock()
	t.skipped = true
	t.lock.Unlock()
	panic(t)
}

// SkipWithReason is equivalent to Skip but provides a message.
func (t *T) SkipWithReason(reason string) {
	t.lock.Lock()
	t.skipReason = reason
	t.lock.Unlock()
	t.Skip()
}

// Conditional guards assertions that only make sense when some precondition data exists.
// It returns present unchanged; when present is false the scenario is flagged as weak in
// every report, because it may pass without having asserted anything.
func (t *T) Conditional(present bool, reason string) bool {
	if !present {
		t.lock.Lock()
		if t.weak == "" {
			t.weak = reason
		}
		t.lock.Unlock()
		t.Debug("conditional assertions skipped: %s", reason)
	}
	return present
}

// Debug writes a message to the captured output for this scenario.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns the captured logger for this scenario. Its output is shown in reports
// for failed scenarios when --debug is set.
func (t *T) DebugLogger() framework.Logger {
	return t.debugLogger
}

// Defer schedules a cleanup function which is guaranteed to be called when the scenario
// exits for any reason. Cleanups run in reverse order.
func (t *T) Defer(cleanupFn func()) {
	t.lock.Lock()
	t.cleanups = append(t.cleanups, cleanupFn)
	t.lock.Unlock()
}

// Helper marks the function that calls it as a test helper that shouldn't appear in stacktraces.
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return
	}
	t.lock.Lock()
	t.helperFns = append(t.helperFns, f.Name())
	t.lock.Unlock()
}

// Failed reports whether any failure has been recorded.
func (t *T) Failed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.failed
}

func (t *T) enterHook(name string) {
	t.lock.Lock()
	t.phase, t.hookName = phaseSetup, name
	t.lock.Unlock()
}

func (t *T) enterBody() {
	t.lock.Lock()
	t.phase, t.hookName = phaseBody, ""
	t.lock.Unlock()
}

// freeze records err as the final failure and ignores anything reported afterwards. It is
// called from the runner goroutine when the scenario deadline passes while the scenario
// goroutine may still be executing.
func (t *T) freeze(err error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.frozen {
		return
	}
	if t.phase == phaseSetup && errs.Is(err, errs.ScenarioTimeout) {
		err = errs.Reclassify(errs.SetupFailure, fmt.Sprintf("beforeEach %q did not finish", t.hookName), err)
	}
	t.failed = true
	t.errors = append(t.errors, asFailure(err, nil))
	t.frozen = true
}

// run executes action and converts panics into results. A panic carrying t itself comes
// from FailNow or Skip; anything else is an unexpected crash in scenario code.
func (t *T) run(action func(*T)) {
	defer func() {
		if r := recover(); r != nil {
			t.lock.Lock()
			skipped := t.skipped
			noErrors := len(t.errors) == 0
			t.lock.Unlock()
			if skipped {
				return
			}
			if _, ok := r.(*T); ok {
				if noErrors {
					t.Fail(errs.New(errs.Internal, "scenario failed with no failure message"))
				}
			} else {
				t.Fail(errs.Newf(errs.Internal, "unexpected panic in scenario: %+v\n%s", r, string(debug.Stack())))
			}
		}
	}()
	action(t)
}

func (t *T) runCleanups() {
	t.lock.Lock()
	cleanups := t.cleanups
	t.cleanups = nil
	t.lock.Unlock()
	for i := len(cleanups) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Debug("cleanup panicked: %v", r)
				}
			}()
			cleanups[i]()
		}()
	}
}

func (t *T) snapshot() (failed, skipped bool, skipReason, weak string, errList []error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.failed, t.skipped, t.skipReason, t.weak, append([]error(nil), t.errors...)
}
