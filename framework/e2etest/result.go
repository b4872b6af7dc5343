package e2etest

import (
	"sort"
	"strings"
	"time"

	"github.com/petelc/NexusPlaywright/framework"
	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
)

// TestID is the path of a scenario through the describe tree, e.g.
// {"auth", "Login Page", "should show error for invalid credentials"}.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}

// Status is the outcome of a scenario under one engine.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	// StatusFlaky means the scenario failed at least once and then passed on a retry.
	StatusFlaky Status = "flaky"
)

// AttemptResult records one execution of a scenario.
type AttemptResult struct {
	Attempt   int
	Errors    []error
	Duration  time.Duration
	Artifacts harness.Artifacts
}

// Failed is true if the attempt recorded any error.
func (a AttemptResult) Failed() bool {
	return len(a.Errors) > 0
}

// TestResult is the final outcome of a scenario under one engine.
type TestResult struct {
	TestID     TestID
	Engine     harness.Engine
	Status     Status
	SkipReason string

	// Weak is set when the scenario ran a conditional branch that asserted nothing because
	// the data it needed was absent.
	Weak string

	// Errors are the errors of the final attempt.
	Errors      []error
	Attempts    []AttemptResult
	Duration    time.Duration
	DebugOutput framework.CapturedOutput

	order int
}

// Code classifies the failure by its first error. It is empty for passing results.
func (r TestResult) Code() errs.Code {
	if len(r.Errors) == 0 {
		return ""
	}
	return errs.CodeOf(r.Errors[0])
}

// Artifacts returns the artifacts of the final attempt.
func (r TestResult) Artifacts() harness.Artifacts {
	if len(r.Attempts) == 0 {
		return harness.Artifacts{}
	}
	return r.Attempts[len(r.Attempts)-1].Artifacts
}

// Results is the aggregate of a whole run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Flaky    []TestResult
	Weak     []TestResult
	Duration time.Duration

	// Interrupted is set if the run was cancelled before every scenario had executed.
	Interrupted bool
}

// OK is true if nothing failed and the run was not interrupted. Flaky and weak scenarios
// do not fail the run.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && !r.Interrupted
}

// Count returns the number of results with the given status.
func (r Results) Count(s Status) int {
	n := 0
	for _, t := range r.Tests {
		if t.Status == s {
			n++
		}
	}
	return n
}

// FailuresByCode groups failures by classification.
func (r Results) FailuresByCode() map[errs.Code][]TestResult {
	ret := make(map[errs.Code][]TestResult)
	for _, f := range r.Failures {
		ret[f.Code()] = append(ret[f.Code()], f)
	}
	return ret
}

func (r *Results) add(result TestResult) {
	r.Tests = append(r.Tests, result)
	switch result.Status {
	case StatusFailed:
		r.Failures = append(r.Failures, result)
	case StatusFlaky:
		r.Flaky = append(r.Flaky, result)
	}
	if result.Weak != "" {
		r.Weak = append(r.Weak, result)
	}
}

// sortByPlan puts results back into registration order, engine order breaking ties, so the
// report does not depend on which worker finished first.
func (r *Results) sortByPlan() {
	for _, list := range []*[]TestResult{&r.Tests, &r.Failures, &r.Flaky, &r.Weak} {
		sort.SliceStable(*list, func(i, j int) bool {
			a, b := (*list)[i], (*list)[j]
			if a.order != b.order {
				return a.order < b.order
			}
			return engineIndex(a.Engine) < engineIndex(b.Engine)
		})
	}
}

func engineIndex(e harness.Engine) int {
	for i, x := range harness.AllEngines {
		if x == e {
			return i
		}
	}
	return len(harness.AllEngines)
}
