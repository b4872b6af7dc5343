package e2etest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
)

func TestTestIDString(t *testing.T) {
	assert.Equal(t, "", TestID{}.String())
	assert.Equal(t, "auth", TestID{"auth"}.String())
	assert.Equal(t, "auth/Login Page/shows error", TestID{"auth", "Login Page", "shows error"}.String())
}

func TestTestIDPlus(t *testing.T) {
	id1 := TestID{"auth"}
	id2a := id1.Plus("Login Page")
	id2b := id1.Plus("Register Page")
	assert.Equal(t, TestID{"auth"}, id1)
	assert.Equal(t, TestID{"auth", "Login Page"}, id2a)
	assert.Equal(t, TestID{"auth", "Register Page"}, id2b)
}

func TestResultsAggregation(t *testing.T) {
	var r Results
	r.add(TestResult{TestID: TestID{"b"}, Engine: harness.Firefox, Status: StatusFailed, order: 1,
		Errors: []error{errs.New(errs.SetupFailure, "login failed")}})
	r.add(TestResult{TestID: TestID{"a"}, Engine: harness.WebKit, Status: StatusPassed, order: 0})
	r.add(TestResult{TestID: TestID{"a"}, Engine: harness.Chromium, Status: StatusFlaky, order: 0, Weak: "no cards"})
	r.add(TestResult{TestID: TestID{"c"}, Engine: harness.Chromium, Status: StatusSkipped, order: 2})
	r.sortByPlan()

	assert.False(t, r.OK())
	assert.Equal(t, 1, r.Count(StatusPassed))
	assert.Equal(t, 1, r.Count(StatusSkipped))
	assert.Len(t, r.Flaky, 1)
	assert.Len(t, r.Weak, 1)

	assert.Equal(t, harness.Chromium, r.Tests[0].Engine)
	assert.Equal(t, harness.WebKit, r.Tests[1].Engine)
	assert.Equal(t, TestID{"b"}, r.Tests[2].TestID)

	byCode := r.FailuresByCode()
	assert.Len(t, byCode[errs.SetupFailure], 1)
}

func TestResultsOKWithFlaky(t *testing.T) {
	var r Results
	r.add(TestResult{Status: StatusFlaky})
	assert.True(t, r.OK())

	r.Interrupted = true
	assert.False(t, r.OK())
}

func TestResultCode(t *testing.T) {
	assert.Equal(t, errs.Code(""), TestResult{}.Code())
	assert.Equal(t, errs.Internal, TestResult{Errors: []error{errors.New("x")}}.Code())
	assert.Equal(t, errs.LocatorTimeout, TestResult{Errors: []error{
		Failure{Message: "m", Err: errs.New(errs.LocatorTimeout, "m")},
	}}.Code())
}
