package e2etest

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petelc/NexusPlaywright/framework"
	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

func init() {
	color.NoColor = true
}

func sampleResults() Results {
	var r Results
	r.add(TestResult{
		TestID: TestID{"auth", "Login Page", "should display login form"}, Engine: harness.Chromium,
		Status: StatusPassed, Duration: 1200 * time.Millisecond, order: 0,
	})
	r.add(TestResult{
		TestID: TestID{"auth", "Login Page", "should show error"}, Engine: harness.Chromium,
		Status: StatusFailed, Duration: 5 * time.Second, order: 1,
		Errors: []error{asFailure(errs.WithDetail(errs.LocatorTimeout, "alert never appeared", nil,
			locator.DOMSnapshot{Locator: `role=alert`, URL: "http://localhost:5173/login"}), nil)},
		Attempts:    []AttemptResult{{Attempt: 1, Artifacts: harness.Artifacts{Screenshot: "shot.png"}}},
		DebugOutput: framework.CapturedOutput{{Time: time.Now(), Message: "goto /login"}},
	})
	r.add(TestResult{
		TestID: TestID{"documents", "List", "opens first"}, Engine: harness.Firefox,
		Status: StatusFlaky, Weak: "no document cards", order: 2,
		Attempts: []AttemptResult{{Attempt: 1}, {Attempt: 2}},
	})
	r.add(TestResult{
		TestID: TestID{"documents", "List", "filtered"}, Engine: harness.Firefox,
		Status: StatusSkipped, SkipReason: "excluded by filter parameters", order: 3,
	})
	r.Duration = 7 * time.Second
	r.sortByPlan()
	return r
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	c := ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	results := sampleResults()
	c.TestStarted(TestID{"auth", "x"}, harness.Chromium)
	c.TestRetrying(TestID{"auth", "x"}, harness.Chromium, 2, errors.New("first\nsecond"))
	for _, r := range results.Tests {
		c.TestFinished(r)
	}
	require.NoError(t, c.EndLog(results))
	out := buf.String()

	assert.Contains(t, out, "[chromium] auth/x")
	assert.Contains(t, out, "RETRYING (attempt 2) [chromium] auth/x: first\n")
	assert.Contains(t, out, "[locator_timeout] alert never appeared")
	assert.Contains(t, out, "FAILED (locator_timeout): [chromium] auth/Login Page/should show error")
	assert.Contains(t, out, "screenshot: shot.png")
	assert.Contains(t, out, "DEBUG [")
	assert.Contains(t, out, "FLAKY: [firefox] documents/List/opens first passed on attempt 2")
	assert.Contains(t, out, "WEAK: conditional assertions skipped (no document cards)")
	assert.NotContains(t, out, "documents/List/filtered (")
	assert.Contains(t, out, "1 passed, 1 failed, 1 flaky, 1 skipped in 7s")
	assert.Contains(t, out, "FAILED SCENARIO (1):")
	assert.Contains(t, out, "locator_timeout (1):")
}

func TestPrintResultsAllPassed(t *testing.T) {
	var buf bytes.Buffer
	PrintResults(&buf, Results{Tests: []TestResult{{Status: StatusPassed}}})
	assert.Contains(t, buf.String(), "All scenarios passed")

	buf.Reset()
	PrintResults(&buf, Results{Interrupted: true})
	assert.Contains(t, buf.String(), "RUN INTERRUPTED")
	assert.NotContains(t, buf.String(), "All scenarios passed")
}

func TestFormatErrorIncludesDetail(t *testing.T) {
	err := errs.WithDetail(errs.LocatorTimeout, "timed out", nil,
		locator.DOMSnapshot{Locator: "label=\"Email\"i", URL: "http://x/login", Title: "Nexus"})
	s := FormatError(asFailure(err, []CallSite{{FileName: "auth.go", Package: "p", Function: "f", Line: 3}}))
	assert.Contains(t, s, "[locator_timeout] timed out")
	assert.Contains(t, s, "Stacktrace:")
	assert.Contains(t, s, "auth.go:3")
	assert.Contains(t, s, "http://x/login")
}

func TestMultiLoggerReturnsFirstError(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	m := &MultiTestLogger{Loggers: []TestLogger{a, b}}
	m.TestStarted(TestID{"x"}, harness.WebKit)
	m.TestFinished(TestResult{TestID: TestID{"x"}})
	require.NoError(t, m.EndLog(Results{}))
	for _, l := range []*recordingLogger{a, b} {
		assert.Equal(t, []string{"webkit:x"}, l.started)
		assert.Len(t, l.finished, 1)
		assert.True(t, l.ended)
	}
}

func TestJUnitReport(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("documents/List/filtered"))
	j := NewJUnitTestLogger("unused.xml", map[string]string{"nexus.baseURL": "http://localhost:5173"}, filters)
	data, err := j.render(sampleResults())
	require.NoError(t, err)

	var doc jUnitXMLDocument
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Suites, 2)

	auth := doc.Suites[0]
	assert.Equal(t, "Nexus E2E [chromium]: auth", auth.Name)
	assert.Equal(t, 2, auth.Tests)
	assert.Equal(t, 1, auth.Failures)
	require.Len(t, auth.TestCases, 2)
	failure := auth.TestCases[1].Failure
	require.NotNil(t, failure)
	assert.Equal(t, "locator_timeout", failure.Type)
	assert.Contains(t, auth.TestCases[1].SystemOut, "[[ATTACHMENT|shot.png]]")

	docs := doc.Suites[1]
	assert.Equal(t, "Nexus E2E [firefox]: documents", docs.Name)
	assert.Equal(t, 1, docs.Skipped)
	assert.Equal(t, "documents/List/opens first (flaky) (weak)", docs.TestCases[0].Name)
	require.NotNil(t, docs.TestCases[1].SkipMessage)

	var names []string
	for _, p := range auth.Properties {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "nexus.baseURL")
	assert.Contains(t, names, "tests.filter.mustNotMatch")
}

func TestJSONReport(t *testing.T) {
	j := NewJSONTestLogger("unused.json", map[string]string{"runID": "abc"})
	data, err := j.render(sampleResults())
	require.NoError(t, err)

	var doc struct {
		Properties map[string]string `json:"properties"`
		Summary    struct {
			Passed         int            `json:"passed"`
			Failed         int            `json:"failed"`
			Flaky          int            `json:"flaky"`
			Skipped        int            `json:"skipped"`
			Weak           int            `json:"weak"`
			FailuresByCode map[string]int `json:"failuresByCode"`
		} `json:"summary"`
		Tests []struct {
			ID       []string `json:"id"`
			Engine   string   `json:"engine"`
			Status   string   `json:"status"`
			Code     string   `json:"code"`
			Attempts []struct {
				Screenshot string `json:"screenshot"`
			} `json:"attempts"`
			DebugOutput []string `json:"debugOutput"`
		} `json:"tests"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "abc", doc.Properties["runID"])
	assert.Equal(t, 1, doc.Summary.Passed)
	assert.Equal(t, 1, doc.Summary.Failed)
	assert.Equal(t, 1, doc.Summary.Flaky)
	assert.Equal(t, 1, doc.Summary.Skipped)
	assert.Equal(t, 1, doc.Summary.Weak)
	assert.Equal(t, map[string]int{"locator_timeout": 1}, doc.Summary.FailuresByCode)
	require.Len(t, doc.Tests, 4)
	assert.Equal(t, []string{"auth", "Login Page", "should show error"}, doc.Tests[1].ID)
	assert.Equal(t, "locator_timeout", doc.Tests[1].Code)
	assert.Equal(t, "shot.png", doc.Tests[1].Attempts[0].Screenshot)
	assert.Equal(t, []string{"goto /login"}, doc.Tests[1].DebugOutput)
	assert.Equal(t, "", doc.Tests[0].Code)
}

func TestJSONReportFailureCodes(t *testing.T) {
	data, err := NewJSONTestLogger("unused.json", nil).render(sampleResults())
	require.NoError(t, err)
	m.In(t).Assert(json.RawMessage(data), m.AllOf(
		m.JSONProperty("properties").Should(m.JSONEqual(map[string]string{})),
		m.JSONProperty("summary").Should(
			m.JSONProperty("failuresByCode").Should(m.JSONEqual(map[string]int{"locator_timeout": 1}))),
	))
}
