package e2etest

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"golang.org/x/exp/maps"

	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
)

var consoleTestErrorColor = color.New(color.FgYellow)              //nolint:gochecknoglobals
var consoleTestFailedColor = color.New(color.FgRed)                //nolint:gochecknoglobals
var consoleTestFlakyColor = color.New(color.FgMagenta)             //nolint:gochecknoglobals
var consoleTestSkippedColor = color.New(color.Faint, color.FgBlue) //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)               //nolint:gochecknoglobals
var allTestsPassedColor = color.New(color.FgGreen)                 //nolint:gochecknoglobals

// TestLogger receives status information about each scenario. The runner serializes calls,
// so implementations do not need their own locking.
type TestLogger interface {
	TestStarted(id TestID, engine harness.Engine)
	TestRetrying(id TestID, engine harness.Engine, attempt int, err error)
	TestFinished(result TestResult)
	EndLog(results Results) error
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID, harness.Engine)              {}
func (n nullTestLogger) TestRetrying(TestID, harness.Engine, int, error) {}
func (n nullTestLogger) TestFinished(TestResult)                         {}
func (n nullTestLogger) EndLog(Results) error                            { return nil }

// ConsoleTestLogger prints a line per scenario with failure details inline.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c ConsoleTestLogger) TestStarted(id TestID, engine harness.Engine) {
	fmt.Fprintf(c.out(), "[%s] %s\n", engine, id)
}

func (c ConsoleTestLogger) TestRetrying(id TestID, engine harness.Engine, attempt int, err error) {
	_, _ = consoleTestFlakyColor.Fprintf(c.out(), "  RETRYING (attempt %d) [%s] %s: %s\n", attempt, engine, id,
		firstLine(err.Error()))
}

func (c ConsoleTestLogger) TestFinished(result TestResult) {
	w := c.out()
	switch result.Status {
	case StatusSkipped:
		if result.SkipReason == skipReasonFilter || result.SkipReason == skipReasonNotFocused {
			return
		}
		if result.SkipReason == "" {
			_, _ = consoleTestSkippedColor.Fprintf(w, "  SKIPPED: [%s] %s\n", result.Engine, result.TestID)
		} else {
			_, _ = consoleTestSkippedColor.Fprintf(w, "  SKIPPED: [%s] %s (%s)\n", result.Engine, result.TestID,
				result.SkipReason)
		}
		return
	case StatusFailed:
		for _, err := range result.Errors {
			for _, line := range strings.Split(FormatError(err), "\n") {
				_, _ = consoleTestErrorColor.Fprintf(w, "  %s\n", line)
			}
		}
		_, _ = consoleTestFailedColor.Fprintf(w, "  FAILED (%s): [%s] %s\n", result.Code(), result.Engine, result.TestID)
		if arts := result.Artifacts(); !arts.Empty() {
			if arts.Screenshot != "" {
				fmt.Fprintf(w, "    screenshot: %s\n", arts.Screenshot)
			}
			if arts.Trace != "" {
				fmt.Fprintf(w, "    trace: %s\n", arts.Trace)
			}
		}
	case StatusFlaky:
		_, _ = consoleTestFlakyColor.Fprintf(w, "  FLAKY: [%s] %s passed on attempt %d\n", result.Engine, result.TestID,
			len(result.Attempts))
	}
	if result.Weak != "" {
		_, _ = consoleTestSkippedColor.Fprintf(w, "  WEAK: conditional assertions skipped (%s)\n", result.Weak)
	}
	failed := result.Status == StatusFailed
	if len(result.DebugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		_, _ = consoleDebugOutputColor.Fprintln(w, result.DebugOutput.ToString("    DEBUG "))
	}
}

func (c ConsoleTestLogger) EndLog(results Results) error {
	PrintResults(c.out(), results)
	return nil
}

// MultiTestLogger fans every call out to several loggers.
type MultiTestLogger struct {
	Loggers []TestLogger
}

func (m *MultiTestLogger) TestStarted(id TestID, engine harness.Engine) {
	for _, l := range m.Loggers {
		l.TestStarted(id, engine)
	}
}

func (m *MultiTestLogger) TestRetrying(id TestID, engine harness.Engine, attempt int, err error) {
	for _, l := range m.Loggers {
		l.TestRetrying(id, engine, attempt, err)
	}
}

func (m *MultiTestLogger) TestFinished(result TestResult) {
	for _, l := range m.Loggers {
		l.TestFinished(result)
	}
}

// EndLog calls every logger and returns the first error.
func (m *MultiTestLogger) EndLog(results Results) error {
	var first error
	for _, l := range m.Loggers {
		if err := l.EndLog(results); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// FormatError renders a failure with its classification, the suite call site and any DOM
// diagnostics that were attached when it was raised.
func FormatError(err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", errs.CodeOf(err), err.Error())
	if es, ok := err.(Failure); ok && len(es.Sites) > 0 {
		b.WriteString("\n  Stacktrace:")
		for _, s := range es.Sites {
			b.WriteString("\n    " + s.String())
		}
	}
	if detail := errs.DetailOf(err); detail != "" {
		b.WriteString("\n  " + strings.ReplaceAll(detail, "\n", "\n  "))
	}
	return b.String()
}

// PrintResults writes the end-of-run summary.
func PrintResults(w io.Writer, results Results) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s passed, %s failed, %s flaky, %s skipped in %s\n",
		humanize.Comma(int64(results.Count(StatusPassed))),
		humanize.Comma(int64(len(results.Failures))),
		humanize.Comma(int64(len(results.Flaky))),
		humanize.Comma(int64(results.Count(StatusSkipped))),
		results.Duration.Round(time.Millisecond))

	if len(results.Flaky) > 0 {
		_, _ = consoleTestFlakyColor.Fprintf(w, "FLAKY %s (%d):\n",
			english.PluralWord(len(results.Flaky), "SCENARIO", "SCENARIOS"), len(results.Flaky))
		for _, f := range results.Flaky {
			_, _ = consoleTestFlakyColor.Fprintf(w, "  * [%s] %s\n", f.Engine, f.TestID)
		}
	}
	if len(results.Weak) > 0 {
		_, _ = consoleTestSkippedColor.Fprintf(w, "WEAK RESULTS (%d), conditional assertions did not run:\n",
			len(results.Weak))
		for _, f := range results.Weak {
			_, _ = consoleTestSkippedColor.Fprintf(w, "  * [%s] %s: %s\n", f.Engine, f.TestID, f.Weak)
		}
	}
	if results.Interrupted {
		_, _ = consoleTestFailedColor.Fprintln(w, "RUN INTERRUPTED: remaining scenarios were skipped")
	}

	if len(results.Failures) == 0 {
		if !results.Interrupted {
			_, _ = allTestsPassedColor.Fprintln(w, "All scenarios passed")
		}
		return
	}
	_, _ = consoleTestFailedColor.Fprintf(w, "FAILED %s (%d):\n",
		english.PluralWord(len(results.Failures), "SCENARIO", "SCENARIOS"), len(results.Failures))
	byCode := results.FailuresByCode()
	codes := maps.Keys(byCode)
	sort.Slice(codes, func(i, j int) bool { return codeIndex(codes[i]) < codeIndex(codes[j]) })
	for _, code := range codes {
		_, _ = consoleTestFailedColor.Fprintf(w, "  %s (%d):\n", code, len(byCode[code]))
		for _, f := range byCode[code] {
			_, _ = consoleTestFailedColor.Fprintf(w, "    * [%s] %s\n", f.Engine, f.TestID)
		}
	}
}

func codeIndex(c errs.Code) int {
	for i, x := range errs.AllCodes {
		if x == c {
			return i
		}
	}
	return len(errs.AllCodes)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
