package e2etest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/maps"

	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
)

// JSONTestLogger writes a machine-readable report of every result at the end of the run.
type JSONTestLogger struct {
	filePath   string
	properties map[string]string
}

// NewJSONTestLogger creates a logger that writes to filePath.
func NewJSONTestLogger(filePath string, properties map[string]string) *JSONTestLogger {
	return &JSONTestLogger{filePath: filePath, properties: properties}
}

func (j *JSONTestLogger) TestStarted(TestID, harness.Engine)              {}
func (j *JSONTestLogger) TestRetrying(TestID, harness.Engine, int, error) {}
func (j *JSONTestLogger) TestFinished(TestResult)                         {}

func (j *JSONTestLogger) EndLog(results Results) error {
	fmt.Printf("Writing JSON report to %s\n", j.filePath)
	data, err := j.render(results)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(j.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(j.filePath, data, 0644) //nolint:gosec
}

func (j *JSONTestLogger) render(results Results) ([]byte, error) {
	w := jwriter.NewWriter()
	obj := w.Object()

	props := obj.Name("properties").Object()
	for _, k := range sortedKeys(j.properties) {
		props.Name(k).String(j.properties[k])
	}
	props.End()

	summary := obj.Name("summary").Object()
	summary.Name("passed").Int(results.Count(StatusPassed))
	summary.Name("failed").Int(len(results.Failures))
	summary.Name("flaky").Int(len(results.Flaky))
	summary.Name("skipped").Int(results.Count(StatusSkipped))
	summary.Name("weak").Int(len(results.Weak))
	summary.Name("interrupted").Bool(results.Interrupted)
	summary.Name("durationMs").Int(int(results.Duration.Milliseconds()))
	byCode := summary.Name("failuresByCode").Object()
	failures := results.FailuresByCode()
	for _, code := range errs.AllCodes {
		if n := len(failures[code]); n > 0 {
			byCode.Name(string(code)).Int(n)
		}
	}
	byCode.End()
	summary.End()

	tests := obj.Name("tests").Array()
	for _, r := range results.Tests {
		writeJSONResult(&w, r)
	}
	tests.End()

	obj.End()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return append(w.Bytes(), '\n'), nil
}

func writeJSONResult(w *jwriter.Writer, r TestResult) {
	obj := w.Object()
	id := obj.Name("id").Array()
	for _, part := range r.TestID {
		w.String(part)
	}
	id.End()
	obj.Name("name").String(r.TestID.String())
	obj.Name("engine").String(string(r.Engine))
	obj.Name("status").String(string(r.Status))
	obj.Maybe("skipReason", r.SkipReason != "").String(r.SkipReason)
	obj.Maybe("weak", r.Weak != "").String(r.Weak)
	obj.Maybe("code", r.Status == StatusFailed).String(string(r.Code()))
	obj.Name("durationMs").Int(int(r.Duration.Milliseconds()))

	attempts := obj.Name("attempts").Array()
	for _, a := range r.Attempts {
		ao := w.Object()
		ao.Name("attempt").Int(a.Attempt)
		ao.Name("durationMs").Int(int(a.Duration.Milliseconds()))
		ao.Maybe("screenshot", a.Artifacts.Screenshot != "").String(a.Artifacts.Screenshot)
		ao.Maybe("trace", a.Artifacts.Trace != "").String(a.Artifacts.Trace)
		errList := ao.Name("errors").Array()
		for _, e := range a.Errors {
			writeJSONError(w, e)
		}
		errList.End()
		ao.End()
	}
	attempts.End()

	if len(r.DebugOutput) > 0 {
		out := obj.Name("debugOutput").Array()
		for _, line := range r.DebugOutput.Lines() {
			w.String(line)
		}
		out.End()
	}
	obj.End()
}

func writeJSONError(w *jwriter.Writer, err error) {
	obj := w.Object()
	obj.Name("code").String(string(errs.CodeOf(err)))
	obj.Name("message").String(err.Error())
	if detail := errs.DetailOf(err); detail != "" {
		obj.Name("detail").String(detail)
	}
	if es, ok := err.(Failure); ok && len(es.Sites) > 0 {
		st := obj.Name("stacktrace").Array()
		for _, s := range es.Sites {
			w.String(s.String())
		}
		st.End()
	}
	obj.End()
}

func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
