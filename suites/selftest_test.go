package suites

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/mocknexus"
)

// TestAuthSuitesAgainstFakeApp drives the authentication suites through a real browser
// against the bundled fake app.
func TestAuthSuitesAgainstFakeApp(t *testing.T) {
	if testing.Short() {
		t.Skip("browser self-test skipped in short mode")
	}
	env := testEnv(t)
	app, err := mocknexus.NewApp(env.Data, mocknexus.WithLatency(400*time.Millisecond))
	require.NoError(t, err)
	server := httptest.NewServer(app)
	defer server.Close()

	h, err := harness.NewTestHarness(harness.Options{
		BaseURL:    server.URL,
		Headless:   true,
		Trace:      harness.TraceOff,
		Screenshot: harness.ScreenshotOff,
		OutputDir:  t.TempDir(),
	}, []harness.Engine{harness.Chromium}, io.Discard)
	if err != nil {
		t.Skipf("Playwright is not available: %s", err)
	}
	defer func() { _ = h.Close() }()

	plan := e2etest.NewPlan()
	Register(plan, env)
	auth := map[string]bool{
		"Login Page":           true,
		"Registration Page":    true,
		"Forgot Password Page": true,
		"Reset Password Page":  true,
	}
	results, err := e2etest.Run(context.Background(), plan, h, e2etest.Config{
		Engines: []harness.Engine{harness.Chromium},
		Workers: 2,
		Filter:  func(id e2etest.TestID) bool { return auth[id[0]] },
	})
	require.NoError(t, err)
	for _, f := range results.Failures {
		for _, e := range f.Errors {
			t.Errorf("%s: %s", f.TestID, e2etest.FormatError(e))
		}
	}
	require.Positive(t, results.Count(e2etest.StatusPassed))
}
