package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petelc/NexusPlaywright/config"
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/harness"
)

type fakeSessions struct{}

func (fakeSessions) NewSession(ctx context.Context, spec harness.SessionSpec) (*harness.Session, error) {
	return &harness.Session{Engine: spec.Engine}, nil
}

func executeForTest(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersionCommand(t *testing.T) {
	code, out, _ := executeForTest("version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, strings.TrimSpace(versionString)+"\n", out)
}

func TestListCommandPrintsScenarioIDs(t *testing.T) {
	code, out, _ := executeForTest("list", "--run", "Login Page")
	require.Equal(t, exitOK, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines[:len(lines)-2] {
		assert.True(t, strings.HasPrefix(line, "Login Page/"), line)
	}
	assert.Contains(t, out, "Login Page/Page Layout/displays the NEXUS branding")
	assert.NotContains(t, out, "Registration Page/")
}

func TestUnknownFlagIsAUsageError(t *testing.T) {
	code, _, errOut := executeForTest("run", "--no-such-flag")
	assert.Equal(t, exitConfigError, code)
	assert.Contains(t, errOut, "no-such-flag")
}

func TestInvalidConfigurationExitsWithConfigError(t *testing.T) {
	code, _, errOut := executeForTest("run", "--browser", "netscape", "--output-dir", t.TempDir())
	assert.Equal(t, exitConfigError, code)
	assert.Contains(t, errOut, "netscape")
}

func TestMissingSuppressionFileIsAConfigError(t *testing.T) {
	code, _, errOut := executeForTest("run", "--browser", "chromium",
		"--skip-from", filepath.Join(t.TempDir(), "absent.txt"))
	assert.Equal(t, exitConfigError, code)
	assert.Contains(t, errOut, "suppression file")
}

func TestRunParamsOnlyApplyChangedFlags(t *testing.T) {
	cfg := config.Default()
	p := runParams{baseURL: "http://localhost:4000", workers: 3, retries: 1, timeout: time.Minute}
	changed := map[string]bool{"base-url": true, "retries": true}
	p.apply(&cfg, func(name string) bool { return changed[name] })

	assert.Equal(t, "http://localhost:4000", cfg.BaseURL)
	require.NotNil(t, cfg.Retries)
	assert.Equal(t, 1, *cfg.Retries)
	assert.Zero(t, cfg.Workers)
	assert.Equal(t, e2etest.DefaultScenarioTimeout, cfg.ScenarioTimeout)
}

func TestRecordFailuresWritesSuppressionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "failures.txt")
	results := e2etest.Results{Failures: []e2etest.TestResult{
		{TestID: e2etest.TestID{"Login Page", "Authentication", "x"}},
		{TestID: e2etest.TestID{"Login Page", "Authentication", "x"}},
	}}
	require.NoError(t, recordFailures(path, results))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Login Page/Authentication/x\n", string(content))

	var filters e2etest.RegexFilters
	require.NoError(t, loadSuppressions(&filters, path))
	assert.False(t, filters.Match(e2etest.TestID{"Login Page", "Authentication", "x"}))
	assert.True(t, filters.Match(e2etest.TestID{"Login Page", "Authentication", "y"}))
}

func TestEveryRunWritesJSONReport(t *testing.T) {
	plan := e2etest.NewPlan()
	plan.Describe("Login Page", func(g *e2etest.Group) {
		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the NEXUS branding", func(t *e2etest.T) {})
		})
	})
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	var out bytes.Buffer
	logger := newTestLogger(runParams{}, cfg, "run-1", &out)
	results, err := e2etest.Run(context.Background(), plan, fakeSessions{}, e2etest.Config{
		Engines:    []harness.Engine{harness.Chromium},
		TestLogger: logger,
	})
	require.NoError(t, err)
	require.NoError(t, logger.EndLog(results))

	report, err := os.ReadFile(filepath.Join(cfg.OutputDir, "results.json"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "displays the NEXUS branding")
	assert.Contains(t, string(report), `"run-1"`)
	assert.Contains(t, out.String(), "displays the NEXUS branding")
}

func TestJSONFlagOverridesReportPath(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = "out"
	assert.Equal(t, filepath.Join("out", "results.json"), jsonReportPath(runParams{}, cfg))
	assert.Equal(t, "custom.json", jsonReportPath(runParams{jsonFile: "custom.json"}, cfg))
}
