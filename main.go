package main

import (
	"context"
	_ "embed" // this is required in order for go:embed to work
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/petelc/NexusPlaywright/artifacts"
	"github.com/petelc/NexusPlaywright/config"
	"github.com/petelc/NexusPlaywright/data"
	"github.com/petelc/NexusPlaywright/fixtures"
	"github.com/petelc/NexusPlaywright/framework"
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/obs"
	"github.com/petelc/NexusPlaywright/mocknexus"
	"github.com/petelc/NexusPlaywright/suites"
)

// Process exit codes.
const (
	exitOK          = 0
	exitFailed      = 1
	exitConfigError = 2
)

// defaultJSONReport is the report file name under the output directory when --json is not given.
const defaultJSONReport = "results.json"

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func configError(err error) error { return &exitError{code: exitConfigError, err: err} }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	// anything cobra rejects before a command runs is a usage problem
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitConfigError
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "nexus-e2e",
		Short:         "Browser end-to-end tests for the Nexus web app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(out))
	root.AddCommand(newListCmd(out))
	root.AddCommand(newMockCmd(out))
	root.AddCommand(newInstallCmd())
	root.AddCommand(newVersionCmd(out))
	return root
}

func newRunCmd(out io.Writer) *cobra.Command {
	var params runParams
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the end-to-end suites against a Nexus deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuites(cmd.Context(), params, cmd.Flags().Changed, out)
		},
	}
	params.bind(cmd)
	return cmd
}

func runSuites(ctx context.Context, params runParams, changed func(string) bool, out io.Writer) error {
	fmt.Fprintf(out, "nexus-e2e v%s\n", strings.TrimSpace(versionString))

	cfg, err := config.Load(params.configFile)
	if err != nil {
		return configError(err)
	}
	params.apply(&cfg, changed)
	if err := cfg.Finalize(); err != nil {
		return configError(err)
	}
	obs.Init(obs.ParseLevel(cfg.LogLevel), os.Stderr)

	runID := uuid.NewString()
	ctx = obs.WithCorrelation(ctx, obs.Correlation{RunID: runID})
	logger := obs.From(ctx).With("pkg", "main")
	cfg.PrintSummary(out)
	if cfg.IgnoreHTTPSErrors {
		logger.Warn("TLS certificate validation is disabled for this run", "base_url", cfg.BaseURL)
	}

	if params.skipFile != "" {
		if err := loadSuppressions(&params.filters, params.skipFile); err != nil {
			return configError(err)
		}
	}

	env, err := newSuiteEnv(cfg, runID)
	if err != nil {
		return configError(err)
	}
	plan := e2etest.NewPlan()
	suites.Register(plan, env)
	e2etest.PrintFilterDescription(out, params.filters, plan.HasFocused())

	if err := harness.WaitForApp(ctx, cfg.BaseURL, cfg.AppTimeout, cfg.IgnoreHTTPSErrors, out); err != nil {
		return &exitError{code: exitFailed, err: err}
	}

	h, err := harness.NewTestHarness(cfg.HarnessOptions(), cfg.Engines(), out)
	if err != nil {
		return &exitError{code: exitFailed, err: err}
	}
	defer func() {
		if err := h.Close(); err != nil {
			logger.Error("failed to shut down browsers", "error", err)
		}
	}()

	var debugForward framework.Logger
	if params.debugAll {
		debugForward = log.New(out, "", log.LstdFlags)
	}
	testLogger := newTestLogger(params, cfg, runID, out)
	results, err := e2etest.Run(ctx, plan, h, e2etest.Config{
		Engines:         cfg.Engines(),
		Workers:         cfg.Workers,
		Retries:         cfg.RetryCount(),
		ScenarioTimeout: cfg.ScenarioTimeout,
		Filter:          params.filters.Match,
		ForbidOnly:      cfg.ForbidOnly,
		TestLogger:      testLogger,
		Data:            env,
		RunID:           runID,
		DebugForward:    debugForward,
	})
	if err != nil {
		if errs.Is(err, errs.ConfigInvalid) {
			return configError(err)
		}
		return &exitError{code: exitFailed, err: err}
	}

	fmt.Fprintln(out)
	if err := testLogger.EndLog(results); err != nil {
		return &exitError{code: exitFailed, err: fmt.Errorf("error writing reports: %w", err)}
	}
	if params.recordFailures != "" {
		if err := recordFailures(params.recordFailures, results); err != nil {
			return &exitError{code: exitFailed, err: err}
		}
	}
	if cfg.S3Bucket != "" {
		uploadArtifacts(ctx, cfg, runID, out)
	}

	if !results.OK() {
		return &exitError{code: exitFailed}
	}
	return nil
}

func newSuiteEnv(cfg config.Config, runID string) (suites.Env, error) {
	d, err := data.Load()
	if err != nil {
		return suites.Env{}, err
	}
	return suites.Env{
		Data:   d,
		User:   fixtures.SeededUser(d, cfg.TestUserEmail, cfg.TestUserPassword),
		Tokens: fixtures.NewTokenSource(fixtures.SystemClock{}, runID),
	}, nil
}

func newTestLogger(params runParams, cfg config.Config, runID string, out io.Writer) e2etest.TestLogger {
	loggers := []e2etest.TestLogger{e2etest.ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}}
	properties := map[string]string{
		"runId":    runID,
		"baseURL":  cfg.BaseURL,
		"browsers": strings.Join(cfg.Browsers, ","),
		"version":  strings.TrimSpace(versionString),
	}
	if params.jUnitFile != "" {
		loggers = append(loggers, e2etest.NewJUnitTestLogger(params.jUnitFile, properties, params.filters))
	}
	loggers = append(loggers, e2etest.NewJSONTestLogger(jsonReportPath(params, cfg), properties))
	return &e2etest.MultiTestLogger{Loggers: loggers}
}

// jsonReportPath is where the machine-readable report goes; every run writes one.
func jsonReportPath(params runParams, cfg config.Config) string {
	if params.jsonFile != "" {
		return params.jsonFile
	}
	return filepath.Join(cfg.OutputDir, defaultJSONReport)
}

func loadSuppressions(filters *e2etest.RegexFilters, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return filters.LoadSuppressions(file)
}

func recordFailures(path string, results e2etest.Results) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create suppression file: %w", err)
	}
	if err := e2etest.WriteFailures(f, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// uploadArtifacts publishes the output directory. A failed upload is logged but does not
// change the outcome of the run.
func uploadArtifacts(ctx context.Context, cfg config.Config, runID string, out io.Writer) {
	logger := obs.From(ctx).With("pkg", "main")
	u, err := artifacts.NewS3Uploader(ctx, artifacts.S3Config{
		Bucket:   cfg.S3Bucket,
		Endpoint: cfg.S3Endpoint,
		Region:   cfg.S3Region,
	}, runID)
	if err != nil {
		logger.Error("artifact upload unavailable", "error", err)
		return
	}
	summary, err := u.UploadDir(ctx, cfg.OutputDir)
	if err != nil {
		logger.Error("artifact upload failed", "error", err)
		return
	}
	fmt.Fprintf(out, "Uploaded %s\n", summary)
}

func newListCmd(out io.Writer) *cobra.Command {
	var filters e2etest.RegexFilters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the ID of every registered scenario",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			d, err := data.Load()
			if err != nil {
				return configError(err)
			}
			plan := e2etest.NewPlan()
			suites.Register(plan, suites.Env{
				Data:   d,
				User:   fixtures.SeededUser(d, "", ""),
				Tokens: fixtures.NewTokenSource(fixtures.SystemClock{}, ""),
			})
			listScenarios(out, plan, filters)
			return nil
		},
	}
	cmd.Flags().Var(&filters.MustMatch, "run", "regex pattern(s) to select scenarios")
	cmd.Flags().Var(&filters.MustNotMatch, "skip", "regex pattern(s) to exclude scenarios")
	return cmd
}

func listScenarios(out io.Writer, plan *e2etest.Plan, filters e2etest.RegexFilters) {
	n := 0
	for _, s := range plan.Scenarios() {
		if !filters.Match(s.ID()) {
			continue
		}
		marker := ""
		if s.Focused() {
			marker = " (focused)"
		}
		fmt.Fprintf(out, "%s%s\n", s.ID(), marker)
		n++
	}
	fmt.Fprintf(out, "\n%d scenarios\n", n)
}

func newMockCmd(out io.Writer) *cobra.Command {
	var (
		port    int
		latency time.Duration
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve the bundled fake Nexus app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := data.Load()
			if err != nil {
				return configError(err)
			}
			options := []mocknexus.Option{mocknexus.WithLatency(latency)}
			if verbose {
				options = append(options, mocknexus.WithLogger(log.New(out, "[mocknexus] ", log.LstdFlags)))
			}
			app, err := mocknexus.NewApp(d, options...)
			if err != nil {
				return &exitError{code: exitFailed, err: err}
			}
			return serve(cmd.Context(), net.JoinHostPort("localhost", strconv.Itoa(port)), app, out)
		},
	}
	cmd.Flags().IntVar(&port, "port", 3000, "port to listen on")
	cmd.Flags().DurationVar(&latency, "latency", mocknexus.DefaultLatency, "artificial delay of every API response")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every request")
	return cmd
}

func serve(ctx context.Context, addr string, handler http.Handler, out io.Writer) error {
	server := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe() }()
	fmt.Fprintf(out, "Serving the fake Nexus app at http://%s (run with --base-url http://%s)\n", addr, addr)

	select {
	case err := <-done:
		return &exitError{code: exitFailed, err: err}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func newInstallCmd() *cobra.Command {
	var browsers []string
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the Playwright driver and browsers",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			engines := harness.AllEngines
			if len(browsers) > 0 {
				var err error
				if engines, err = harness.ParseEngines(browsers); err != nil {
					return configError(err)
				}
			}
			if err := harness.Install(engines); err != nil {
				return &exitError{code: exitFailed, err: err}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&browsers, "browser", nil, "browser engine to install (repeatable)")
	return cmd
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(out, strings.TrimSpace(versionString))
		},
	}
}
