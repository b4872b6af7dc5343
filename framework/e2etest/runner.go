package e2etest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/petelc/NexusPlaywright/framework"
	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/obs"
)

const (
	// DefaultScenarioTimeout bounds one attempt of one scenario, setup included.
	DefaultScenarioTimeout = 30 * time.Second

	defaultAbortGrace = 5 * time.Second
	retryDelay        = 250 * time.Millisecond

	skipReasonFilter      = "excluded by filter parameters"
	skipReasonNotFocused  = "not focused"
	skipReasonInterrupted = "run interrupted"
)

// SessionFactory opens an isolated browser session for one scenario attempt.
// *harness.TestHarness implements it.
type SessionFactory interface {
	NewSession(ctx context.Context, spec harness.SessionSpec) (*harness.Session, error)
}

// Config contains options for the entire run.
type Config struct {
	// Engines lists the browser engines every scenario runs under.
	Engines []harness.Engine

	// Workers is the number of units that may run concurrently. Less than 1 means 1.
	Workers int

	// Retries is how many extra attempts a failing scenario gets.
	Retries int

	// ScenarioTimeout bounds each attempt. Zero means DefaultScenarioTimeout.
	ScenarioTimeout time.Duration

	// Filter optionally decides which scenarios run.
	Filter Filter

	// ForbidOnly rejects plans that contain focused scenarios.
	ForbidOnly bool

	// TestLogger receives status information about each scenario.
	TestLogger TestLogger

	// Data is a read-only value available to scenarios through T.Data.
	Data interface{}

	// RunID is attached to every structured log line of the run.
	RunID string

	// DebugForward, if set, receives every scenario's debug output as it is written.
	DebugForward framework.Logger

	abortGrace time.Duration
}

type runner struct {
	cfg      Config
	sessions SessionFactory
	focused  bool

	lock    sync.Mutex
	results Results
}

type job struct {
	unit   unit
	engine harness.Engine
}

// Run executes every scenario of plan under every configured engine. Scenarios that share
// a BeforeEach-declaring group run serially on one worker; independent units run in
// parallel on up to cfg.Workers workers. Each attempt gets a fresh session from sessions.
//
// The returned error is non-nil only if the run could not start at all. Cancelling ctx stops
// the run: scenarios that have not started are reported as skipped and Results.Interrupted
// is set.
func Run(ctx context.Context, plan *Plan, sessions SessionFactory, cfg Config) (Results, error) {
	if len(cfg.Engines) == 0 {
		return Results{}, errs.New(errs.ConfigInvalid, "no browser engines selected")
	}
	focused := plan.HasFocused()
	if focused && cfg.ForbidOnly {
		var names []string
		for _, s := range plan.Scenarios() {
			if s.focus {
				names = append(names, s.id.String())
			}
		}
		return Results{}, errs.Newf(errs.ConfigInvalid,
			"focused scenarios are not allowed in this run: %s", strings.Join(names, ", "))
	}
	if cfg.TestLogger == nil {
		cfg.TestLogger = nullTestLogger{}
	}
	if cfg.ScenarioTimeout <= 0 {
		cfg.ScenarioTimeout = DefaultScenarioTimeout
	}
	if cfg.abortGrace <= 0 {
		cfg.abortGrace = defaultAbortGrace
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	r := &runner{cfg: cfg, sessions: sessions, focused: focused}
	log := obs.From(obs.WithCorrelation(ctx, obs.Correlation{RunID: cfg.RunID}))
	start := time.Now()

	jobs := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r.runUnit(ctx, j)
			}
		}()
	}
	units := plan.units()
	log.Info("run started",
		"units", len(units), "engines", len(cfg.Engines), "workers", cfg.Workers, "retries", cfg.Retries)
	for _, u := range units {
		for _, e := range cfg.Engines {
			jobs <- job{unit: u, engine: e}
		}
	}
	close(jobs)
	wg.Wait()

	r.results.Duration = time.Since(start)
	r.results.Interrupted = ctx.Err() != nil
	r.results.sortByPlan()
	log.Info("run finished",
		"passed", r.results.Count(StatusPassed),
		"failed", len(r.results.Failures),
		"flaky", len(r.results.Flaky),
		"skipped", r.results.Count(StatusSkipped),
		"interrupted", r.results.Interrupted,
		"duration", r.results.Duration.String())
	return r.results, nil
}

func (r *runner) runUnit(ctx context.Context, j job) {
	for _, s := range j.unit.scenarios {
		result := TestResult{TestID: s.id, Engine: j.engine, order: s.order}
		switch {
		case ctx.Err() != nil:
			result.Status, result.SkipReason = StatusSkipped, skipReasonInterrupted
		case r.cfg.Filter != nil && !r.cfg.Filter(s.id):
			result.Status, result.SkipReason = StatusSkipped, skipReasonFilter
		case r.focused && !s.focus:
			result.Status, result.SkipReason = StatusSkipped, skipReasonNotFocused
		case s.skip != "":
			result.Status, result.SkipReason = StatusSkipped, s.skip
		default:
			r.notify(func(l TestLogger) { l.TestStarted(s.id, j.engine) })
			result = r.runScenario(ctx, s, j.engine)
		}
		r.record(result)
	}
}

func (r *runner) notify(fn func(TestLogger)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	fn(r.cfg.TestLogger)
}

func (r *runner) record(result TestResult) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.results.add(result)
	r.cfg.TestLogger.TestFinished(result)
}

type attemptOutcome struct {
	AttemptResult
	skipped     bool
	skipReason  string
	weak        string
	debugOutput framework.CapturedOutput
}

var errSkipped = errors.New("skipped")

func (r *runner) runScenario(ctx context.Context, s *Scenario, engine harness.Engine) TestResult {
	result := TestResult{TestID: s.id, Engine: engine, order: s.order}
	start := time.Now()
	var last attemptOutcome
	attempt := 0

	err := retry.Do(
		func() error {
			attempt++
			last = r.runAttempt(ctx, s, engine, attempt)
			result.Attempts = append(result.Attempts, last.AttemptResult)
			switch {
			case last.skipped:
				return retry.Unrecoverable(errSkipped)
			case last.Failed():
				return last.Errors[0]
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(r.cfg.Retries+1)),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.notify(func(l TestLogger) { l.TestRetrying(s.id, engine, int(n)+2, err) })
		}),
	)

	result.Duration = time.Since(start)
	result.DebugOutput = last.debugOutput
	result.Weak = last.weak
	result.Errors = last.Errors
	switch {
	case last.skipped:
		result.Status, result.SkipReason = StatusSkipped, last.skipReason
	case err == nil && attempt > 1:
		result.Status = StatusFlaky
	case err == nil:
		result.Status = StatusPassed
	default:
		result.Status = StatusFailed
		if len(result.Errors) == 0 {
			// the context was cancelled between attempts
			result.Errors = []error{asFailure(errs.Wrap(errs.Internal, skipReasonInterrupted, err), nil)}
		}
	}
	return result
}

func (r *runner) runAttempt(ctx context.Context, s *Scenario, engine harness.Engine, attempt int) attemptOutcome {
	start := time.Now()
	var forward []framework.Logger
	if r.cfg.DebugForward != nil {
		forward = append(forward, framework.LoggerWithPrefix(r.cfg.DebugForward,
			fmt.Sprintf("[%s %s #%d] ", engine, s.id, attempt)))
	}
	debugLogger := framework.NewCapturingLogger(forward...)

	scenarioCtx, cancel := context.WithTimeout(ctx, r.cfg.ScenarioTimeout)
	defer cancel()
	scenarioCtx = obs.WithCorrelation(scenarioCtx, obs.Correlation{
		RunID:    r.cfg.RunID,
		Engine:   string(engine),
		Scenario: s.id.String(),
		Attempt:  attempt,
	})
	log := obs.From(scenarioCtx)

	outcome := attemptOutcome{AttemptResult: AttemptResult{Attempt: attempt}}
	finish := func() attemptOutcome {
		outcome.Duration = time.Since(start)
		outcome.debugOutput = debugLogger.Output()
		return outcome
	}

	session, err := r.sessions.NewSession(scenarioCtx, harness.SessionSpec{
		Engine:  engine,
		Slug:    harness.Slug(s.id...),
		Attempt: attempt,
		Logger:  debugLogger,
	})
	if err != nil {
		if errs.CodeOf(err) == errs.Internal {
			err = errs.Wrap(errs.BrowserUnavailable, "could not open browser session", err)
		}
		log.Error("session failed", "error", err)
		outcome.Errors = []error{asFailure(err, nil)}
		return finish()
	}

	t := &T{
		id:          s.id,
		ctx:         scenarioCtx,
		engine:      engine,
		attempt:     attempt,
		session:     session,
		data:        r.cfg.Data,
		debugLogger: debugLogger,
	}
	hooks := s.hooks()
	done := make(chan struct{})
	go func() {
		defer close(done)
		t.run(func(t *T) {
			for _, h := range hooks {
				t.enterHook(h.name)
				h.fn(t)
				if t.Failed() {
					return
				}
			}
			t.enterBody()
			s.fn(t)
		})
	}()

	finished := true
	select {
	case <-done:
	case <-scenarioCtx.Done():
		if ctx.Err() != nil {
			t.freeze(errs.New(errs.Internal, skipReasonInterrupted))
		} else {
			t.freeze(errs.Newf(errs.ScenarioTimeout, "scenario exceeded its %s timeout", r.cfg.ScenarioTimeout))
		}
		// closing the session makes any pending browser call in the scenario return
		arts, closeErr := session.Close(true)
		outcome.Artifacts = arts
		if closeErr != nil {
			debugLogger.Printf("artifact capture failed: %s", closeErr)
		}
		select {
		case <-done:
		case <-time.After(r.cfg.abortGrace):
			finished = false
			log.Warn("scenario did not stop after its session was closed")
		}
	}
	if finished {
		t.runCleanups()
	}

	failed, skipped, skipReason, weak, errList := t.snapshot()
	if arts, closeErr := session.Close(failed); closeErr != nil {
		debugLogger.Printf("artifact capture failed: %s", closeErr)
	} else if !arts.Empty() {
		outcome.Artifacts = arts
	}
	outcome.Errors = errList
	outcome.skipped = skipped && !failed
	outcome.skipReason = skipReason
	outcome.weak = weak

	switch {
	case outcome.skipped:
		log.Info("scenario skipped", "reason", skipReason)
	case failed:
		log.Warn("scenario attempt failed", "code", string(errs.CodeOf(firstError(errList))))
	default:
		log.Debug("scenario attempt passed")
	}
	return finish()
}

func firstError(list []error) error {
	if len(list) == 0 {
		return nil
	}
	return list[0]
}
