// Package config resolves the run configuration from defaults, an optional YAML file, the
// environment (including a .env file) and command-line flags, in that order of precedence,
// and applies the CI policy.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/harness"
)

// Defaults.
const (
	DefaultBaseURL    = "https://localhost:3000"
	DefaultOutputDir  = "test-results"
	DefaultCIRetries  = 2
	DefaultLogLevel   = "info"
	DefaultS3Region   = "us-east-1"
	DefaultAppTimeout = 30 * time.Second
)

// Config is the effective configuration of one run.
type Config struct {
	// CI is true when the CI environment variable is set; it tightens the run policy.
	CI bool `yaml:"-"`

	BaseURL  string   `yaml:"baseURL"`
	Browsers []string `yaml:"browsers"`
	Workers  int      `yaml:"workers"`

	// Retries is nil until resolved; the CI policy supplies the default.
	Retries *int `yaml:"retries"`

	Headed            bool          `yaml:"headed"`
	SlowMo            time.Duration `yaml:"slowMo"`
	IgnoreHTTPSErrors bool          `yaml:"ignoreHTTPSErrors"`
	ScenarioTimeout   time.Duration `yaml:"timeout"`
	ActionTimeout     time.Duration `yaml:"actionTimeout"`
	AppTimeout        time.Duration `yaml:"appTimeout"`
	Trace             string        `yaml:"trace"`
	Screenshot        string        `yaml:"screenshot"`
	OutputDir         string        `yaml:"outputDir"`

	TestUserEmail    string `yaml:"testUserEmail"`
	TestUserPassword string `yaml:"testUserPassword"`

	LogLevel string `yaml:"logLevel"`

	S3Bucket   string `yaml:"s3Bucket"`
	S3Endpoint string `yaml:"s3Endpoint"`
	S3Region   string `yaml:"s3Region"`

	// ForbidOnly is derived from CI.
	ForbidOnly bool `yaml:"-"`
}

// environment mirrors Config for envconfig. Pointers distinguish "unset" from zero values so
// the environment only overrides what it actually sets. Names come from split_words only:
// an explicit envconfig tag would make envconfig fall back to the unprefixed name.
type environment struct {
	BaseURL           *string        `split_words:"true"`
	Browsers          []string       `split_words:"true"`
	Workers           *int           `split_words:"true"`
	Retries           *int           `split_words:"true"`
	Headed            *bool          `split_words:"true"`
	IgnoreHTTPSErrors *bool          `split_words:"true"`
	Timeout           *time.Duration `split_words:"true"`
	ActionTimeout     *time.Duration `split_words:"true"`
	OutputDir         *string        `split_words:"true"`
	TestUserEmail     *string        `split_words:"true"`
	TestUserPassword  *string        `split_words:"true"`
	LogLevel          *string        `split_words:"true"`
	S3Bucket          *string        `split_words:"true"`
	S3Endpoint        *string        `split_words:"true"`
	S3Region          *string        `split_words:"true"`
}

// envPrefix namespaces every variable except CI, which is the CI systems' own convention.
const envPrefix = "NEXUS"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Browsers:        engineNames(harness.AllEngines),
		ScenarioTimeout: e2etest.DefaultScenarioTimeout,
		ActionTimeout:   harness.DefaultActionTimeout,
		AppTimeout:      DefaultAppTimeout,
		Trace:           string(harness.TraceRetainOnFailure),
		Screenshot:      string(harness.ScreenshotOnlyOnFailure),
		OutputDir:       DefaultOutputDir,
		LogLevel:        DefaultLogLevel,
		S3Region:        DefaultS3Region,
	}
}

// Load builds the configuration from defaults, the YAML file at path (if non-empty), a .env
// file in the working directory (if present) and the process environment. Flags are applied
// by the caller afterwards, then Finalize.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("cannot open config file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := cfg.ApplyYAML(f); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("cannot read .env: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyYAML overlays the fields present in a YAML document.
func (c *Config) ApplyYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays the NEXUS_* variables (and CI) that are set.
func (c *Config) ApplyEnv() error {
	var env environment
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if ci, ok := os.LookupEnv("CI"); ok {
		c.CI = c.CI || truthy(ci)
	}
	setIf(&c.BaseURL, env.BaseURL)
	if len(env.Browsers) > 0 {
		c.Browsers = env.Browsers
	}
	setIf(&c.Workers, env.Workers)
	if env.Retries != nil {
		c.Retries = env.Retries
	}
	setIf(&c.Headed, env.Headed)
	setIf(&c.IgnoreHTTPSErrors, env.IgnoreHTTPSErrors)
	setIf(&c.ScenarioTimeout, env.Timeout)
	setIf(&c.ActionTimeout, env.ActionTimeout)
	setIf(&c.OutputDir, env.OutputDir)
	setIf(&c.TestUserEmail, env.TestUserEmail)
	setIf(&c.TestUserPassword, env.TestUserPassword)
	setIf(&c.LogLevel, env.LogLevel)
	setIf(&c.S3Bucket, env.S3Bucket)
	setIf(&c.S3Endpoint, env.S3Endpoint)
	setIf(&c.S3Region, env.S3Region)
	return nil
}

// truthy treats any non-empty CI value as set, except explicit negatives.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Finalize applies the run policy and validates the result.
//
// In CI, focused scenarios are forbidden, retries default to DefaultCIRetries and the run is
// forced onto a single worker. Locally, retries are always zero and asking for more is an
// error, and workers default to half the CPUs.
func (c *Config) Finalize() error {
	var problems []string
	if c.CI {
		c.ForbidOnly = true
		if c.Retries == nil {
			n := DefaultCIRetries
			c.Retries = &n
		}
		c.Workers = 1
	} else {
		c.ForbidOnly = false
		if c.Retries != nil && *c.Retries != 0 {
			problems = append(problems, "retries are only allowed in CI (unset --retries / NEXUS_RETRIES or set CI=true)")
		}
		zero := 0
		c.Retries = &zero
		if c.Workers == 0 {
			c.Workers = defaultLocalWorkers()
		}
	}
	problems = append(problems, c.validate()...)
	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}

func defaultLocalWorkers() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		return 1
	}
	return n
}

func (c *Config) validate() []string {
	var problems []string
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("base URL %q must be an absolute http(s) URL", c.BaseURL))
	}
	if engines, err := harness.ParseEngines(c.Browsers); err != nil {
		problems = append(problems, err.Error())
	} else if len(engines) == 0 {
		problems = append(problems, "at least one browser engine is required")
	}
	if c.Workers < 1 {
		problems = append(problems, fmt.Sprintf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Retries != nil && *c.Retries < 0 {
		problems = append(problems, fmt.Sprintf("retries must not be negative, got %d", *c.Retries))
	}
	if c.ScenarioTimeout <= 0 {
		problems = append(problems, "scenario timeout must be positive")
	}
	if c.ActionTimeout <= 0 {
		problems = append(problems, "action timeout must be positive")
	}
	if c.ActionTimeout > 0 && c.ScenarioTimeout > 0 && c.ActionTimeout >= c.ScenarioTimeout {
		problems = append(problems, "action timeout must be shorter than the scenario timeout")
	}
	if _, err := harness.ParseTraceMode(c.Trace); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := harness.ParseScreenshotMode(c.Screenshot); err != nil {
		problems = append(problems, err.Error())
	}
	if c.OutputDir == "" {
		problems = append(problems, "output directory must not be empty")
	}
	if (c.TestUserEmail == "") != (c.TestUserPassword == "") {
		problems = append(problems, "NEXUS_TEST_USER_EMAIL and NEXUS_TEST_USER_PASSWORD must be set together")
	}
	if c.S3Endpoint != "" && c.S3Bucket == "" {
		problems = append(problems, "an S3 endpoint was given without a bucket")
	}
	return problems
}

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// RetryCount is the resolved number of retries.
func (c Config) RetryCount() int {
	if c.Retries == nil {
		return 0
	}
	return *c.Retries
}

// Engines returns the parsed browser engines. It is only meaningful after Finalize.
func (c Config) Engines() []harness.Engine {
	engines, _ := harness.ParseEngines(c.Browsers)
	return engines
}

// HarnessOptions converts the configuration into browser-level options.
func (c Config) HarnessOptions() harness.Options {
	trace, _ := harness.ParseTraceMode(c.Trace)
	shot, _ := harness.ParseScreenshotMode(c.Screenshot)
	return harness.Options{
		BaseURL:           strings.TrimRight(c.BaseURL, "/"),
		Headless:          !c.Headed,
		SlowMo:            c.SlowMo,
		IgnoreHTTPSErrors: c.IgnoreHTTPSErrors,
		ActionTimeout:     c.ActionTimeout,
		Trace:             trace,
		Screenshot:        shot,
		OutputDir:         c.OutputDir,
	}
}

// PrintSummary writes the effective policy, so a CI log shows what the run was allowed to do.
func (c Config) PrintSummary(w io.Writer) {
	mode := "local"
	if c.CI {
		mode = "CI"
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Mode:       %s (forbid only: %t)\n", mode, c.ForbidOnly)
	fmt.Fprintf(w, "  Base URL:   %s\n", c.BaseURL)
	fmt.Fprintf(w, "  Browsers:   %s\n", strings.Join(engineNames(c.Engines()), ", "))
	fmt.Fprintf(w, "  Workers:    %d\n", c.Workers)
	fmt.Fprintf(w, "  Retries:    %d\n", c.RetryCount())
	fmt.Fprintf(w, "  Timeouts:   action %s, scenario %s\n", c.ActionTimeout, c.ScenarioTimeout)
	fmt.Fprintf(w, "  Artifacts:  %s (trace %s, screenshot %s)\n", c.OutputDir, c.Trace, c.Screenshot)
	if c.IgnoreHTTPSErrors {
		fmt.Fprintln(w, "  TLS:        certificate validation DISABLED")
	}
	if c.S3Bucket != "" {
		fmt.Fprintf(w, "  Upload:     s3://%s\n", c.S3Bucket)
	}
	fmt.Fprintln(w)
}

func engineNames(engines []harness.Engine) []string {
	ret := make([]string, 0, len(engines))
	for _, e := range engines {
		ret = append(ret, string(e))
	}
	return ret
}
