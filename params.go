package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/petelc/NexusPlaywright/config"
	"github.com/petelc/NexusPlaywright/framework/e2etest"
)

// runParams holds the flags of the run command. Configuration-level flags only override the
// loaded configuration when they were given explicitly.
type runParams struct {
	configFile     string
	baseURL        string
	browsers       []string
	workers        int
	retries        int
	headed         bool
	slowMo         time.Duration
	ignoreHTTPS    bool
	timeout        time.Duration
	actionTimeout  time.Duration
	trace          string
	screenshot     string
	outputDir      string
	s3Bucket       string
	filters        e2etest.RegexFilters
	skipFile       string
	recordFailures string
	jUnitFile      string
	jsonFile       string
	debug          bool
	debugAll       bool
}

func (p *runParams) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&p.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&p.baseURL, "base-url", config.DefaultBaseURL, "URL of the Nexus app under test")
	fs.StringSliceVar(&p.browsers, "browser", nil, "browser engine to run under: chromium, firefox or webkit (repeatable)")
	fs.IntVar(&p.workers, "workers", 0, "number of scenario units to run in parallel")
	fs.IntVar(&p.retries, "retries", 0, "extra attempts for a failing scenario (CI only)")
	fs.BoolVar(&p.headed, "headed", false, "show the browser windows")
	fs.DurationVar(&p.slowMo, "slow-mo", 0, "delay between browser operations")
	fs.BoolVar(&p.ignoreHTTPS, "ignore-https-errors", false, "disable TLS certificate validation in the browser")
	fs.DurationVar(&p.timeout, "timeout", e2etest.DefaultScenarioTimeout, "time limit for one scenario attempt")
	fs.DurationVar(&p.actionTimeout, "action-timeout", 0, "time limit for one browser action or assertion")
	fs.StringVar(&p.trace, "trace", "", "trace recording: off, on, on-first-retry or retain-on-failure")
	fs.StringVar(&p.screenshot, "screenshot", "", "screenshots: off, on or only-on-failure")
	fs.StringVar(&p.outputDir, "output-dir", config.DefaultOutputDir, "directory for reports, screenshots and traces")
	fs.StringVar(&p.s3Bucket, "upload-s3-bucket", "", "upload the output directory to this S3 bucket after the run")
	fs.Var(&p.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&p.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.StringVar(&p.skipFile, "skip-from", "", "file of scenario IDs to skip, one per line")
	fs.StringVar(&p.recordFailures, "record-failures", "", "write the IDs of failed scenarios to this file")
	fs.StringVar(&p.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.StringVar(&p.jsonFile, "json", "", "write the JSON report to the specified path instead of <output-dir>/results.json")
	fs.BoolVar(&p.debug, "debug", false, "show debug output for failed scenarios")
	fs.BoolVar(&p.debugAll, "debug-all", false, "show debug output for all scenarios")
}

// apply overlays the flags that were set on cfg.
func (p *runParams) apply(cfg *config.Config, changed func(name string) bool) {
	if changed("base-url") {
		cfg.BaseURL = p.baseURL
	}
	if changed("browser") {
		cfg.Browsers = p.browsers
	}
	if changed("workers") {
		cfg.Workers = p.workers
	}
	if changed("retries") {
		n := p.retries
		cfg.Retries = &n
	}
	if changed("headed") {
		cfg.Headed = p.headed
	}
	if changed("slow-mo") {
		cfg.SlowMo = p.slowMo
	}
	if changed("ignore-https-errors") {
		cfg.IgnoreHTTPSErrors = p.ignoreHTTPS
	}
	if changed("timeout") {
		cfg.ScenarioTimeout = p.timeout
	}
	if changed("action-timeout") {
		cfg.ActionTimeout = p.actionTimeout
	}
	if changed("trace") {
		cfg.Trace = p.trace
	}
	if changed("screenshot") {
		cfg.Screenshot = p.screenshot
	}
	if changed("output-dir") {
		cfg.OutputDir = p.outputDir
	}
	if changed("upload-s3-bucket") {
		cfg.S3Bucket = p.s3Bucket
	}
}
