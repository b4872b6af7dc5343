package e2etest

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/petelc/NexusPlaywright/framework/harness"
)

// JUnitTestLogger writes a JUnit XML report at the end of the run, with one test suite per
// engine and top-level suite name.
type JUnitTestLogger struct {
	filePath   string
	properties map[string]string
	filters    RegexFilters
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Skipped    int                `xml:"skipped,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
	SystemOut   string               `xml:"system-out,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

// NewJUnitTestLogger creates a logger that writes to filePath. The properties are copied
// into every suite, e.g. the base URL and run ID.
func NewJUnitTestLogger(filePath string, properties map[string]string, filters RegexFilters) *JUnitTestLogger {
	return &JUnitTestLogger{filePath: filePath, properties: properties, filters: filters}
}

func (j *JUnitTestLogger) TestStarted(TestID, harness.Engine)              {}
func (j *JUnitTestLogger) TestRetrying(TestID, harness.Engine, int, error) {}
func (j *JUnitTestLogger) TestFinished(TestResult)                         {}

func (j *JUnitTestLogger) EndLog(results Results) error {
	fmt.Printf("Writing JUnit data to %s\n", j.filePath)
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

func (j *JUnitTestLogger) render(results Results) ([]byte, error) {
	properties := []jUnitXMLProperty{
		{Name: "tests.filter.mustMatch", Value: j.filters.MustMatch.String()},
		{Name: "tests.filter.mustNotMatch", Value: j.filters.MustNotMatch.String()},
	}
	for _, k := range sortedKeys(j.properties) {
		properties = append(properties, jUnitXMLProperty{Name: k, Value: j.properties[k]})
	}

	var doc jUnitXMLDocument
	for _, key := range suiteKeys(results.Tests) {
		suite := jUnitXMLTestSuite{
			Name:       fmt.Sprintf("Nexus E2E [%s]: %s", key.engine, key.top),
			Properties: properties,
		}
		suiteTotalDuration := time.Duration(0)
		for _, r := range results.Tests {
			if r.Engine != key.engine || len(r.TestID) == 0 || r.TestID[0] != key.top {
				continue
			}
			suite.Tests++
			suiteTotalDuration += r.Duration

			testCase := jUnitXMLTestCase{
				Classname: string(r.Engine) + "." + key.top,
				Name:      r.TestID.String(),
				Time:      jUnitDurationString(r.Duration),
			}
			switch r.Status {
			case StatusSkipped:
				suite.Skipped++
				testCase.SkipMessage = &jUnitXMLSkipMessage{Message: r.SkipReason}
			case StatusFlaky:
				testCase.Name += " (flaky)"
			case StatusFailed:
				suite.Failures++
				var messages []string
				for _, e := range r.Errors {
					messages = append(messages, FormatError(e))
				}
				testCase.Failure = &jUnitXMLFailure{
					Message:  firstLine(messages[0]),
					Type:     string(r.Code()),
					Contents: strings.Join(messages, "\n"),
				}
				var out []string
				if arts := r.Artifacts(); arts.Screenshot != "" {
					out = append(out, "[[ATTACHMENT|"+arts.Screenshot+"]]")
				}
				if arts := r.Artifacts(); arts.Trace != "" {
					out = append(out, "[[ATTACHMENT|"+arts.Trace+"]]")
				}
				if len(r.DebugOutput) > 0 {
					out = append(out, r.DebugOutput.ToString(""))
				}
				testCase.SystemOut = strings.Join(out, "\n")
			}
			if r.Weak != "" {
				testCase.Name += " (weak)"
			}
			suite.TestCases = append(suite.TestCases, testCase)
		}
		suite.Time = jUnitDurationString(suiteTotalDuration)
		doc.Suites = append(doc.Suites, suite)
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

type suiteKey struct {
	engine harness.Engine
	top    string
}

// suiteKeys lists engine/top-level pairs in the order the results are in.
func suiteKeys(tests []TestResult) []suiteKey {
	var ret []suiteKey
	seen := make(map[suiteKey]bool)
	for _, r := range tests {
		if len(r.TestID) == 0 {
			continue
		}
		k := suiteKey{engine: r.Engine, top: r.TestID[0]}
		if !seen[k] {
			ret = append(ret, k)
			seen[k] = true
		}
	}
	return ret
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
