package framework

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Logger is the minimal printf-style logger that page objects, fixtures and scenario code
// write debug output to.
type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Println(args ...interface{})                {}
func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger buffers everything logged during one scenario attempt. The runner decides at
// the end of the attempt whether the buffer is shown (on failure with --debug, always with
// --debug-all) or dropped.
type CapturingLogger struct {
	output  []CapturedMessage
	forward []Logger
	lock    sync.Mutex
	now     func() time.Time
}

// NewCapturingLogger creates a logger that also forwards every line to the given loggers.
func NewCapturingLogger(forward ...Logger) *CapturingLogger {
	return &CapturingLogger{forward: forward}
}

func (l *CapturingLogger) Println(args ...interface{}) {
	m := strings.TrimRight(fmt.Sprintln(args...), "\r\n") // Sprintln appends a newline
	l.append(m)
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.append(fmt.Sprintf(message, args...))
}

func (l *CapturingLogger) append(m string) {
	l.lock.Lock()
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	l.output = append(l.output, CapturedMessage{Time: now(), Message: m})
	forward := l.forward
	l.lock.Unlock()
	for _, f := range forward {
		f.Println(m)
	}
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append(CapturedOutput(nil), l.output...)
}

// ToString renders each line with a timestamp and the given prefix.
func (output CapturedOutput) ToString(prefix string) string {
	lines := make([]string, 0, len(output))
	for _, m := range output {
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, m.Time.Format(timestampFormat), m.Message))
	}
	return strings.Join(lines, "\n")
}

// Lines returns just the messages, for machine-readable reports.
func (output CapturedOutput) Lines() []string {
	ret := make([]string, 0, len(output))
	for _, m := range output {
		ret = append(ret, m.Message)
	}
	return ret
}

const timestampFormat = "15:04:05.000"

type prefixedLogger struct {
	base   Logger
	prefix string
}

// LoggerWithPrefix tags every line written to baseLogger, e.g. with a page object name.
func LoggerWithPrefix(baseLogger Logger, prefix string) Logger {
	return prefixedLogger{baseLogger, prefix}
}

func (p prefixedLogger) Println(args ...interface{}) {
	p.base.Println(append([]interface{}{p.prefix}, args...)...)
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}
