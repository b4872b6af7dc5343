package framework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct{ lines []string }

func (r *recordingLogger) Println(args ...interface{}) {
	for _, a := range args {
		r.lines = append(r.lines, a.(string))
	}
}

func (r *recordingLogger) Printf(message string, args ...interface{}) {}

func TestCapturingLoggerRecordsAndForwards(t *testing.T) {
	fwd := &recordingLogger{}
	l := NewCapturingLogger(fwd)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.UTC) }

	l.Printf("fill %s", "Email")
	l.Println("click", "Sign In")

	out := l.Output()
	assert.Equal(t, []string{"fill Email", "click Sign In"}, out.Lines())
	assert.Equal(t, "  [03:04:05.006] fill Email\n  [03:04:05.006] click Sign In", out.ToString("  "))
	assert.Equal(t, []string{"fill Email", "click Sign In"}, fwd.lines)
}

func TestLoggerWithPrefix(t *testing.T) {
	l := NewCapturingLogger()
	LoggerWithPrefix(l, "[login] ").Printf("goto %s", "/login")
	assert.Equal(t, []string{"[login] goto /login"}, l.Output().Lines())
}
