package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	ctx := WithCorrelation(context.Background(), Correlation{RunID: "run-1", Engine: "firefox"})
	ctx = WithCorrelation(ctx, Correlation{Scenario: "auth/Login Page/shows error", Attempt: 2})
	From(ctx).Info("scenario finished")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "firefox", line["engine"])
	assert.Equal(t, "auth/Login Page/shows error", line["scenario"])
	assert.Equal(t, "2", line["attempt"])
	assert.Equal(t, "scenario finished", line["msg"])
}

func TestFromWithoutCorrelation(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	Pkg("harness").Info("launching")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "harness", line["pkg"])
	assert.NotContains(t, line, "run_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
