package harness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petelc/NexusPlaywright/framework/errs"
)

func TestParseEngines(t *testing.T) {
	engines, err := ParseEngines([]string{"chromium,firefox", "Chrome", "webkit"})
	require.NoError(t, err)
	assert.Equal(t, []Engine{Chromium, Firefox, WebKit}, engines)

	_, err = ParseEngines([]string{"opera"})
	assert.Error(t, err)
}

func TestTraceModePolicy(t *testing.T) {
	assert.False(t, TraceOff.records(1))
	assert.True(t, TraceOn.records(1))
	assert.True(t, TraceRetainOnFailure.records(3))
	assert.False(t, TraceOnFirstRetry.records(1))
	assert.True(t, TraceOnFirstRetry.records(2))
	assert.False(t, TraceOnFirstRetry.records(3))

	assert.True(t, TraceRetainOnFailure.keeps(true))
	assert.False(t, TraceRetainOnFailure.keeps(false))
	assert.True(t, TraceOn.keeps(false))

	_, err := ParseTraceMode("sometimes")
	assert.Error(t, err)
	m, err := ParseTraceMode("ON-FIRST-RETRY")
	require.NoError(t, err)
	assert.Equal(t, TraceOnFirstRetry, m)
}

func TestScreenshotModePolicy(t *testing.T) {
	assert.True(t, ScreenshotOnlyOnFailure.captures(true))
	assert.False(t, ScreenshotOnlyOnFailure.captures(false))
	assert.True(t, ScreenshotOn.captures(false))
	assert.False(t, ScreenshotOff.captures(true))
}

func TestSlugAndArtifactDir(t *testing.T) {
	assert.Equal(t, "auth__login-page__should-show-error-for-invalid-credentials",
		Slug("auth", "Login Page", "should show error for invalid credentials"))

	dir := artifactDir("out", SessionSpec{Engine: WebKit, Slug: "a__b", Attempt: 2})
	assert.Equal(t, filepath.Join("out", "webkit", "a__b", "attempt-2"), dir)
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	assert.Equal(t, DefaultActionTimeout, o.actionTimeout())
	assert.Equal(t, 2*DefaultActionTimeout, o.navigationTimeout())
}

func TestWaitForAppRetriesUntilUp(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		err := WaitForApp(context.Background(), server.URL, 5*time.Second, false, nil)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
	})
}

func TestWaitForAppGivesUp(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		err := WaitForApp(context.Background(), server.URL, 300*time.Millisecond, false, nil)
		require.Error(t, err)
		assert.Equal(t, errs.ConfigInvalid, errs.CodeOf(err))
	})
}
