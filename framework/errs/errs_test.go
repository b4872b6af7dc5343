package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

type fakeDetail string

func (d fakeDetail) String() string { return string(d) }

func testCodeOfRoundtrip(t *rapid.T) {
	code := rapid.SampledFrom(AllCodes).Draw(t, "code")
	message := rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "message")

	err := New(code, message)
	if got := CodeOf(err); got != code {
		t.Fatalf("CodeOf(New) mismatch: got=%q want=%q", got, code)
	}
	if got := err.Error(); got != message {
		t.Fatalf("Error() mismatch: got=%q want=%q", got, message)
	}
	if got := CodeOf(fmt.Errorf("outer: %w", err)); got != code {
		t.Fatalf("CodeOf(wrapped) mismatch: got=%q want=%q", got, code)
	}
}

func TestCodeOfRoundtrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCodeOfRoundtrip)
}

func testReclassifyKeepsInnerCode(t *rapid.T) {
	inner := rapid.SampledFrom(AllCodes).Draw(t, "inner")
	err := Reclassify(SetupFailure, "login failed", New(inner, "boom"))

	if got := CodeOf(err); got != SetupFailure {
		t.Fatalf("CodeOf(Reclassify) mismatch: got=%q want=%q", got, SetupFailure)
	}
	if !Is(err, inner) {
		t.Fatalf("inner code %q lost after reclassification", inner)
	}
}

func TestReclassifyKeepsInnerCode(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testReclassifyKeepsInnerCode)
}

func TestUntypedAndNilFallbacks(t *testing.T) {
	assert.Equal(t, Internal, CodeOf(nil))
	assert.Equal(t, Internal, CodeOf(errors.New("raw")))
	assert.Equal(t, ScenarioTimeout, CodeOf(fmt.Errorf("waiting: %w", context.DeadlineExceeded)))
	assert.Nil(t, Wrap(AssertionFailure, "x", nil))
	assert.Nil(t, Reclassify(SetupFailure, "x", nil))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(LocatorTimeout, `waiting for button "Sign In"`, errors.New("timeout 5000ms exceeded"))
	assert.Equal(t, `waiting for button "Sign In": timeout 5000ms exceeded`, err.Error())
	assert.True(t, errors.Is(Wrap(Internal, "x", context.Canceled), context.Canceled))
}

func TestDetailOfFindsNestedDetail(t *testing.T) {
	inner := WithDetail(LocatorTimeout, "waiting", nil, fakeDetail("url: /login"))
	outer := Reclassify(SetupFailure, "login", inner)

	assert.Equal(t, "url: /login", DetailOf(outer))
	assert.Equal(t, "", DetailOf(errors.New("plain")))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "", MessageOf(nil))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
	err := fmt.Errorf("context: %w", Wrap(NavigationTimeout, "url never matched /dashboard", errors.New("deadline")))
	assert.Equal(t, "url never matched /dashboard", MessageOf(err))
}
