package locator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorDescriptions(t *testing.T) {
	s := NewScope(nil, 0, nil)

	assert.Equal(t, `role=button[name=/(?i)sign in/]`, s.Role(Button, Re(`(?i)sign in`)).String())
	assert.Equal(t, `role=heading[name="NEXUS"]`, s.Role(Heading, Exact("NEXUS")).String())
	assert.Equal(t, `role=progressbar`, s.Role(Progressbar, Pattern{}).String())
	assert.Equal(t, `label="Email"i`, s.Label(Str("Email")).String())
	assert.Equal(t, `placeholder=/(?i)search/`, s.Placeholder(Re(`(?i)search`)).String())
	assert.Equal(t, `testid="language-badge"`, s.TestID("language-badge").String())
	assert.Equal(t, `css=[class*="MuiCard-root"] >> has-text "My doc"i >> first`,
		s.CSS(`[class*="MuiCard-root"]`).HasText(Str("My doc")).First().String())
	assert.Equal(t, `role=alert >> nth=2`, s.Role(Alert, Pattern{}).Nth(2).String())
}

func TestAnyOfDescription(t *testing.T) {
	s := NewScope(nil, 0, nil)
	chip := s.AnyOf(
		s.Role(Button, Re(`(?i)^draft$`)),
		s.CSS(`[class*="MuiChip"]`).HasText(Re(`(?i)^draft$`)),
	)
	assert.Equal(t,
		`any-of(role=button[name=/(?i)^draft$/] | css=[class*="MuiChip"] >> has-text /(?i)^draft$/)`,
		chip.String())
	assert.Equal(t, -1, chip.Chosen())
}

func TestRefinementsDoNotMutate(t *testing.T) {
	s := NewScope(nil, 0, nil)
	base := s.CSS(".card")
	first := base.First()
	filtered := base.HasText(Str("a"))
	filtered2 := filtered.HasText(Str("b"))

	assert.Equal(t, `css=.card`, base.String())
	assert.Equal(t, `css=.card >> first`, first.String())
	assert.Equal(t, `css=.card >> has-text "a"i`, filtered.String())
	assert.Equal(t, `css=.card >> has-text "a"i >> has-text "b"i`, filtered2.String())
}

func TestWithin(t *testing.T) {
	s := NewScope(nil, 0, nil)
	dialog := s.Role(Dialog, Pattern{})
	field := s.Label(Exact("Team Name")).Within(dialog)
	assert.Equal(t, `role=dialog >> label="Team Name"`, field.String())
}

func TestActionTimeoutOptions(t *testing.T) {
	s := NewScope(nil, 3*time.Second, nil)
	l := s.Text(Str("x"))

	d, err := l.timeout(nil)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	d, err = l.timeout([]ActionOption{WithTimeout(10 * time.Second)})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	_, err = l.timeout([]ActionOption{WithTimeout(-1)})
	assert.Error(t, err)
}

func TestSnapshotString(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	s := DOMSnapshot{Locator: "role=alert", URL: "https://localhost:3000/login", Title: "Nexus", Content: truncate(string(long), contentPreviewLength)}
	out := s.String()
	assert.Contains(t, out, "locator: role=alert\n")
	assert.Contains(t, out, "url: https://localhost:3000/login\n")
	assert.Len(t, s.Content, contentPreviewLength+3)

	empty := Snapshot(nil, "role=alert")
	assert.Equal(t, "role=alert", empty.Locator)
	assert.Empty(t, empty.URL)
}

func TestTypeTextStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewScope(nil, 0, nil).TypeText(ctx, "console.log(1)")
	assert.ErrorIs(t, err, context.Canceled)
}
