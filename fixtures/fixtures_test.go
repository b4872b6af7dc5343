package fixtures

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/petelc/NexusPlaywright/data"
)

type fakeClock struct {
	lock sync.Mutex
	now  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.lock.Lock()
	c.now = t
	c.lock.Unlock()
}

var usernameChars = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func suiteData(t require.TestingT) data.SuiteData {
	d, err := data.Load()
	require.NoError(t, err)
	return d
}

func TestSeededUserComesFromSuiteData(t *testing.T) {
	u := SeededUser(suiteData(t), "", "")
	assert.Equal(t, TestUser{
		Email: "testuser@nexus.dev", Password: "TestPass123!",
		FirstName: "Test", LastName: "User", Username: "testuser",
	}, u)
}

func TestSeededUserOverrides(t *testing.T) {
	u := SeededUser(suiteData(t), "qa@example.com", "Secret123!")
	assert.Equal(t, "qa@example.com", u.Email)
	assert.Equal(t, "Secret123!", u.Password)
	assert.Equal(t, "testuser", u.Username)
}

func TestTokenStringUsesRunPrefix(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1700000000123)}
	src := NewTokenSource(clock, "3F2A-77b1-9c")
	assert.Equal(t, "3f2a77b1", src.Prefix())
	assert.Equal(t, "3f2a77b1_1700000000123", src.Next().String())
}

func TestTokenSourceWithoutRunIDGetsRandomPrefix(t *testing.T) {
	a := NewTokenSource(SystemClock{}, "")
	b := NewTokenSource(SystemClock{}, "")
	assert.Len(t, a.Prefix(), tokenPrefixLength)
	assert.NotEqual(t, a.Prefix(), b.Prefix())
}

func TestTokensIncreaseWhenClockStandsStill(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1000)}
	src := NewTokenSource(clock, "run")
	assert.Equal(t, int64(1000), src.Next().Millis())
	assert.Equal(t, int64(1001), src.Next().Millis())
	assert.Equal(t, int64(1002), src.Next().Millis())
}

func TestTokensIncreaseWhenClockGoesBackwards(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(5000)}
	src := NewTokenSource(clock, "run")
	src.Next()
	clock.Set(time.UnixMilli(4000))
	assert.Equal(t, int64(5001), src.Next().Millis())
	clock.Set(time.UnixMilli(9000))
	assert.Equal(t, int64(9000), src.Next().Millis())
}

func TestTokensAreStrictlyIncreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := &fakeClock{now: time.UnixMilli(rapid.Int64Range(0, 1<<40).Draw(t, "start"))}
		src := NewTokenSource(clock, "prop")
		prev := src.Next()
		for _, delta := range rapid.SliceOf(rapid.Int64Range(-50, 50)).Draw(t, "deltas") {
			clock.Set(clock.Now().Add(time.Duration(delta) * time.Millisecond))
			next := src.Next()
			if next.Millis() <= prev.Millis() {
				t.Fatalf("token %s not greater than %s", next, prev)
			}
			prev = next
		}
	})
}

func TestConcurrentTokensAreUnique(t *testing.T) {
	src := NewTokenSource(&fakeClock{now: time.UnixMilli(42)}, "run")
	const workers, each = 8, 50
	var lock sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				tok := src.Next().String()
				lock.Lock()
				seen[tok] = true
				lock.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*each)
}

func TestNewUserIsPureAndUnique(t *testing.T) {
	tmpl := suiteData(t).GeneratedUser
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringMatching(`[a-z0-9]{1,8}`).Draw(t, "prefix")
		a := Token{prefix: prefix, millis: rapid.Int64Range(0, 1<<41).Draw(t, "a")}
		b := Token{prefix: prefix, millis: rapid.Int64Range(0, 1<<41).Draw(t, "b")}

		ua, ub := NewUser(tmpl, a), NewUser(tmpl, a)
		if ua != ub {
			t.Fatalf("NewUser not deterministic: %+v vs %+v", ua, ub)
		}
		if !usernameChars.MatchString(ua.Username) {
			t.Fatalf("username %q has characters the form rejects", ua.Username)
		}
		if a != b {
			uc := NewUser(tmpl, b)
			if uc.Email == ua.Email || uc.Username == ua.Username {
				t.Fatalf("distinct tokens gave the same identity: %+v", uc)
			}
		}
	})
}

func TestNewUserShape(t *testing.T) {
	tmpl := suiteData(t).GeneratedUser
	u := NewUser(tmpl, Token{prefix: "ab12", millis: 7})
	assert.Equal(t, TestUser{
		Email: "newuser_ab12_7@nexus.dev", Password: "NewPass123!",
		FirstName: "New", LastName: "User", Username: "newuser_ab12_7",
	}, u)
}

func TestRegistrationFormConfirmsPassword(t *testing.T) {
	f := RegistrationForm(TestUser{Password: "Pw1234567"})
	assert.Equal(t, f.Password, f.ConfirmPassword)
}
