package fixtures

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock is the time source for token generation.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Token is a uniqueness suffix for generated identities. It contains only lowercase letters,
// digits and an underscore, so it is valid in usernames and email local parts.
type Token struct {
	prefix string
	millis int64
}

func (t Token) String() string {
	return t.prefix + "_" + strconv.FormatInt(t.millis, 10)
}

// Millis is the timestamp part of the token.
func (t Token) Millis() int64 { return t.millis }

// TokenSource hands out tokens that are strictly increasing within the process. The
// timestamp part is the clock's millisecond time, bumped by one when the clock has not
// advanced since the previous token; the prefix is fixed per source and derived from the run
// ID, so sources of concurrent runs do not collide even when their clocks agree.
type TokenSource struct {
	clock  Clock
	prefix string

	lock sync.Mutex
	last int64
}

const tokenPrefixLength = 8

// NewTokenSource creates a source. An empty runID gets a random one.
func NewTokenSource(clock Clock, runID string) *TokenSource {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TokenSource{clock: clock, prefix: runPrefix(runID)}
}

func runPrefix(runID string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(runID) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == tokenPrefixLength {
			return b.String()
		}
	}
	if b.Len() > 0 {
		return b.String()
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenPrefixLength]
}

// Prefix is the run-scoped part shared by every token of this source.
func (s *TokenSource) Prefix() string { return s.prefix }

// Next returns a token greater than every token previously returned by s.
func (s *TokenSource) Next() Token {
	now := s.clock.Now().UnixMilli()
	s.lock.Lock()
	defer s.lock.Unlock()
	if now <= s.last {
		now = s.last + 1
	}
	s.last = now
	return Token{prefix: s.prefix, millis: now}
}
