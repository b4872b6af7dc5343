package mocknexus

import (
	"net/http"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"

	"github.com/petelc/NexusPlaywright/data"
)

const sessionCookie = "nexus_session"

//nolint:gochecknoglobals
var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

type account struct {
	email     string
	password  string
	firstName string
	lastName  string
	username  string
}

type accountStore struct {
	accounts map[string]account
	lock     sync.RWMutex
}

func newAccountStore() *accountStore {
	return &accountStore{accounts: make(map[string]account)}
}

func accountKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *accountStore) get(email string) (account, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	a, ok := s.accounts[accountKey(email)]
	return a, ok
}

// add registers a and reports false if the email is already taken.
func (s *accountStore) add(a account) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	key := accountKey(a.email)
	if _, exists := s.accounts[key]; exists {
		return false
	}
	s.accounts[key] = a
	return true
}

type sessionStore struct {
	sessions map[string]string
	lock     sync.Mutex
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]string)}
}

func (s *sessionStore) open(email string) string {
	id := uuid.NewString()
	s.lock.Lock()
	s.sessions[id] = email
	s.lock.Unlock()
	return id
}

func (s *sessionStore) lookup(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	email, ok := s.sessions[c.Value]
	return email, ok
}

func (s *sessionStore) close(r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.lock.Lock()
		delete(s.sessions, c.Value)
		s.lock.Unlock()
	}
}

// passwordProblem returns the first rule password breaks, or "".
func passwordProblem(password string, rules data.PasswordRules) string {
	switch {
	case password == "":
		return rules.Required
	case len(password) < 8:
		return rules.TooShort
	case !strings.ContainsFunc(password, unicode.IsUpper):
		return rules.Uppercase
	case !strings.ContainsFunc(password, unicode.IsLower):
		return rules.Lowercase
	case !strings.ContainsFunc(password, unicode.IsDigit):
		return rules.Number
	}
	return ""
}

// registrationProblem returns the first invalid field of a registration, or "".
func registrationProblem(a account, m data.Messages) string {
	switch {
	case len(strings.TrimSpace(a.firstName)) < 2:
		return m.FirstNameTooShort
	case len(strings.TrimSpace(a.lastName)) < 2:
		return m.LastNameTooShort
	case len(a.username) < 3:
		return m.UsernameTooShort
	case !usernamePattern.MatchString(a.username):
		return m.UsernameCharset
	case !emailPattern.MatchString(a.email):
		return m.InvalidEmail
	}
	return passwordProblem(a.password, m.Password)
}
