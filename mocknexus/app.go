// Package mocknexus is a small fake of the Nexus web app: the authentication screens, a
// dashboard and empty list pages behind a session cookie. It exists so that the harness and
// the auth suites can be exercised without a real deployment.
package mocknexus

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/petelc/NexusPlaywright/data"
	"github.com/petelc/NexusPlaywright/framework"
)

// DefaultLatency delays every API response so that loading states can be observed.
const DefaultLatency = 400 * time.Millisecond

//go:embed templates
var templateFiles embed.FS

// App is an http.Handler serving the fake app.
type App struct {
	data        data.SuiteData
	accounts    *accountStore
	sessions    *sessionStore
	latency     time.Duration
	templates   *template.Template
	handler     http.Handler
	debugLogger framework.Logger
}

// Option customizes an App.
type Option func(*App)

// WithLatency sets the artificial API delay. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(a *App) { a.latency = d }
}

// WithLogger sets where request details are logged.
func WithLogger(l framework.Logger) Option {
	return func(a *App) { a.debugLogger = l }
}

// NewApp creates the fake app with the seeded user of d already registered.
func NewApp(d data.SuiteData, options ...Option) (*App, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	a := &App{
		data:        d,
		accounts:    newAccountStore(),
		sessions:    newSessionStore(),
		latency:     DefaultLatency,
		templates:   tmpl,
		debugLogger: framework.NullLogger(),
	}
	for _, o := range options {
		o(a)
	}
	a.accounts.add(account{
		email:     d.SeededUser.Email,
		password:  d.SeededUser.Password,
		firstName: d.SeededUser.FirstName,
		lastName:  d.SeededUser.LastName,
		username:  d.SeededUser.Username,
	})

	router := mux.NewRouter()
	router.HandleFunc("/", redirectTo("/login")).Methods("GET")
	router.HandleFunc("/login", a.servePage("login", "Sign In")).Methods("GET")
	router.HandleFunc("/register", a.servePage("register", "Create Account")).Methods("GET")
	router.HandleFunc("/forgot-password", a.servePage("forgot_password", "Forgot Password")).Methods("GET")
	router.HandleFunc("/reset-password", a.serveResetPage).Methods("GET")

	router.HandleFunc("/dashboard", a.requireSession(a.serveDashboard)).Methods("GET")
	for _, l := range listPages() {
		router.HandleFunc(l.Route, a.requireSession(a.serveList(l))).Methods("GET")
	}

	api := router.PathPrefix("/api/auth").Subrouter()
	api.HandleFunc("/login", a.delayed(a.handleLogin)).Methods("POST")
	api.HandleFunc("/register", a.delayed(a.handleRegister)).Methods("POST")
	api.HandleFunc("/forgot-password", a.delayed(a.handleForgotPassword)).Methods("POST")
	api.HandleFunc("/reset-password", a.delayed(a.handleResetPassword)).Methods("POST")
	api.HandleFunc("/logout", a.handleLogout).Methods("POST")

	a.handler = router
	return a, nil
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.debugLogger.Printf("%s %s", r.Method, r.URL.RequestURI())
	a.handler.ServeHTTP(w, r)
}

// HasAccount reports whether email is registered.
func (a *App) HasAccount(email string) bool {
	_, ok := a.accounts.get(email)
	return ok
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusFound)
	}
}

func (a *App) delayed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.latency > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(a.latency):
			}
		}
		h(w, r)
	}
}
