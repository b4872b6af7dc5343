package mocknexus

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petelc/NexusPlaywright/data"
)

func newTestApp(t *testing.T) (*App, data.SuiteData) {
	t.Helper()
	d := data.MustLoad()
	app, err := NewApp(d, WithLatency(0))
	require.NoError(t, err)
	return app, d
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func post(t *testing.T, c *http.Client, url, body string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(out)
}

func TestAuthPagesRender(t *testing.T) {
	app, d := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		c := newClient(t)
		for _, c2 := range []struct {
			path     string
			contains []string
		}{
			{"/login", []string{"<h1>NEXUS</h1>", `<label for="email">Email</label>`, "Remember me", "Sign up"}},
			{"/register", []string{"Create your account", "Confirm Password", "Create Account"}},
			{"/forgot-password", []string{"Reset your password", "Send Reset Instructions", "Back to Sign In"}},
			{"/reset-password?token=" + d.ResetToken, []string{"Create a new password", "Confirm New Password"}},
			{"/reset-password", []string{d.Messages.InvalidResetToken, "Request new reset link"}},
		} {
			resp, body := get(t, c, server.URL+c2.path)
			assert.Equal(t, http.StatusOK, resp.StatusCode, c2.path)
			for _, s := range c2.contains {
				assert.Contains(t, body, s, c2.path)
			}
		}
	})
}

func TestValidationMessagesAreEmbeddedInPages(t *testing.T) {
	app, d := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		_, body := get(t, newClient(t), server.URL+"/register")
		assert.Contains(t, body, d.Messages.UsernameRequired)
		assert.Contains(t, body, d.Loading.CreatingAccount)
	})
}

func TestRootRedirectsToLogin(t *testing.T) {
	app, _ := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		resp, _ := get(t, newClient(t), server.URL+"/")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})
}

func TestProtectedPagesRequireASession(t *testing.T) {
	app, _ := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		c := newClient(t)
		for _, path := range []string{"/dashboard", "/documents", "/snippets", "/snippets/my", "/teams", "/workspaces"} {
			resp, _ := get(t, c, server.URL+path)
			assert.Equal(t, http.StatusFound, resp.StatusCode, path)
			m.In(t).Assert(resp.Header.Get("Location"), m.StringHasPrefix("/login?"))
		}
	})
}

func TestLoginOpensASession(t *testing.T) {
	app, d := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		c := newClient(t)
		resp, body := post(t, c, server.URL+"/api/auth/login",
			`{"email":"`+d.SeededUser.Email+`","password":"`+d.SeededUser.Password+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"message":"","redirect":"/dashboard"}`, body)

		resp, body = get(t, c, server.URL+"/documents")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "No documents found")
		assert.Contains(t, body, `placeholder="Search documents..."`)

		resp, body = get(t, c, server.URL+"/snippets/my")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `aria-selected="true" onclick="selectTab(this)">My Snippets`)

		resp, _ = post(t, c, server.URL+"/api/auth/logout", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp, _ = get(t, c, server.URL+"/dashboard")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
	})
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	app, d := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		for _, body := range []string{
			`{"email":"wrong@example.com","password":"WrongPass123!"}`,
			`{"email":"` + d.SeededUser.Email + `","password":"WrongPass123!"}`,
		} {
			resp, out := post(t, newClient(t), server.URL+"/api/auth/login", body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.JSONEq(t, `{"error":"`+d.Messages.InvalidCredentials+`"}`, out)
		}
	})
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	app, _ := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		resp, _ := post(t, newClient(t), server.URL+"/api/auth/login", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRegisterThenLogin(t *testing.T) {
	app, d := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		c := newClient(t)
		form := `{"firstName":"New","lastName":"User","username":"newuser_1","email":"newuser_1@nexus.dev","password":"NewPass123!"}`
		resp, body := post(t, c, server.URL+"/api/auth/register", form)
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)
		assert.Contains(t, body, d.Messages.RegistrationSuccess)
		assert.True(t, app.HasAccount("NewUser_1@nexus.dev"))

		resp, body = post(t, c, server.URL+"/api/auth/register", form)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, body, d.Messages.DuplicateEmail)

		resp, _ = post(t, c, server.URL+"/api/auth/login", `{"email":"newuser_1@nexus.dev","password":"NewPass123!"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRegisterValidatesFields(t *testing.T) {
	app, d := newTestApp(t)
	msg := d.Messages
	httphelpers.WithServer(app, func(server *httptest.Server) {
		for _, c := range []struct {
			body, message string
		}{
			{`{"firstName":"A","lastName":"User","username":"abc","email":"a@b.co","password":"NewPass123!"}`, msg.FirstNameTooShort},
			{`{"firstName":"New","lastName":"User","username":"bad user!","email":"a@b.co","password":"NewPass123!"}`, msg.UsernameCharset},
			{`{"firstName":"New","lastName":"User","username":"abc","email":"invalid-email","password":"NewPass123!"}`, msg.InvalidEmail},
			{`{"firstName":"New","lastName":"User","username":"abc","email":"a@b.co","password":"lowercase123"}`, msg.Password.Uppercase},
		} {
			resp, body := post(t, newClient(t), server.URL+"/api/auth/register", c.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, c.body)
			assert.Contains(t, body, c.message)
		}
	})
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	app, d := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		_, known := post(t, newClient(t), server.URL+"/api/auth/forgot-password", `{"email":"`+d.SeededUser.Email+`"}`)
		_, unknown := post(t, newClient(t), server.URL+"/api/auth/forgot-password", `{"email":"nobody@nexus.dev"}`)
		assert.Equal(t, known, unknown)
		assert.Contains(t, known, d.Messages.ResetSent)
	})
}

func TestResetPasswordChecksToken(t *testing.T) {
	app, d := newTestApp(t)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		resp, body := post(t, newClient(t), server.URL+"/api/auth/reset-password", `{"token":"bogus","password":"NewPass123!"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, d.Messages.InvalidResetToken)

		resp, body = post(t, newClient(t), server.URL+"/api/auth/reset-password", `{"token":"`+d.ResetToken+`","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, d.Messages.NewPassword.TooShort)

		resp, body = post(t, newClient(t), server.URL+"/api/auth/reset-password", `{"token":"`+d.ResetToken+`","password":"NewPass123!"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, d.Messages.ResetSuccess)
	})
}

func TestPasswordProblemOrder(t *testing.T) {
	rules := data.MustLoad().Messages.Password
	for password, want := range map[string]string{
		"":              rules.Required,
		"Short1":        rules.TooShort,
		"lowercase123":  rules.Uppercase,
		"UPPERCASE123":  rules.Lowercase,
		"NoNumbersHere": rules.Number,
		"NewPass123!":   "",
	} {
		assert.Equal(t, want, passwordProblem(password, rules), password)
	}
}
