package suites

import (
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/pages"
)

func registerLogin(plan *e2etest.Plan, env Env) {
	msg := env.Data.Messages
	loginPage := func(t *e2etest.T) *pages.LoginPage { return pages.NewLoginPage(t.Session()) }

	plan.Describe("Login Page", func(g *e2etest.Group) {
		g.BeforeEach("open login page", open(func(t *e2etest.T) error {
			return loginPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the NEXUS branding", func(t *e2etest.T) {
				p := loginPage(t)
				visible(t, p.Heading(), p.Tagline())
			})

			g.It("displays the login form fields", func(t *e2etest.T) {
				p := loginPage(t)
				visible(t, p.EmailInput(), p.PasswordInput(), p.RememberMe(), p.SubmitButton())
			})

			g.It("displays the forgot password and sign up links", func(t *e2etest.T) {
				p := loginPage(t)
				visible(t, p.ForgotPasswordLink(), p.SignUpLink())
			})

			g.It("focuses the email field by default", func(t *e2etest.T) {
				t.Require(expect.Focused(t.Context(), loginPage(t).EmailInput()))
			})
		})

		g.Describe("Form Validation", func(g *e2etest.Group) {
			g.It("requires an email", func(t *e2etest.T) {
				p := loginPage(t)
				t.Require(p.SubmitButton().Click(t.Context()))
				visible(t, p.Message(msg.EmailRequired))
			})

			g.It("rejects an invalid email", func(t *e2etest.T) {
				p := loginPage(t)
				t.Require(p.EmailInput().Fill(t.Context(), "invalid-email"))
				t.Require(p.SubmitButton().Click(t.Context()))
				visible(t, p.Message(msg.InvalidEmail))
			})

			g.It("requires a password", func(t *e2etest.T) {
				p := loginPage(t)
				t.Require(p.EmailInput().Fill(t.Context(), env.User.Email))
				t.Require(p.SubmitButton().Click(t.Context()))
				visible(t, p.Message(msg.Password.Required))
			})
		})

		g.Describe("Authentication", func(g *e2etest.Group) {
			g.It("shows an error and stays on the login page for invalid credentials", func(t *e2etest.T) {
				p := loginPage(t)
				t.Require(p.Login(t.Context(), "wrong@example.com", "WrongPass123!"))
				t.Require(expect.Visible(t.Context(), p.ErrorAlert(), expect.Within(submitOutcomeTimeout)))
				onRoute(t, loginURL)
			})

			g.It("shows a loading state while signing in", func(t *e2etest.T) {
				p := loginPage(t)
				t.Require(p.Login(t.Context(), env.User.Email, env.User.Password))
				visible(t, p.Message(env.Data.Loading.SigningIn))
			})

			g.It("disables the submit button while signing in", func(t *e2etest.T) {
				p := loginPage(t)
				t.Require(p.Login(t.Context(), env.User.Email, env.User.Password))
				t.Require(expect.Disabled(t.Context(), p.SubmitControl()))
			})

			g.It("redirects to the dashboard after a successful login", func(t *e2etest.T) {
				p := loginPage(t)
				t.Require(p.Login(t.Context(), env.User.Email, env.User.Password))
				onRoute(t, dashboardURL, expect.Within(submitOutcomeTimeout))
			})
		})

		g.Describe("Navigation", func(g *e2etest.Group) {
			g.It("navigates to the forgot password page", func(t *e2etest.T) {
				t.Require(loginPage(t).ForgotPasswordLink().Click(t.Context()))
				onRoute(t, forgotPasswordURL)
			})

			g.It("navigates to the registration page", func(t *e2etest.T) {
				t.Require(loginPage(t).SignUpLink().Click(t.Context()))
				onRoute(t, registerURL)
			})
		})
	})
}
