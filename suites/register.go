package suites

import (
	"github.com/petelc/NexusPlaywright/fixtures"
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/framework/locator"
	"github.com/petelc/NexusPlaywright/pages"
)

// fieldCase is one invalid value for one form field and the message it must produce.
type fieldCase struct {
	name    string
	field   func(p *pages.RegisterPage) *locator.Locator
	value   string
	message string
}

func registerRegistration(plan *e2etest.Plan, env Env) {
	msg := env.Data.Messages
	registerPage := func(t *e2etest.T) *pages.RegisterPage { return pages.NewRegisterPage(t.Session()) }

	plan.Describe("Registration Page", func(g *e2etest.Group) {
		g.BeforeEach("open registration page", open(func(t *e2etest.T) error {
			return registerPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the subtitle", func(t *e2etest.T) {
				visible(t, registerPage(t).Subtitle())
			})

			g.It("displays every registration field", func(t *e2etest.T) {
				p := registerPage(t)
				visible(t, p.FirstNameInput(), p.LastNameInput(), p.UsernameInput(), p.EmailInput(),
					p.PasswordInput(), p.ConfirmPasswordInput(), p.SubmitButton())
			})

			g.It("displays the sign in link", func(t *e2etest.T) {
				visible(t, registerPage(t).SignInLink())
			})
		})

		g.Describe("Form Validation", func(g *e2etest.Group) {
			g.It("shows every required-field message at once for an empty form", func(t *e2etest.T) {
				p := registerPage(t)
				t.Require(p.SubmitButton().Click(t.Context()))
				visible(t,
					p.Message(msg.FirstNameRequired),
					p.Message(msg.LastNameRequired),
					p.Message(msg.UsernameRequired),
					p.Message(msg.EmailRequired),
					p.Message(msg.Password.Required),
				)
			})

			for _, c := range []fieldCase{
				{"rejects a one-letter first name", (*pages.RegisterPage).FirstNameInput, "A", msg.FirstNameTooShort},
				{"rejects a one-letter last name", (*pages.RegisterPage).LastNameInput, "B", msg.LastNameTooShort},
				{"rejects a two-letter username", (*pages.RegisterPage).UsernameInput, "ab", msg.UsernameTooShort},
				{"rejects a username with invalid characters", (*pages.RegisterPage).UsernameInput, "bad user!", msg.UsernameCharset},
				{"rejects an invalid email", (*pages.RegisterPage).EmailInput, "invalid-email", msg.InvalidEmail},
				{"rejects a short password", (*pages.RegisterPage).PasswordInput, "Short1", msg.Password.TooShort},
				{"requires an uppercase letter in the password", (*pages.RegisterPage).PasswordInput, "lowercase123", msg.Password.Uppercase},
				{"requires a lowercase letter in the password", (*pages.RegisterPage).PasswordInput, "UPPERCASE123", msg.Password.Lowercase},
				{"requires a number in the password", (*pages.RegisterPage).PasswordInput, "NoNumbersHere", msg.Password.Number},
			} {
				c := c
				g.It(c.name, func(t *e2etest.T) {
					p := registerPage(t)
					t.Require(c.field(p).Fill(t.Context(), c.value))
					t.Require(p.SubmitButton().Click(t.Context()))
					visible(t, p.Message(c.message))
				})
			}

			g.It("rejects mismatched passwords", func(t *e2etest.T) {
				p := registerPage(t)
				t.Require(p.PasswordInput().Fill(t.Context(), "NewPass123!"))
				t.Require(p.ConfirmPasswordInput().Fill(t.Context(), "DifferentPass123!"))
				t.Require(p.SubmitButton().Click(t.Context()))
				visible(t, p.Message(msg.Password.Mismatch))
			})
		})

		g.Describe("Registration", func(g *e2etest.Group) {
			g.It("registers a new user", func(t *e2etest.T) {
				p := registerPage(t)
				user := fixtures.NewUser(env.Data.GeneratedUser, env.Tokens.Next())
				t.Debug("registering %s", user.Email)
				t.Require(p.Register(t.Context(), fixtures.RegistrationForm(user)))
				outcome := t.Scope().AnyOf(p.SuccessAlert(), p.Message(env.Data.Loading.SigningIn))
				t.Require(expect.Visible(t.Context(), outcome, expect.Within(submitOutcomeTimeout)))
			})

			g.It("shows a loading state while creating the account", func(t *e2etest.T) {
				p := registerPage(t)
				user := fixtures.NewUser(env.Data.GeneratedUser, env.Tokens.Next())
				t.Require(p.Register(t.Context(), fixtures.RegistrationForm(user)))
				visible(t, p.Message(env.Data.Loading.CreatingAccount))
			})

			g.It("rejects an email that is already registered", func(t *e2etest.T) {
				p := registerPage(t)
				user := fixtures.NewUser(env.Data.GeneratedUser, env.Tokens.Next())
				user.Email = env.User.Email
				t.Require(p.Register(t.Context(), fixtures.RegistrationForm(user)))
				t.Require(expect.Visible(t.Context(), p.ErrorAlert(), expect.Within(submitOutcomeTimeout)))
			})
		})

		g.Describe("Navigation", func(g *e2etest.Group) {
			g.It("navigates to the login page", func(t *e2etest.T) {
				t.Require(registerPage(t).SignInLink().Click(t.Context()))
				onRoute(t, loginURL)
			})
		})
	})
}
