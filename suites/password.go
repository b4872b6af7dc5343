package suites

import (
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/pages"
)

func registerForgotPassword(plan *e2etest.Plan, env Env) {
	msg := env.Data.Messages
	forgotPage := func(t *e2etest.T) *pages.ForgotPasswordPage {
		return pages.NewForgotPasswordPage(t.Session())
	}

	plan.Describe("Forgot Password Page", func(g *e2etest.Group) {
		g.BeforeEach("open forgot password page", open(func(t *e2etest.T) error {
			return forgotPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the subtitle and instructions", func(t *e2etest.T) {
				p := forgotPage(t)
				visible(t, p.Subtitle(), p.Instructions())
			})

			g.It("displays the email field and submit button", func(t *e2etest.T) {
				p := forgotPage(t)
				visible(t, p.EmailInput(), p.SubmitButton())
			})

			g.It("displays the back to sign in link", func(t *e2etest.T) {
				visible(t, forgotPage(t).BackToSignInLink())
			})
		})

		g.Describe("Form Validation", func(g *e2etest.Group) {
			g.It("requires an email", func(t *e2etest.T) {
				p := forgotPage(t)
				t.Require(p.SubmitButton().Click(t.Context()))
				visible(t, p.Message(msg.EmailRequired))
			})

			g.It("rejects an invalid email", func(t *e2etest.T) {
				p := forgotPage(t)
				t.Require(p.RequestReset(t.Context(), "invalid-email"))
				visible(t, p.Message(msg.InvalidEmail))
			})
		})

		g.Describe("Submission", func(g *e2etest.Group) {
			g.It("shows a success message for a registered email", func(t *e2etest.T) {
				p := forgotPage(t)
				t.Require(p.RequestReset(t.Context(), env.User.Email))
				t.Require(expect.Visible(t.Context(), p.SuccessAlert(), expect.Within(submitOutcomeTimeout)))
			})

			g.It("shows a loading state while sending", func(t *e2etest.T) {
				p := forgotPage(t)
				t.Require(p.RequestReset(t.Context(), env.User.Email))
				visible(t, p.Message(env.Data.Loading.Sending))
			})

			g.It("hides the form after a successful request", func(t *e2etest.T) {
				p := forgotPage(t)
				t.Require(p.RequestReset(t.Context(), env.User.Email))
				t.Require(expect.Visible(t.Context(), p.SuccessAlert(), expect.Within(submitOutcomeTimeout)))
				hidden(t, p.EmailInput())
			})
		})

		g.Describe("Navigation", func(g *e2etest.Group) {
			g.It("navigates back to the login page", func(t *e2etest.T) {
				t.Require(forgotPage(t).BackToSignInLink().Click(t.Context()))
				onRoute(t, loginURL)
			})
		})
	})
}

func registerResetPassword(plan *e2etest.Plan, env Env) {
	rules := env.Data.Messages.NewPassword
	resetPage := func(t *e2etest.T) *pages.ResetPasswordPage {
		return pages.NewResetPasswordPage(t.Session())
	}

	plan.Describe("Reset Password Page", func(g *e2etest.Group) {
		g.Describe("Without Token", func(g *e2etest.Group) {
			g.BeforeEach("open reset page without token", open(func(t *e2etest.T) error {
				return resetPage(t).Goto(t.Context())
			}))

			g.It("shows the invalid token alert", func(t *e2etest.T) {
				visible(t, resetPage(t).InvalidTokenAlert())
			})

			g.It("links to a new reset request", func(t *e2etest.T) {
				t.Require(resetPage(t).RequestNewLinkLink().Click(t.Context()))
				onRoute(t, forgotPasswordURL)
			})
		})

		g.Describe("With Token", func(g *e2etest.Group) {
			g.BeforeEach("open reset page with token", open(func(t *e2etest.T) error {
				return resetPage(t).GotoWithToken(t.Context(), env.Data.ResetToken)
			}))

			g.It("displays the reset form", func(t *e2etest.T) {
				p := resetPage(t)
				visible(t, p.Subtitle(), p.NewPasswordInput(), p.ConfirmNewPasswordInput(),
					p.SubmitButton(), p.BackToSignInLink())
			})

			g.It("requires a new password", func(t *e2etest.T) {
				p := resetPage(t)
				t.Require(p.SubmitButton().Click(t.Context()))
				visible(t, p.Message(rules.Required))
			})

			for _, c := range []struct {
				name, password, confirm, message string
			}{
				{"rejects a short password", "Short1", "Short1", rules.TooShort},
				{"requires an uppercase letter", "lowercase123", "lowercase123", rules.Uppercase},
				{"requires a lowercase letter", "UPPERCASE123", "UPPERCASE123", rules.Lowercase},
				{"requires a number", "NoNumbersHere", "NoNumbersHere", rules.Number},
				{"rejects mismatched passwords", "NewPass123!", "DifferentPass!", rules.Mismatch},
			} {
				c := c
				g.It(c.name, func(t *e2etest.T) {
					p := resetPage(t)
					t.Require(p.ResetPassword(t.Context(), c.password, c.confirm))
					visible(t, p.Message(c.message))
				})
			}

			g.It("shows a loading state while resetting", func(t *e2etest.T) {
				p := resetPage(t)
				t.Require(p.ResetPassword(t.Context(), "NewPass123!", "NewPass123!"))
				visible(t, p.Message(env.Data.Loading.ResettingPassword))
			})

			g.It("navigates back to the login page", func(t *e2etest.T) {
				t.Require(resetPage(t).BackToSignInLink().Click(t.Context()))
				onRoute(t, loginURL)
			})
		})
	})
}
