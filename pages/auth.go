package pages

import (
	"context"

	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

//
// Login
//

// LoginPage is the sign-in screen at /login.
type LoginPage struct{ base }

// NewLoginPage binds the login page to s.
func NewLoginPage(s *harness.Session) *LoginPage { return &LoginPage{base{s}} }

// Goto navigates to the page and waits for the DOM to load.
func (p *LoginPage) Goto(ctx context.Context) error { return p.session.Goto(ctx, LoginRoute) }

// Heading is the main heading of the page.
func (p *LoginPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("NEXUS"))
}

func (p *LoginPage) Tagline() *locator.Locator {
	return p.scope().Text(locator.Str("Where Knowledge Connects"))
}

func (p *LoginPage) EmailInput() *locator.Locator { return p.scope().Label(locator.Exact("Email")) }

func (p *LoginPage) PasswordInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Password"))
}

func (p *LoginPage) RememberMe() *locator.Locator {
	return p.scope().Label(locator.Str("Remember me"))
}

// SubmitButton sends the form.
func (p *LoginPage) SubmitButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)sign in`))
}

func (p *LoginPage) ForgotPasswordLink() *locator.Locator {
	return p.scope().Role(locator.Link, locator.Re(`(?i)forgot password`))
}

func (p *LoginPage) SignUpLink() *locator.Locator {
	return p.scope().Role(locator.Link, locator.Re(`(?i)sign up`))
}

// ErrorAlert matches the alert that reports a failed request.
func (p *LoginPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{})
}

// Login fills both credentials and submits. It returns as soon as the click is delivered.
func (p *LoginPage) Login(ctx context.Context, email, password string) error {
	return sequence(ctx, "login",
		fillStep("email", p.EmailInput(), email),
		fillStep("password", p.PasswordInput(), password),
		clickStep("sign in", p.SubmitButton()),
	)
}

//
// Register
//

// RegistrationForm is the full set of registration fields. ConfirmPassword is separate so
// that mismatches can be entered deliberately.
type RegistrationForm struct {
	FirstName       string
	LastName        string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegisterPage is the account registration form.
type RegisterPage struct{ base }

// NewRegisterPage binds the registration page to s.
func NewRegisterPage(s *harness.Session) *RegisterPage { return &RegisterPage{base{s}} }

// Goto navigates to the page and waits for the DOM to load.
func (p *RegisterPage) Goto(ctx context.Context) error {
	return p.session.Goto(ctx, RegisterRoute)
}

// Heading is the main heading of the page.
func (p *RegisterPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("NEXUS"))
}

func (p *RegisterPage) Subtitle() *locator.Locator {
	return p.scope().Text(locator.Str("Create your account"))
}

func (p *RegisterPage) FirstNameInput() *locator.Locator {
	return p.scope().Label(locator.Exact("First Name"))
}

func (p *RegisterPage) LastNameInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Last Name"))
}

func (p *RegisterPage) UsernameInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Username"))
}

func (p *RegisterPage) EmailInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Email"))
}

func (p *RegisterPage) PasswordInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Password"))
}

func (p *RegisterPage) ConfirmPasswordInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Confirm Password"))
}

// SubmitButton sends the form.
func (p *RegisterPage) SubmitButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)create account`))
}

func (p *RegisterPage) SignInLink() *locator.Locator {
	return p.scope().Role(locator.Link, locator.Re(`(?i)sign in`))
}

// ErrorAlert matches the alert that reports a failed request.
func (p *RegisterPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)failed|error`))
}

// SuccessAlert matches the confirmation shown after a successful submit.
func (p *RegisterPage) SuccessAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)success`))
}

// Register fills every field of the form and submits it.
func (p *RegisterPage) Register(ctx context.Context, f RegistrationForm) error {
	return sequence(ctx, "register",
		fillStep("first name", p.FirstNameInput(), f.FirstName),
		fillStep("last name", p.LastNameInput(), f.LastName),
		fillStep("username", p.UsernameInput(), f.Username),
		fillStep("email", p.EmailInput(), f.Email),
		fillStep("password", p.PasswordInput(), f.Password),
		fillStep("confirm password", p.ConfirmPasswordInput(), f.ConfirmPassword),
		clickStep("create account", p.SubmitButton()),
	)
}

//
// Forgot password
//

// ForgotPasswordPage requests a password reset email.
type ForgotPasswordPage struct{ base }

// NewForgotPasswordPage binds the forgot-password page to s.
func NewForgotPasswordPage(s *harness.Session) *ForgotPasswordPage {
	return &ForgotPasswordPage{base{s}}
}

// Goto navigates to the page and waits for the DOM to load.
func (p *ForgotPasswordPage) Goto(ctx context.Context) error {
	return p.session.Goto(ctx, ForgotPasswordRoute)
}

// Heading is the main heading of the page.
func (p *ForgotPasswordPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("NEXUS"))
}

func (p *ForgotPasswordPage) Subtitle() *locator.Locator {
	return p.scope().Text(locator.Str("Reset your password"))
}

func (p *ForgotPasswordPage) Instructions() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)enter your email address`))
}

func (p *ForgotPasswordPage) EmailInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Email"))
}

// SubmitButton sends the form.
func (p *ForgotPasswordPage) SubmitButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)send reset instructions`))
}

func (p *ForgotPasswordPage) BackToSignInLink() *locator.Locator {
	return p.scope().Role(locator.Link, locator.Re(`(?i)back to sign in`))
}

// ErrorAlert matches the alert that reports a failed request.
func (p *ForgotPasswordPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)failed|error`))
}

// SuccessAlert matches the confirmation shown after a successful submit.
func (p *ForgotPasswordPage) SuccessAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)reset|sent`))
}

// RequestReset submits the form for email.
func (p *ForgotPasswordPage) RequestReset(ctx context.Context, email string) error {
	return sequence(ctx, "request password reset",
		fillStep("email", p.EmailInput(), email),
		clickStep("send reset instructions", p.SubmitButton()),
	)
}

//
// Reset password
//

// ResetPasswordPage sets a new password from a reset link. Without a token it shows the
// invalid-link alert instead of the form.
type ResetPasswordPage struct{ base }

// NewResetPasswordPage binds the reset page to s.
func NewResetPasswordPage(s *harness.Session) *ResetPasswordPage {
	return &ResetPasswordPage{base{s}}
}

// Goto opens the page without a token, which the app treats as an invalid link.
func (p *ResetPasswordPage) Goto(ctx context.Context) error {
	return p.GotoWithToken(ctx, "")
}

// GotoWithToken opens the page the way a reset email link does.
func (p *ResetPasswordPage) GotoWithToken(ctx context.Context, token string) error {
	return p.session.Goto(ctx, ResetPasswordURL(token))
}

// ResetPasswordURL is the route of the reset form for token; an empty token omits the query.
func ResetPasswordURL(token string) string {
	return withQuery(ResetPasswordRoute, "token", token)
}

// Heading is the main heading of the page.
func (p *ResetPasswordPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("NEXUS"))
}

func (p *ResetPasswordPage) Subtitle() *locator.Locator {
	return p.scope().Text(locator.Str("Create a new password"))
}

func (p *ResetPasswordPage) NewPasswordInput() *locator.Locator {
	return p.scope().Label(locator.Exact("New Password"))
}

func (p *ResetPasswordPage) ConfirmNewPasswordInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Confirm New Password"))
}

// SubmitButton sends the form.
func (p *ResetPasswordPage) SubmitButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)reset password`))
}

func (p *ResetPasswordPage) BackToSignInLink() *locator.Locator {
	return p.scope().Role(locator.Link, locator.Re(`(?i)back to sign in`))
}

func (p *ResetPasswordPage) RequestNewLinkLink() *locator.Locator {
	return p.scope().Role(locator.Link, locator.Re(`(?i)request new reset link`))
}

// ErrorAlert matches the alert that reports a failed request.
func (p *ResetPasswordPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)failed|error`))
}

// SuccessAlert matches the confirmation shown after a successful submit.
func (p *ResetPasswordPage) SuccessAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)success`))
}

func (p *ResetPasswordPage) InvalidTokenAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)invalid reset token`))
}

// ResetPassword fills the new password twice (confirm may differ on purpose) and submits.
func (p *ResetPasswordPage) ResetPassword(ctx context.Context, password, confirm string) error {
	return sequence(ctx, "reset password",
		fillStep("new password", p.NewPasswordInput(), password),
		fillStep("confirm new password", p.ConfirmNewPasswordInput(), confirm),
		clickStep("reset password", p.SubmitButton()),
	)
}
