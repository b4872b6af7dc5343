package fixtures

import (
	"context"

	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/pages"
)

// LoginAs opens the login page, enters the user's credentials and submits. It does not wait
// for the outcome; callers assert the post-login route themselves.
func LoginAs(ctx context.Context, s *harness.Session, u TestUser) error {
	p := pages.NewLoginPage(s)
	if err := p.Goto(ctx); err != nil {
		return err
	}
	return p.Login(ctx, u.Email, u.Password)
}

// RegisterUser opens the registration page, fills every field with the user's details
// (confirming the same password) and submits. It does not wait for the outcome.
func RegisterUser(ctx context.Context, s *harness.Session, u TestUser) error {
	p := pages.NewRegisterPage(s)
	if err := p.Goto(ctx); err != nil {
		return err
	}
	return p.Register(ctx, RegistrationForm(u))
}

// RegistrationForm is the form content that registers u.
func RegistrationForm(u TestUser) pages.RegistrationForm {
	return pages.RegistrationForm{
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Username:        u.Username,
		Email:           u.Email,
		Password:        u.Password,
		ConfirmPassword: u.Password,
	}
}
