// Package fixtures provides test identities and the login/registration helpers that suites
// use to reach an authenticated state.
package fixtures

import (
	"github.com/petelc/NexusPlaywright/data"
)

// TestUser is an identity as typed into the registration and login forms.
type TestUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Username  string
}

// SeededUser is the identity that must already exist in the application under test. Empty
// overrides keep the value from the suite data.
func SeededUser(d data.SuiteData, emailOverride, passwordOverride string) TestUser {
	u := TestUser{
		Email:     d.SeededUser.Email,
		Password:  d.SeededUser.Password,
		FirstName: d.SeededUser.FirstName,
		LastName:  d.SeededUser.LastName,
		Username:  d.SeededUser.Username,
	}
	if emailOverride != "" {
		u.Email = emailOverride
	}
	if passwordOverride != "" {
		u.Password = passwordOverride
	}
	return u
}

// NewUser derives a fresh identity from tok. It has no side effects: the same template and
// token always give the same user, and distinct tokens give distinct emails and usernames.
func NewUser(tmpl data.UserTemplate, tok Token) TestUser {
	name := tmpl.UsernamePrefix + "_" + tok.String()
	return TestUser{
		Email:     name + "@" + tmpl.EmailDomain,
		Password:  tmpl.Password,
		FirstName: tmpl.FirstName,
		LastName:  tmpl.LastName,
		Username:  name,
	}
}
