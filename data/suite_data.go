package data

import (
	"fmt"
	"strings"
)

// SuiteData is everything the suites know about the application under test that is not a
// locator: the seeded identity, the exact validation and status texts the UI shows, and the
// field length limits.
type SuiteData struct {
	SeededUser    User         `yaml:"seededUser"`
	GeneratedUser UserTemplate `yaml:"generatedUser"`
	ResetToken    string       `yaml:"resetToken"`
	Messages      Messages     `yaml:"messages"`
	Loading       LoadingTexts `yaml:"loading"`
	Limits        Limits       `yaml:"limits"`
	SearchMiss    string       `yaml:"searchMiss"`
}

// User is a complete identity as entered on the registration form.
type User struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Username  string `yaml:"username"`
}

// UserTemplate holds the fixed parts of generated identities; the unique parts come from a
// token at generation time.
type UserTemplate struct {
	EmailDomain    string `yaml:"emailDomain"`
	UsernamePrefix string `yaml:"usernamePrefix"`
	Password       string `yaml:"password"`
	FirstName      string `yaml:"firstName"`
	LastName       string `yaml:"lastName"`
}

// PasswordRules are the messages of the shared password policy.
type PasswordRules struct {
	Required  string `yaml:"required"`
	TooShort  string `yaml:"tooShort"`
	Uppercase string `yaml:"uppercase"`
	Lowercase string `yaml:"lowercase"`
	Number    string `yaml:"number"`
	Mismatch  string `yaml:"mismatch"`
}

// Messages are validation and result texts, matched as visible text on the page.
type Messages struct {
	EmailRequired       string        `yaml:"emailRequired"`
	InvalidEmail        string        `yaml:"invalidEmail"`
	FirstNameRequired   string        `yaml:"firstNameRequired"`
	LastNameRequired    string        `yaml:"lastNameRequired"`
	UsernameRequired    string        `yaml:"usernameRequired"`
	FirstNameTooShort   string        `yaml:"firstNameTooShort"`
	LastNameTooShort    string        `yaml:"lastNameTooShort"`
	UsernameTooShort    string        `yaml:"usernameTooShort"`
	UsernameCharset     string        `yaml:"usernameCharset"`
	Password            PasswordRules `yaml:"password"`
	NewPassword         PasswordRules `yaml:"newPassword"`
	TitleRequired       string        `yaml:"titleRequired"`
	ContentRequired     string        `yaml:"contentRequired"`
	CodeRequired        string        `yaml:"codeRequired"`
	NameRequired        string        `yaml:"nameRequired"`
	TeamRequired        string        `yaml:"teamRequired"`
	TooLong             string        `yaml:"tooLong"`
	InvalidCredentials  string        `yaml:"invalidCredentials"`
	DuplicateEmail      string        `yaml:"duplicateEmail"`
	ResetSent           string        `yaml:"resetSent"`
	ResetSuccess        string        `yaml:"resetSuccess"`
	InvalidResetToken   string        `yaml:"invalidResetToken"`
	RegistrationSuccess string        `yaml:"registrationSuccess"`
}

// LoadingTexts are the labels a submit button shows while its request is in flight.
type LoadingTexts struct {
	SigningIn         string `yaml:"signingIn"`
	CreatingAccount   string `yaml:"creatingAccount"`
	Sending           string `yaml:"sending"`
	ResettingPassword string `yaml:"resettingPassword"`
	Creating          string `yaml:"creating"`
}

// Limits are maximum field lengths enforced by the UI.
type Limits struct {
	DocumentTitle int `yaml:"documentTitle"`
	SnippetTitle  int `yaml:"snippetTitle"`
	TeamName      int `yaml:"teamName"`
	WorkspaceName int `yaml:"workspaceName"`
}

// Validate reports every missing or out-of-range value at once.
func (d SuiteData) Validate() error {
	var problems []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, name+" is empty")
		}
	}
	positive := func(name string, value int) {
		if value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %d", name, value))
		}
	}

	require("seededUser.email", d.SeededUser.Email)
	require("seededUser.password", d.SeededUser.Password)
	require("seededUser.username", d.SeededUser.Username)
	require("generatedUser.emailDomain", d.GeneratedUser.EmailDomain)
	require("generatedUser.usernamePrefix", d.GeneratedUser.UsernamePrefix)
	require("generatedUser.password", d.GeneratedUser.Password)
	require("resetToken", d.ResetToken)
	require("messages.emailRequired", d.Messages.EmailRequired)
	require("messages.password.required", d.Messages.Password.Required)
	require("messages.newPassword.required", d.Messages.NewPassword.Required)
	require("loading.signingIn", d.Loading.SigningIn)
	positive("limits.documentTitle", d.Limits.DocumentTitle)
	positive("limits.snippetTitle", d.Limits.SnippetTitle)
	positive("limits.teamName", d.Limits.TeamName)
	positive("limits.workspaceName", d.Limits.WorkspaceName)

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
