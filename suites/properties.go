package suites

import (
	"github.com/petelc/NexusPlaywright/fixtures"
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/framework/locator"
	"github.com/petelc/NexusPlaywright/pages"
)

// Samples for write-then-read checks. Email inputs strip surrounding whitespace and may
// normalise non-ASCII text, so they get their own set.
//
//nolint:gochecknoglobals
var (
	textSamples = []string{
		"plain",
		"two  inner  spaces",
		"Ünïcødé ✓ 日本語",
		`quotes ' and "`,
		"<b>not markup</b>",
		"trailing space ",
	}
	emailSamples = []string{
		"user@example.com",
		"first.last+tag@sub.nexus.dev",
	}
)

// echoField is one plain text input: how to reach it and how to find it.
type echoField struct {
	name    string
	reach   func(t *e2etest.T) error
	input   func(t *e2etest.T) *locator.Locator
	samples []string
}

// headedView is a page whose heading identifies it.
type headedView struct {
	name    string
	reach   func(t *e2etest.T) error
	heading func(t *e2etest.T) *locator.Locator
}

func registerProperties(plan *e2etest.Plan, env Env) {
	login := func(t *e2etest.T) *pages.LoginPage { return pages.NewLoginPage(t.Session()) }
	register := func(t *e2etest.T) *pages.RegisterPage { return pages.NewRegisterPage(t.Session()) }
	forgot := func(t *e2etest.T) *pages.ForgotPasswordPage { return pages.NewForgotPasswordPage(t.Session()) }
	reset := func(t *e2etest.T) *pages.ResetPasswordPage { return pages.NewResetPasswordPage(t.Session()) }
	documents := func(t *e2etest.T) *pages.DocumentsPage { return pages.NewDocumentsPage(t.Session()) }
	editor := func(t *e2etest.T) *pages.CreateDocumentPage { return pages.NewCreateDocumentPage(t.Session()) }
	snippets := func(t *e2etest.T) *pages.CodeSnippetsPage { return pages.NewCodeSnippetsPage(t.Session()) }
	snippetForm := func(t *e2etest.T) *pages.CreateSnippetPage { return pages.NewCreateSnippetPage(t.Session()) }
	teams := func(t *e2etest.T) *pages.TeamsPage { return pages.NewTeamsPage(t.Session()) }
	workspaces := func(t *e2etest.T) *pages.WorkspacesPage { return pages.NewWorkspacesPage(t.Session()) }

	reachLogin := func(t *e2etest.T) error { return login(t).Goto(t.Context()) }
	reachRegister := func(t *e2etest.T) error { return register(t).Goto(t.Context()) }
	reachForgot := func(t *e2etest.T) error { return forgot(t).Goto(t.Context()) }
	reachReset := func(t *e2etest.T) error { return reset(t).GotoWithToken(t.Context(), env.Data.ResetToken) }
	reachDocuments := func(t *e2etest.T) error { return documents(t).Goto(t.Context()) }
	reachEditor := func(t *e2etest.T) error { return editor(t).Goto(t.Context()) }
	reachSnippets := func(t *e2etest.T) error { return snippets(t).Goto(t.Context()) }
	reachSnippetForm := func(t *e2etest.T) error { return snippetForm(t).Goto(t.Context()) }
	reachTeams := func(t *e2etest.T) error { return teams(t).Goto(t.Context()) }
	reachWorkspaces := func(t *e2etest.T) error { return workspaces(t).Goto(t.Context()) }
	reachTeamDialog := func(t *e2etest.T) error {
		if err := reachTeams(t); err != nil {
			return err
		}
		return teams(t).OpenCreateDialog(t.Context())
	}
	reachWorkspaceDialog := func(t *e2etest.T) error {
		if err := reachWorkspaces(t); err != nil {
			return err
		}
		return workspaces(t).OpenCreateDialog(t.Context())
	}

	echo := func(g *e2etest.Group, fields []echoField) {
		for _, f := range fields {
			f := f
			g.It(f.name, func(t *e2etest.T) {
				t.Require(f.reach(t))
				for _, v := range f.samples {
					t.Require(f.input(t).Fill(t.Context(), v))
					t.Require(expect.Value(t.Context(), f.input(t), v))
				}
			})
		}
	}

	idempotent := func(g *e2etest.Group, views []headedView) {
		for _, v := range views {
			v := v
			g.It(v.name, func(t *e2etest.T) {
				t.Require(v.reach(t))
				visible(t, v.heading(t))
				first := t.Session().URL()
				t.Require(v.reach(t))
				visible(t, v.heading(t))
				if second := t.Session().URL(); second != first {
					t.Errorf("second visit landed on %s, first on %s", second, first)
				}
			})
		}
	}

	plan.Describe("Properties", func(g *e2etest.Group) {
		g.Describe("Value Echo", func(g *e2etest.Group) {
			echo(g, []echoField{
				{"login email", reachLogin, func(t *e2etest.T) *locator.Locator { return login(t).EmailInput() }, emailSamples},
				{"login password", reachLogin, func(t *e2etest.T) *locator.Locator { return login(t).PasswordInput() }, textSamples},
				{"registration first name", reachRegister, func(t *e2etest.T) *locator.Locator { return register(t).FirstNameInput() }, textSamples},
				{"registration last name", reachRegister, func(t *e2etest.T) *locator.Locator { return register(t).LastNameInput() }, textSamples},
				{"registration username", reachRegister, func(t *e2etest.T) *locator.Locator { return register(t).UsernameInput() }, textSamples},
				{"registration email", reachRegister, func(t *e2etest.T) *locator.Locator { return register(t).EmailInput() }, emailSamples},
				{"registration password", reachRegister, func(t *e2etest.T) *locator.Locator { return register(t).PasswordInput() }, textSamples},
				{"registration password confirmation", reachRegister, func(t *e2etest.T) *locator.Locator { return register(t).ConfirmPasswordInput() }, textSamples},
				{"forgot password email", reachForgot, func(t *e2etest.T) *locator.Locator { return forgot(t).EmailInput() }, emailSamples},
				{"reset new password", reachReset, func(t *e2etest.T) *locator.Locator { return reset(t).NewPasswordInput() }, textSamples},
				{"reset password confirmation", reachReset, func(t *e2etest.T) *locator.Locator { return reset(t).ConfirmNewPasswordInput() }, textSamples},
			})

			g.Describe("Signed In", func(g *e2etest.Group) {
				g.BeforeEach("log in", loginAsSeededUser(env))
				echo(g, []echoField{
					{"documents search", reachDocuments, func(t *e2etest.T) *locator.Locator { return documents(t).SearchInput() }, textSamples},
					{"document title", reachEditor, func(t *e2etest.T) *locator.Locator { return editor(t).TitleInput() }, textSamples},
					{"snippets search", reachSnippets, func(t *e2etest.T) *locator.Locator { return snippets(t).SearchInput() }, textSamples},
					{"snippet title", reachSnippetForm, func(t *e2etest.T) *locator.Locator { return snippetForm(t).TitleInput() }, textSamples},
					{"snippet description", reachSnippetForm, func(t *e2etest.T) *locator.Locator { return snippetForm(t).DescriptionInput() }, textSamples},
					{"teams search", reachTeams, func(t *e2etest.T) *locator.Locator { return teams(t).SearchInput() }, textSamples},
					{"team name", reachTeamDialog, func(t *e2etest.T) *locator.Locator { return teams(t).TeamNameInput() }, textSamples},
					{"team description", reachTeamDialog, func(t *e2etest.T) *locator.Locator { return teams(t).TeamDescriptionInput() }, textSamples},
					{"workspaces search", reachWorkspaces, func(t *e2etest.T) *locator.Locator { return workspaces(t).SearchInput() }, textSamples},
					{"workspace name", reachWorkspaceDialog, func(t *e2etest.T) *locator.Locator { return workspaces(t).WorkspaceNameInput() }, textSamples},
					{"workspace description", reachWorkspaceDialog, func(t *e2etest.T) *locator.Locator { return workspaces(t).WorkspaceDescriptionInput() }, textSamples},
				})
			})
		})

		g.Describe("Idempotent Navigation", func(g *e2etest.Group) {
			idempotent(g, []headedView{
				{"login", reachLogin, func(t *e2etest.T) *locator.Locator { return login(t).Heading() }},
				{"registration", reachRegister, func(t *e2etest.T) *locator.Locator { return register(t).Subtitle() }},
				{"forgot password", reachForgot, func(t *e2etest.T) *locator.Locator { return forgot(t).Subtitle() }},
			})

			g.Describe("Signed In", func(g *e2etest.Group) {
				g.BeforeEach("log in", loginAsSeededUser(env))
				idempotent(g, []headedView{
					{"documents", reachDocuments, func(t *e2etest.T) *locator.Locator { return documents(t).Heading() }},
					{"snippets", reachSnippets, func(t *e2etest.T) *locator.Locator { return snippets(t).Heading() }},
					{"teams", reachTeams, func(t *e2etest.T) *locator.Locator { return teams(t).Heading() }},
					{"workspaces", reachWorkspaces, func(t *e2etest.T) *locator.Locator { return workspaces(t).Heading() }},
				})
			})
		})

		g.Describe("Maximum Length Boundaries", func(g *e2etest.Group) {
			g.BeforeEach("log in", loginAsSeededUser(env))
			limits := env.Data.Limits
			tooLong := env.Data.Messages.TooLong

			g.It("accepts a document title of exactly the maximum length", func(t *e2etest.T) {
				p := editor(t)
				t.Require(p.Goto(t.Context()))
				t.Require(p.CreateDocument(t.Context(), pages.DocumentDraft{
					Title:   padTo("Boundary "+env.Tokens.Next().String()+" ", limits.DocumentTitle),
					Content: "Boundary content",
				}))
				t.Require(expect.URLNot(t.Context(), t.Session(), newDocumentURL, expect.Within(submitOutcomeTimeout)))
				hidden(t, p.Message(tooLong))
			})

			g.It("saves a snippet with a title of exactly the maximum length", func(t *e2etest.T) {
				p := snippetForm(t)
				t.Require(p.Goto(t.Context()))
				title := padTo("Boundary "+env.Tokens.Next().String()+" ", limits.SnippetTitle)
				t.Require(p.FillTitle(t.Context(), title))
				t.Require(expect.Value(t.Context(), p.TitleInput(), title))
				t.Require(p.CreateSnippet(t.Context(), pages.SnippetDraft{
					Title:    title,
					Language: seedSnippetLanguage,
					Code:     "console.log('boundary');",
				}))
				t.Require(expect.URLNot(t.Context(), t.Session(), newSnippetURL, expect.Within(submitOutcomeTimeout)))
				hidden(t, p.Message(tooLong))
			})

			g.It("accepts a team name of exactly the maximum length", func(t *e2etest.T) {
				p := teams(t)
				t.Require(p.Goto(t.Context()))
				name := padTo("Boundary "+env.Tokens.Next().String()+" ", limits.TeamName)
				t.Require(p.CreateTeam(t.Context(), name, ""))
				t.Require(expect.Hidden(t.Context(), p.CreateDialogTitle(), expect.Within(submitOutcomeTimeout)))
				hidden(t, p.Message(tooLong))
			})

			g.It("accepts a workspace name of exactly the maximum length", func(t *e2etest.T) {
				team := seedTeam(t, env)
				p := workspaces(t)
				t.Require(p.Goto(t.Context()))
				name := padTo("Boundary "+env.Tokens.Next().String()+" ", limits.WorkspaceName)
				t.Require(p.CreateWorkspace(t.Context(), name, "", team))
				t.Require(expect.Hidden(t.Context(), p.CreateDialogTitle(), expect.Within(submitOutcomeTimeout)))
				hidden(t, p.Message(tooLong), p.CreateDialogError())
			})

			g.It("rejects a workspace name one character over the maximum length", func(t *e2etest.T) {
				p := workspaces(t)
				t.Require(p.Goto(t.Context()))
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(p.WorkspaceNameInput().Fill(t.Context(), padTo("", limits.WorkspaceName+1)))
				t.Require(p.CreateButton().Click(t.Context()))
				visible(t, p.Message(tooLong))
			})
		})

		g.Describe("Password Reset Anti-Enumeration", func(g *e2etest.Group) {
			g.BeforeEach("open forgot password page", open(reachForgot))

			g.It("answers an unknown email with the generic success message", func(t *e2etest.T) {
				p := forgot(t)
				stranger := fixtures.NewUser(env.Data.GeneratedUser, env.Tokens.Next())
				t.Require(p.RequestReset(t.Context(), stranger.Email))
				t.Require(expect.Visible(t.Context(), p.SuccessAlert(), expect.Within(submitOutcomeTimeout)))
				hidden(t, p.ErrorAlert())
			})

			g.It("answers a registered email with the same message", func(t *e2etest.T) {
				p := forgot(t)
				t.Require(p.RequestReset(t.Context(), env.User.Email))
				t.Require(expect.Visible(t.Context(), p.SuccessAlert(), expect.Within(submitOutcomeTimeout)))
				t.Require(expect.Text(t.Context(), p.SuccessAlert(), expect.Contains(env.Data.Messages.ResetSent)))
			})
		})
	})
}
