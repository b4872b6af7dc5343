package suites

import (
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/pages"
)

// seedSnippetLanguage is the language every seeded snippet is saved with.
const seedSnippetLanguage = "JavaScript"

// seedTeam creates a team with a unique name through the teams page and waits for its card.
func seedTeam(t *e2etest.T, env Env) string {
	t.Helper()
	p := pages.NewTeamsPage(t.Session())
	name := "Seed Team " + env.Tokens.Next().String()
	t.Require(p.Goto(t.Context()))
	t.Require(p.CreateTeam(t.Context(), name, ""))
	t.Require(expect.Visible(t.Context(), p.CardByName(name), expect.Within(submitOutcomeTimeout)))
	return name
}

// seedWorkspace creates a team and a workspace in it, leaving the browser on the workspaces
// page with the new card visible.
func seedWorkspace(t *e2etest.T, env Env) string {
	t.Helper()
	team := seedTeam(t, env)
	p := pages.NewWorkspacesPage(t.Session())
	name := "Seed Workspace " + env.Tokens.Next().String()
	t.Require(p.Goto(t.Context()))
	t.Require(p.CreateWorkspace(t.Context(), name, "", team))
	t.Require(expect.Hidden(t.Context(), p.CreateDialogTitle(), expect.Within(submitOutcomeTimeout)))
	t.Require(expect.Visible(t.Context(), p.CardByName(name), expect.Within(submitOutcomeTimeout)))
	return name
}

// seedSnippet saves a snippet owned by the signed-in user and waits until the form is left.
func seedSnippet(t *e2etest.T, env Env) pages.SnippetDraft {
	t.Helper()
	d := pages.SnippetDraft{
		Title:    "Seed Snippet " + env.Tokens.Next().String(),
		Language: seedSnippetLanguage,
		Code:     "console.log('seeded');",
	}
	p := pages.NewCreateSnippetPage(t.Session())
	t.Require(p.Goto(t.Context()))
	t.Require(p.CreateSnippet(t.Context(), d))
	t.Require(expect.URLNot(t.Context(), t.Session(), newSnippetURL, expect.Within(submitOutcomeTimeout)))
	return d
}
