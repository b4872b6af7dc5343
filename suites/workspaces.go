package suites

import (
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/framework/locator"
	"github.com/petelc/NexusPlaywright/pages"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

func registerWorkspaces(plan *e2etest.Plan, env Env) {
	msg := env.Data.Messages
	workspacesPage := func(t *e2etest.T) *pages.WorkspacesPage { return pages.NewWorkspacesPage(t.Session()) }

	plan.Describe("Workspaces Page", func(g *e2etest.Group) {
		g.BeforeEach("log in", loginAsSeededUser(env))
		g.BeforeEach("open workspaces", open(func(t *e2etest.T) error {
			return workspacesPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the heading", func(t *e2etest.T) {
				visible(t, workspacesPage(t).Heading())
			})

			g.It("displays the new workspace button", func(t *e2etest.T) {
				visible(t, workspacesPage(t).NewWorkspaceButton())
			})

			g.It("displays the search input", func(t *e2etest.T) {
				visible(t, workspacesPage(t).SearchInput())
			})

			g.It("displays the view toggle", func(t *e2etest.T) {
				visible(t, workspacesPage(t).ViewToggleButton())
			})
		})

		g.Describe("Empty State", func(g *e2etest.Group) {
			g.It("shows the empty state when there are no workspaces", func(t *e2etest.T) {
				p := workspacesPage(t)
				settled(t, p.LoadingSpinner())
				if t.Conditional(count(t, p.WorkspaceCards()) == 0, "workspaces exist, empty state not shown") {
					visible(t, p.EmptyState(), p.EmptyStateCreateButton())
				}
			})
		})

		g.Describe("Create Workspace Dialog", func(g *e2etest.Group) {
			g.It("opens from the new workspace button", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				visible(t, p.CreateDialogTitle())
			})

			g.It("displays every form field", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				visible(t, p.WorkspaceNameInput(), p.WorkspaceDescriptionInput(), p.TeamSelect(),
					p.CreateButton(), p.CancelButton())
			})

			g.It("closes on cancel", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(p.CancelButton().Click(t.Context()))
				hidden(t, p.CreateDialogTitle())
			})

			g.It("requires a name", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(p.CreateButton().Click(t.Context()))
				visible(t, p.Message(msg.NameRequired))
			})

			g.It("requires a team", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(p.WorkspaceNameInput().Fill(t.Context(), "Test Workspace"))
				t.Require(p.CreateButton().Click(t.Context()))
				visible(t, p.Message(msg.TeamRequired))
			})

			g.It("focuses the workspace name field", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(expect.Focused(t.Context(), p.WorkspaceNameInput()))
			})

			g.It("shows a loading state while creating", func(t *e2etest.T) {
				team := seedTeam(t, env)
				p := workspacesPage(t)
				t.Require(p.Goto(t.Context()))
				t.Require(p.CreateWorkspace(t.Context(), "Test Workspace "+env.Tokens.Next().String(), "", team))
				visible(t, p.Message(env.Data.Loading.Creating))
			})
		})

		g.Describe("Workspace Cards", func(g *e2etest.Group) {
			g.It("displays workspace cards", func(t *e2etest.T) {
				name := seedWorkspace(t, env)
				visible(t, workspacesPage(t).CardByName(name).First())
			})

			g.It("displays the creation time on a card", func(t *e2etest.T) {
				name := seedWorkspace(t, env)
				p := workspacesPage(t)
				visible(t, p.CardText(p.CardByName(name).First(), locator.Re(`(?i)created`)))
			})

			g.It("switches to the dashboard when a workspace is opened", func(t *e2etest.T) {
				name := seedWorkspace(t, env)
				t.Require(workspacesPage(t).CardByName(name).First().Click(t.Context()))
				onRoute(t, dashboardURL)
			})
		})

		g.Describe("Search", func(g *e2etest.Group) {
			g.It("shows no cards for a search that matches nothing", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.Search(t.Context(), env.Data.SearchMiss))
				t.Require(pause(t.Context(), searchDebounce))
				t.Require(expect.Count(t.Context(), p.WorkspaceCards(), m.Equal(0)))
			})

			g.It("clears the search input", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.Search(t.Context(), "test"))
				t.Require(pause(t.Context(), searchDebounce))
				t.Require(p.Search(t.Context(), ""))
				t.Require(expect.Value(t.Context(), p.SearchInput(), ""))
			})
		})

		g.Describe("View Mode Toggle", func(g *e2etest.Group) {
			g.It("toggles between grid and list view", func(t *e2etest.T) {
				p := workspacesPage(t)
				t.Require(p.ViewToggleButton().Click(t.Context()))
				t.Require(p.ViewToggleButton().Click(t.Context()))
				t.Require(expect.Enabled(t.Context(), p.ViewToggleButton()))
			})
		})
	})
}
