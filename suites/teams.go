package suites

import (
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/framework/locator"
	"github.com/petelc/NexusPlaywright/pages"
)

func registerTeams(plan *e2etest.Plan, env Env) {
	msg := env.Data.Messages
	teamsPage := func(t *e2etest.T) *pages.TeamsPage { return pages.NewTeamsPage(t.Session()) }

	// ensureTeam seeds a team when the user has none, so card scenarios always have data.
	ensureTeam := func(t *e2etest.T) {
		p := teamsPage(t)
		settled(t, p.LoadingSpinner())
		if count(t, p.TeamCards()) > 0 {
			return
		}
		name := "Setup Team " + env.Tokens.Next().String()
		t.Debug("no teams yet, creating %q", name)
		t.Require(p.CreateTeam(t.Context(), name, ""))
		t.Require(expect.Visible(t.Context(), p.CardByName(name), expect.Within(submitOutcomeTimeout)))
	}

	plan.Describe("Teams Page", func(g *e2etest.Group) {
		g.BeforeEach("log in", loginAsSeededUser(env))
		g.BeforeEach("open teams", open(func(t *e2etest.T) error {
			return teamsPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the heading", func(t *e2etest.T) {
				visible(t, teamsPage(t).Heading())
			})

			g.It("displays the new team button", func(t *e2etest.T) {
				visible(t, teamsPage(t).NewTeamButton())
			})

			g.It("displays the search input", func(t *e2etest.T) {
				visible(t, teamsPage(t).SearchInput())
			})

			g.It("displays the view toggle", func(t *e2etest.T) {
				visible(t, teamsPage(t).ViewToggleButton())
			})
		})

		g.Describe("Empty State", func(g *e2etest.Group) {
			g.It("shows the empty state when there are no teams", func(t *e2etest.T) {
				p := teamsPage(t)
				settled(t, p.LoadingSpinner())
				if t.Conditional(count(t, p.TeamCards()) == 0, "teams exist, empty state not shown") {
					visible(t, p.EmptyState(), p.EmptyStateCreateButton())
				}
			})
		})

		g.Describe("Create Team Dialog", func(g *e2etest.Group) {
			g.It("opens from the new team button", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				visible(t, p.CreateDialogTitle())
			})

			g.It("displays every form field", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				visible(t, p.TeamNameInput(), p.TeamDescriptionInput(), p.CreateButton(), p.CancelButton())
			})

			g.It("closes on cancel", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(p.CancelButton().Click(t.Context()))
				hidden(t, p.CreateDialogTitle())
			})

			g.It("requires a name", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(p.CreateButton().Click(t.Context()))
				visible(t, p.Message(msg.NameRequired))
			})

			g.It("rejects a name over the maximum length", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(p.TeamNameInput().Fill(t.Context(), padTo("", env.Data.Limits.TeamName+1)))
				t.Require(p.CreateButton().Click(t.Context()))
				visible(t, p.Message(msg.TooLong))
			})

			g.It("focuses the team name field", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.OpenCreateDialog(t.Context()))
				t.Require(expect.Focused(t.Context(), p.TeamNameInput()))
			})

			g.It("shows a loading state while creating", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.CreateTeam(t.Context(), "Test Team "+env.Tokens.Next().String(), ""))
				visible(t, p.Message(env.Data.Loading.Creating))
			})

			g.It("creates a team and shows it in the list", func(t *e2etest.T) {
				p := teamsPage(t)
				name := "E2E Team " + env.Tokens.Next().String()
				t.Require(p.CreateTeam(t.Context(), name, "Created by the e2e suite"))
				t.Require(expect.Hidden(t.Context(), p.CreateDialogTitle(), expect.Within(submitOutcomeTimeout)))
				t.Require(expect.Visible(t.Context(), p.CardByName(name), expect.Within(submitOutcomeTimeout)))
			})
		})

		g.Describe("Team Cards", func(g *e2etest.Group) {
			g.BeforeEach("ensure a team exists", ensureTeam)

			cardText := func(t *e2etest.T, text locator.Pattern) *locator.Locator {
				p := teamsPage(t)
				return p.CardText(p.TeamCards().First(), text)
			}

			g.It("displays the first card", func(t *e2etest.T) {
				visible(t, teamsPage(t).TeamCards().First())
			})

			g.It("displays the member count", func(t *e2etest.T) {
				visible(t, cardText(t, locator.Re(`(?i)member`)))
			})

			g.It("displays the workspace count", func(t *e2etest.T) {
				visible(t, cardText(t, locator.Re(`(?i)workspace`)))
			})

			g.It("displays the creation time", func(t *e2etest.T) {
				visible(t, cardText(t, locator.Re(`(?i)created`)))
			})

			g.It("marks teams the user owns", func(t *e2etest.T) {
				visible(t, cardText(t, locator.Exact("Owner")))
			})

			g.It("opens the card menu", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.CardMenuButton(p.TeamCards().First()).Click(t.Context()))
				visible(t, p.ManageMembersMenuItem())
			})
		})

		g.Describe("View Mode Toggle", func(g *e2etest.Group) {
			g.It("toggles between grid and list view", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.ViewToggleButton().Click(t.Context()))
				t.Require(p.ViewToggleButton().Click(t.Context()))
				t.Require(expect.Enabled(t.Context(), p.ViewToggleButton()))
			})
		})

		g.Describe("Team Members Dialog", func(g *e2etest.Group) {
			g.BeforeEach("ensure a team exists", ensureTeam)

			g.It("opens when a team card is clicked", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.OpenMembers(t.Context()))
				visible(t, p.MembersDialogTitle())
			})

			g.It("closes on the close button", func(t *e2etest.T) {
				p := teamsPage(t)
				t.Require(p.OpenMembers(t.Context()))
				visible(t, p.MembersDialogTitle())
				t.Require(p.MembersDialogClose().Click(t.Context()))
				hidden(t, p.MembersDialogTitle())
			})
		})
	})
}
