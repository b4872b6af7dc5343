package suites

import (
	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/pages"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

func registerSnippets(plan *e2etest.Plan, env Env) {
	msg := env.Data.Messages
	listPage := func(t *e2etest.T) *pages.CodeSnippetsPage { return pages.NewCodeSnippetsPage(t.Session()) }
	formPage := func(t *e2etest.T) *pages.CreateSnippetPage { return pages.NewCreateSnippetPage(t.Session()) }
	detailPage := func(t *e2etest.T) *pages.SnippetDetailPage { return pages.NewSnippetDetailPage(t.Session(), "") }

	plan.Describe("Code Snippets List Page", func(g *e2etest.Group) {
		g.BeforeEach("log in", loginAsSeededUser(env))
		g.BeforeEach("open snippets", open(func(t *e2etest.T) error {
			return listPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the heading", func(t *e2etest.T) {
				visible(t, listPage(t).Heading())
			})

			g.It("displays the new snippet button", func(t *e2etest.T) {
				visible(t, listPage(t).NewSnippetButton())
			})

			g.It("displays the search input", func(t *e2etest.T) {
				visible(t, listPage(t).SearchInput())
			})
		})

		g.Describe("Empty State", func(g *e2etest.Group) {
			g.It("shows content or the empty state", func(t *e2etest.T) {
				p := listPage(t)
				settled(t, p.LoadingSpinner())
				if t.Conditional(count(t, p.SnippetCards()) == 0, "snippets exist, empty state not shown") {
					visible(t, p.EmptyState())
				}
			})
		})

		g.Describe("Navigation", func(g *e2etest.Group) {
			g.It("opens the form from the new snippet button", func(t *e2etest.T) {
				t.Require(listPage(t).ClickNewSnippet(t.Context()))
				onRoute(t, newSnippetURL)
			})
		})

		g.Describe("Tab Filtering", func(g *e2etest.Group) {
			for _, tab := range pages.SnippetTabs() {
				tab := tab
				g.It("displays the "+tab.String()+" tab", func(t *e2etest.T) {
					visible(t, listPage(t).Tab(tab))
				})
			}
			for _, tab := range []pages.SnippetTab{pages.MySnippets(), pages.PublicSnippets()} {
				tab := tab
				g.It("selects the "+tab.String()+" tab", func(t *e2etest.T) {
					p := listPage(t)
					t.Require(p.SwitchTab(t.Context(), tab))
					t.Require(expect.Attribute(t.Context(), p.Tab(tab), "aria-selected", m.Equal("true")))
				})
			}
		})

		g.Describe("Search", func(g *e2etest.Group) {
			g.It("echoes the search term", func(t *e2etest.T) {
				p := listPage(t)
				t.Require(p.Search(t.Context(), "console"))
				t.Require(expect.Value(t.Context(), p.SearchInput(), "console"))
			})

			g.It("shows no cards for a search that matches nothing", func(t *e2etest.T) {
				p := listPage(t)
				t.Require(p.Search(t.Context(), env.Data.SearchMiss))
				t.Require(pause(t.Context(), searchDebounce))
				t.Require(expect.Count(t.Context(), p.SnippetCards(), m.Equal(0)))
			})
		})
	})

	plan.Describe("Create Snippet Page", func(g *e2etest.Group) {
		g.BeforeEach("log in", loginAsSeededUser(env))
		g.BeforeEach("open snippet form", open(func(t *e2etest.T) error {
			return formPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the heading", func(t *e2etest.T) {
				visible(t, formPage(t).Heading())
			})

			g.It("displays the title input and language selector", func(t *e2etest.T) {
				p := formPage(t)
				visible(t, p.TitleInput(), p.LanguageSelect())
			})

			g.It("displays the save and cancel buttons", func(t *e2etest.T) {
				p := formPage(t)
				visible(t, p.SaveButton(), p.CancelButton())
			})
		})

		g.Describe("Form Validation", func(g *e2etest.Group) {
			g.It("requires a title", func(t *e2etest.T) {
				p := formPage(t)
				t.Require(p.Save(t.Context()))
				visible(t, p.Message(msg.TitleRequired))
			})

			g.It("requires code", func(t *e2etest.T) {
				p := formPage(t)
				t.Require(p.FillTitle(t.Context(), "My Snippet"))
				t.Require(p.Save(t.Context()))
				visible(t, t.Scope().AnyOf(p.Message(msg.CodeRequired), p.ErrorAlert()))
			})

			g.It("caps the title at the maximum length", func(t *e2etest.T) {
				p := formPage(t)
				limit := env.Data.Limits.SnippetTitle
				t.Require(p.FillTitle(t.Context(), padTo("", limit+1)))
				value, err := p.TitleInput().InputValue(t.Context())
				t.Require(err)
				if len(value) > limit {
					t.Errorf("title input accepted %d characters, limit is %d", len(value), limit)
				}
			})
		})

		g.Describe("Form Interaction", func(g *e2etest.Group) {
			g.It("echoes the title", func(t *e2etest.T) {
				p := formPage(t)
				t.Require(p.FillTitle(t.Context(), "My Test Snippet"))
				t.Require(expect.Value(t.Context(), p.TitleInput(), "My Test Snippet"))
			})

			g.It("echoes the description", func(t *e2etest.T) {
				p := formPage(t)
				t.Require(p.FillDescription(t.Context(), "A helpful snippet"))
				t.Require(expect.Value(t.Context(), p.DescriptionInput(), "A helpful snippet"))
			})

			g.It("leaves the form when cancel is clicked", func(t *e2etest.T) {
				t.Require(formPage(t).Cancel(t.Context()))
				t.Require(expect.URLNot(t.Context(), t.Session(), newSnippetURL))
			})
		})
	})

	plan.Describe("Snippet Detail Page", func(g *e2etest.Group) {
		g.BeforeEach("log in", loginAsSeededUser(env))

		// openSeeded saves a fresh snippet owned by the user and opens it from My Snippets.
		openSeeded := func(t *e2etest.T) pages.SnippetDraft {
			t.Helper()
			d := seedSnippet(t, env)
			p := listPage(t)
			t.Require(p.GotoMine(t.Context()))
			settled(t, p.LoadingSpinner())
			t.Require(p.CardByTitle(d.Title).First().Click(t.Context()))
			return d
		}

		g.Describe("Layout", func(g *e2etest.Group) {
			g.It("displays the snippet title", func(t *e2etest.T) {
				d := openSeeded(t)
				t.Require(expect.Text(t.Context(), detailPage(t).Title(), expect.Contains(d.Title)))
			})

			g.It("displays the code block", func(t *e2etest.T) {
				openSeeded(t)
				visible(t, detailPage(t).CodeBlock().First())
			})

			g.It("displays the edit button to the owner", func(t *e2etest.T) {
				openSeeded(t)
				visible(t, detailPage(t).EditButton())
			})
		})

		g.Describe("Actions", func(g *e2etest.Group) {
			g.It("offers publish or unpublish to the owner", func(t *e2etest.T) {
				openSeeded(t)
				p := detailPage(t)
				visible(t, t.Scope().AnyOf(p.UnpublishButton(), p.PublishButton()))
			})
		})
	})
}
