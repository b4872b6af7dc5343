package suites

import (
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"

	"github.com/petelc/NexusPlaywright/framework/e2etest"
	"github.com/petelc/NexusPlaywright/framework/expect"
	"github.com/petelc/NexusPlaywright/pages"
)

func registerDocuments(plan *e2etest.Plan, env Env) {
	msg := env.Data.Messages
	documentsPage := func(t *e2etest.T) *pages.DocumentsPage { return pages.NewDocumentsPage(t.Session()) }
	editorPage := func(t *e2etest.T) *pages.CreateDocumentPage { return pages.NewCreateDocumentPage(t.Session()) }

	plan.Describe("Documents List Page", func(g *e2etest.Group) {
		g.BeforeEach("log in", loginAsSeededUser(env))
		g.BeforeEach("open documents", open(func(t *e2etest.T) error {
			return documentsPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the heading", func(t *e2etest.T) {
				visible(t, documentsPage(t).Heading())
			})

			g.It("displays the new document button", func(t *e2etest.T) {
				visible(t, documentsPage(t).NewDocumentButton())
			})

			g.It("displays the search input", func(t *e2etest.T) {
				visible(t, documentsPage(t).SearchInput())
			})

			g.It("displays the status tabs", func(t *e2etest.T) {
				p := documentsPage(t)
				for _, tab := range pages.DocumentTabs() {
					visible(t, p.Tab(tab))
				}
			})

			g.It("displays the view toggle", func(t *e2etest.T) {
				visible(t, documentsPage(t).ViewToggleButton())
			})
		})

		g.Describe("Empty State", func(g *e2etest.Group) {
			g.It("shows the empty state when there are no documents", func(t *e2etest.T) {
				p := documentsPage(t)
				settled(t, p.LoadingSpinner())
				if t.Conditional(count(t, p.DocumentCards()) == 0, "documents exist, empty state not shown") {
					visible(t, p.EmptyState())
				}
			})
		})

		g.Describe("Navigation", func(g *e2etest.Group) {
			g.It("opens the editor from the new document button", func(t *e2etest.T) {
				t.Require(documentsPage(t).ClickNewDocument(t.Context()))
				onRoute(t, newDocumentURL)
			})
		})

		g.Describe("Tab Filtering", func(g *e2etest.Group) {
			for _, tab := range []pages.DocumentTab{pages.DraftDocuments(), pages.PublishedDocuments(), pages.ArchivedDocuments()} {
				tab := tab
				g.It("selects the "+tab.String()+" tab", func(t *e2etest.T) {
					p := documentsPage(t)
					t.Require(p.SwitchTab(t.Context(), tab))
					t.Require(expect.Attribute(t.Context(), p.Tab(tab), "aria-selected", m.Equal("true")))
				})
			}
		})

		g.Describe("Search", func(g *e2etest.Group) {
			g.It("shows no cards for a search that matches nothing", func(t *e2etest.T) {
				p := documentsPage(t)
				t.Require(p.Search(t.Context(), env.Data.SearchMiss))
				t.Require(expect.Value(t.Context(), p.SearchInput(), env.Data.SearchMiss))
				t.Require(pause(t.Context(), searchDebounce))
				t.Require(expect.Count(t.Context(), p.DocumentCards(), m.Equal(0)))
			})
		})

		g.Describe("View Toggle", func(g *e2etest.Group) {
			g.It("keeps the toggle usable after switching views", func(t *e2etest.T) {
				p := documentsPage(t)
				t.Require(p.ViewToggleButton().Click(t.Context()))
				t.Require(expect.Enabled(t.Context(), p.ViewToggleButton()))
			})
		})
	})

	plan.Describe("Create Document Page", func(g *e2etest.Group) {
		g.BeforeEach("log in", loginAsSeededUser(env))
		g.BeforeEach("open editor", open(func(t *e2etest.T) error {
			return editorPage(t).Goto(t.Context())
		}))

		g.Describe("Page Layout", func(g *e2etest.Group) {
			g.It("displays the heading", func(t *e2etest.T) {
				visible(t, editorPage(t).Heading())
			})

			g.It("displays the title input, save and back buttons", func(t *e2etest.T) {
				p := editorPage(t)
				visible(t, p.TitleInput(), p.SaveButton(), p.BackButton())
			})

			g.It("displays the draft status chip", func(t *e2etest.T) {
				visible(t, editorPage(t).StatusChip(pages.Draft()))
			})
		})

		g.Describe("Form Validation", func(g *e2etest.Group) {
			g.It("requires a title", func(t *e2etest.T) {
				p := editorPage(t)
				t.Require(p.Save(t.Context()))
				visible(t, p.Message(msg.TitleRequired))
			})

			g.It("rejects a title one character over the limit", func(t *e2etest.T) {
				p := editorPage(t)
				t.Require(p.FillTitle(t.Context(), padTo("", env.Data.Limits.DocumentTitle+1)))
				t.Require(p.Save(t.Context()))
				visible(t, p.Message(msg.TooLong))
			})

			g.It("requires content", func(t *e2etest.T) {
				p := editorPage(t)
				t.Require(p.FillTitle(t.Context(), "Test Document"))
				t.Require(p.Save(t.Context()))
				visible(t, p.Message(msg.ContentRequired))
			})
		})

		g.Describe("Tag Management", func(g *e2etest.Group) {
			g.It("adds a tag chip", func(t *e2etest.T) {
				p := editorPage(t)
				t.Require(p.AddTag(t.Context(), "test-tag"))
				visible(t, p.TagChip("test-tag"))
			})
		})

		g.Describe("Navigation", func(g *e2etest.Group) {
			g.It("goes back to the documents list", func(t *e2etest.T) {
				t.Require(editorPage(t).BackButton().Click(t.Context()))
				onRoute(t, documentsURL)
			})
		})

		g.Describe("Save Button State", func(g *e2etest.Group) {
			g.It("keeps the save button after saving a complete document", func(t *e2etest.T) {
				p := editorPage(t)
				t.Require(p.CreateDocument(t.Context(), pages.DocumentDraft{
					Title:   "Test Document " + env.Tokens.Next().String(),
					Content: "Some test content for the document",
				}))
				visible(t, p.SaveButton())
			})
		})
	})

	plan.Describe("Document Detail Page", func(g *e2etest.Group) {
		g.Describe("Without Auth", func(g *e2etest.Group) {
			g.It("redirects to login when not authenticated", func(t *e2etest.T) {
				t.Require(documentsPage(t).Goto(t.Context()))
				onRoute(t, loginURL)
			})
		})
	})
}
