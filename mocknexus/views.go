package mocknexus

import (
	"net/http"
	"net/url"

	"github.com/petelc/NexusPlaywright/data"
)

// listPage describes one of the authenticated list screens, always rendered empty.
type listPage struct {
	Route       string
	Title       string
	NewLabel    string
	NewRoute    string
	Placeholder string
	Empty       string
	EmptyCreate string
	Tabs        []string
	FilterLabel string
}

func listPages() []listPage {
	return []listPage{
		{
			Route: "/documents", Title: "Documents", NewLabel: "New Document", NewRoute: "/documents/new",
			Placeholder: "Search documents...", Empty: "No documents found",
			Tabs: []string{"All", "Drafts", "Published", "Archived"},
		},
		{
			Route: "/snippets", Title: "Code Snippets", NewLabel: "New Snippet", NewRoute: "/snippets/new",
			Placeholder: "Search snippets...", Empty: "No snippets found",
			Tabs: []string{"All Snippets", "My Snippets", "Public"}, FilterLabel: "Language",
		},
		{
			Route: "/snippets/my", Title: "Code Snippets", NewLabel: "New Snippet", NewRoute: "/snippets/new",
			Placeholder: "Search snippets...", Empty: "No snippets found",
			Tabs: []string{"All Snippets", "My Snippets", "Public"}, FilterLabel: "Language",
		},
		{
			Route: "/teams", Title: "Teams", NewLabel: "New Team",
			Placeholder: "Search teams...", Empty: "No teams found", EmptyCreate: "Create Team",
		},
		{
			Route: "/workspaces", Title: "Workspaces", NewLabel: "New Workspace",
			Placeholder: "Search workspaces...", Empty: "No workspaces found", EmptyCreate: "Create Workspace",
		},
	}
}

type pageView struct {
	Title     string
	Data      data.SuiteData
	Token     string
	HasToken  bool
	User      string
	List      listPage
	ActiveTab string
}

func (a *App) render(w http.ResponseWriter, name string, view pageView) {
	view.Data = a.data
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, name+".html", view); err != nil {
		a.debugLogger.Printf("Rendering %s failed: %s", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (a *App) servePage(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.render(w, name, pageView{Title: title})
	}
}

func (a *App) serveResetPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	a.render(w, "reset_password", pageView{Title: "Reset Password", Token: token, HasToken: token != ""})
}

func (a *App) serveDashboard(w http.ResponseWriter, r *http.Request) {
	email, _ := a.sessions.lookup(r)
	a.render(w, "dashboard", pageView{Title: "Dashboard", User: email})
}

func (a *App) serveList(l listPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, _ := a.sessions.lookup(r)
		view := pageView{Title: l.Title, User: email, List: l}
		if len(l.Tabs) > 0 {
			view.ActiveTab = l.Tabs[0]
			if l.Route == "/snippets/my" {
				view.ActiveTab = l.Tabs[1]
			}
		}
		a.render(w, "list", view)
	}
}

// requireSession sends visitors without a session to the login page.
func (a *App) requireSession(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.sessions.lookup(r); !ok {
			target := "/login?" + url.Values{"returnTo": []string{r.URL.Path}}.Encode()
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		h(w, r)
	}
}
