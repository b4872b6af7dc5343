package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
)

// Locator construction never touches the page, so a session with no browser is enough to
// check what each page object looks for.
func offlineSession() *harness.Session {
	return &harness.Session{}
}

func TestLocatorDescriptions(t *testing.T) {
	s := offlineSession()
	login := NewLoginPage(s)
	register := NewRegisterPage(s)
	teams := NewTeamsPage(s)
	create := NewCreateDocumentPage(s)

	for _, c := range []struct {
		desc     string
		actual   string
		expected string
	}{
		{"login heading", login.Heading().String(), `role=heading[name="NEXUS"]`},
		{"login submit", login.SubmitButton().String(), `role=button[name=/(?i)sign in/]`},
		{"login email", login.EmailInput().String(), `label="Email"`},
		{"remember me", login.RememberMe().String(), `label="Remember me"i`},
		{"register error alert", register.ErrorAlert().String(), `role=alert >> has-text /(?i)failed|error/`},
		{"team card", teams.CardByName("Ops").String(), `css=[class*="MuiCard-root"] >> has-text "Ops"i`},
		{"team create button", teams.CreateButton().String(), `role=dialog >> role=button[name=/(?i)create team/]`},
		{"draft chip", create.StatusChip(Draft()).String(),
			`any-of(role=button[name=/(?i)draft/] | css=[class*="MuiChip"] >> has-text /(?i)draft/)`},
		{"documents tab", NewDocumentsPage(s).Tab(PublishedDocuments()).String(), `role=tab[name=/(?i)published/]`},
		{"fork confirm", NewSnippetDetailPage(s, "1").ForkConfirmButton().String(), `role=button[name=/(?i)fork|confirm/] >> last`},
		{"message", login.Message("Email is required").String(), `text="Email is required"i`},
	} {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expected, c.actual)
		})
	}
}

func TestLocatorsAreBuiltFreshOnEachCall(t *testing.T) {
	p := NewDocumentsPage(offlineSession())
	a, b := p.DocumentCards(), p.DocumentCards()
	assert.NotSame(t, a, b)
	assert.Equal(t, a.String(), b.String())
}

func TestResetPasswordURL(t *testing.T) {
	assert.Equal(t, "/reset-password", ResetPasswordURL(""))
	assert.Equal(t, "/reset-password?token=test-reset-token-123", ResetPasswordURL("test-reset-token-123"))
	assert.Equal(t, "/reset-password?token=a+b%26c", ResetPasswordURL("a b&c"))
}

func TestEntityRoutes(t *testing.T) {
	assert.Equal(t, "/documents/42/edit", entityRoute(DocumentsRoute, "42", "edit"))
	assert.Equal(t, "/snippets/a%2Fb", entityRoute(SnippetsRoute, "a/b"))
}

func TestDetailPageWithoutIDCannotNavigate(t *testing.T) {
	err := NewSnippetDetailPage(offlineSession(), "").Goto(context.Background())
	assert.True(t, errs.Is(err, errs.Internal))

	err = NewDocumentDetailPage(offlineSession(), "").Goto(context.Background())
	assert.True(t, errs.Is(err, errs.Internal))
}

func TestZeroTabsAreRejected(t *testing.T) {
	p := NewDocumentsPage(offlineSession())
	err := p.SwitchTab(context.Background(), DocumentTab{})
	require.Error(t, err)
	assert.Equal(t, errs.Internal, errs.CodeOf(err))

	err = NewCodeSnippetsPage(offlineSession()).SwitchTab(context.Background(), SnippetTab{})
	assert.Equal(t, errs.Internal, errs.CodeOf(err))

	assert.Error(t, DocumentStatus{}.Valid())
}

func TestDeclaredTabsAreValid(t *testing.T) {
	for _, tab := range DocumentTabs() {
		assert.NoError(t, tab.Valid(), tab.String())
	}
	for _, tab := range SnippetTabs() {
		assert.NoError(t, tab.Valid(), tab.String())
	}
	for _, s := range DocumentStatuses() {
		assert.NoError(t, s.Valid(), s.String())
	}
}

func TestSequenceStopsAtFirstFailureAndKeepsCode(t *testing.T) {
	var ran []string
	ok := func(name string) step {
		return step{name: name, do: func(context.Context) error { ran = append(ran, name); return nil }}
	}
	failing := step{name: "fill email", do: func(context.Context) error {
		ran = append(ran, "fill email")
		return errs.New(errs.LocatorTimeout, "label=\"Email\" never appeared")
	}}

	err := sequence(context.Background(), "login", ok("open"), failing, ok("click"))
	require.Error(t, err)
	assert.Equal(t, []string{"open", "fill email"}, ran)
	assert.Equal(t, errs.LocatorTimeout, errs.CodeOf(err))
	assert.Contains(t, err.Error(), "login: fill email:")
}

func TestSequenceStepsSeeTheCallersContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	var seen interface{}
	err := sequence(ctx, "action", step{name: "s", do: func(ctx context.Context) error {
		seen = ctx.Value(key{})
		return nil
	}})
	require.NoError(t, err)
	assert.Equal(t, "v", seen)
}

func TestSequenceWrapsEveryStepFailure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "steps")
		failAt := rapid.IntRange(0, n-1).Draw(t, "failAt")
		sentinel := errors.New("boom")
		calls := 0
		steps := make([]step, n)
		for i := range steps {
			i := i
			steps[i] = step{name: "s", do: func(context.Context) error {
				calls++
				if i == failAt {
					return sentinel
				}
				return nil
			}}
		}
		err := sequence(context.Background(), "act", steps...)
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped sentinel, got %v", err)
		}
		if calls != failAt+1 {
			t.Fatalf("expected %d calls, got %d", failAt+1, calls)
		}
	})
}

func stepNames(steps []step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.name)
	}
	return names
}

func TestSnippetDraftTypesCodeBeforeSaving(t *testing.T) {
	p := NewCreateSnippetPage(offlineSession())
	names := stepNames(p.draftSteps(SnippetDraft{Title: "t", Language: "Go", Code: "fmt.Println()"}))
	assert.Equal(t, []string{
		"fill title",
		"select language Go",
		"click code editor",
		"type into code editor",
		"click save",
	}, names)

	withoutCode := stepNames(p.draftSteps(SnippetDraft{Title: "t", Language: "Go"}))
	assert.NotContains(t, withoutCode, "type into code editor")
}

func TestWorkspaceCreationPicksTheNamedTeam(t *testing.T) {
	p := NewWorkspacesPage(offlineSession())
	names := stepNames(p.workspaceSteps("Docs", "", "Seed Team 1"))
	assert.Equal(t, []string{
		"click new workspace",
		"fill workspace name",
		"click team",
		"click team Seed Team 1",
		"click create workspace",
	}, names)
	assert.Contains(t, stepNames(p.workspaceSteps("Docs", "about", "x")), "fill description")
}

func TestTabValuesCannotBeReassigned(t *testing.T) {
	tabs := DocumentTabs()
	tabs[0] = DocumentTab{}
	assert.Equal(t, AllDocuments(), DocumentTabs()[0])
	assert.NoError(t, DocumentTabs()[0].Valid())

	snippets := SnippetTabs()
	snippets[1] = SnippetTab{}
	assert.Equal(t, MySnippets(), SnippetTabs()[1])
}
