package pages

import (
	"context"

	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

// CodeSnippetsPage is the snippets list.
type CodeSnippetsPage struct{ base }

// NewCodeSnippetsPage binds the snippets list to s.
func NewCodeSnippetsPage(s *harness.Session) *CodeSnippetsPage { return &CodeSnippetsPage{base{s}} }

// Goto navigates to the page and waits for the DOM to load.
func (p *CodeSnippetsPage) Goto(ctx context.Context) error {
	return p.session.Goto(ctx, SnippetsRoute)
}

// GotoMine opens the list filtered to the current user's snippets.
func (p *CodeSnippetsPage) GotoMine(ctx context.Context) error {
	return p.session.Goto(ctx, MySnippetsRoute)
}

// Heading is the main heading of the page.
func (p *CodeSnippetsPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Re(`(?i)snippets`))
}

func (p *CodeSnippetsPage) NewSnippetButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)new snippet`))
}

// SearchInput filters the list as the user types.
func (p *CodeSnippetsPage) SearchInput() *locator.Locator {
	return p.scope().Placeholder(locator.Re(`(?i)search`))
}

// LoadingSpinner is visible while data is being fetched.
func (p *CodeSnippetsPage) LoadingSpinner() *locator.Locator {
	return p.scope().Role(locator.Progressbar, locator.Pattern{})
}

// ErrorAlert matches the alert that reports a failed request.
func (p *CodeSnippetsPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{})
}

// EmptyState is shown when the list has no entries.
func (p *CodeSnippetsPage) EmptyState() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)no snippets`))
}

func (p *CodeSnippetsPage) SnippetCards() *locator.Locator {
	return p.scope().CSS(cardSelector)
}

func (p *CodeSnippetsPage) Tab(t SnippetTab) *locator.Locator {
	return p.scope().Role(locator.Tab, locator.Re(t.pattern))
}

func (p *CodeSnippetsPage) LanguageFilter() *locator.Locator {
	return p.scope().Role(locator.Combobox, locator.Re(`(?i)language`))
}

func (p *CodeSnippetsPage) CardByTitle(title string) *locator.Locator {
	return p.SnippetCards().HasText(locator.Str(title))
}

func (p *CodeSnippetsPage) Search(ctx context.Context, term string) error {
	return sequence(ctx, "search snippets", fillStep("search", p.SearchInput(), term))
}

func (p *CodeSnippetsPage) SwitchTab(ctx context.Context, t SnippetTab) error {
	if err := t.Valid(); err != nil {
		return err
	}
	return sequence(ctx, "switch snippets tab", clickStep(t.name+" tab", p.Tab(t)))
}

func (p *CodeSnippetsPage) ClickNewSnippet(ctx context.Context) error {
	return sequence(ctx, "new snippet", clickStep("new snippet", p.NewSnippetButton()))
}

// OpenFirstSnippet clicks the first card in the list.
func (p *CodeSnippetsPage) OpenFirstSnippet(ctx context.Context) error {
	return sequence(ctx, "open snippet", clickStep("first card", p.SnippetCards().First()))
}

func (p *CodeSnippetsPage) FilterByLanguage(ctx context.Context, language string) error {
	return sequence(ctx, "filter by language", step{
		name: "select " + language,
		do:   func(ctx context.Context) error { return p.LanguageFilter().SelectOption(ctx, language) },
	})
}

// SnippetDraft is the content of the snippet form. Language is the visible option label.
type SnippetDraft struct {
	Title       string
	Language    string
	Code        string
	Description string
	Tags        []string
}

// CreateSnippetPage is the snippet form.
type CreateSnippetPage struct{ base }

// NewCreateSnippetPage binds the snippet form to s.
func NewCreateSnippetPage(s *harness.Session) *CreateSnippetPage { return &CreateSnippetPage{base{s}} }

// Goto navigates to the page and waits for the DOM to load.
func (p *CreateSnippetPage) Goto(ctx context.Context) error {
	return p.session.Goto(ctx, NewSnippetRoute)
}

// Heading is the main heading of the page.
func (p *CreateSnippetPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Re(`(?i)create|edit|new snippet`))
}

func (p *CreateSnippetPage) TitleInput() *locator.Locator {
	return p.scope().Label(locator.Re(`(?i)title`))
}

func (p *CreateSnippetPage) CodeEditor() *locator.Locator {
	return p.scope().CSS(`[class*="CodeMirror"], [class*="monaco-editor"], textarea[name="code"]`)
}

func (p *CreateSnippetPage) LanguageSelect() *locator.Locator {
	return p.scope().Label(locator.Re(`(?i)language`))
}

func (p *CreateSnippetPage) LanguageVersionInput() *locator.Locator {
	return p.scope().Label(locator.Re(`(?i)version`))
}

func (p *CreateSnippetPage) DescriptionInput() *locator.Locator {
	return p.scope().Label(locator.Re(`(?i)description`))
}

func (p *CreateSnippetPage) TagsInput() *locator.Locator {
	return p.scope().Placeholder(locator.Re(`(?i)add tag|tags`))
}

func (p *CreateSnippetPage) SaveButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)save|create|submit`))
}

func (p *CreateSnippetPage) CancelButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)cancel`))
}

// ErrorAlert matches the alert that reports a failed request.
func (p *CreateSnippetPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{})
}

func (p *CreateSnippetPage) FillTitle(ctx context.Context, title string) error {
	return sequence(ctx, "fill snippet title", fillStep("title", p.TitleInput(), title))
}

func (p *CreateSnippetPage) FillDescription(ctx context.Context, description string) error {
	return sequence(ctx, "fill snippet description", fillStep("description", p.DescriptionInput(), description))
}

func (p *CreateSnippetPage) SelectLanguage(ctx context.Context, language string) error {
	return sequence(ctx, "select snippet language", p.selectLanguageStep(language))
}

func (p *CreateSnippetPage) selectLanguageStep(language string) step {
	return step{
		name: "select language " + language,
		do:   func(ctx context.Context) error { return p.LanguageSelect().SelectOption(ctx, language) },
	}
}

func (p *CreateSnippetPage) AddTag(ctx context.Context, tag string) error {
	return sequence(ctx, "add snippet tag",
		fillStep("tags", p.TagsInput(), tag),
		pressStep("tags", p.TagsInput(), "Enter"),
	)
}

func (p *CreateSnippetPage) Save(ctx context.Context) error {
	return sequence(ctx, "save snippet", clickStep("save", p.SaveButton()))
}

func (p *CreateSnippetPage) Cancel(ctx context.Context) error {
	return sequence(ctx, "cancel snippet", clickStep("cancel", p.CancelButton()))
}

// TypeCode clicks into the code editor and types code.
func (p *CreateSnippetPage) TypeCode(ctx context.Context, code string) error {
	return sequence(ctx, "type snippet code", p.codeSteps(code)...)
}

func (p *CreateSnippetPage) codeSteps(code string) []step {
	return []step{
		clickStep("code editor", p.CodeEditor().First()),
		typeStep("code editor", p.scope(), code),
	}
}

// CreateSnippet fills the form from d and saves. Empty optional fields are left untouched.
func (p *CreateSnippetPage) CreateSnippet(ctx context.Context, d SnippetDraft) error {
	return sequence(ctx, "create snippet", p.draftSteps(d)...)
}

func (p *CreateSnippetPage) draftSteps(d SnippetDraft) []step {
	steps := []step{
		fillStep("title", p.TitleInput(), d.Title),
		p.selectLanguageStep(d.Language),
	}
	if d.Code != "" {
		steps = append(steps, p.codeSteps(d.Code)...)
	}
	if d.Description != "" {
		steps = append(steps, fillStep("description", p.DescriptionInput(), d.Description))
	}
	for _, tag := range d.Tags {
		steps = append(steps,
			fillStep("tags", p.TagsInput(), tag),
			pressStep("tags", p.TagsInput(), "Enter"))
	}
	return append(steps, clickStep("save", p.SaveButton()))
}

// SnippetDetailPage is the view of one snippet. With an empty ID it can still be used for a
// snippet reached by clicking a card, but Goto fails.
type SnippetDetailPage struct {
	base
	id string
}

// NewSnippetDetailPage binds the detail view of snippetID to s. As with documents, an
// empty id only rules out Goto.
func NewSnippetDetailPage(s *harness.Session, snippetID string) *SnippetDetailPage {
	return &SnippetDetailPage{base: base{s}, id: snippetID}
}

// Goto navigates to the page and waits for the DOM to load.
func (p *SnippetDetailPage) Goto(ctx context.Context) error {
	if p.id == "" {
		return errs.New(errs.Internal, "SnippetDetailPage has no ID to navigate to")
	}
	return p.session.Goto(ctx, entityRoute(SnippetsRoute, p.id))
}

func (p *SnippetDetailPage) Title() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Pattern{}).First()
}

func (p *SnippetDetailPage) Language() *locator.Locator {
	s := p.scope()
	return s.AnyOf(s.TestID("language-badge"), s.CSS(`:text-matches("language", "i") + *`))
}

func (p *SnippetDetailPage) Description() *locator.Locator {
	s := p.scope()
	return s.AnyOf(s.TestID("snippet-description"), s.CSS(`[class*="description"]`))
}

func (p *SnippetDetailPage) CodeBlock() *locator.Locator {
	return p.scope().CSS(`pre, [class*="CodeMirror"], [class*="code-block"]`)
}

func (p *SnippetDetailPage) Tags() *locator.Locator {
	return p.scope().CSS(`[class*="tag"], [class*="chip"]`)
}

func (p *SnippetDetailPage) EditButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)edit`))
}

func (p *SnippetDetailPage) DeleteButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)delete`))
}

func (p *SnippetDetailPage) PublishButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)^publish`))
}

func (p *SnippetDetailPage) UnpublishButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)unpublish|make private`))
}

func (p *SnippetDetailPage) ForkButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)fork`))
}

func (p *SnippetDetailPage) CopyButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)copy`))
}

func (p *SnippetDetailPage) ViewCount() *locator.Locator {
	s := p.scope()
	return s.AnyOf(s.TestID("view-count"), s.Text(locator.Re(`(?i)views`)))
}

func (p *SnippetDetailPage) ForkCount() *locator.Locator {
	s := p.scope()
	return s.AnyOf(s.TestID("fork-count"), s.Text(locator.Re(`(?i)forks`)))
}

func (p *SnippetDetailPage) LineCount() *locator.Locator {
	s := p.scope()
	return s.AnyOf(s.TestID("line-count"), s.Text(locator.Re(`(?i)lines`)))
}

func (p *SnippetDetailPage) CreatedByLabel() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)created by`))
}

func (p *SnippetDetailPage) CreatedAtLabel() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)created`))
}

func (p *SnippetDetailPage) DeleteConfirmDialog() *locator.Locator {
	return p.scope().Role(locator.Dialog, locator.Re(`(?i)delete`))
}

func (p *SnippetDetailPage) ForkDialog() *locator.Locator {
	return p.scope().Role(locator.Dialog, locator.Re(`(?i)fork`))
}

func (p *SnippetDetailPage) ForkTitleInput() *locator.Locator {
	return p.scope().Label(locator.Re(`(?i)title`)).Last()
}

func (p *SnippetDetailPage) ForkConfirmButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)fork|confirm`)).Last()
}

func (p *SnippetDetailPage) Edit(ctx context.Context) error {
	return sequence(ctx, "edit snippet", clickStep("edit", p.EditButton()))
}

// Delete clicks delete and confirms inside the confirmation dialog.
func (p *SnippetDetailPage) Delete(ctx context.Context) error {
	confirm := p.scope().Role(locator.Button, locator.Re(`(?i)confirm|delete`)).Within(p.DeleteConfirmDialog())
	return sequence(ctx, "delete snippet",
		clickStep("delete", p.DeleteButton()),
		clickStep("confirm delete", confirm),
	)
}

func (p *SnippetDetailPage) Publish(ctx context.Context) error {
	return sequence(ctx, "publish snippet", clickStep("publish", p.PublishButton()))
}

func (p *SnippetDetailPage) Unpublish(ctx context.Context) error {
	return sequence(ctx, "unpublish snippet", clickStep("unpublish", p.UnpublishButton()))
}

// ForkWithTitle forks the snippet under a new title.
func (p *SnippetDetailPage) ForkWithTitle(ctx context.Context, title string) error {
	return sequence(ctx, "fork snippet",
		clickStep("fork", p.ForkButton()),
		fillStep("fork title", p.ForkTitleInput(), title),
		clickStep("confirm fork", p.ForkConfirmButton()),
	)
}
