package pages

import (
	"context"

	"github.com/petelc/NexusPlaywright/framework/errs"
	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

// DocumentsPage is the documents list with its status tabs, search and card grid.
type DocumentsPage struct{ base }

// NewDocumentsPage binds the documents list to s.
func NewDocumentsPage(s *harness.Session) *DocumentsPage { return &DocumentsPage{base{s}} }

// Goto navigates to the page and waits for the DOM to load.
func (p *DocumentsPage) Goto(ctx context.Context) error {
	return p.session.Goto(ctx, DocumentsRoute)
}

// Heading is the main heading of the page.
func (p *DocumentsPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Re(`(?i)documents`))
}

func (p *DocumentsPage) NewDocumentButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)new document`))
}

// SearchInput filters the list as the user types.
func (p *DocumentsPage) SearchInput() *locator.Locator {
	return p.scope().Placeholder(locator.Re(`(?i)search`))
}

func (p *DocumentsPage) ViewToggleButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)view`))
}

func (p *DocumentsPage) SortButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)sort`))
}

// LoadingSpinner is visible while data is being fetched.
func (p *DocumentsPage) LoadingSpinner() *locator.Locator {
	return p.scope().Role(locator.Progressbar, locator.Pattern{})
}

// ErrorAlert matches the alert that reports a failed request.
func (p *DocumentsPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{})
}

// EmptyState is shown when the list has no entries.
func (p *DocumentsPage) EmptyState() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)no documents`))
}

func (p *DocumentsPage) DocumentCards() *locator.Locator {
	return p.scope().CSS(cardSelector)
}

// Tab finds the tab for t. The zero DocumentTab is rejected by SwitchTab, not here.
func (p *DocumentsPage) Tab(t DocumentTab) *locator.Locator {
	return p.scope().Role(locator.Tab, locator.Re(t.pattern))
}

func (p *DocumentsPage) CardByTitle(title string) *locator.Locator {
	return p.DocumentCards().HasText(locator.Str(title))
}

func (p *DocumentsPage) Search(ctx context.Context, term string) error {
	return sequence(ctx, "search documents", fillStep("search", p.SearchInput(), term))
}

func (p *DocumentsPage) SwitchTab(ctx context.Context, t DocumentTab) error {
	if err := t.Valid(); err != nil {
		return err
	}
	return sequence(ctx, "switch documents tab", clickStep(t.name+" tab", p.Tab(t)))
}

// OpenCardMenu opens the overflow menu on the card titled title.
func (p *DocumentsPage) OpenCardMenu(ctx context.Context, title string) error {
	more := p.scope().Role(locator.Button, locator.Re(`(?i)more`)).Within(p.CardByTitle(title)).First()
	return sequence(ctx, "open document menu", clickStep("more", more))
}

func (p *DocumentsPage) ClickNewDocument(ctx context.Context) error {
	return sequence(ctx, "new document", clickStep("new document", p.NewDocumentButton()))
}

// DocumentDraft is the content of a document as entered in the editor.
type DocumentDraft struct {
	Title   string
	Content string
	Tags    []string
}

// CreateDocumentPage is the document editor, used both for new documents and for edits.
type CreateDocumentPage struct{ base }

// NewCreateDocumentPage binds the document editor to s.
func NewCreateDocumentPage(s *harness.Session) *CreateDocumentPage {
	return &CreateDocumentPage{base{s}}
}

// Goto navigates to the page and waits for the DOM to load.
func (p *CreateDocumentPage) Goto(ctx context.Context) error {
	return p.session.Goto(ctx, NewDocumentRoute)
}

// GotoEdit opens the editor for an existing document.
func (p *CreateDocumentPage) GotoEdit(ctx context.Context, documentID string) error {
	return p.session.Goto(ctx, entityRoute(DocumentsRoute, documentID, "edit"))
}

// Heading is the main heading of the page.
func (p *CreateDocumentPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Re(`(?i)create new document|edit document`))
}

func (p *CreateDocumentPage) BackButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)back`))
}

func (p *CreateDocumentPage) SaveButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)save`))
}

// ErrorAlert matches the alert that reports a failed request.
func (p *CreateDocumentPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{})
}

func (p *CreateDocumentPage) TitleInput() *locator.Locator {
	return p.scope().Label(locator.Re(`(?i)title`))
}

func (p *CreateDocumentPage) TagsInput() *locator.Locator {
	return p.scope().Role(locator.Combobox, locator.Re(`(?i)tags`))
}

// StatusChip finds the chip for status, rendered either as a button or as a plain chip.
func (p *CreateDocumentPage) StatusChip(status DocumentStatus) *locator.Locator {
	s := p.scope()
	return s.AnyOf(
		s.Role(locator.Button, locator.Re(status.pattern)),
		s.CSS(chipSelector).HasText(locator.Re(status.pattern)),
	)
}

// TagChip finds an added tag.
func (p *CreateDocumentPage) TagChip(tag string) *locator.Locator {
	return p.scope().CSS(chipSelector).HasText(locator.Str(tag))
}

func (p *CreateDocumentPage) Editor() *locator.Locator {
	return p.scope().CSS(`[contenteditable="true"]`)
}

func (p *CreateDocumentPage) EditorPlaceholder() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)start writing`))
}

func (p *CreateDocumentPage) FillTitle(ctx context.Context, title string) error {
	return sequence(ctx, "fill document title", fillStep("title", p.TitleInput(), title))
}

func (p *CreateDocumentPage) TypeInEditor(ctx context.Context, text string) error {
	return sequence(ctx, "type in editor",
		clickStep("editor", p.Editor()),
		fillStep("editor", p.Editor(), text),
	)
}

func (p *CreateDocumentPage) AddTag(ctx context.Context, tag string) error {
	return sequence(ctx, "add tag",
		fillStep("tags", p.TagsInput(), tag),
		pressStep("tags", p.TagsInput(), "Enter"),
	)
}

func (p *CreateDocumentPage) Save(ctx context.Context) error {
	return sequence(ctx, "save document", clickStep("save", p.SaveButton()))
}

// CreateDocument fills the editor with d and saves.
func (p *CreateDocumentPage) CreateDocument(ctx context.Context, d DocumentDraft) error {
	steps := []step{
		fillStep("title", p.TitleInput(), d.Title),
		clickStep("editor", p.Editor()),
		fillStep("editor", p.Editor(), d.Content),
	}
	for _, tag := range d.Tags {
		steps = append(steps,
			fillStep("tags", p.TagsInput(), tag),
			pressStep("tags", p.TagsInput(), "Enter"))
	}
	steps = append(steps, clickStep("save", p.SaveButton()))
	return sequence(ctx, "create document", steps...)
}

// DocumentDetailPage is the read-only view of one document.
type DocumentDetailPage struct {
	base
	id string
}

// NewDocumentDetailPage binds the detail view of documentID to s. Goto fails when the id is
// empty; the page can still be used after navigating there by clicking a card.
func NewDocumentDetailPage(s *harness.Session, documentID string) *DocumentDetailPage {
	return &DocumentDetailPage{base: base{s}, id: documentID}
}

// Goto navigates to the page and waits for the DOM to load.
func (p *DocumentDetailPage) Goto(ctx context.Context) error {
	if p.id == "" {
		return errs.New(errs.Internal, "DocumentDetailPage has no ID to navigate to")
	}
	return p.session.Goto(ctx, entityRoute(DocumentsRoute, p.id))
}

// Heading is the main heading of the page.
func (p *DocumentDetailPage) Heading() *locator.Locator {
	return p.scope().CSS("h3, h2, h1").First()
}

func (p *DocumentDetailPage) BackButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)back`))
}

func (p *DocumentDetailPage) StatusChip() *locator.Locator {
	return p.scope().CSS(chipSelector).First()
}

// LoadingSpinner is visible while data is being fetched.
func (p *DocumentDetailPage) LoadingSpinner() *locator.Locator {
	return p.scope().Role(locator.Progressbar, locator.Pattern{})
}

func (p *DocumentDetailPage) WordCount() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)words`))
}

func (p *DocumentDetailPage) ReadingTime() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)min read`))
}

func (p *DocumentDetailPage) CreatedDate() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)created`))
}

func (p *DocumentDetailPage) LastUpdated() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)updated`))
}

func (p *DocumentDetailPage) EditButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)edit`))
}

func (p *DocumentDetailPage) DeleteButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)delete`))
}

func (p *DocumentDetailPage) PublishButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)publish`))
}

func (p *DocumentDetailPage) FavoriteButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)favorite|star`))
}

func (p *DocumentDetailPage) VersionHistoryButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)version|history`))
}

func (p *DocumentDetailPage) Tags() *locator.Locator {
	return p.scope().CSS(chipSelector)
}

func (p *DocumentDetailPage) ContentArea() *locator.Locator {
	return p.scope().CSS("[contenteditable]")
}

func (p *DocumentDetailPage) VersionHistorySidebar() *locator.Locator {
	return p.scope().CSS(`[class*="Drawer"], [class*="drawer"]`)
}

func (p *DocumentDetailPage) VersionHistoryTitle() *locator.Locator {
	return p.scope().Text(locator.Re(`(?i)version history`))
}

func (p *DocumentDetailPage) VersionHistoryClose() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)close`))
}

func (p *DocumentDetailPage) VersionItems() *locator.Locator {
	return p.scope().CSS(`[class*="version"], [class*="Version"]`)
}

func (p *DocumentDetailPage) ConfirmDeleteButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)confirm|yes|delete`)).Last()
}

func (p *DocumentDetailPage) Edit(ctx context.Context) error {
	return sequence(ctx, "edit document", clickStep("edit", p.EditButton()))
}

// Delete clicks delete and confirms in the dialog.
func (p *DocumentDetailPage) Delete(ctx context.Context) error {
	return sequence(ctx, "delete document",
		clickStep("delete", p.DeleteButton()),
		clickStep("confirm delete", p.ConfirmDeleteButton()),
	)
}

func (p *DocumentDetailPage) Publish(ctx context.Context) error {
	return sequence(ctx, "publish document", clickStep("publish", p.PublishButton()))
}

func (p *DocumentDetailPage) ToggleFavorite(ctx context.Context) error {
	return sequence(ctx, "toggle favorite", clickStep("favorite", p.FavoriteButton()))
}

func (p *DocumentDetailPage) OpenVersionHistory(ctx context.Context) error {
	return sequence(ctx, "open version history", clickStep("version history", p.VersionHistoryButton()))
}
