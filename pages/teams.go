package pages

import (
	"context"

	"github.com/petelc/NexusPlaywright/framework/harness"
	"github.com/petelc/NexusPlaywright/framework/locator"
)

// TeamsPage is the teams list with its create and members dialogs.
type TeamsPage struct{ base }

// NewTeamsPage binds the teams page to s.
func NewTeamsPage(s *harness.Session) *TeamsPage { return &TeamsPage{base{s}} }

// Goto navigates to the page and waits for the DOM to load.
func (p *TeamsPage) Goto(ctx context.Context) error { return p.session.Goto(ctx, TeamsRoute) }

// Heading is the main heading of the page.
func (p *TeamsPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("Teams"))
}

func (p *TeamsPage) NewTeamButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)new team`))
}

// SearchInput filters the list as the user types.
func (p *TeamsPage) SearchInput() *locator.Locator {
	return p.scope().Placeholder(locator.Exact("Search teams..."))
}

func (p *TeamsPage) ViewToggleButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)view`))
}

// LoadingSpinner is visible while data is being fetched.
func (p *TeamsPage) LoadingSpinner() *locator.Locator {
	return p.scope().Role(locator.Progressbar, locator.Pattern{})
}

// ErrorAlert matches the alert that reports a failed request.
func (p *TeamsPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)failed to load`))
}

// EmptyState is shown when the list has no entries.
func (p *TeamsPage) EmptyState() *locator.Locator {
	return p.scope().Text(locator.Exact("No teams found"))
}

func (p *TeamsPage) EmptyStateCreateButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Exact("Create Team"))
}

func (p *TeamsPage) TeamCards() *locator.Locator {
	return p.scope().CSS(cardSelector)
}

func (p *TeamsPage) CardByName(name string) *locator.Locator {
	return p.TeamCards().HasText(locator.Str(name))
}

// CardText finds text inside card, e.g. the member count or the Owner chip.
func (p *TeamsPage) CardText(card *locator.Locator, text locator.Pattern) *locator.Locator {
	return p.scope().Text(text).Within(card)
}

// CardMenuButton is the overflow button of card.
func (p *TeamsPage) CardMenuButton(card *locator.Locator) *locator.Locator {
	return p.scope().Role(locator.Button, locator.Pattern{}).Within(card).First()
}

func (p *TeamsPage) ManageMembersMenuItem() *locator.Locator {
	return p.scope().Text(locator.Exact("Manage Members"))
}

func (p *TeamsPage) CreateDialog() *locator.Locator {
	return p.scope().Role(locator.Dialog, locator.Pattern{})
}

func (p *TeamsPage) CreateDialogTitle() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("Create New Team"))
}

func (p *TeamsPage) TeamNameInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Team Name"))
}

func (p *TeamsPage) TeamDescriptionInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Description"))
}

func (p *TeamsPage) CreateButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)create team`)).Within(p.CreateDialog())
}

func (p *TeamsPage) CancelButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)cancel`))
}

func (p *TeamsPage) CreateDialogError() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)failed to create`))
}

func (p *TeamsPage) MembersDialog() *locator.Locator {
	return p.scope().Role(locator.Dialog, locator.Pattern{})
}

func (p *TeamsPage) MembersDialogTitle() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("Team Members"))
}

func (p *TeamsPage) MembersDialogClose() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)close`))
}

func (p *TeamsPage) OpenCreateDialog(ctx context.Context) error {
	return sequence(ctx, "open create team dialog", clickStep("new team", p.NewTeamButton()))
}

// CreateTeam opens the dialog, fills it and submits. An empty description is left blank.
func (p *TeamsPage) CreateTeam(ctx context.Context, name, description string) error {
	steps := []step{
		clickStep("new team", p.NewTeamButton()),
		fillStep("team name", p.TeamNameInput(), name),
	}
	if description != "" {
		steps = append(steps, fillStep("description", p.TeamDescriptionInput(), description))
	}
	steps = append(steps, clickStep("create team", p.CreateButton()))
	return sequence(ctx, "create team", steps...)
}

func (p *TeamsPage) OpenCardMenu(ctx context.Context, name string) error {
	more := p.scope().Role(locator.Button, locator.Re(`(?i)more`)).Within(p.CardByName(name)).First()
	return sequence(ctx, "open team menu", clickStep("more", more))
}

// OpenMembers clicks the first team card, which opens its members dialog.
func (p *TeamsPage) OpenMembers(ctx context.Context) error {
	return sequence(ctx, "open team members", clickStep("first team card", p.TeamCards().First()))
}

// WorkspacesPage is the workspaces list with its create dialog.
type WorkspacesPage struct{ base }

// NewWorkspacesPage binds the workspaces page to s.
func NewWorkspacesPage(s *harness.Session) *WorkspacesPage { return &WorkspacesPage{base{s}} }

// Goto navigates to the page and waits for the DOM to load.
func (p *WorkspacesPage) Goto(ctx context.Context) error {
	return p.session.Goto(ctx, WorkspacesRoute)
}

// Heading is the main heading of the page.
func (p *WorkspacesPage) Heading() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("Workspaces"))
}

func (p *WorkspacesPage) NewWorkspaceButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)new workspace`))
}

// SearchInput filters the list as the user types.
func (p *WorkspacesPage) SearchInput() *locator.Locator {
	return p.scope().Placeholder(locator.Exact("Search workspaces..."))
}

func (p *WorkspacesPage) ViewToggleButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)view`))
}

// LoadingSpinner is visible while data is being fetched.
func (p *WorkspacesPage) LoadingSpinner() *locator.Locator {
	return p.scope().Role(locator.Progressbar, locator.Pattern{})
}

// ErrorAlert matches the alert that reports a failed request.
func (p *WorkspacesPage) ErrorAlert() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)failed to load`))
}

// EmptyState is shown when the list has no entries.
func (p *WorkspacesPage) EmptyState() *locator.Locator {
	return p.scope().Text(locator.Exact("No workspaces found"))
}

func (p *WorkspacesPage) EmptyStateCreateButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Exact("Create Workspace"))
}

func (p *WorkspacesPage) WorkspaceCards() *locator.Locator {
	return p.scope().CSS(cardSelector)
}

func (p *WorkspacesPage) CardByName(name string) *locator.Locator {
	return p.WorkspaceCards().HasText(locator.Str(name))
}

func (p *WorkspacesPage) CardText(card *locator.Locator, text locator.Pattern) *locator.Locator {
	return p.scope().Text(text).Within(card)
}

func (p *WorkspacesPage) CreateDialog() *locator.Locator {
	return p.scope().Role(locator.Dialog, locator.Pattern{})
}

func (p *WorkspacesPage) CreateDialogTitle() *locator.Locator {
	return p.scope().Role(locator.Heading, locator.Exact("Create New Workspace"))
}

func (p *WorkspacesPage) WorkspaceNameInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Workspace Name"))
}

func (p *WorkspacesPage) WorkspaceDescriptionInput() *locator.Locator {
	return p.scope().Label(locator.Exact("Description"))
}

func (p *WorkspacesPage) TeamSelect() *locator.Locator {
	return p.scope().Label(locator.Exact("Team"))
}

// TeamOptions are the entries of the open team dropdown.
func (p *WorkspacesPage) TeamOptions() *locator.Locator {
	return p.scope().Role(locator.Option, locator.Pattern{})
}

func (p *WorkspacesPage) CreateButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)create workspace`)).Within(p.CreateDialog())
}

func (p *WorkspacesPage) CancelButton() *locator.Locator {
	return p.scope().Role(locator.Button, locator.Re(`(?i)cancel`))
}

func (p *WorkspacesPage) CreateDialogError() *locator.Locator {
	return p.scope().Role(locator.Alert, locator.Pattern{}).HasText(locator.Re(`(?i)failed to create`))
}

func (p *WorkspacesPage) OpenCreateDialog(ctx context.Context) error {
	return sequence(ctx, "open create workspace dialog", clickStep("new workspace", p.NewWorkspaceButton()))
}

// CreateWorkspace opens the dialog, fills it, picks team from the dropdown and submits. An
// empty description is left blank.
func (p *WorkspacesPage) CreateWorkspace(ctx context.Context, name, description, team string) error {
	return sequence(ctx, "create workspace", p.workspaceSteps(name, description, team)...)
}

func (p *WorkspacesPage) workspaceSteps(name, description, team string) []step {
	steps := []step{
		clickStep("new workspace", p.NewWorkspaceButton()),
		fillStep("workspace name", p.WorkspaceNameInput(), name),
	}
	if description != "" {
		steps = append(steps, fillStep("description", p.WorkspaceDescriptionInput(), description))
	}
	return append(steps,
		clickStep("team", p.TeamSelect()),
		clickStep("team "+team, p.TeamOptions().HasText(locator.Str(team)).First()),
		clickStep("create workspace", p.CreateButton()),
	)
}

func (p *WorkspacesPage) Search(ctx context.Context, term string) error {
	return sequence(ctx, "search workspaces", fillStep("search", p.SearchInput(), term))
}

// OpenFirstWorkspace clicks the first card, which makes it the current workspace.
func (p *WorkspacesPage) OpenFirstWorkspace(ctx context.Context) error {
	return sequence(ctx, "open workspace", clickStep("first workspace card", p.WorkspaceCards().First()))
}
