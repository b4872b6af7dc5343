package locator

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/playwright-community/playwright-go"
)

// Role is an ARIA role used for accessible-role queries.
type Role string

const (
	Alert       Role = "alert"
	Button      Role = "button"
	Checkbox    Role = "checkbox"
	Combobox    Role = "combobox"
	Dialog      Role = "dialog"
	Heading     Role = "heading"
	Link        Role = "link"
	Menuitem    Role = "menuitem"
	Option      Role = "option"
	Progressbar Role = "progressbar"
	Tab         Role = "tab"
	Textbox     Role = "textbox"
)

// Pattern is a text matcher for accessible names, labels, visible text and placeholders.
// A plain pattern matches a case-insensitive substring, an exact pattern matches the whole
// trimmed string, and a regex pattern is handed to the browser as a regular expression.
type Pattern struct {
	text  string
	rx    *regexp.Regexp
	exact bool
}

// Str matches a case-insensitive substring.
func Str(s string) Pattern { return Pattern{text: s} }

// Exact matches the full string, case-sensitively.
func Exact(s string) Pattern { return Pattern{text: s, exact: true} }

// Re matches a regular expression. Use "(?i)" for case-insensitive matching.
func Re(expr string) Pattern { return Pattern{rx: regexp.MustCompile(expr)} }

// IsZero is true for the zero Pattern, which means "no name constraint".
func (p Pattern) IsZero() bool { return p.text == "" && p.rx == nil }

func (p Pattern) String() string {
	switch {
	case p.rx != nil:
		return "/" + p.rx.String() + "/"
	case p.exact:
		return strconv.Quote(p.text)
	default:
		return strconv.Quote(p.text) + "i"
	}
}

// value is what playwright accepts for a text argument: a string or a *regexp.Regexp.
func (p Pattern) value() interface{} {
	if p.rx != nil {
		return p.rx
	}
	return p.text
}

func (p Pattern) exactPtr() *bool {
	if p.exact && p.rx == nil {
		return playwright.Bool(true)
	}
	return nil
}

type queryKind int

const (
	byRole queryKind = iota
	byLabel
	byText
	byPlaceholder
	byTestID
	byCSS
)

// query is one semantic descriptor. It is evaluated against a page only when a Locator that
// holds it is acted upon.
type query struct {
	kind    queryKind
	role    Role
	pattern Pattern
	raw     string // test id or CSS selector
}

func (q query) String() string {
	switch q.kind {
	case byRole:
		if q.pattern.IsZero() {
			return fmt.Sprintf("role=%s", q.role)
		}
		return fmt.Sprintf("role=%s[name=%s]", q.role, q.pattern)
	case byLabel:
		return "label=" + q.pattern.String()
	case byText:
		return "text=" + q.pattern.String()
	case byPlaceholder:
		return "placeholder=" + q.pattern.String()
	case byTestID:
		return "testid=" + strconv.Quote(q.raw)
	default:
		return "css=" + q.raw
	}
}

func (q query) on(page playwright.Page) playwright.Locator {
	switch q.kind {
	case byRole:
		opts := playwright.PageGetByRoleOptions{}
		if !q.pattern.IsZero() {
			opts.Name = q.pattern.value()
			opts.Exact = q.pattern.exactPtr()
		}
		return page.GetByRole(playwright.AriaRole(q.role), opts)
	case byLabel:
		return page.GetByLabel(q.pattern.value(), playwright.PageGetByLabelOptions{Exact: q.pattern.exactPtr()})
	case byText:
		return page.GetByText(q.pattern.value(), playwright.PageGetByTextOptions{Exact: q.pattern.exactPtr()})
	case byPlaceholder:
		return page.GetByPlaceholder(q.pattern.value(), playwright.PageGetByPlaceholderOptions{Exact: q.pattern.exactPtr()})
	case byTestID:
		return page.GetByTestId(q.raw)
	default:
		return page.Locator(q.raw)
	}
}
