package locator

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

const contentPreviewLength = 500

// DOMSnapshot is the last-known page state attached to a timeout.
type DOMSnapshot struct {
	Locator string
	URL     string
	Title   string
	Content string
}

// Snapshot captures the page state on a best-effort basis: if the page is already closed, the
// fields it could not read stay empty.
func Snapshot(page playwright.Page, locatorDesc string) DOMSnapshot {
	s := DOMSnapshot{Locator: locatorDesc}
	if page == nil {
		return s
	}
	s.URL = page.URL()
	s.Title, _ = page.Title()
	content, _ := page.Content()
	s.Content = truncate(content, contentPreviewLength)
	return s
}

func (s DOMSnapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "locator: %s\n", s.Locator)
	fmt.Fprintf(&b, "url: %s\n", s.URL)
	fmt.Fprintf(&b, "title: %s\n", s.Title)
	fmt.Fprintf(&b, "content: %s", s.Content)
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
