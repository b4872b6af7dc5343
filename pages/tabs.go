package pages

import (
	"github.com/petelc/NexusPlaywright/framework/errs"
)

// DocumentTab is a status filter tab on the documents list. Values come only from the
// accessor functions below; the zero value is rejected by Valid.
type DocumentTab struct {
	name    string
	pattern string
}

//nolint:gochecknoglobals
var (
	allDocuments       = DocumentTab{name: "all", pattern: `(?i)all`}
	draftDocuments     = DocumentTab{name: "drafts", pattern: `(?i)draft`}
	publishedDocuments = DocumentTab{name: "published", pattern: `(?i)published`}
	archivedDocuments  = DocumentTab{name: "archived", pattern: `(?i)archived`}
)

func AllDocuments() DocumentTab       { return allDocuments }
func DraftDocuments() DocumentTab     { return draftDocuments }
func PublishedDocuments() DocumentTab { return publishedDocuments }
func ArchivedDocuments() DocumentTab  { return archivedDocuments }

// DocumentTabs lists every documents tab in display order.
func DocumentTabs() []DocumentTab {
	return []DocumentTab{allDocuments, draftDocuments, publishedDocuments, archivedDocuments}
}

// Valid rejects the zero value.
func (t DocumentTab) Valid() error {
	if t.pattern == "" {
		return errs.New(errs.Internal, "uninitialized DocumentTab")
	}
	return nil
}

func (t DocumentTab) String() string { return t.name }

// SnippetTab is an ownership filter tab on the snippets list.
type SnippetTab struct {
	name    string
	pattern string
}

//nolint:gochecknoglobals
var (
	allSnippets    = SnippetTab{name: "all", pattern: `(?i)all`}
	mySnippets     = SnippetTab{name: "my", pattern: `(?i)my snippets`}
	publicSnippets = SnippetTab{name: "public", pattern: `(?i)public`}
)

func AllSnippets() SnippetTab    { return allSnippets }
func MySnippets() SnippetTab     { return mySnippets }
func PublicSnippets() SnippetTab { return publicSnippets }

// SnippetTabs lists every snippets tab in display order.
func SnippetTabs() []SnippetTab {
	return []SnippetTab{allSnippets, mySnippets, publicSnippets}
}

// Valid rejects the zero value.
func (t SnippetTab) Valid() error {
	if t.pattern == "" {
		return errs.New(errs.Internal, "uninitialized SnippetTab")
	}
	return nil
}

func (t SnippetTab) String() string { return t.name }

// DocumentStatus is a document lifecycle state, shown as a chip on the editor.
type DocumentStatus struct {
	name    string
	pattern string
}

//nolint:gochecknoglobals
var (
	draftStatus     = DocumentStatus{name: "draft", pattern: `(?i)draft`}
	publishedStatus = DocumentStatus{name: "published", pattern: `(?i)published`}
	archivedStatus  = DocumentStatus{name: "archived", pattern: `(?i)archived`}
)

func Draft() DocumentStatus     { return draftStatus }
func Published() DocumentStatus { return publishedStatus }
func Archived() DocumentStatus  { return archivedStatus }

// DocumentStatuses lists every status in lifecycle order.
func DocumentStatuses() []DocumentStatus {
	return []DocumentStatus{draftStatus, publishedStatus, archivedStatus}
}

// Valid rejects the zero value.
func (s DocumentStatus) Valid() error {
	if s.pattern == "" {
		return errs.New(errs.Internal, "uninitialized DocumentStatus")
	}
	return nil
}

func (s DocumentStatus) String() string { return s.name }
