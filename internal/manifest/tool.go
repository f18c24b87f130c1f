// Package manifest defines the Tool record and decodes the remote tool
// manifest into an ordered list of tools.
package manifest

import "strings"

// Tool is one entry of the manifest. Records are never mutated after parse.
type Tool struct {
	Title       string
	Description string
	Repo        string
	NeedsRoot   bool
	Note        *string // nil when the manifest has no note
}

// Slug returns the key used to locate the tool's install script.
func (t Tool) Slug() string { return Slug(t.Title) }

// HasNote reports whether the manifest carries a note for the tool.
func (t Tool) HasNote() bool { return t.Note != nil && *t.Note != "" }

// NoteText returns the note, or "" when absent.
func (t Tool) NoteText() string {
	if t.Note == nil {
		return ""
	}
	return *t.Note
}

// DescriptionLines splits the description on the literal two-character
// sequence `\n` used by the manifest, as well as on real newlines.
func (t Tool) DescriptionLines() []string {
	return strings.Split(t.DisplayDescription(), "\n")
}

// DisplayDescription returns the description with literal `\n` sequences
// expanded into line breaks.
func (t Tool) DisplayDescription() string {
	return strings.ReplaceAll(t.Description, `\n`, "\n")
}

// Slug lower-cases title and removes every space.
//
//	Slug("CryoUtilities") == "cryoutilities"
//	Slug("My Tool")       == "mytool"
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "")
}
