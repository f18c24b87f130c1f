package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseTestdata(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "tools.yaml"))
	require.NoError(t, err)

	tools, err := Parse(string(data))
	require.NoError(t, err)

	want := []Tool{
		{
			Title:       "CryoUtilities",
			Description: `Scripts and utilities to improve performance.\nSwap, VRAM and huge pages tuning.`,
			Repo:        "https://github.com/CryoByte33/steam-deck-utilities",
			NeedsRoot:   true,
			Note:        strPtr("Reboot after applying the recommended settings."),
		},
		{
			Title:       "Decky Loader",
			Description: "A plugin loader for the Steam Deck.",
			Repo:        "https://github.com/SteamDeckHomebrew/decky-loader",
			NeedsRoot:   true,
		},
		{
			Title:       "Rwfus",
			Description: `Like a vinyl couch cover, but for your filesystem.\nOverlays a writable /usr.`,
			Repo:        "https://github.com/ValShaped/rwfus",
		},
	}
	if diff := cmp.Diff(want, tools); diff != "" {
		t.Fatalf("tools mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, doc := range []string{"[]", "", "   \n"} {
		tools, err := Parse(doc)
		require.NoError(t, err, "doc %q", doc)
		assert.Empty(t, tools, "doc %q", doc)
	}
}

func TestParseMissingRequiredField(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		missing string
	}{
		{
			name:    "needs_root",
			doc:     "- title: A\n  description: d\n  repo: r\n",
			missing: "needs_root",
		},
		{
			name:    "title",
			doc:     "- description: d\n  repo: r\n  needs_root: false\n",
			missing: "title",
		},
		{
			name:    "repo",
			doc:     "- title: A\n  description: d\n  needs_root: false\n",
			missing: "repo",
		},
		{
			name:    "description",
			doc:     "- title: A\n  repo: r\n  needs_root: false\n",
			missing: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			require.ErrorIs(t, err, ErrMalformed)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Detail, `"`+tt.missing+`"`)
			assert.Contains(t, pe.Detail, "entry 0")
		})
	}
}

func TestParseFalseNeedsRootIsPresent(t *testing.T) {
	tools, err := Parse("- title: A\n  description: d\n  repo: r\n  needs_root: false\n")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.False(t, tools[0].NeedsRoot)
	assert.Nil(t, tools[0].Note)
}

func TestParseReportsFirstProblem(t *testing.T) {
	doc := "- title: A\n  description: d\n  repo: r\n  needs_root: false\n" +
		"- title: B\n  repo: r\n" +
		"- title: C\n"
	_, err := Parse(doc)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "entry 1")
	assert.Contains(t, err.Error(), `"description"`)
}

func TestParseWrongType(t *testing.T) {
	_, err := Parse("- title: A\n  description: d\n  repo: r\n  needs_root: [1, 2]\n")
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "bool")
}

func TestParseNullEntry(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		entry string
	}{
		{"between tools", "- title: A\n  description: a\n  repo: r\n  needs_root: false\n-\n- title: B\n  description: b\n  repo: r\n  needs_root: false\n", "entry 1"},
		{"only entry", "- \n", "entry 0"},
		{"explicit null", "- ~\n", "entry 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools, err := Parse(tt.doc)
			require.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, tools)
			assert.ErrorContains(t, err, tt.entry+": not a mapping")
		})
	}
}

func TestParseNotAList(t *testing.T) {
	_, err := Parse("title: A\ndescription: d\n")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("- title: [unterminated\n")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseEmptyTitle(t *testing.T) {
	_, err := Parse("- title: \"  \"\n  description: d\n  repo: r\n  needs_root: false\n")
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "title is empty")
}

func TestParseDuplicateSlug(t *testing.T) {
	doc := "- title: My Tool\n  description: d\n  repo: r\n  needs_root: false\n" +
		"- title: mytool\n  description: d\n  repo: r\n  needs_root: false\n"
	_, err := Parse(doc)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "mytool.sh")
}

func TestParsePreservesOrderAndCount(t *testing.T) {
	var b strings.Builder
	titles := []string{"Zeta", "Alpha", "Mid Tool", "Beta"}
	for _, title := range titles {
		b.WriteString("- title: " + title + "\n  description: x\n  repo: https://x\n  needs_root: true\n")
	}

	tools, err := Parse(b.String())
	require.NoError(t, err)
	require.Len(t, tools, len(titles))
	for i, title := range titles {
		assert.Equal(t, title, tools[i].Title)
	}
}
