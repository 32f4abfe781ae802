package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/orgtree/internal/parser"
)

const sampleOrg = `:PROPERTIES:
:ID: 11111111-2222-3333-4444-555555555555
:ROAM_ALIASES: "Alpha" "Beta"
:ROAM_REFS: https://example.com @key2024
:END:
#+title: Sample Note
#+filetags: :project:work:

Intro with [[id:123e4567-e89b-12d3-a456-426614174000][a link]].

* TODO [#A] Write the parser :code:
SCHEDULED: <2024-01-15 Mon> DEADLINE: <2024-01-20 Sat>
Details here.
** DONE Sub task
CLOSED: [2024-01-10 Wed]
* Notes
- first
- second
  1. nested
#+BEGIN_SRC go
fmt.Println("hi")
#+END_SRC
#+BEGIN_QUOTE
Quoted.
#+END_QUOTE
#+BEGIN_WARNING
Careful.
#+END_WARNING
[[file:diagram.png]]
`

func mustParse(t *testing.T, content string) *parser.Root {
	t.Helper()
	root, err := parser.ParseOrg(content)
	require.NoError(t, err)
	return root
}

func TestOrgToMarkdown(t *testing.T) {
	idMap := map[string]string{
		"123e4567-e89b-12d3-a456-426614174000": "Related Note",
	}

	md, err := OrgToMarkdown(mustParse(t, sampleOrg), idMap, DefaultOptions())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(md, "---\n"), "front matter first:\n%s", md)

	parts := strings.SplitN(strings.TrimPrefix(md, "---\n"), "\n---\n\n", 2)
	require.Len(t, parts, 2)

	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[0]), &fm))
	assert.Equal(t, frontMatter{
		ID:      "11111111-2222-3333-4444-555555555555",
		Title:   "Sample Note",
		Aliases: []string{"Alpha", "Beta"},
		Tags:    []string{"project", "work"},
		Refs:    []string{"https://example.com", "@key2024"},
	}, fm)

	want := strings.Join([]string{
		"Intro with [[Related Note|a link]].",
		"# - [ ] Write the parser #code\n⏳ 2024-01-15\n📅 2024-01-20\nPriority: high",
		"Details here.",
		"## - [x] Sub task\n✅ 2024-01-10",
		"# Notes",
		"- first\n- second\n  1. nested",
		"```go\nfmt.Println(\"hi\")\n```",
		"> Quoted.",
		"> [!warning]\n> Careful.",
		"![[diagram.png]]",
	}, "\n\n")
	assert.Equal(t, want, parts[1])
}

func TestOrgToMarkdown_NoFrontMatter(t *testing.T) {
	md, err := OrgToMarkdown(mustParse(t, "* Plain heading\ntext\n"), nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "# Plain heading\n\ntext", md)
}

func TestOrgToMarkdown_CustomKeywords(t *testing.T) {
	opts := Options{TodoKeywords: []string{"NEXT"}, DoneKeywords: []string{"CANCELLED"}}
	md, err := OrgToMarkdown(mustParse(t, "* NEXT Call Bob\n* CANCELLED Trip\n* TODO not a keyword here\n"), nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "# - [ ] Call Bob\n\n# - [x] Trip\n\n# TODO not a keyword here", md)
}

func TestOrgToMarkdown_Blocks(t *testing.T) {
	tests := []struct {
		name string
		org  string
		want string
	}{
		{
			name: "example is a callout",
			org:  "#+BEGIN_EXAMPLE\nsample\n#+END_EXAMPLE",
			want: "> [!example]\n> sample",
		},
		{
			name: "quote keeps paragraph breaks",
			org:  "#+BEGIN_QUOTE\nOne.\n\nTwo.\n#+END_QUOTE",
			want: "> One.\n>\n> Two.",
		},
		{
			name: "comment is dropped",
			org:  "#+BEGIN_COMMENT\nhidden\n#+END_COMMENT\nshown",
			want: "shown",
		},
		{
			name: "markdown export passes through",
			org:  "#+BEGIN_EXPORT markdown\n| a | b |\n#+END_EXPORT",
			want: "| a | b |",
		},
		{
			name: "latex export is dropped",
			org:  "#+BEGIN_EXPORT latex\n\\LaTeX\n#+END_EXPORT",
			want: "",
		},
		{
			name: "unknown special block becomes text",
			org:  "#+BEGIN_ASIDE\nby the way\n#+END_ASIDE",
			want: "by the way",
		},
		{
			name: "src without language",
			org:  "#+BEGIN_SRC\nx\n#+END_SRC",
			want: "```\nx\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := OrgToMarkdown(mustParse(t, tt.org), nil, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, md)
		})
	}
}

// TestAllObsidianCalloutTypes tests all Obsidian callout types
func TestAllObsidianCalloutTypes(t *testing.T) {
	for name := range callouts {
		t.Run(name, func(t *testing.T) {
			org := "#+BEGIN_" + strings.ToUpper(name) + "\nThis is content.\n#+END_" + strings.ToUpper(name)
			md, err := OrgToMarkdown(mustParse(t, org), nil, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, "> [!"+name+"]\n> This is content.", md)
		})
	}
}

func TestNodeToMarkdown(t *testing.T) {
	root := mustParse(t, "* A\n** B\nbody\n* C\n")
	b := root.Body[0].(*parser.Node).Body[0].(*parser.Node)
	assert.Equal(t, "## B\n\nbody", NodeToMarkdown(b, nil, DefaultOptions()))
}

func TestConvertOrgLinks(t *testing.T) {
	idMap := map[string]string{"abc": "Target Note"}

	tests := []struct {
		input    string
		expected string
	}{
		{"[[id:abc][Shown]]", "[[Target Note|Shown]]"},
		{"[[id:abc]]", "[[Target Note]]"},
		{"[[id:unknown][x]]", "[[unknown|x]]"},
		{"see [[id:abc]] and [[id:abc][again]]", "see [[Target Note]] and [[Target Note|again]]"},
		{"[[https://example.com][web]]", "[[https://example.com][web]]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertOrgLinks(tt.input, idMap))
		})
	}
}

func TestConvertOrgEmbeds(t *testing.T) {
	assert.Equal(t, "![[other note]]", convertOrgEmbeds("# EMBED: other note"))
	assert.Equal(t, "  ![[img.png]]", convertOrgEmbeds("  # EMBED: img.png"))
	assert.Equal(t, "look ![[a.png]]", convertOrgEmbeds("look [[file:a.png]]"))
}

func TestParseOrgAliasesAndTags(t *testing.T) {
	assert.Equal(t, []string{"One", "Two words"}, parseOrgAliases(`"One" "Two words"`))
	assert.Nil(t, parseOrgAliases("unquoted"))
	assert.Equal(t, []string{"a", "b"}, parseOrgTags(" :a:b: "))
	assert.Nil(t, parseOrgTags("::"))
}

func TestFrontMatter_Empty(t *testing.T) {
	fm, err := FrontMatter(mustParse(t, "#+author: me\n"))
	require.NoError(t, err)
	assert.Empty(t, fm)
}
