package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/orgtree/internal/parser"
)

func parse(t *testing.T, lines ...string) *parser.Root {
	t.Helper()
	root, err := parser.Parse(lines)
	require.NoError(t, err)
	return root
}

func parseErr(t *testing.T, lines ...string) *parser.ParseError {
	t.Helper()
	root, err := parser.Parse(lines)
	require.Error(t, err)
	assert.Nil(t, root, "a failed parse must not return a partial tree")
	var pe *parser.ParseError
	require.True(t, errors.As(err, &pe), "error %v is not a *ParseError", err)
	return pe
}

func TestParse_Empty(t *testing.T) {
	root := parse(t)
	assert.Empty(t, root.Properties)
	assert.Empty(t, root.Body)

	root = parse(t, "", "   ", "\t")
	assert.Empty(t, root.Properties)
	assert.Empty(t, root.Body)
}

func TestParse_OutlineScenario(t *testing.T) {
	root := parse(t,
		"* Top",
		":PROPERTIES:",
		":ID: 123",
		":END:",
		"Some text.",
		"** Sub",
		"- item1",
		"- item2",
		"  - nested",
		"#+BEGIN_SRC",
		"code line",
		"#+END_SRC",
	)

	want := &parser.Root{
		Body: []parser.Element{
			&parser.Node{
				Headline:   "* Top",
				Line:       1,
				Properties: []parser.Property{{Name: "ID", Value: "123"}},
				Body: []parser.Element{
					&parser.Text{Lines: []string{"Some text."}},
					&parser.Node{
						Headline: "** Sub",
						Line:     6,
						Body: []parser.Element{
							&parser.List{Type: parser.Dash, Items: []parser.Item{
								{Text: parser.Text{Lines: []string{"item1"}}},
								{
									Text: parser.Text{Lines: []string{"item2"}},
									Sub: &parser.List{Type: parser.Dash, Items: []parser.Item{
										{Text: parser.Text{Lines: []string{"nested"}}},
									}},
								},
							}},
							&parser.Block{Type: parser.BlockCode, Lines: []string{"code line"}},
						},
					},
				},
			},
		},
	}
	assert.Equal(t, want, root)
}

func TestParse_SiblingHeadlines(t *testing.T) {
	root := parse(t, "* A", "* B")
	require.Len(t, root.Body, 2)
	a := root.Body[0].(*parser.Node)
	b := root.Body[1].(*parser.Node)
	assert.Equal(t, "* A", a.Headline)
	assert.Equal(t, "* B", b.Headline)
	assert.Empty(t, a.Body)
	assert.Empty(t, b.Body)
}

func TestParse_HeadlineNesting(t *testing.T) {
	root := parse(t,
		"* A",
		"*** deep",
		"** B",
		"text under B",
		"*** C",
		"* D",
	)
	require.Len(t, root.Body, 2)

	a := root.Body[0].(*parser.Node)
	require.Len(t, a.Body, 2, "a level-3 and a level-2 headline both nest directly under A")
	assert.Equal(t, "*** deep", a.Body[0].(*parser.Node).Headline)

	b := a.Body[1].(*parser.Node)
	assert.Equal(t, "** B", b.Headline)
	require.Len(t, b.Body, 2)
	assert.Equal(t, &parser.Text{Lines: []string{"text under B"}}, b.Body[0])
	assert.Equal(t, "*** C", b.Body[1].(*parser.Node).Headline)

	assert.Equal(t, "* D", root.Body[1].(*parser.Node).Headline)
}

func TestParse_LevelIsStarCount(t *testing.T) {
	root := parse(t,
		"* one",
		"** two",
		"***** five",
		"**\ttab separated",
		"* ",
	)

	var walk func(body []parser.Element)
	count := 0
	walk = func(body []parser.Element) {
		for _, e := range body {
			n, ok := e.(*parser.Node)
			if !ok {
				continue
			}
			count++
			stars := len(n.Headline) - len(strings.TrimLeft(n.Headline, "*"))
			assert.Equal(t, stars, n.Level(), "headline %q", n.Headline)
			walk(n.Body)
		}
	}
	walk(root.Body)
	assert.Equal(t, 5, count)
}

func TestParse_RootDrawerAndKeywords(t *testing.T) {
	root := parse(t,
		":PROPERTIES:",
		":ID: abc",
		":ROAM_ALIASES: \"One\" \"Two\"",
		":END:",
		"#+title: Notes",
		"#+filetags: :a:b:",
		"",
		"Intro.",
	)
	assert.Equal(t, []parser.Property{
		{Name: "ID", Value: "abc"},
		{Name: "ROAM_ALIASES", Value: `"One" "Two"`},
		{Name: "title", Value: "Notes", Keyword: true},
		{Name: "filetags", Value: ":a:b:", Keyword: true},
	}, root.Properties)
	assert.Equal(t, []parser.Element{&parser.Text{Lines: []string{"Intro."}}}, root.Body)

	v, ok := root.Property("TITLE")
	assert.True(t, ok)
	assert.Equal(t, "Notes", v)
}

func TestParse_DuplicatePropertiesKeptInOrder(t *testing.T) {
	root := parse(t,
		"* H",
		":PROPERTIES:",
		":TAG: one",
		":EMPTY:",
		":TAG: two",
		":END:",
	)
	n := root.Body[0].(*parser.Node)
	assert.Equal(t, []parser.Property{
		{Name: "TAG", Value: "one"},
		{Name: "EMPTY", Value: ""},
		{Name: "TAG", Value: "two"},
	}, n.Properties)
}

func TestParse_AffiliatedKeywords(t *testing.T) {
	root := parse(t,
		"#+NAME: hello",
		"#+HEADER: :exports both",
		"#+BEGIN_SRC go :tangle main.go",
		"package main",
		"#+END_SRC",
	)
	assert.Empty(t, root.Properties, "affiliated keywords belong to the block")
	require.Len(t, root.Body, 1)
	b := root.Body[0].(*parser.Block)
	assert.Equal(t, parser.BlockCode, b.Type)
	assert.Equal(t, "go :tangle main.go", b.Parameters)
	assert.Equal(t, "go", b.Language())
	assert.Equal(t, map[string]string{"tangle": "main.go"}, b.HeaderArgs())
	assert.Equal(t, []parser.Property{
		{Name: "NAME", Value: "hello", Keyword: true},
		{Name: "HEADER", Value: ":exports both", Keyword: true},
	}, b.Properties)
}

func TestParse_BlockIsVerbatim(t *testing.T) {
	interior := []string{
		"* not a headline",
		":PROPERTIES:",
		"- not a list",
		"",
		"   indented\twith tab  ",
		"#+END_EXAMPLE",
		"#+BEGIN_QUOTE",
		"***",
	}
	lines := append([]string{"#+begin_src python"}, interior...)
	lines = append(lines, "  #+end_src  ", "after")

	root := parse(t, lines...)
	require.Len(t, root.Body, 2)
	b := root.Body[0].(*parser.Block)
	assert.Equal(t, interior, b.Lines)
	assert.Equal(t, strings.Join(interior, "\n"), strings.Join(b.Lines, "\n"))
	assert.Equal(t, "python", b.Language())
	assert.Equal(t, &parser.Text{Lines: []string{"after"}}, root.Body[1])
}

func TestParse_SpecialBlocks(t *testing.T) {
	root := parse(t,
		"#+BEGIN_QUOTE",
		"To be.",
		"#+END_QUOTE",
		"#+BEGIN_NOTE",
		"Callout",
		"#+END_NOTE",
		"#+BEGIN_EXAMPLE",
		"#+END_EXAMPLE",
	)
	require.Len(t, root.Body, 3)
	assert.Equal(t, parser.BlockQuote, root.Body[0].(*parser.Block).Type)
	assert.Equal(t, parser.BlockType("NOTE"), root.Body[1].(*parser.Block).Type)
	empty := root.Body[2].(*parser.Block)
	assert.Equal(t, parser.BlockExample, empty.Type)
	assert.Empty(t, empty.Lines)
	assert.Empty(t, empty.Language())
}

func TestParse_TextParagraphs(t *testing.T) {
	root := parse(t,
		"First line",
		"  second line kept raw",
		"",
		"*emphasis* is not a headline",
		":END: outside a drawer is text",
		"#+END_SRC outside a block is text",
	)
	assert.Equal(t, []parser.Element{
		&parser.Text{Lines: []string{"First line", "  second line kept raw"}},
		&parser.Text{Lines: []string{
			"*emphasis* is not a headline",
			":END: outside a drawer is text",
			"#+END_SRC outside a block is text",
		}},
	}, root.Body)
}

func TestParse_TextEndsAtStructure(t *testing.T) {
	root := parse(t,
		"para",
		"- item",
		"para two",
		"#+title: x",
	)
	require.Len(t, root.Body, 3)
	assert.IsType(t, &parser.Text{}, root.Body[0])
	assert.IsType(t, &parser.List{}, root.Body[1])
	assert.IsType(t, &parser.Text{}, root.Body[2])
	assert.Len(t, root.Properties, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		kind  error
		line  int
	}{
		{
			name:  "drawer missing end",
			lines: []string{"* H", ":PROPERTIES:", ":ID: 1"},
			kind:  parser.ErrMalformedDrawer,
			line:  2,
		},
		{
			name:  "plain line inside drawer",
			lines: []string{"* H", ":PROPERTIES:", ":ID: 1", "not a property", ":END:"},
			kind:  parser.ErrMalformedDrawer,
			line:  4,
		},
		{
			name:  "blank line inside drawer",
			lines: []string{":PROPERTIES:", "", ":END:"},
			kind:  parser.ErrMalformedDrawer,
			line:  2,
		},
		{
			name:  "unterminated block",
			lines: []string{"* H", "#+BEGIN_SRC go", "fmt.Println()"},
			kind:  parser.ErrUnterminatedBlock,
			line:  2,
		},
		{
			name:  "block closed with the wrong type",
			lines: []string{"#+BEGIN_SRC", "x", "#+END_EXAMPLE"},
			kind:  parser.ErrUnterminatedBlock,
			line:  1,
		},
		{
			name:  "stars without separator",
			lines: []string{"* ok", "***"},
			kind:  parser.ErrMalformedHeadline,
			line:  2,
		},
		{
			name:  "second nested list",
			lines: []string{"- a", "  - b", "  + c"},
			kind:  parser.ErrInconsistentListNesting,
			line:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := parseErr(t, tt.lines...)
			assert.ErrorIs(t, pe, tt.kind)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestParseError_Message(t *testing.T) {
	_, err := parser.Parse([]string{"#+BEGIN_SRC"}, parser.WithPath("notes.org"))
	require.Error(t, err)
	assert.Equal(t, "notes.org:1: unterminated block: #+BEGIN_SRC has no matching #+END_SRC", err.Error())

	_, err = parser.Parse([]string{"**"})
	require.Error(t, err)
	assert.Equal(t, `line 1: malformed headline: "**" has no space after its stars`, err.Error())
}

func TestParse_WithPath(t *testing.T) {
	root, err := parser.Parse([]string{"* x"}, parser.WithPath("a/b.org"))
	require.NoError(t, err)
	assert.Equal(t, "a/b.org", root.Path)
}

func TestParseOrg(t *testing.T) {
	root, err := parser.ParseOrg("* A\nbody\n")
	require.NoError(t, err)
	require.Len(t, root.Body, 1)
	assert.Equal(t, []parser.Element{&parser.Text{Lines: []string{"body"}}}, root.Body[0].(*parser.Node).Body)

	root, err = parser.ParseOrg("")
	require.NoError(t, err)
	assert.Empty(t, root.Body)

	root, err = parser.ParseOrg("\xef\xbb\xbf* A\r\n#+BEGIN_SRC sh\r\necho hi\r\n#+END_SRC\r\n")
	require.NoError(t, err)
	node := root.Body[0].(*parser.Node)
	assert.Equal(t, "* A", node.Headline)
	assert.Equal(t, []string{"echo hi"}, node.Body[0].(*parser.Block).Lines)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single line no newline", "* A", []string{"* A"}},
		{"trailing newline", "* A\nbody\n", []string{"* A", "body"}},
		{"crlf", "* A\r\nbody\r\n", []string{"* A", "body"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
		{"blank lines kept", "a\n\n\nb", []string{"a", "", "", "b"}},
		{"bom stripped", "\xef\xbb\xbf* A\n", []string{"* A"}},
		{"only newline", "\n", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.SplitLines([]byte(tt.input)))
		})
	}
}
