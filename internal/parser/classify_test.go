package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/orgtree/internal/parser"
)

func TestClassify(t *testing.T) {
	var c parser.Classifier

	tests := []struct {
		name string
		line string
		ctx  parser.Context
		want parser.Class
	}{
		{
			name: "blank",
			line: "  \t",
			want: parser.Class{Kind: parser.KindBlank, Raw: "  \t"},
		},
		{
			name: "headline",
			line: "** TODO Write tests",
			want: parser.Class{Kind: parser.KindHeadline, Raw: "** TODO Write tests", Level: 2, Text: "** TODO Write tests"},
		},
		{
			name: "drawer open is case-insensitive",
			line: "  :properties:",
			want: parser.Class{Kind: parser.KindDrawerOpen, Raw: "  :properties:", Indent: 2},
		},
		{
			name: "drawer entry",
			line: ":ID:   123e4567  ",
			ctx:  parser.Context{InDrawer: true},
			want: parser.Class{Kind: parser.KindProperty, Raw: ":ID:   123e4567  ", Name: "ID", Value: "123e4567"},
		},
		{
			name: "drawer entry with a colon in its name",
			line: ":header-args:go: :tangle main.go",
			ctx:  parser.Context{InDrawer: true},
			want: parser.Class{Kind: parser.KindProperty, Raw: ":header-args:go: :tangle main.go", Name: "header-args:go", Value: ":tangle main.go"},
		},
		{
			name: "drawer close",
			line: ":END:",
			ctx:  parser.Context{InDrawer: true},
			want: parser.Class{Kind: parser.KindDrawerClose, Raw: ":END:"},
		},
		{
			name: "keyword",
			line: "#+title: My Notes",
			want: parser.Class{Kind: parser.KindProperty, Raw: "#+title: My Notes", Name: "title", Value: "My Notes"},
		},
		{
			name: "block open",
			line: "#+BEGIN_SRC go :tangle x.go",
			want: parser.Class{Kind: parser.KindBlockOpen, Raw: "#+BEGIN_SRC go :tangle x.go", Block: parser.BlockCode, Params: "go :tangle x.go"},
		},
		{
			name: "block close",
			line: "#+end_src",
			ctx:  parser.Context{InBlock: true, Block: parser.BlockCode},
			want: parser.Class{Kind: parser.KindBlockClose, Raw: "#+end_src"},
		},
		{
			name: "headline inside block is plain",
			line: "* heading",
			ctx:  parser.Context{InBlock: true, Block: parser.BlockCode},
			want: parser.Class{Kind: parser.KindPlain, Raw: "* heading", Text: "* heading"},
		},
		{
			name: "other close inside block is plain",
			line: "#+END_QUOTE",
			ctx:  parser.Context{InBlock: true, Block: parser.BlockCode},
			want: parser.Class{Kind: parser.KindPlain, Raw: "#+END_QUOTE", Text: "#+END_QUOTE"},
		},
		{
			name: "dash item",
			line: "  - item text",
			want: parser.Class{Kind: parser.KindListItem, Raw: "  - item text", Marker: parser.Dash, Text: "item text", Indent: 2},
		},
		{
			name: "plus item",
			line: "+ x",
			want: parser.Class{Kind: parser.KindListItem, Raw: "+ x", Marker: parser.Plus, Text: "x"},
		},
		{
			name: "numbered item with paren",
			line: "\t12) twelve",
			want: parser.Class{Kind: parser.KindListItem, Raw: "\t12) twelve", Marker: parser.Numbered, Text: "twelve", Indent: 8},
		},
		{
			name: "plain",
			line: "Just words.",
			want: parser.Class{Kind: parser.KindPlain, Raw: "Just words.", Text: "Just words."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.line, tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Errors(t *testing.T) {
	var c parser.Classifier

	_, err := c.Classify("****", parser.Context{})
	assert.ErrorIs(t, err, parser.ErrMalformedHeadline)

	_, err = c.Classify("some text", parser.Context{InDrawer: true})
	assert.ErrorIs(t, err, parser.ErrMalformedDrawer)

	_, err = c.Classify(":NAME:value", parser.Context{InDrawer: true})
	assert.ErrorIs(t, err, parser.ErrMalformedDrawer, "a value must be separated from its name")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "list-item", parser.KindListItem.String())
	assert.Equal(t, "Kind(42)", parser.Kind(42).String())
}

func TestParseHeadline(t *testing.T) {
	tests := []struct {
		line string
		want parser.Headline
	}{
		{"* Introduction", parser.Headline{Level: 1, Title: "Introduction"}},
		{"** TODO Write tests", parser.Headline{Level: 2, Keyword: "TODO", Title: "Write tests"}},
		{"*** DONE [#A] Ship it :work:urgent:", parser.Headline{Level: 3, Keyword: "DONE", Priority: "A", Title: "Ship it", Tags: []string{"work", "urgent"}}},
		{"* TODOS are not keywords", parser.Headline{Level: 1, Title: "TODOS are not keywords"}},
		{"* :only:tags:", parser.Headline{Level: 1, Tags: []string{"only", "tags"}}},
		{"* Ratio 1:2:3", parser.Headline{Level: 1, Title: "Ratio 1:2:3"}},
		{"* ", parser.Headline{Level: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.ParseHeadline(tt.line, parser.DefaultKeywords))
		})
	}

	custom := parser.ParseHeadline("* WAITING reply", []string{"WAITING"})
	assert.Equal(t, "WAITING", custom.Keyword)
	assert.Equal(t, "reply", custom.Title)
}

func TestParseHeaderArgs(t *testing.T) {
	assert.Equal(t, map[string]string{
		"tangle":  "out/main.go",
		"mkdirp":  "yes",
		"results": "output silent",
		"eval":    "",
	}, parser.ParseHeaderArgs("go :tangle out/main.go :mkdirp yes :results output silent :eval"))
	assert.Empty(t, parser.ParseHeaderArgs(""))
}
