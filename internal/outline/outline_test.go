package outline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/orgtree/internal/parser"
)

const projectsOrg = `#+title: t
* Projects
** TODO Garden :home:
*** DONE Buy seeds
** Writing
* Inbox
`

func mustParse(t *testing.T, content string, opts ...parser.Option) *parser.Root {
	t.Helper()
	root, err := parser.ParseOrg(content, opts...)
	require.NoError(t, err)
	return root
}

func TestFlatten(t *testing.T) {
	entries := Flatten(mustParse(t, projectsOrg, parser.WithPath("n.org")), nil)
	require.Len(t, entries, 5)

	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label()
	}
	assert.Equal(t, []string{
		"Projects",
		"Projects / Garden",
		"Projects / Garden / Buy seeds",
		"Projects / Writing",
		"Inbox",
	}, labels)

	garden := entries[1]
	assert.Equal(t, "n.org", garden.Path)
	assert.Equal(t, 3, garden.Line)
	assert.Equal(t, 2, garden.Level)
	assert.Equal(t, "TODO", garden.Keyword)
	assert.Equal(t, []string{"home"}, garden.Tags)
	assert.Equal(t, "** TODO Garden :home:", garden.Node.Headline)

	assert.Equal(t, "DONE", entries[2].Keyword)
}

func TestFlatten_CustomKeywords(t *testing.T) {
	entries := Flatten(mustParse(t, "* WAIT reply\n* TODO plain\n"), []string{"WAIT"})
	assert.Equal(t, "WAIT", entries[0].Keyword)
	assert.Equal(t, "TODO plain", entries[1].Title)
}

func TestFind(t *testing.T) {
	entries := Flatten(mustParse(t, projectsOrg), nil)

	matches := Find(entries, "seeds")
	require.Len(t, matches, 1)
	assert.Equal(t, "Buy seeds", matches[0].Title)
	assert.NotEmpty(t, matches[0].MatchedIndexes)

	matches = Find(entries, "Garden")
	var titles []string
	for _, m := range matches {
		titles = append(titles, m.Title)
	}
	assert.Contains(t, titles, "Garden")
	assert.NotContains(t, titles, "Inbox")

	assert.Empty(t, Find(entries, "zzzz"))
	assert.Nil(t, Find(entries, "  "))
}

const renderOrg = `#+title: T
* TODO [#A] Task :x:
:PROPERTIES:
:ID: 1
:END:
Some words
continue here.
- a
  1. b
#+BEGIN_SRC go
x()
#+END_SRC
** Child
`

func TestRender(t *testing.T) {
	root := mustParse(t, renderOrg, parser.WithPath("n.org"))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, root, RenderOptions{}))
	assert.Equal(t, `n.org
#+title: T
* TODO [#A] Task :x:
  :ID: 1
  Some words continue here.
  - a
    1. b
  #+BEGIN_SRC go
  x()
  #+END_SRC
  ** Child
`, buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, root, RenderOptions{HeadlinesOnly: true}))
	assert.Equal(t, "n.org\n* TODO [#A] Task :x:\n  ** Child\n", buf.String())
}

func TestRender_Wrap(t *testing.T) {
	root := mustParse(t, "one two three four five six seven\n")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, root, RenderOptions{Width: 24}))
	assert.Equal(t, "one two three four five\nsix seven\n", buf.String())
}

func TestRender_Color(t *testing.T) {
	root := mustParse(t, renderOrg)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, root, RenderOptions{Color: true}))
	assert.Contains(t, buf.String(), "Task")
	assert.Contains(t, buf.String(), "x()")
}
