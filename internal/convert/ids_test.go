package convert

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/orgtree/internal/parser"
)

func TestGenerateOrgID(t *testing.T) {
	a, b := GenerateOrgID(), GenerateOrgID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestAssignIDs(t *testing.T) {
	root := mustParse(t, `* A
:PROPERTIES:
:ID: keep
:END:
** B
#+CATEGORY: x
** C
:PROPERTIES:
:CUSTOM: y
:END:
`)

	assert.Equal(t, 2, AssignIDs(root))

	a := root.Body[0].(*parser.Node)
	assert.Equal(t, []parser.Property{{Name: "ID", Value: "keep"}}, a.Properties)

	b := a.Body[0].(*parser.Node)
	require.Len(t, b.Properties, 2)
	assert.Equal(t, "CATEGORY", b.Properties[0].Name)
	assert.Equal(t, "ID", b.Properties[1].Name)

	c := a.Body[1].(*parser.Node)
	require.Len(t, c.Properties, 2)
	assert.Equal(t, "ID", c.Properties[0].Name, "the ID leads the drawer")
	_, err := uuid.Parse(c.Properties[0].Value)
	assert.NoError(t, err)

	assert.Equal(t, 0, AssignIDs(root), "assigning twice adds nothing")

	reparsed, err := parser.ParseOrg(Org(root))
	require.NoError(t, err)
	id, ok := reparsed.Body[0].(*parser.Node).Body[1].(*parser.Node).Property("ID")
	assert.True(t, ok)
	assert.Equal(t, c.Properties[0].Value, id)
}
