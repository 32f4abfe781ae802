package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnified(t *testing.T) {
	before := "* A\n  - x\n"
	after := "* A\n- x\n"

	got := Unified("notes.org", before, after)
	assert.True(t, strings.HasPrefix(got, "--- notes.org\n+++ notes.org (formatted)\n"), got)
	assert.Contains(t, got, "-  - x\n")
	assert.Contains(t, got, "+- x\n")
	assert.Contains(t, got, " * A\n")
}

func TestUnified_Equal(t *testing.T) {
	assert.Empty(t, Unified("a.org", "same\n", "same\n"))
}

func TestRender(t *testing.T) {
	unified := Unified("a.org", "old\n", "new\n")

	assert.Equal(t, unified, Render(unified, false))
	assert.Empty(t, Render("", true))

	colored := Render(unified, true)
	assert.Contains(t, colored, "old")
	assert.Contains(t, colored, "new")
}
