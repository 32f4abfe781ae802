package convert

import (
	"github.com/google/uuid"

	"github.com/gerunddev/orgtree/internal/parser"
)

// GenerateOrgID generates a new org-mode ID (UUID v4)
func GenerateOrgID() string {
	return uuid.New().String()
}

// AssignIDs gives every headline without an ID drawer property a fresh one
// and returns how many were added. The ID goes first in the node's drawer,
// where org-roam writes it.
func AssignIDs(root *parser.Root) int {
	added := 0
	var walk func(body []parser.Element)
	walk = func(body []parser.Element) {
		for _, e := range body {
			n, ok := e.(*parser.Node)
			if !ok {
				continue
			}
			if !hasDrawerID(n.Properties) {
				n.Properties = insertID(n.Properties, GenerateOrgID())
				added++
			}
			walk(n.Body)
		}
	}
	walk(root.Body)
	return added
}

func hasDrawerID(props []parser.Property) bool {
	for _, p := range props {
		if !p.Keyword && p.Name == "ID" && p.Value != "" {
			return true
		}
	}
	return false
}

func insertID(props []parser.Property, id string) []parser.Property {
	at := len(props)
	for i, p := range props {
		if !p.Keyword {
			at = i
			break
		}
	}
	out := make([]parser.Property, 0, len(props)+1)
	out = append(out, props[:at]...)
	out = append(out, parser.Property{Name: "ID", Value: id})
	return append(out, props[at:]...)
}
