// Package outline flattens parsed documents into headline entries for
// searching, printing and statistics.
package outline

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/gerunddev/orgtree/internal/parser"
)

// Entry is one headline of a document in document order.
type Entry struct {
	Path     string
	Line     int
	Level    int
	Headline string
	Keyword  string
	Priority string
	Title    string
	Tags     []string
	// Trail holds the titles of the enclosing headlines, outermost first.
	Trail []string
	Node  *parser.Node
}

// Label is the entry's title prefixed by its trail, e.g. "Projects / Garden".
func (e Entry) Label() string {
	if len(e.Trail) == 0 {
		return e.Title
	}
	return strings.Join(e.Trail, " / ") + " / " + e.Title
}

// Flatten lists every headline of root. keywords are the TODO states to
// recognise in titles; nil uses the parser defaults.
func Flatten(root *parser.Root, keywords []string) []Entry {
	if keywords == nil {
		keywords = parser.DefaultKeywords
	}
	var entries []Entry
	var walk func(body []parser.Element, trail []string)
	walk = func(body []parser.Element, trail []string) {
		for _, e := range body {
			n, ok := e.(*parser.Node)
			if !ok {
				continue
			}
			h := parser.ParseHeadline(n.Headline, keywords)
			entries = append(entries, Entry{
				Path:     root.Path,
				Line:     n.Line,
				Level:    h.Level,
				Headline: n.Headline,
				Keyword:  h.Keyword,
				Priority: h.Priority,
				Title:    h.Title,
				Tags:     h.Tags,
				Trail:    trail,
				Node:     n,
			})
			walk(n.Body, append(trail[:len(trail):len(trail)], h.Title))
		}
	}
	walk(root.Body, nil)
	return entries
}

// Match is an entry found by Find.
type Match struct {
	Entry
	Score int
	// MatchedIndexes are byte offsets into Label().
	MatchedIndexes []int
}

type entrySource []Entry

func (s entrySource) String(i int) string {
	return s[i].Label()
}

func (s entrySource) Len() int {
	return len(s)
}

// Find ranks the entries whose label fuzzily matches query, best first. An
// empty query matches nothing.
func Find(entries []Entry, query string) []Match {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	var out []Match
	for _, m := range fuzzy.FindFrom(query, entrySource(entries)) {
		out = append(out, Match{
			Entry:          entries[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return out
}
