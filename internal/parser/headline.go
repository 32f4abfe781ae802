package parser

import (
	"strings"
)

// DefaultKeywords are the TODO states recognised when none are configured.
var DefaultKeywords = []string{"TODO", "DONE"}

// Headline is the decomposed form of a headline line.
//
//	** TODO [#A] Write tests :work:urgent:
//
// has Level 2, Keyword "TODO", Priority "A", Title "Write tests" and Tags
// [work urgent].
type Headline struct {
	Level    int
	Keyword  string
	Priority string
	Title    string
	Tags     []string
}

// ParseHeadline decomposes a headline line. keywords lists the TODO states to
// recognise at the start of the title.
func ParseHeadline(line string, keywords []string) Headline {
	h := Headline{Level: countLeading(line, '*')}
	rest := strings.TrimSpace(line[h.Level:])

	if word, after, _ := strings.Cut(rest, " "); word != "" {
		for _, kw := range keywords {
			if word == kw {
				h.Keyword = kw
				rest = strings.TrimSpace(after)
				break
			}
		}
	}

	if strings.HasPrefix(rest, "[#") && len(rest) >= 4 && rest[3] == ']' {
		h.Priority = string(rest[2])
		rest = strings.TrimSpace(rest[4:])
	}

	if i := strings.LastIndexAny(rest, " \t"); i >= 0 || strings.HasPrefix(rest, ":") {
		candidate := rest[i+1:]
		if tags := parseTags(candidate); tags != nil {
			h.Tags = tags
			rest = strings.TrimSpace(rest[:i+1])
		}
	}

	h.Title = rest
	return h
}

// parseTags parses :tag1:tag2: and returns nil when s is not a tag group.
func parseTags(s string) []string {
	if len(s) < 3 || s[0] != ':' || s[len(s)-1] != ':' {
		return nil
	}
	tags := strings.Split(s[1:len(s)-1], ":")
	for _, t := range tags {
		if t == "" || strings.ContainsAny(t, " \t") {
			return nil
		}
	}
	return tags
}
