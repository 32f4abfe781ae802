package convert

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/orgtree/internal/parser"
)

// Options controls how headlines are read during export.
type Options struct {
	TodoKeywords []string
	DoneKeywords []string
}

// DefaultOptions recognises TODO and DONE.
func DefaultOptions() Options {
	return Options{TodoKeywords: []string{"TODO"}, DoneKeywords: []string{"DONE"}}
}

func (o Options) keywords() []string {
	return append(append([]string{}, o.TodoKeywords...), o.DoneKeywords...)
}

func (o Options) isDone(kw string) bool {
	for _, d := range o.DoneKeywords {
		if d == kw {
			return true
		}
	}
	return false
}

// Supports all default Obsidian callout types. "quote" and "cite" are
// excluded as they map to standard #+BEGIN_QUOTE blocks.
var callouts = map[string]bool{
	"note": true, "abstract": true, "summary": true, "tldr": true,
	"info": true, "todo": true, "tip": true, "hint": true, "important": true,
	"success": true, "check": true, "done": true,
	"question": true, "help": true, "faq": true,
	"warning": true, "caution": true, "attention": true,
	"failure": true, "fail": true, "missing": true,
	"danger": true, "error": true, "bug": true,
	"example": true,
}

var (
	orgIDLinkRe   = regexp.MustCompile(`\[\[id:([^\]]+)\](?:\[([^\]]+)\])?\]`)
	orgFileLinkRe = regexp.MustCompile(`\[\[file:([^\]]+)\]\]`)
	orgAliasRe    = regexp.MustCompile(`"([^"]+)"`)
	planningRe    = regexp.MustCompile(`(SCHEDULED|DEADLINE|CLOSED):\s*[<\[](\d{4}-\d{2}-\d{2})`)
)

// frontMatter is written in field order.
type frontMatter struct {
	ID      string   `yaml:"id,omitempty"`
	Title   string   `yaml:"title,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Refs    []string `yaml:"refs,omitempty"`
}

// OrgToMarkdown converts a parsed org document to Obsidian-flavoured
// markdown. idMap resolves org-roam IDs to note names.
func OrgToMarkdown(root *parser.Root, idMap map[string]string, opts Options) (string, error) {
	fm, err := FrontMatter(root)
	if err != nil {
		return "", err
	}

	var md strings.Builder
	if fm != "" {
		md.WriteString("---\n")
		md.WriteString(fm)
		md.WriteString("---\n\n")
	}
	md.WriteString(markdownBody(root.Body, idMap, opts))

	return strings.TrimSpace(md.String()), nil
}

// NodeToMarkdown converts a single subtree, without front matter.
func NodeToMarkdown(node *parser.Node, idMap map[string]string, opts Options) string {
	return strings.TrimSpace(markdownBody([]parser.Element{node}, idMap, opts))
}

// FrontMatter builds the YAML front matter for the document level ID,
// ROAM_ALIASES and ROAM_REFS properties and the title and filetags keywords.
// It returns "" when none are present.
func FrontMatter(root *parser.Root) (string, error) {
	var fm frontMatter
	for _, p := range root.Properties {
		switch strings.ToUpper(p.Name) {
		case "ID":
			if !p.Keyword {
				fm.ID = p.Value
			}
		case "ROAM_ALIASES":
			fm.Aliases = append(fm.Aliases, parseOrgAliases(p.Value)...)
		case "ROAM_REFS":
			fm.Refs = append(fm.Refs, strings.Fields(p.Value)...)
		case "TITLE":
			if p.Keyword {
				fm.Title = p.Value
			}
		case "FILETAGS":
			if p.Keyword {
				fm.Tags = append(fm.Tags, parseOrgTags(p.Value)...)
			}
		}
	}
	if fm.ID == "" && fm.Title == "" && len(fm.Aliases) == 0 && len(fm.Tags) == 0 && len(fm.Refs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}
	return buf.String(), nil
}

func markdownBody(body []parser.Element, idMap map[string]string, opts Options) string {
	var chunks []string
	var walk func(body []parser.Element)
	walk = func(body []parser.Element) {
		for _, e := range body {
			switch e := e.(type) {
			case *parser.Node:
				head, rest := markdownHeading(e, opts)
				chunks = append(chunks, head)
				walk(rest)
			case *parser.Text:
				chunks = append(chunks, markdownText(e.Lines, idMap))
			case *parser.List:
				var b strings.Builder
				markdownList(&b, e, "", idMap)
				chunks = append(chunks, strings.TrimRight(b.String(), "\n"))
			case *parser.Block:
				if s := markdownBlock(e, idMap); s != "" {
					chunks = append(chunks, s)
				}
			default:
				panic(fmt.Sprintf("convert: unexpected element %T", e))
			}
		}
	}
	walk(body)
	return strings.Join(chunks, "\n\n") + "\n"
}

// markdownHeading renders a headline with its planning lines and returns the
// body elements left to render.
func markdownHeading(n *parser.Node, opts Options) (string, []parser.Element) {
	h := parser.ParseHeadline(n.Headline, opts.keywords())
	hashes := strings.Repeat("#", h.Level)
	title := h.Title
	for _, tag := range h.Tags {
		title += " #" + tag
	}

	body := n.Body
	var planning []string
	if len(body) > 0 {
		if text, ok := body[0].(*parser.Text); ok {
			var rest []string
			for i, l := range text.Lines {
				if !isPlanningLine(l) {
					rest = text.Lines[i:]
					break
				}
				planning = append(planning, l)
			}
			body = body[1:]
			if len(rest) > 0 {
				body = append([]parser.Element{&parser.Text{Lines: rest}}, body...)
			}
		}
	}

	if h.Keyword == "" {
		return hashes + " " + title, body
	}

	checkbox := "[ ]"
	if opts.isDone(h.Keyword) {
		checkbox = "[x]"
	}
	lines := []string{hashes + " - " + checkbox + " " + title}

	for _, l := range planning {
		for _, m := range planningRe.FindAllStringSubmatch(l, -1) {
			switch m[1] {
			case "SCHEDULED":
				lines = append(lines, "⏳ "+m[2])
			case "DEADLINE":
				lines = append(lines, "📅 "+m[2])
			case "CLOSED":
				lines = append(lines, "✅ "+m[2])
			}
		}
	}

	if h.Priority != "" {
		priorityLevel := "medium"
		switch h.Priority {
		case "A":
			priorityLevel = "high"
		case "C":
			priorityLevel = "low"
		}
		lines = append(lines, "Priority: "+priorityLevel)
	}
	return strings.Join(lines, "\n"), body
}

func isPlanningLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "SCHEDULED:") ||
		strings.HasPrefix(trimmed, "DEADLINE:") ||
		strings.HasPrefix(trimmed, "CLOSED:")
}

func markdownText(lines []string, idMap map[string]string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = convertOrgLinks(convertOrgEmbeds(l), idMap)
	}
	return strings.Join(out, "\n")
}

func markdownList(b *strings.Builder, l *parser.List, indent string, idMap map[string]string) {
	for i, it := range l.Items {
		marker := "-"
		if l.Type == parser.Numbered {
			marker = strconv.Itoa(i+1) + "."
		}
		inner := indent + strings.Repeat(" ", len(marker)+1)
		for j, line := range it.Text.Lines {
			line = convertOrgLinks(convertOrgEmbeds(line), idMap)
			if j == 0 {
				b.WriteString(strings.TrimRight(indent+marker+" "+line, " ") + "\n")
			} else {
				b.WriteString(strings.TrimRight(inner+line, " ") + "\n")
			}
		}
		if it.Sub != nil {
			markdownList(b, it.Sub, inner, idMap)
		}
	}
}

func markdownBlock(b *parser.Block, idMap map[string]string) string {
	switch kind := strings.ToLower(string(b.Type)); {
	case b.Type == parser.BlockCode:
		return "```" + b.Language() + "\n" + joinLines(b.Lines) + "```"
	case b.Type == parser.BlockQuote:
		return quoteLines("", b.Lines, idMap)
	case callouts[kind]:
		return quoteLines("> [!"+kind+"]", b.Lines, idMap)
	case b.Type == parser.BlockExport:
		switch strings.ToLower(strings.TrimSpace(b.Parameters)) {
		case "md", "markdown", "html":
			return strings.Join(b.Lines, "\n")
		}
		return ""
	case b.Type == parser.BlockComment:
		return ""
	case b.Type == parser.BlockVerse:
		out := make([]string, len(b.Lines))
		for i, l := range b.Lines {
			out[i] = convertOrgLinks(l, idMap) + "  "
		}
		return strings.TrimRight(strings.Join(out, "\n"), " ")
	default:
		return markdownText(b.Lines, idMap)
	}
}

func quoteLines(header string, lines []string, idMap map[string]string) string {
	var out []string
	if header != "" {
		out = append(out, header)
	}
	for _, l := range lines {
		trimmed := strings.TrimSpace(convertOrgLinks(l, idMap))
		if trimmed == "" {
			out = append(out, ">")
			continue
		}
		out = append(out, "> "+trimmed)
	}
	return strings.Join(out, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// parseOrgAliases parses "alias1" "alias2" format
func parseOrgAliases(s string) []string {
	var aliases []string
	for _, match := range orgAliasRe.FindAllStringSubmatch(s, -1) {
		if len(match) > 1 {
			aliases = append(aliases, match[1])
		}
	}
	return aliases
}

// parseOrgTags parses :tag1:tag2:tag3: format
func parseOrgTags(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), ":")
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

// convertOrgLinks converts all org-mode links in a line to markdown wikilinks
func convertOrgLinks(line string, idMap map[string]string) string {
	return orgIDLinkRe.ReplaceAllStringFunc(line, func(match string) string {
		submatches := orgIDLinkRe.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		id := submatches[1]
		description := ""
		if len(submatches) > 2 {
			description = submatches[2]
		}

		// Look up filename from ID
		filename, ok := idMap[id]
		if !ok {
			// ID not in map, use the id as filename
			filename = id
		}

		if description != "" {
			return fmt.Sprintf("[[%s|%s]]", filename, description)
		}
		return fmt.Sprintf("[[%s]]", filename)
	})
}

// convertOrgEmbeds converts org-mode embeds to Obsidian embeds
// # EMBED: note → ![[note]]
// [[file:image.png]] → ![[image.png]]
func convertOrgEmbeds(line string) string {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "# EMBED:") {
		embedTarget := strings.TrimSpace(strings.TrimPrefix(trimmed, "# EMBED:"))
		return strings.Replace(line, trimmed, fmt.Sprintf("![[%s]]", embedTarget), 1)
	}

	return orgFileLinkRe.ReplaceAllString(line, "![[$1]]")
}
