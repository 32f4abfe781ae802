package convert

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/gerunddev/orgtree/internal/parser"
)

// htmlMarkdown renders GitHub flavoured markdown. Raw HTML from export
// blocks is passed through.
var htmlMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

var (
	wikiEmbedRe = regexp.MustCompile(`!\[\[([^\]|]+)\]\]`)
	wikiLinkRe  = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)
)

// OrgToHTML renders the markdown export of root as an HTML fragment. Wiki
// links become links to "<name>.html" and embeds become images.
func OrgToHTML(root *parser.Root, idMap map[string]string, opts Options) (string, error) {
	body := markdownBody(root.Body, idMap, opts)
	body = wikiEmbedRe.ReplaceAllString(body, "![$1]($1)")
	body = wikiLinkRe.ReplaceAllStringFunc(body, func(match string) string {
		m := wikiLinkRe.FindStringSubmatch(match)
		text := m[1]
		if m[2] != "" {
			text = m[2]
		}
		return fmt.Sprintf("[%s](%s.html)", text, m[1])
	})

	var buf bytes.Buffer
	if title, ok := root.Property("title"); ok && title != "" {
		fmt.Fprintf(&buf, "<h1>%s</h1>\n", stdhtml.EscapeString(title))
	}
	if err := htmlMarkdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return buf.String(), nil
}
