package convert

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/orgtree/internal/parser"
)

// Format selects how Encoder writes a tree.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDump Format = "dump" // Go structs, pretty-printed
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML, FormatDump:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format '%s': must be one of: json, yaml, dump", s)
}

// Doc is the serializable form of a tree element. Type is one of "root",
// "node", "text", "list" or "block" and decides which other fields are set.
type Doc struct {
	Type       string        `json:"type" yaml:"type"`
	Path       string        `json:"path,omitempty" yaml:"path,omitempty"`
	Headline   string        `json:"headline,omitempty" yaml:"headline,omitempty"`
	Line       int           `json:"line,omitempty" yaml:"line,omitempty"`
	Level      int           `json:"level,omitempty" yaml:"level,omitempty"`
	Todo       string        `json:"todo,omitempty" yaml:"todo,omitempty"`
	Priority   string        `json:"priority,omitempty" yaml:"priority,omitempty"`
	Title      string        `json:"title,omitempty" yaml:"title,omitempty"`
	Tags       []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	ListType   string        `json:"list_type,omitempty" yaml:"list_type,omitempty"`
	BlockType  string        `json:"block_type,omitempty" yaml:"block_type,omitempty"`
	Language   string        `json:"language,omitempty" yaml:"language,omitempty"`
	Parameters string        `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Properties []DocProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
	Lines      []string      `json:"lines,omitempty" yaml:"lines,omitempty"`
	Items      []DocItem     `json:"items,omitempty" yaml:"items,omitempty"`
	Body       []Doc         `json:"body,omitempty" yaml:"body,omitempty"`
}

// DocProperty is the serializable form of a property.
type DocProperty struct {
	Name    string `json:"name" yaml:"name"`
	Value   string `json:"value" yaml:"value"`
	Keyword bool   `json:"keyword,omitempty" yaml:"keyword,omitempty"`
}

// DocItem is the serializable form of a list item.
type DocItem struct {
	Lines []string `json:"lines" yaml:"lines"`
	Sub   *Doc     `json:"sub,omitempty" yaml:"sub,omitempty"`
}

// Document converts a tree into its serializable form.
func Document(root *parser.Root) Doc {
	return Doc{
		Type:       "root",
		Path:       root.Path,
		Properties: docProperties(root.Properties),
		Body:       docBody(root.Body),
	}
}

func docBody(body []parser.Element) []Doc {
	if len(body) == 0 {
		return nil
	}
	docs := make([]Doc, 0, len(body))
	for _, e := range body {
		docs = append(docs, docElement(e))
	}
	return docs
}

func docElement(e parser.Element) Doc {
	switch e := e.(type) {
	case *parser.Node:
		h := e.Heading()
		return Doc{
			Type:       "node",
			Headline:   e.Headline,
			Line:       e.Line,
			Level:      e.Level(),
			Todo:       h.Keyword,
			Priority:   h.Priority,
			Title:      h.Title,
			Tags:       h.Tags,
			Properties: docProperties(e.Properties),
			Body:       docBody(e.Body),
		}
	case *parser.Text:
		return Doc{Type: "text", Lines: e.Lines}
	case *parser.List:
		return docList(e)
	case *parser.Block:
		return Doc{
			Type:       "block",
			BlockType:  string(e.Type),
			Language:   e.Language(),
			Parameters: e.Parameters,
			Properties: docProperties(e.Properties),
			Lines:      e.Lines,
		}
	default:
		panic(fmt.Sprintf("convert: unexpected element %T", e))
	}
}

func docList(l *parser.List) Doc {
	d := Doc{Type: "list", ListType: l.Type.String()}
	for _, it := range l.Items {
		item := DocItem{Lines: it.Text.Lines}
		if it.Sub != nil {
			sub := docList(it.Sub)
			item.Sub = &sub
		}
		d.Items = append(d.Items, item)
	}
	return d
}

func docProperties(props []parser.Property) []DocProperty {
	if len(props) == 0 {
		return nil
	}
	out := make([]DocProperty, len(props))
	for i, p := range props {
		out[i] = DocProperty{Name: p.Name, Value: p.Value, Keyword: p.Keyword}
	}
	return out
}

// Encoder writes trees in one Format.
type Encoder struct {
	w      io.Writer
	format Format
	// Color enables ANSI colors in the dump format.
	Color bool
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, format Format) *Encoder {
	return &Encoder{w: w, format: format}
}

// Encode writes root.
func (e *Encoder) Encode(root *parser.Root) error {
	switch e.format {
	case FormatJSON:
		enc := json.NewEncoder(e.w)
		enc.SetIndent("", "  ")
		return enc.Encode(Document(root))
	case FormatYAML:
		enc := yaml.NewEncoder(e.w)
		enc.SetIndent(2)
		if err := enc.Encode(Document(root)); err != nil {
			return err
		}
		return enc.Close()
	case FormatDump:
		pp.ColoringEnabled = e.Color
		_, err := pp.Fprintln(e.w, root)
		return err
	default:
		return fmt.Errorf("unsupported format '%s'", e.format)
	}
}
