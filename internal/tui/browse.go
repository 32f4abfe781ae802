package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/orgtree/internal/convert"
	"github.com/gerunddev/orgtree/internal/outline"
	"github.com/gerunddev/orgtree/internal/styles"
)

// PreviewFunc renders the subtree of an entry for the preview pane.
type PreviewFunc func(e outline.Entry, width int) (string, error)

// MarkdownPreview exports the entry's subtree to Markdown and renders it
// with glamour.
func MarkdownPreview(idMap map[string]string, opts convert.Options) PreviewFunc {
	return func(e outline.Entry, width int) (string, error) {
		md := convert.NodeToMarkdown(e.Node, idMap, opts)
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md, nil
		}
		out, err := r.Render(md)
		if err != nil {
			return md, nil
		}
		return out, nil
	}
}

// PreviewMsg carries a rendered preview.
type PreviewMsg struct {
	Content string
	Err     error
}

// BrowseModel lists the headlines of a document, previews subtrees and
// filters with fuzzy search.
type BrowseModel struct {
	title    string
	entries  []outline.Entry
	shown    []outline.Entry
	table    table.Model
	viewport viewport.Model
	filter   textinput.Model
	preview  PreviewFunc

	filtering  bool
	previewing bool
	selected   *outline.Entry
	err        error
	width      int
	height     int
}

// NewBrowseModel creates a browser over entries.
func NewBrowseModel(title string, entries []outline.Entry, preview PreviewFunc) BrowseModel {
	columns := []table.Column{
		{Title: "Headline", Width: 60},
		{Title: "State", Width: 8},
		{Title: "Tags", Width: 20},
		{Title: "Line", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = styles.SelectedStyle.Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		Padding(1)

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter headlines"

	m := BrowseModel{
		title:    title,
		entries:  entries,
		table:    t,
		viewport: vp,
		filter:   ti,
		preview:  preview,
		width:    100,
		height:   30,
	}
	m.setShown(entries)
	return m
}

func (m *BrowseModel) setShown(entries []outline.Entry) {
	m.shown = entries
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		rows = append(rows, table.Row{
			strings.Repeat("  ", e.Level-1) + title,
			e.Keyword,
			strings.Join(e.Tags, ":"),
			fmt.Sprint(e.Line),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// applyFilter narrows the table to fuzzy matches of the filter text, best
// first. An empty filter shows every entry in document order.
func (m *BrowseModel) applyFilter() {
	if strings.TrimSpace(m.filter.Value()) == "" {
		m.setShown(m.entries)
		return
	}
	matches := outline.Find(m.entries, m.filter.Value())
	shown := make([]outline.Entry, len(matches))
	for i, match := range matches {
		shown[i] = match.Entry
	}
	m.setShown(shown)
}

// Shown returns the entries currently listed.
func (m BrowseModel) Shown() []outline.Entry {
	return m.shown
}

// Selected returns the entry being previewed, if any.
func (m BrowseModel) Selected() (outline.Entry, bool) {
	if m.selected == nil {
		return outline.Entry{}, false
	}
	return *m.selected, true
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		switch {
		case m.filtering:
			switch msg.String() {
			case "esc":
				m.filtering = false
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil
			case "enter":
				m.filtering = false
				m.filter.Blur()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd

		case m.previewing:
			switch msg.String() {
			case "q", "esc":
				m.previewing = false
				m.err = nil
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		default:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "/":
				m.filtering = true
				cmd = m.filter.Focus()
				return m, cmd
			case "esc":
				if m.filter.Value() != "" {
					m.filter.SetValue("")
					m.applyFilter()
				}
				return m, nil
			case "enter":
				idx := m.table.Cursor()
				if idx < 0 || idx >= len(m.shown) {
					return m, nil
				}
				e := m.shown[idx]
				m.selected = &e
				m.previewing = true
				m.viewport.SetContent("Rendering...")
				m.viewport.GotoTop()
				return m, m.renderPreview(e)
			}
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case PreviewMsg:
		m.err = msg.Err
		m.viewport.SetContent(msg.Content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

func (m BrowseModel) renderPreview(e outline.Entry) tea.Cmd {
	preview, width := m.preview, m.viewport.Width-4
	return func() tea.Msg {
		if preview == nil {
			return PreviewMsg{Content: e.Headline}
		}
		content, err := preview(e, width)
		return PreviewMsg{Content: content, Err: err}
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.previewing && m.selected != nil {
		b.WriteString(styles.DimStyle.Render(m.selected.Label()))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(styles.ErrorStyle.Render("✗ " + m.err.Error()))
			b.WriteString("\n\n")
		}
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Headlines: %d of %d", len(m.shown), len(m.entries))))
	b.WriteString("\n\n")
	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	if m.filtering {
		b.WriteString(styles.HelpStyle.Render("type to filter • enter keep • esc clear"))
	} else {
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter preview • / filter • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// Browse runs the browser until the user quits.
func Browse(title string, entries []outline.Entry, preview PreviewFunc) error {
	p := tea.NewProgram(NewBrowseModel(title, entries, preview), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
