package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/orgtree/internal/styles"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Magenta))

// IndexResult summarises an index run.
type IndexResult struct {
	Updated  int
	Skipped  int
	Pruned   int
	Errors   []error
	Duration time.Duration
}

// StatusMsg replaces the status line.
type StatusMsg string

// IndexDoneMsg is sent when the index run finishes.
type IndexDoneMsg struct {
	Result IndexResult
	Err    error
}

// progressModel shows a spinner while files are indexed.
type progressModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	result   IndexResult
	err      error
}

func newProgressModel() progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return progressModel{
		spinner: s,
		status:  "Scanning files...",
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case StatusMsg:
		m.status = string(msg)

	case IndexDoneMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m progressModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}
	return Summary(m.result, m.err)
}

// Summary renders the outcome of an index run.
func Summary(r IndexResult, err error) string {
	if err != nil {
		return styles.ErrorStyle.Render("✗ Indexing failed: "+err.Error()) + "\n"
	}

	took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", r.Duration.Round(time.Millisecond))) + "\n"
	if r.Updated == 0 && r.Pruned == 0 && len(r.Errors) == 0 {
		return styles.SuccessStyle.Render("✓ Index is up to date") + "\n" + took
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Indexed %d file(s)", r.Updated))
	if r.Skipped > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d unchanged", r.Skipped))
	}
	if r.Pruned > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d removed", r.Pruned))
	}
	if len(r.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(r.Errors)))
	}
	return msg + "\n" + took
}

// RunWithProgress runs work while a spinner shows the status lines it
// reports, then prints the summary.
func RunWithProgress(out io.Writer, work func(status func(string)) (IndexResult, error)) (IndexResult, error) {
	p := tea.NewProgram(newProgressModel(), tea.WithOutput(out), tea.WithInput(nil))

	var result IndexResult
	var workErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, workErr = work(func(s string) { p.Send(StatusMsg(s)) })
		p.Send(IndexDoneMsg{Result: result, Err: workErr})
	}()

	_, err := p.Run()
	<-done
	if err != nil {
		return result, err
	}
	return result, workErr
}
