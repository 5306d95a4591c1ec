// Package tui provides an interactive preview of classified findings so a
// reviewer can inspect what the rendered prompt will contain before posting
// or saving it.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reviewprompt/internal/classify"
	"reviewprompt/internal/ui"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	priorityStyles = map[classify.Priority]lipgloss.Style{
		classify.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		classify.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		classify.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		classify.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

// Model is the findings preview state.
type Model struct {
	records  []classify.ClassifiedRecord
	cursor   int
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewModel creates a preview over the given findings.
func NewModel(records []classify.ClassifiedRecord) Model {
	return Model{records: records}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key and resize events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		detailHeight := m.height - m.listHeight() - 3
		if detailHeight < 3 {
			detailHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, detailHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = detailHeight
		}
		m.viewport.SetContent(m.detailContent())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.viewport.SetContent(m.detailContent())
				m.viewport.GotoTop()
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				m.viewport.SetContent(m.detailContent())
				m.viewport.GotoTop()
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the finding list above a scrollable detail pane.
func (m Model) View() string {
	if !m.ready {
		return "Loading preview..."
	}
	if len(m.records) == 0 {
		return titleStyle.Render("No findings to preview") + "\n\n" +
			helpStyle.Render("q: quit")
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Findings (%d)", len(m.records))))
	sb.WriteString("\n")

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		rec := m.records[i]
		style, ok := priorityStyles[rec.Priority]
		if !ok {
			style = lipgloss.NewStyle()
		}

		line := fmt.Sprintf("[%d] %-8s %s", i+1, rec.Priority, ui.Truncate(rec.IssueTitle, m.width-16))
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString(style.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("j/k: select finding  •  pgup/pgdn: scroll detail  •  q: quit"))
	return sb.String()
}

func (m Model) listHeight() int {
	h := len(m.records)
	if h > 10 {
		h = 10
	}
	return h + 1
}

// visibleRange keeps the cursor inside the list window when there are more
// findings than rows.
func (m Model) visibleRange() (int, int) {
	window := m.listHeight() - 1
	start := 0
	if m.cursor >= window {
		start = m.cursor - window + 1
	}
	end := start + window
	if end > len(m.records) {
		end = len(m.records)
	}
	return start, end
}

func (m Model) detailContent() string {
	if len(m.records) == 0 {
		return ""
	}
	rec := m.records[m.cursor]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title:    %s\n", rec.IssueTitle)
	fmt.Fprintf(&sb, "Type:     %s\n", rec.CommentType)
	fmt.Fprintf(&sb, "Priority: %s\n", rec.Priority)
	if rec.FilePath != "" {
		loc := rec.FilePath
		if rec.LineRange != "" {
			loc += ":" + rec.LineRange
		}
		fmt.Fprintf(&sb, "Location: %s\n", loc)
	} else {
		sb.WriteString("Location: unknown\n")
	}
	if len(rec.MatchedKeywords) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(rec.MatchedKeywords, ", "))
	}
	sb.WriteString("\n")
	sb.WriteString(rec.Rationale)
	if rec.AgentInstructions != "" {
		sb.WriteString("\n\n--- Agent instructions ---\n")
		sb.WriteString(rec.AgentInstructions)
	}
	if rec.ProposedDiff != "" {
		sb.WriteString("\n\n--- Proposed diff ---\n")
		sb.WriteString(rec.ProposedDiff)
	}
	return sb.String()
}

// Run starts the preview program and blocks until the user quits.
func Run(records []classify.ClassifiedRecord) error {
	p := tea.NewProgram(NewModel(records), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
