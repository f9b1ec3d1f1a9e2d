package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stowage/internal/farkle"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// ScoreListModel - Interactive high score browser
// =============================================================================

// ScoreListModel is the bubbletea model for browsing the high score table.
// Enter toggles a detail view of the selected entry.
type ScoreListModel struct {
	Scores []farkle.HighScore
	Cursor int
	Detail bool
	Height int
	Offset int
	Now    func() time.Time
}

// NewScoreListModel creates a new score list model.
func NewScoreListModel(scores []farkle.HighScore) ScoreListModel {
	return ScoreListModel{
		Scores: scores,
		Height: 10,
		Now:    time.Now,
	}
}

func (m ScoreListModel) Init() tea.Cmd {
	return nil
}

func (m ScoreListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Scores)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
	}
	return m, nil
}

func (m ScoreListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("High Scores"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Scores))
	b.WriteString(scoreTable(m.Scores[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Scores))))

	if m.Detail && m.Cursor < len(m.Scores) {
		hs := m.Scores[m.Cursor]
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  %s %s\n", listDimStyle.Render("id   "), hs.ID))
		b.WriteString(fmt.Sprintf("  %s %s\n", listDimStyle.Render("name "), orDash(hs.Name)))
		b.WriteString(fmt.Sprintf("  %s %d\n", listDimStyle.Render("score"), hs.Score))
		b.WriteString(fmt.Sprintf("  %s %s (%s)\n", listDimStyle.Render("date "),
			hs.Date.Local().Format(time.RFC1123), formatRelativeTime(hs.Date, m.Now())))
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
