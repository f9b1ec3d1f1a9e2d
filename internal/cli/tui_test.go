package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stowage/internal/farkle"
)

func scores(n int) []farkle.HighScore {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]farkle.HighScore, n)
	for i := range out {
		out[i] = farkle.NewHighScore("p"+string(rune('a'+i)), 1000-i*100, base)
	}
	return out
}

func press(m ScoreListModel, keys ...string) ScoreListModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(ScoreListModel)
	}
	return m
}

func TestScoreListNavigation(t *testing.T) {
	m := NewScoreListModel(scores(5))
	m.Height = 2

	m = press(m, "down", "j", "down", "down", "down")
	if m.Cursor != 4 {
		t.Errorf("Cursor = %d, want 4 (clamped)", m.Cursor)
	}
	if m.Offset != 3 {
		t.Errorf("Offset = %d, want 3", m.Offset)
	}

	m = press(m, "up", "k", "k", "k", "k", "k")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("Cursor, Offset = %d, %d, want 0, 0", m.Cursor, m.Offset)
	}
}

func TestScoreListDetail(t *testing.T) {
	list := scores(3)
	m := NewScoreListModel(list)
	m.Now = func() time.Time { return list[0].Date.Add(2 * time.Hour) }

	m = press(m, "down", "enter")
	view := m.View()
	for _, want := range []string{"High Scores", list[1].ID.String(), "pb", "900", "2h ago", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = press(m, "enter")
	if strings.Contains(m.View(), list[1].ID.String()) {
		t.Error("detail view still shown after toggling off")
	}
}

func TestScoreListQuit(t *testing.T) {
	m := NewScoreListModel(scores(1))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestScoreListResize(t *testing.T) {
	m := NewScoreListModel(scores(1))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if got := next.(ScoreListModel).Height; got != 3 {
		t.Errorf("Height = %d, want minimum of 3", got)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Feb 9, 2024"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("formatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
