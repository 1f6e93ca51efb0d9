package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habitstore"
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
	"github.com/hadinajem52/PixieHabitTracker/internal/ui/habits"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "yesterday"},
		{3 * 24 * time.Hour, "3 days ago"},
		{10 * 24 * time.Hour, "Feb 29, 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimeAgo(now.Add(-tt.ago), now))
		})
	}
}

func newTestApp(t *testing.T, start View) (Model, *habitstore.Store) {
	t.Helper()
	for _, k := range []string{"PIXIE_BACKEND", "PIXIE_SORT", "PIXIE_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir, err := store.Open(t.TempDir())
	require.NoError(t, err)
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	hs := habitstore.New(dir)
	t.Cleanup(func() { hs.Close() })

	m := New(Deps{Habits: hs, Dir: dir, Config: cfg, Version: "test"}, start)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), hs
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestMenu_OpenHabitsAndBack(t *testing.T) {
	m, hs := newTestApp(t, MainMenuView)
	hs.Add("Read", "", "")

	assert.Contains(t, m.View(), "1 habits")
	assert.Contains(t, m.View(), "0 done today")

	m, _ = press(m, "enter")
	require.Equal(t, HabitsView, m.currentView)

	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, habits.BackToMenuMsg{}, msg)

	next, _ := m.Update(msg)
	assert.Equal(t, MainMenuView, next.(Model).currentView)
}

func TestMenu_ResetKeybindings(t *testing.T) {
	m, _ := newTestApp(t, MainMenuView)

	m, _ = press(m, "j", "enter")
	assert.Equal(t, MainMenuView, m.currentView)
	assert.Equal(t, "Keybindings reset to defaults", m.status)
}

func TestLoadErrorIsShown(t *testing.T) {
	dir, err := store.Open(t.TempDir())
	require.NoError(t, err)
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	hs := habitstore.New(dir)
	t.Cleanup(func() { hs.Close() })

	m := New(Deps{Habits: hs, Dir: dir, Config: cfg, LoadErr: assert.AnError}, HabitsView)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Contains(t, next.(Model).View(), assert.AnError.Error())
}
