package habits

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/habitstore"
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
)

func newTestModel(t *testing.T) (Model, *habitstore.Store, *store.Store) {
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

	m := New(hs, dir, cfg, store.UIState{})
	t.Cleanup(m.Close)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, hs, dir
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(m, key(k))
	}
	return m, cmd
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = update(m, key(string(r)))
	}
	return m
}

func TestCreateHabit(t *testing.T) {
	m, hs, _ := newTestModel(t)

	m, _ = press(m, "n")
	require.Equal(t, CreateView, m.CurrentView)

	m = typeText(m, "Drink water")
	m, _ = press(m, "tab", "j") // category: General -> Health
	m, cmd := press(m, "ctrl+s")
	require.NotNil(t, cmd)

	msg := cmd()
	saved, ok := msg.(HabitSavedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "Drink water", saved.Habit.Title)
	assert.Equal(t, "Health", saved.Habit.Category)

	m, _ = update(m, msg)
	assert.Equal(t, ListView, m.CurrentView)
	require.Len(t, m.List, 1)
	assert.Equal(t, 1, hs.Len())
}

func TestCreateHabit_BlankTitleIsSilent(t *testing.T) {
	m, hs, _ := newTestModel(t)

	m, _ = press(m, "n")
	m = typeText(m, "   ")
	m, _ = press(m, "ctrl+s")

	assert.Equal(t, CreateView, m.CurrentView)
	assert.Empty(t, m.ErrMsg)
	assert.Equal(t, 0, hs.Len())
}

func TestToggleComplete_CelebratesOnce(t *testing.T) {
	m, hs, _ := newTestModel(t)
	_, err := hs.Add("Read", "", "")
	require.NoError(t, err)
	m.refresh()

	m, cmd := press(m, " ")
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, HabitCompletedMsg{}, msg)

	m, tick := update(m, msg)
	assert.Equal(t, "Read", m.Celebrating)
	assert.NotNil(t, tick)
	assert.True(t, m.List[0].CompletedToday)
	assert.Equal(t, 1, m.List[0].Streak)

	// Already done today: nothing happens.
	_, cmd = press(m, " ")
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	// A stale timer does not end a newer celebration.
	m, _ = update(m, celebrationDoneMsg{seq: m.celebrationSeq - 1})
	assert.Equal(t, "Read", m.Celebrating)
	m, _ = update(m, celebrationDoneMsg{seq: m.celebrationSeq})
	assert.Empty(t, m.Celebrating)
}

func TestFilterAndSortArePersisted(t *testing.T) {
	m, hs, dir := newTestModel(t)
	hs.Add("Run", "Health", "")
	hs.Add("Budget", "Finance", "")
	m.refresh()
	require.Len(t, m.List, 2)

	m, cmd := press(m, "f")
	assert.Equal(t, "Health", m.Filter)
	require.Len(t, m.List, 1)
	assert.Equal(t, "Run", m.List[0].Title)
	assert.Nil(t, cmd())

	m, cmd = press(m, "s")
	assert.Equal(t, habit.SortByStreak, m.Sort)
	assert.Nil(t, cmd())

	state, err := dir.GetState()
	require.NoError(t, err)
	assert.Equal(t, "Health", state.Filter)
	assert.Equal(t, "streak", state.Sort)

	restored := New(hs, dir, m.Config, *state)
	t.Cleanup(restored.Close)
	assert.Equal(t, "Health", restored.Filter)
	assert.Equal(t, habit.SortByStreak, restored.Sort)
	assert.Len(t, restored.List, 1)

	m, _ = press(m, "F")
	assert.Empty(t, m.Filter)
	assert.Len(t, m.List, 2)
}

func TestNextFilter(t *testing.T) {
	cats := []string{"General", "Health"}
	assert.Equal(t, "General", nextFilter(cats, ""))
	assert.Equal(t, "Health", nextFilter(cats, "general"))
	assert.Equal(t, "", nextFilter(cats, "Health"))
	assert.Equal(t, "", nextFilter(cats, "Gone"))
	assert.Equal(t, "", nextFilter(nil, ""))
}

func TestNextFilter_MixedCase(t *testing.T) {
	cats := []string{"Health", "health"}

	var seen []string
	filter := ""
	for range 3 {
		filter = nextFilter(cats, filter)
		seen = append(seen, filter)
	}
	assert.Equal(t, []string{"Health", "health", ""}, seen)

	// A restored filter with no exact chip still advances.
	assert.Equal(t, "health", nextFilter(cats, "HEALTH"))
	assert.Equal(t, 1, filterIndex(cats, "health"))
	assert.Equal(t, -1, filterIndex(cats, "Work"))
}

func TestEditForm_KeepsTimeLabel(t *testing.T) {
	tests := []struct {
		name string
		time string
	}{
		{"custom", "7am"},
		{"preset", "Evening"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, hs, _ := newTestModel(t)
			h, err := hs.Add("Run", "Health", tt.time)
			require.NoError(t, err)
			m.refresh()

			m, _ = press(m, "e")
			require.Equal(t, EditView, m.CurrentView)
			m = typeText(m, "!")
			m, cmd := press(m, "ctrl+s")
			require.NotNil(t, cmd)
			_, _ = update(m, cmd())

			got, err := hs.Get(h.Key)
			require.NoError(t, err)
			assert.Equal(t, "Run!", got.Title)
			assert.Equal(t, tt.time, got.Time)
		})
	}
}

func TestEditForm_ChangesTimeLabel(t *testing.T) {
	m, hs, _ := newTestModel(t)
	h, _ := hs.Add("Run", "Health", "7am")
	m.refresh()

	m, _ = press(m, "e")
	assert.Equal(t, []string{"Anytime", "Morning", "Afternoon", "Evening", "7am"}, m.FormTimes)
	m, _ = press(m, "tab", "tab", "j") // wraps from 7am to Anytime
	_, cmd := press(m, "ctrl+s")
	cmd()

	got, _ := hs.Get(h.Key)
	assert.Equal(t, "Anytime", got.Time)
}

func TestDetail_AddCompletion(t *testing.T) {
	m, hs, _ := newTestModel(t)
	h, _ := hs.Add("Read", "", "")
	m.refresh()

	m, _ = press(m, "enter")
	require.Equal(t, DetailView, m.CurrentView)

	m, _ = press(m, "a")
	require.True(t, m.DateEditing)

	m = typeText(m, "2024-13-01")
	_, cmd := press(m, "enter")
	assert.Nil(t, cmd(), "invalid dates are rejected silently")

	m.DateInput.SetValue("2024-01-01")
	m, cmd = press(m, "enter")
	msg := cmd()
	require.Equal(t, DateAddedMsg{Date: "2024-01-01"}, msg)

	m, _ = update(m, msg)
	assert.False(t, m.DateEditing)
	require.NotNil(t, m.Selected)
	assert.Equal(t, []string{"2024-01-01"}, m.Selected.History)
	assert.Equal(t, 0, m.Selected.Streak)

	got, err := hs.Get(h.Key)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01"}, got.History)
}

func TestDetail_ResetStreakNeedsConfirmation(t *testing.T) {
	m, hs, _ := newTestModel(t)
	h, _ := hs.Add("Read", "", "")
	hs.ToggleComplete(h.Key)
	m.refresh()

	m, _ = press(m, "enter", "r")
	require.Equal(t, ResetConfirmView, m.CurrentView)

	m, _ = press(m, "n")
	assert.Equal(t, DetailView, m.CurrentView)
	got, _ := hs.Get(h.Key)
	assert.Equal(t, 1, got.Streak)

	m, _ = press(m, "r")
	m, cmd := press(m, "y")
	assert.Equal(t, DetailView, m.CurrentView)
	assert.Nil(t, cmd())

	got, _ = hs.Get(h.Key)
	assert.Equal(t, 0, got.Streak)
	assert.Len(t, got.History, 1)
}

func TestDeleteFromList(t *testing.T) {
	m, hs, _ := newTestModel(t)
	hs.Add("Read", "", "")
	m.refresh()

	m, _ = press(m, "d")
	require.Equal(t, DeleteConfirmView, m.CurrentView)

	m, cmd := press(m, "y")
	msg := cmd()
	require.IsType(t, HabitDeletedMsg{}, msg)

	m, _ = update(m, msg)
	assert.Equal(t, ListView, m.CurrentView)
	assert.Empty(t, m.List)
	assert.Equal(t, 0, hs.Len())
}

func TestInfoEditor(t *testing.T) {
	m, hs, _ := newTestModel(t)
	h, _ := hs.Add("Read", "", "")
	m.refresh()

	m, _ = press(m, "enter", "i")
	require.Equal(t, InfoEditorView, m.CurrentView)

	m = typeText(m, "20 pages")
	m, cmd := press(m, "ctrl+s")
	msg := cmd()
	require.IsType(t, HabitSavedMsg{}, msg)

	m, _ = update(m, msg)
	assert.Equal(t, DetailView, m.CurrentView)

	got, _ := hs.Get(h.Key)
	assert.Equal(t, "20 pages", got.Info)
}

func TestStoreEventsRefreshList(t *testing.T) {
	m, hs, _ := newTestModel(t)

	hs.Add("Read", "", "")

	done := make(chan tea.Msg, 1)
	go func() { done <- m.waitForEvent() }()

	select {
	case msg := <-done:
		m, _ = update(m, msg)
		assert.Len(t, m.List, 1)
	case <-time.After(time.Second):
		t.Fatal("no store event delivered")
	}
}
