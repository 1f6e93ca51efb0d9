package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/habitstore"
	"github.com/hadinajem52/PixieHabitTracker/internal/ui/styles"
)

func newDateInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = habit.DateLayout
	ti.CharLimit = len(habit.DateLayout)
	ti.Width = len(habit.DateLayout) + 1
	ti.Prompt = ""
	ti.TextStyle = styles.Input
	return ti
}

// UpdateDetailView handles input for the detail view.
func (m Model) UpdateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Selected == nil {
		m.CurrentView = ListView
		return m, nil
	}
	if m.DateEditing {
		return m.updateDateInput(msg)
	}

	key := msg.String()
	kb := m.Config.Keys()
	h := *m.Selected

	// Handle back/quit
	if config.MatchesAny(key, kb.Global.Quit, kb.Global.QuitAlt, kb.Detail.Back) {
		m.CurrentView = ListView
		m.Selected = nil
		return m, nil
	}

	if config.MatchesAny(key, kb.Detail.ScrollUp, kb.Global.MoveUp, kb.Global.MoveUpAlt) {
		if m.HistoryCursor > 0 {
			m.HistoryCursor--
		}
		return m, nil
	}

	if config.MatchesAny(key, kb.Detail.ScrollDown, kb.Global.MoveDown, kb.Global.MoveDownAlt) {
		if m.HistoryCursor < len(h.History)-1 {
			m.HistoryCursor++
		}
		return m, nil
	}

	switch {
	case config.Matches(key, kb.List.Top):
		m.HistoryCursor = 0

	case config.Matches(key, kb.List.Bottom):
		m.HistoryCursor = max(0, len(h.History)-1)

	case config.Matches(key, kb.Detail.Toggle):
		return m, m.toggleComplete(h.Key)

	case config.Matches(key, kb.Detail.Edit):
		m.PreviousView = DetailView
		return m.openEditForm(h)

	case config.Matches(key, kb.Detail.Delete):
		m.ConfirmTarget = &h
		m.PreviousView = DetailView
		m.CurrentView = DeleteConfirmView

	case config.Matches(key, kb.Detail.ResetStreak):
		m.ConfirmTarget = &h
		m.PreviousView = DetailView
		m.CurrentView = ResetConfirmView

	case config.Matches(key, kb.Detail.RecomputeStreak):
		return m, m.apply(func(hs *habitstore.Store) (habit.Habit, error) {
			return hs.RecomputeStreak(h.Key)
		})

	case config.Matches(key, kb.Detail.AddCompletion):
		m.DateEditing = true
		m.DateInput.Reset()
		return m, m.DateInput.Focus()

	case config.Matches(key, kb.Detail.RemoveCompletion):
		if m.HistoryCursor < len(h.History) {
			date := h.History[m.HistoryCursor]
			return m, m.apply(func(hs *habitstore.Store) (habit.Habit, error) {
				return hs.RemoveCompletion(h.Key, date)
			})
		}

	case config.Matches(key, kb.Detail.EditInfo):
		return m.openInfoEditor(h)
	}

	return m, nil
}

// apply runs a store update for the detail view. Validation rejections are
// silent; the store event refreshes the view on success.
func (m Model) apply(fn func(hs *habitstore.Store) (habit.Habit, error)) tea.Cmd {
	hs := m.Habits
	return func() tea.Msg {
		if _, err := fn(hs); err != nil && !isRejection(err) {
			return HabitErrorMsg{Err: err}
		}
		return nil
	}
}

func isRejection(err error) bool {
	for _, target := range []error{
		habit.ErrBlankTitle, habit.ErrAlreadyCompleted, habit.ErrBlankDate,
		habit.ErrInvalidDate, habit.ErrDuplicateDate, habit.ErrDateNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (m Model) updateDateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kb := m.Config.Keys()

	switch {
	case config.Matches(key, kb.Form.Cancel):
		m.DateEditing = false
		m.DateInput.Blur()
		return m, nil

	case key == "enter" || config.Matches(key, kb.Form.Submit):
		hs := m.Habits
		habitKey := m.Selected.Key
		date := strings.TrimSpace(m.DateInput.Value())
		return m, func() tea.Msg {
			_, err := hs.AddManualCompletion(habitKey, date)
			switch {
			case isRejection(err):
				// Input stays open for correction.
				return nil
			case err != nil:
				return HabitErrorMsg{Err: err}
			}
			return DateAddedMsg{Date: date}
		}
	}

	var cmd tea.Cmd
	m.DateInput, cmd = m.DateInput.Update(msg)
	return m, cmd
}

// ViewDetail renders the detail view.
func (m Model) ViewDetail() string {
	if m.Selected == nil {
		return ""
	}
	h := m.Selected

	var b strings.Builder

	b.WriteString(styles.Title.Render("  " + h.Title))
	if h.CompletedToday {
		b.WriteString(styles.Done.Render("  ✓ done today"))
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("─────────────────────────────────────────────────────"))
	b.WriteString("\n\n")

	b.WriteString(styles.Label.Render("Category: ") + styles.Category.Render(h.Category) + "\n")
	timeLabel := h.Time
	if timeLabel == "" {
		timeLabel = "Anytime"
	}
	b.WriteString(styles.Label.Render("Time:     ") + styles.Time.Render(timeLabel) + "\n")
	b.WriteString(styles.Label.Render("Streak:   ") + styles.Streak.Render(fmt.Sprintf("🔥 %d", h.Streak)) + "\n")
	if !h.CreatedAt.IsZero() {
		b.WriteString(styles.Label.Render("Created:  ") + styles.Dim.Render(h.CreatedAt.Format("Jan 2, 2006")) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("Info:"))
	b.WriteString("\n")
	if h.Info != "" {
		for _, line := range strings.Split(h.Info, "\n") {
			b.WriteString("  " + styles.Value.Render(line) + "\n")
		}
	} else {
		b.WriteString("  " + styles.Help.Render("(no info)") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.Label.Render(fmt.Sprintf("History (%d):", len(h.History))))
	b.WriteString("\n")
	b.WriteString(m.viewHistory())

	if m.DateEditing {
		b.WriteString("\n")
		b.WriteString(styles.Confirm.Render("  Add completion date: "))
		b.WriteString(m.DateInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	kb := m.Config.Keys()
	if m.DateEditing {
		b.WriteString(styles.Help.Render(fmt.Sprintf("type %s • enter add • %s cancel", habit.DateLayout, kb.Form.Cancel)))
		return b.String()
	}
	b.WriteString(styles.Help.Render(fmt.Sprintf("↑/%s ↓/%s history • %s add date • %s remove date • %s done",
		kb.Detail.ScrollUp, kb.Detail.ScrollDown, kb.Detail.AddCompletion, kb.Detail.RemoveCompletion, kb.Detail.Toggle)))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s reset streak • %s recompute • %s info • %s edit • %s delete • %s back",
		kb.Detail.ResetStreak, kb.Detail.RecomputeStreak, kb.Detail.EditInfo, kb.Detail.Edit, kb.Detail.Delete, kb.Detail.Back)))

	return b.String()
}

func (m Model) viewHistory() string {
	h := m.Selected
	if len(h.History) == 0 {
		return "  " + styles.Help.Render("(no completions yet)") + "\n"
	}

	visible := max(3, m.Height-24)
	start := 0
	if m.HistoryCursor >= visible {
		start = m.HistoryCursor - visible + 1
	}
	end := min(start+visible, len(h.History))

	var b strings.Builder
	if start > 0 {
		b.WriteString(styles.Help.Render("  ↑ more"))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		if i == m.HistoryCursor {
			b.WriteString(styles.Cursor.Render("  ▸ "))
			b.WriteString(styles.Selected.Render(h.History[i]))
		} else {
			b.WriteString("    ")
			b.WriteString(styles.Value.Render(h.History[i]))
		}
		b.WriteString("\n")
	}
	if end < len(h.History) {
		b.WriteString(styles.Help.Render("  ↓ more"))
		b.WriteString("\n")
	}
	return b.String()
}

// UpdateConfirmView handles input for the delete and reset confirmations.
func (m Model) UpdateConfirmView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kb := m.Config.Keys()

	switch {
	case config.MatchesAny(key, kb.Confirm.Yes, "Y"):
		if m.ConfirmTarget == nil {
			m.CurrentView = m.PreviousView
			return m, nil
		}
		target := m.ConfirmTarget.Key
		hs := m.Habits

		if m.CurrentView == DeleteConfirmView {
			return m, func() tea.Msg {
				if err := hs.Delete(target); err != nil {
					return HabitErrorMsg{Err: err}
				}
				return HabitDeletedMsg{}
			}
		}

		m.CurrentView = m.PreviousView
		m.ConfirmTarget = nil
		return m, m.apply(func(hs *habitstore.Store) (habit.Habit, error) {
			return hs.ResetStreak(target)
		})

	case config.MatchesAny(key, kb.Confirm.No, "N", "esc"):
		m.CurrentView = m.PreviousView
		m.ConfirmTarget = nil
	}
	return m, nil
}

// ViewDeleteConfirm renders the delete confirmation view.
func (m Model) ViewDeleteConfirm() string {
	var b strings.Builder

	b.WriteString(styles.Confirm.Render("  Delete habit?"))
	b.WriteString("\n\n")

	if m.ConfirmTarget != nil {
		b.WriteString(styles.Value.Render(fmt.Sprintf("  \"%s\"", m.ConfirmTarget.Title)))
		b.WriteString("\n")
		b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d completions and a %d day streak will be lost",
			len(m.ConfirmTarget.History), m.ConfirmTarget.Streak)))
	}

	b.WriteString("\n\n")
	kb := m.Config.Keys()
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s confirm • %s cancel", kb.Confirm.Yes, kb.Confirm.No)))

	return b.String()
}

// ViewResetConfirm renders the streak reset confirmation view.
func (m Model) ViewResetConfirm() string {
	var b strings.Builder

	b.WriteString(styles.Confirm.Render("  Reset streak?"))
	b.WriteString("\n\n")

	if m.ConfirmTarget != nil {
		b.WriteString(styles.Value.Render(fmt.Sprintf("  \"%s\"", m.ConfirmTarget.Title)))
		b.WriteString("\n")
		b.WriteString(styles.Dim.Render(fmt.Sprintf("  Streak goes from %d to 0. History is kept.", m.ConfirmTarget.Streak)))
	}

	b.WriteString("\n\n")
	kb := m.Config.Keys()
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s confirm • %s cancel", kb.Confirm.Yes, kb.Confirm.No)))

	return b.String()
}
