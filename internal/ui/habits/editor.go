package habits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/ui/styles"
)

func newInfoEditor() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Notes, goals, reminders..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(8)
	return ta
}

func (m Model) openInfoEditor(h habit.Habit) (tea.Model, tea.Cmd) {
	m.InfoEditor.SetValue(h.Info)
	m.PreviousView = DetailView
	m.CurrentView = InfoEditorView
	return m, m.InfoEditor.Focus()
}

// UpdateInfoEditor handles input for the info editor view.
func (m Model) UpdateInfoEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kb := m.Config.Keys()

	switch {
	case config.Matches(key, kb.Editor.Cancel):
		m.InfoEditor.Blur()
		m.CurrentView = m.PreviousView
		return m, nil

	case config.Matches(key, kb.Editor.Save):
		m.InfoEditor.Blur()
		if m.Selected == nil {
			m.CurrentView = ListView
			return m, nil
		}
		hs := m.Habits
		habitKey := m.Selected.Key
		text := strings.TrimRight(m.InfoEditor.Value(), "\n")
		return m, func() tea.Msg {
			h, err := hs.UpdateInfo(habitKey, text)
			if err != nil {
				return HabitErrorMsg{Err: err}
			}
			return HabitSavedMsg{Habit: h}
		}
	}

	var cmd tea.Cmd
	m.InfoEditor, cmd = m.InfoEditor.Update(msg)
	return m, cmd
}

// ViewInfoEditor renders the info editor.
func (m Model) ViewInfoEditor() string {
	var b strings.Builder

	title := "Info"
	if m.Selected != nil {
		title = "Info: " + m.Selected.Title
	}
	b.WriteString(styles.Title.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("─────────────────────────────────────────"))
	b.WriteString("\n\n")
	b.WriteString(m.InfoEditor.View())
	b.WriteString("\n\n")

	kb := m.Config.Keys()
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s save • %s cancel", kb.Editor.Save, kb.Editor.Cancel)))

	return b.String()
}
