package habits

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/ui/styles"
)

func newTitleInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. Drink water"
	ti.CharLimit = 80
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = styles.Input
	return ti
}

func (m Model) openCreateForm() (tea.Model, tea.Cmd) {
	m.FormEditingKey = ""
	m.FormCategories = slices.Clone(habit.Categories)
	m.FormCategoryIdx = 0
	m.FormTimes, m.FormTimeIdx = timeOptions("")
	m.formTimeKept, m.formTimeStart = habit.TimesOfDay[0], m.FormTimeIdx
	if m.Filter != "" {
		m.FormCategories, m.FormCategoryIdx = categoryOptions(m.Filter)
	}
	m.TitleInput.Reset()
	m.FormField = FieldTitle
	m.CurrentView = CreateView
	return m, m.TitleInput.Focus()
}

func (m Model) openEditForm(h habit.Habit) (tea.Model, tea.Cmd) {
	m.FormEditingKey = h.Key
	m.FormCategories, m.FormCategoryIdx = categoryOptions(h.Category)
	m.FormTimes, m.FormTimeIdx = timeOptions(h.Time)
	m.formTimeKept, m.formTimeStart = h.Time, m.FormTimeIdx
	m.TitleInput.SetValue(h.Title)
	m.TitleInput.CursorEnd()
	m.FormField = FieldTitle
	m.CurrentView = EditView
	return m, m.TitleInput.Focus()
}

// categoryOptions returns the preset categories with current selected,
// appending it when it is not a preset.
func categoryOptions(current string) ([]string, int) {
	opts := slices.Clone(habit.Categories)
	for i, c := range opts {
		if strings.EqualFold(c, current) {
			return opts, i
		}
	}
	current = strings.TrimSpace(current)
	if current == "" {
		return opts, 0
	}
	return append(opts, current), len(opts)
}

// timeOptions returns the preset time labels with current selected. A
// label outside the presets is appended; an empty one selects the first
// preset.
func timeOptions(current string) ([]string, int) {
	opts := slices.Clone(habit.TimesOfDay)
	current = strings.TrimSpace(current)
	if current == "" {
		return opts, 0
	}
	if i := slices.Index(opts, current); i >= 0 {
		return opts, i
	}
	return append(opts, current), len(opts)
}

// UpdateFormView handles input for the create/edit form view.
func (m Model) UpdateFormView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kb := m.Config.Keys()

	switch {
	case config.Matches(key, kb.Form.Cancel):
		m.TitleInput.Blur()
		m.CurrentView = m.PreviousView
		return m, nil

	case config.Matches(key, kb.Form.Submit):
		return m.saveForm()

	case config.Matches(key, kb.Form.NextField) || (key == "enter" && m.FormField != FieldTime):
		m.FormField = (m.FormField + 1) % 3
		return m, m.focusField()

	case key == "enter":
		return m.saveForm()

	case config.Matches(key, kb.Form.PrevField):
		m.FormField = (m.FormField + 2) % 3
		return m, m.focusField()
	}

	if m.FormField == FieldTitle {
		var cmd tea.Cmd
		m.TitleInput, cmd = m.TitleInput.Update(msg)
		return m, cmd
	}

	next := config.MatchesAny(key, kb.Form.NextOption, kb.Global.MoveDown, kb.Global.MoveDownAlt)
	prev := config.MatchesAny(key, kb.Form.PrevOption, kb.Global.MoveUp, kb.Global.MoveUpAlt)
	switch {
	case m.FormField == FieldCategory && next:
		m.FormCategoryIdx = (m.FormCategoryIdx + 1) % len(m.FormCategories)
	case m.FormField == FieldCategory && prev:
		m.FormCategoryIdx = (m.FormCategoryIdx + len(m.FormCategories) - 1) % len(m.FormCategories)
	case m.FormField == FieldTime && next:
		m.FormTimeIdx = (m.FormTimeIdx + 1) % len(m.FormTimes)
	case m.FormField == FieldTime && prev:
		m.FormTimeIdx = (m.FormTimeIdx + len(m.FormTimes) - 1) % len(m.FormTimes)
	}
	return m, nil
}

func (m *Model) focusField() tea.Cmd {
	if m.FormField == FieldTitle {
		return m.TitleInput.Focus()
	}
	m.TitleInput.Blur()
	return nil
}

// saveForm creates or updates the habit. A blank title is rejected
// silently; the form stays open.
func (m Model) saveForm() (tea.Model, tea.Cmd) {
	title := m.TitleInput.Value()
	if strings.TrimSpace(title) == "" {
		m.FormField = FieldTitle
		return m, m.TitleInput.Focus()
	}
	category := m.FormCategories[m.FormCategoryIdx]
	timeLabel := m.FormTimes[m.FormTimeIdx]
	if m.FormTimeIdx == m.formTimeStart {
		// Untouched picker keeps the stored label, including an empty one.
		timeLabel = m.formTimeKept
	}
	hs := m.Habits

	if m.CurrentView == EditView {
		key := m.FormEditingKey
		return m, func() tea.Msg {
			h, err := hs.EditDetails(key, title, category, timeLabel)
			if err != nil {
				return formError(err)
			}
			return HabitSavedMsg{Habit: h}
		}
	}

	return m, func() tea.Msg {
		h, err := hs.Add(title, category, timeLabel)
		if err != nil {
			return formError(err)
		}
		return HabitSavedMsg{Habit: h}
	}
}

func formError(err error) tea.Msg {
	if errors.Is(err, habit.ErrBlankTitle) {
		return nil
	}
	return HabitErrorMsg{Err: err}
}

// ViewForm renders the create/edit form view.
func (m Model) ViewForm(title string) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("  " + title))
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel("Title", FieldTitle))
	b.WriteString(m.TitleInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel("Category", FieldCategory))
	b.WriteString(m.renderOptions(m.FormCategories, m.FormCategoryIdx, FieldCategory))
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel("Time", FieldTime))
	b.WriteString(m.renderOptions(m.FormTimes, m.FormTimeIdx, FieldTime))
	b.WriteString("\n\n")

	kb := m.Config.Keys()
	var help string
	if m.FormField == FieldTitle {
		help = fmt.Sprintf("type a title • %s/%s fields • %s save • %s cancel",
			kb.Form.NextField, kb.Form.PrevField, kb.Form.Submit, kb.Form.Cancel)
	} else {
		help = fmt.Sprintf("←/%s →/%s choose • %s/%s fields • %s save • %s cancel",
			kb.Form.PrevOption, kb.Form.NextOption, kb.Form.NextField, kb.Form.PrevField, kb.Form.Submit, kb.Form.Cancel)
	}
	b.WriteString(styles.Help.Render(help))

	return b.String()
}

func (m Model) renderLabel(label string, field FormField) string {
	if m.FormField == field {
		return styles.Selected.Render(fmt.Sprintf("▸ %s: ", label))
	}
	return styles.Label.Render(fmt.Sprintf("  %s: ", label))
}

func (m Model) renderOptions(opts []string, selected int, field FormField) string {
	var parts []string
	for i, o := range opts {
		switch {
		case i == selected && m.FormField == field:
			parts = append(parts, styles.ChipActive.Render("["+o+"]"))
		case i == selected:
			parts = append(parts, styles.Input.Render(" "+o+" "))
		default:
			parts = append(parts, styles.Chip.Render(o))
		}
	}
	return strings.Join(parts, "")
}
