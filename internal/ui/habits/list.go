package habits

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/ui/styles"
)

func (m Model) visibleItems() int {
	visibleItems := (m.Height - 12) / 4
	if visibleItems < 1 {
		visibleItems = 1
	}
	return visibleItems
}

// UpdateListView handles input for the list view.
func (m Model) UpdateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visibleItems := m.visibleItems()

	key := msg.String()
	kb := m.Config.Keys()

	// Handle quit/back
	if config.MatchesAny(key, kb.Global.Quit, kb.Global.QuitAlt) {
		return m, func() tea.Msg { return BackToMenuMsg{} }
	}

	// Handle navigation
	if config.MatchesAny(key, kb.Global.MoveUp, kb.Global.MoveUpAlt) {
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.ListScroll {
				m.ListScroll = m.Cursor
			}
		}
		return m, nil
	}

	if config.MatchesAny(key, kb.Global.MoveDown, kb.Global.MoveDownAlt) {
		if m.Cursor < len(m.List)-1 {
			m.Cursor++
			if m.Cursor >= m.ListScroll+visibleItems {
				m.ListScroll = m.Cursor - visibleItems + 1
			}
		}
		return m, nil
	}

	switch {
	case config.Matches(key, kb.List.Top):
		m.Cursor = 0
		m.ListScroll = 0

	case config.Matches(key, kb.List.Bottom):
		if len(m.List) > 0 {
			m.Cursor = len(m.List) - 1
			if m.Cursor >= visibleItems {
				m.ListScroll = m.Cursor - visibleItems + 1
			}
		}

	case config.Matches(key, kb.List.PageUp):
		m.Cursor = max(0, m.Cursor-visibleItems)
		m.ListScroll = max(0, m.ListScroll-visibleItems)

	case config.Matches(key, kb.List.PageDown):
		m.Cursor = max(0, min(len(m.List)-1, m.Cursor+visibleItems))
		if m.Cursor >= m.ListScroll+visibleItems {
			m.ListScroll = m.Cursor - visibleItems + 1
		}

	case config.Matches(key, kb.List.Select):
		if h, ok := m.current(); ok {
			m.Selected = &h
			m.HistoryCursor = 0
			m.CurrentView = DetailView
		}

	case config.Matches(key, kb.List.New):
		m.PreviousView = ListView
		return m.openCreateForm()

	case config.Matches(key, kb.List.Edit):
		if h, ok := m.current(); ok {
			m.PreviousView = ListView
			return m.openEditForm(h)
		}

	case config.Matches(key, kb.List.Delete):
		if h, ok := m.current(); ok {
			m.ConfirmTarget = &h
			m.PreviousView = ListView
			m.CurrentView = DeleteConfirmView
		}

	case config.Matches(key, kb.List.Toggle):
		if h, ok := m.current(); ok {
			return m, m.toggleComplete(h.Key)
		}

	case config.Matches(key, kb.List.Filter):
		m.Filter = nextFilter(m.Habits.UniqueCategories(), m.Filter)
		m.Cursor, m.ListScroll = 0, 0
		m.refresh()
		return m, m.saveState()

	case config.Matches(key, kb.List.ClearFilter):
		if m.Filter != "" {
			m.Filter = ""
			m.Cursor, m.ListScroll = 0, 0
			m.refresh()
			return m, m.saveState()
		}

	case config.Matches(key, kb.List.Sort):
		m.Sort = m.Sort.Toggle()
		m.refresh()
		return m, m.saveState()
	}

	return m, nil
}

func (m Model) current() (habit.Habit, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.List) {
		return habit.Habit{}, false
	}
	return m.List[m.Cursor], true
}

// toggleComplete marks the habit done today. Completing twice on the same
// day is not an error; it just does nothing.
func (m Model) toggleComplete(key string) tea.Cmd {
	hs := m.Habits
	return func() tea.Msg {
		h, err := hs.ToggleComplete(key)
		switch {
		case errors.Is(err, habit.ErrAlreadyCompleted):
			return nil
		case err != nil:
			return HabitErrorMsg{Err: err}
		}
		return HabitCompletedMsg{Habit: h}
	}
}

// nextFilter cycles through "all" followed by each category in use.
func nextFilter(categories []string, current string) string {
	if current == "" {
		if len(categories) == 0 {
			return ""
		}
		return categories[0]
	}
	i := filterIndex(categories, current)
	if i < 0 || i+1 >= len(categories) {
		return ""
	}
	return categories[i+1]
}

// filterIndex finds the category chip for filter. An exact match wins; a
// restored filter that differs only in case falls back to the first
// case-insensitive match.
func filterIndex(categories []string, filter string) int {
	if filter == "" {
		return -1
	}
	if i := slices.Index(categories, filter); i >= 0 {
		return i
	}
	return slices.IndexFunc(categories, func(c string) bool {
		return strings.EqualFold(c, filter)
	})
}

// ViewList renders the list view.
func (m Model) ViewList() string {
	var b strings.Builder

	header := "  Habits"
	if len(m.List) > 0 {
		header += styles.Help.Render(fmt.Sprintf(" (%d)", len(m.List)))
	}
	b.WriteString(styles.Title.Render(header))
	b.WriteString(styles.Dim.Render("   sorted by " + sortLabel(m.Sort)))
	b.WriteString("\n")
	b.WriteString(m.viewFilterChips())
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("─────────────────────────────────────────"))
	b.WriteString("\n\n")

	if len(m.List) == 0 {
		b.WriteString(m.viewEmptyState())
	} else {
		b.WriteString(m.viewHabitCards())
	}

	b.WriteString("\n\n")
	kb := m.Config.Keys()
	b.WriteString(styles.Help.Render(fmt.Sprintf("↑/%s ↓/%s navigate • %s/%s top/bottom • %s/%s page",
		kb.Global.MoveUp, kb.Global.MoveDown, kb.List.Top, kb.List.Bottom, kb.List.PageUp, kb.List.PageDown)))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s done • %s details • %s new • %s edit • %s delete",
		kb.List.Toggle, kb.List.Select, kb.List.New, kb.List.Edit, kb.List.Delete)))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s filter • %s all • %s sort • %s back",
		kb.List.Filter, kb.List.ClearFilter, kb.List.Sort, kb.Global.Quit)))

	return b.String()
}

func sortLabel(mode habit.SortMode) string {
	if mode == habit.SortByStreak {
		return "streak"
	}
	return "date created"
}

func (m Model) viewFilterChips() string {
	categories := m.Habits.UniqueCategories()
	selected := 0
	if m.Filter != "" {
		selected = -1
		if i := filterIndex(categories, m.Filter); i >= 0 {
			selected = i + 1
		}
	}
	chips := append([]string{"All"}, categories...)

	var parts []string
	for i, c := range chips {
		if i == selected {
			parts = append(parts, styles.ChipActive.Render("["+c+"]"))
		} else {
			parts = append(parts, styles.Chip.Render(c))
		}
	}
	return "  " + strings.Join(parts, "")
}

func (m Model) viewEmptyState() string {
	var b strings.Builder

	msg := "No habits yet!"
	if m.Filter != "" {
		msg = "No habits in " + m.Filter
	}

	b.WriteString(styles.Help.Render("  ┌─────────────────────────────────┐"))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("  │  "))
	b.WriteString(styles.Value.Render(fmt.Sprintf("%-31s", msg)))
	b.WriteString(styles.Help.Render("│"))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("  │                                 │"))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("  │  Press "))
	b.WriteString(styles.Selected.Render(fmt.Sprintf("%-2s", m.Config.Keys().List.New)))
	b.WriteString(styles.Help.Render(" to add a habit        │"))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("  └─────────────────────────────────┘"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewHabitCards() string {
	var b strings.Builder

	visibleItems := min(m.visibleItems(), len(m.List))

	if m.ListScroll > 0 {
		b.WriteString(styles.Help.Render("  ↑ more above"))
		b.WriteString("\n\n")
	}

	endIdx := min(m.ListScroll+visibleItems, len(m.List))

	for i := m.ListScroll; i < endIdx; i++ {
		h := m.List[i]
		isSelected := i == m.Cursor

		mark := styles.Help.Render("[ ] ")
		if h.CompletedToday {
			mark = styles.Done.Render("[✓] ")
		}

		if isSelected {
			b.WriteString(styles.Cursor.Render("▸ "))
			b.WriteString(mark)
			b.WriteString(styles.Selected.Render(h.Title))
		} else {
			b.WriteString("  ")
			b.WriteString(mark)
			b.WriteString(styles.Item.Render(h.Title))
		}
		b.WriteString("\n")

		b.WriteString("      ")
		b.WriteString(styles.Category.Render(h.Category))
		if h.Time != "" {
			b.WriteString(styles.Help.Render("  •  "))
			b.WriteString(styles.Time.Render(h.Time))
		}
		b.WriteString(styles.Help.Render("  •  "))
		b.WriteString(styles.Streak.Render(fmt.Sprintf("🔥 %d", h.Streak)))
		b.WriteString("\n")

		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(m.List) {
		b.WriteString("\n")
		b.WriteString(styles.Help.Render("  ↓ more below"))
	}

	return b.String()
}
