// Package app provides the main application TUI model.
package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habitstore"
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
	"github.com/hadinajem52/PixieHabitTracker/internal/ui/habits"
	"github.com/hadinajem52/PixieHabitTracker/internal/ui/styles"
)

const banner = `
 ██████╗ ██╗██╗  ██╗██╗███████╗
 ██╔══██╗██║╚██╗██╔╝██║██╔════╝
 ██████╔╝██║ ╚███╔╝ ██║█████╗
 ██╔═══╝ ██║ ██╔██╗ ██║██╔══╝
 ██║     ██║██╔╝ ██╗██║███████╗
 ╚═╝     ╚═╝╚═╝  ╚═╝╚═╝╚══════╝`

// View represents which view is currently active.
type View int

const (
	MainMenuView View = iota
	HabitsView
)

const (
	choiceHabits = iota
	choiceResetKeys
	choiceQuit
)

// Deps are the opened resources the TUI works on.
type Deps struct {
	Habits  *habitstore.Store
	Dir     *store.Store
	Config  *config.Config
	State   store.UIState // as of the previous run
	Version string
	LoadErr error
}

// Model is the main application model.
type Model struct {
	deps    Deps
	config  *config.Config
	choices []string
	cursor  int
	width   int
	height  int
	status  string
	errMsg  string

	currentView View
	habitsModel habits.Model
}

// New creates a new application model.
func New(d Deps, startView View) Model {
	m := Model{
		deps:        d,
		config:      d.Config,
		currentView: startView,
		choices: []string{
			"  Habits",
			"  Reset keybindings",
			"  Quit",
		},
		habitsModel: habits.New(d.Habits, d.Dir, d.Config, d.State),
	}
	if d.LoadErr != nil {
		m.errMsg = d.LoadErr.Error()
		m.habitsModel.ErrMsg = m.errMsg
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.habitsModel.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m.quit()
	}

	if _, ok := msg.(habits.BackToMenuMsg); ok {
		m.currentView = MainMenuView
		return m, nil
	}

	key, isKey := msg.(tea.KeyMsg)
	if isKey && m.currentView == MainMenuView {
		return m.handleMenuKey(key)
	}

	// Store events and timers reach the habits model in every view.
	updated, cmd := m.habitsModel.Update(msg)
	if hm, ok := updated.(habits.Model); ok {
		m.habitsModel = hm
	}
	return m, cmd
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kb := m.config.Keys()
	m.status = ""

	switch {
	case config.MatchesAny(key, kb.Global.Quit, kb.Global.QuitAlt):
		return m.quit()
	case config.MatchesAny(key, kb.Global.MoveUp, kb.Global.MoveUpAlt):
		if m.cursor > 0 {
			m.cursor--
		}
	case config.MatchesAny(key, kb.Global.MoveDown, kb.Global.MoveDownAlt):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case config.MatchesAny(key, kb.List.Select, " "):
		return m.handleMenuSelection()
	}
	return m, nil
}

func (m Model) handleMenuSelection() (tea.Model, tea.Cmd) {
	switch m.cursor {
	case choiceHabits:
		m.currentView = HabitsView
		m.habitsModel.SetSize(m.width, m.height)
		return m, nil
	case choiceResetKeys:
		if err := m.config.ResetKeybindings(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.habitsModel.Config = m.config
		m.status = "Keybindings reset to defaults"
	case choiceQuit:
		return m.quit()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.habitsModel.Close()
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.currentView == HabitsView {
		return m.habitsModel.View()
	}

	var content strings.Builder

	content.WriteString(styles.Banner.Render(banner))
	content.WriteString("\n")
	content.WriteString(styles.Version.Render(fmt.Sprintf("v%s", m.deps.Version)))
	content.WriteString("\n\n")

	content.WriteString(m.renderSummary())
	content.WriteString("\n")

	content.WriteString(styles.Title.Render("What would you like to do?"))
	content.WriteString("\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			cursor := styles.Cursor.Render("▸ ")
			content.WriteString(styles.Selected.Render(cursor + choice))
		} else {
			content.WriteString(styles.Item.Render("  " + choice))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	kb := m.config.Keys()
	content.WriteString(styles.Help.Render(fmt.Sprintf("↑/%s up • ↓/%s down • %s select • %s quit",
		kb.Global.MoveUp, kb.Global.MoveDown, kb.List.Select, kb.Global.QuitAlt)))

	if m.status != "" {
		content.WriteString("\n\n")
		content.WriteString(styles.Done.Render(m.status))
	}
	if m.errMsg != "" {
		content.WriteString("\n\n")
		content.WriteString(styles.Error.Render("Error: " + m.errMsg))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content.String())
}

func (m Model) renderSummary() string {
	all := m.deps.Habits.All()
	done, best := 0, 0
	for _, h := range all {
		if h.CompletedToday {
			done++
		}
		best = max(best, h.Streak)
	}

	var parts []string
	parts = append(parts, "  "+styles.Value.Render(fmt.Sprintf("%d habits", len(all)))+
		styles.Help.Render("  •  ")+styles.Done.Render(fmt.Sprintf("%d done today", done))+
		styles.Help.Render("  •  ")+styles.Streak.Render(fmt.Sprintf("best streak %d", best)))

	if !m.deps.State.LastOpenedAt.IsZero() {
		lastOpened := formatTimeAgo(m.deps.State.LastOpenedAt, time.Now())
		parts = append(parts, styles.Dim.Render(fmt.Sprintf("  Last opened: %s", lastOpened)))
	}

	return strings.Join(parts, "\n") + "\n"
}

func formatTimeAgo(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}
