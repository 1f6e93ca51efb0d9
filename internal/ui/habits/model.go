// Package habits provides the habit tracking TUI component.
package habits

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/habitstore"
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
	"github.com/hadinajem52/PixieHabitTracker/internal/ui/styles"
)

// View represents the current view within the habits component.
type View int

const (
	ListView View = iota
	DetailView
	CreateView
	EditView
	DeleteConfirmView
	ResetConfirmView
	InfoEditorView
)

// FormField represents which field is focused in the create/edit form.
type FormField int

const (
	FieldTitle FormField = iota
	FieldCategory
	FieldTime
)

// Model is the Bubble Tea model for habit tracking.
type Model struct {
	Habits *habitstore.Store
	Dir    *store.Store // UI state persistence
	Config *config.Config

	CurrentView View
	List        []habit.Habit // filtered and sorted projection
	Cursor      int
	Filter      string
	Sort        habit.SortMode
	State       store.UIState

	// For detail view
	Selected      *habit.Habit
	HistoryCursor int
	DateInput     textinput.Model
	DateEditing   bool

	// Form fields
	TitleInput      textinput.Model
	FormCategories  []string
	FormCategoryIdx int
	FormTimes       []string
	FormTimeIdx     int
	formTimeKept    string
	formTimeStart   int
	FormField       FormField
	FormEditingKey  string
	PreviousView    View

	// Info editor
	InfoEditor textarea.Model

	// Confirmation target, for delete and streak reset
	ConfirmTarget *habit.Habit

	// Completion celebration
	Celebrating      string
	celebrationSeq   int
	CelebrationAfter time.Duration

	ListScroll int
	Width      int
	Height     int
	ErrMsg     string

	events      chan habitstore.Event
	unsubscribe func()
}

// Message types
type (
	// StoreChangedMsg is sent when the habit collection changed.
	StoreChangedMsg struct {
		Event habitstore.Event
	}

	HabitSavedMsg struct {
		Habit habit.Habit
	}

	HabitCompletedMsg struct {
		Habit habit.Habit
	}

	HabitDeletedMsg struct{}

	DateAddedMsg struct {
		Date string
	}

	HabitErrorMsg struct {
		Err error
	}

	celebrationDoneMsg struct {
		seq int
	}

	BackToMenuMsg struct{}
)

// New creates a new Model. state holds the persisted filter and sort;
// when its sort is empty the configured default is used.
func New(hs *habitstore.Store, dir *store.Store, cfg *config.Config, state store.UIState) Model {
	sort := cfg.Settings.SortMode()
	if state.Sort != "" {
		if s, err := habit.ParseSortMode(state.Sort); err == nil {
			sort = s
		}
	}

	m := Model{
		Habits:           hs,
		Dir:              dir,
		Config:           cfg,
		CurrentView:      ListView,
		Filter:           state.Filter,
		Sort:             sort,
		State:            state,
		CelebrationAfter: cfg.Settings.CelebrationDuration(),
		TitleInput:       newTitleInput(),
		DateInput:        newDateInput(),
		InfoEditor:       newInfoEditor(),
		events:           make(chan habitstore.Event, 16),
	}

	events := m.events
	m.unsubscribe = hs.Subscribe(func(e habitstore.Event) {
		// A full buffer already holds a pending refresh.
		select {
		case events <- e:
		default:
		}
	})

	m.refresh()
	return m
}

// Close stops listening for store changes.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// SetSize sets the width and height of the model.
func (m *Model) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	m.InfoEditor.SetWidth(min(60, max(20, width-8)))
	m.InfoEditor.SetHeight(min(10, max(3, height-12)))
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForEvent
}

// waitForEvent blocks until the store announces a change.
func (m Model) waitForEvent() tea.Msg {
	e, ok := <-m.events
	if !ok {
		return nil
	}
	return StoreChangedMsg{Event: e}
}

// refresh rebuilds the list projection and the selected habit.
func (m *Model) refresh() {
	m.List = m.Habits.FilterAndSort(m.Filter, m.Sort)
	if m.Cursor >= len(m.List) {
		m.Cursor = len(m.List) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.ListScroll > m.Cursor {
		m.ListScroll = m.Cursor
	}

	if m.Selected != nil {
		h, err := m.Habits.Get(m.Selected.Key)
		if err != nil {
			m.Selected = nil
			if m.CurrentView == DetailView {
				m.CurrentView = ListView
			}
			return
		}
		m.Selected = &h
		if m.HistoryCursor >= len(h.History) {
			m.HistoryCursor = max(0, len(h.History)-1)
		}
	}
}

// saveState persists the list filter and sort.
func (m *Model) saveState() tea.Cmd {
	m.State.Filter = m.Filter
	m.State.Sort = string(m.Sort)
	state := m.State
	dir := m.Dir
	return func() tea.Msg {
		if err := dir.SaveState(&state); err != nil {
			return HabitErrorMsg{Err: err}
		}
		return nil
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StoreChangedMsg:
		m.refresh()
		return m, m.waitForEvent

	case HabitSavedMsg:
		m.ErrMsg = ""
		m.refresh()
		if m.PreviousView == DetailView {
			h := msg.Habit
			m.Selected = &h
			m.CurrentView = DetailView
		} else {
			m.CurrentView = ListView
			m.selectKey(msg.Habit.Key)
		}
		return m, nil

	case HabitCompletedMsg:
		m.refresh()
		m.Celebrating = msg.Habit.Title
		m.celebrationSeq++
		seq := m.celebrationSeq
		return m, tea.Tick(m.CelebrationAfter, func(time.Time) tea.Msg {
			return celebrationDoneMsg{seq: seq}
		})

	case celebrationDoneMsg:
		if msg.seq == m.celebrationSeq {
			m.Celebrating = ""
		}
		return m, nil

	case HabitDeletedMsg:
		m.CurrentView = ListView
		m.ConfirmTarget = nil
		m.Selected = nil
		m.refresh()
		return m, nil

	case DateAddedMsg:
		m.DateEditing = false
		m.DateInput.Reset()
		m.DateInput.Blur()
		m.refresh()
		if m.Selected != nil {
			m.HistoryCursor = max(0, slices.Index(m.Selected.History, msg.Date))
		}
		return m, nil

	case HabitErrorMsg:
		m.ErrMsg = msg.Err.Error()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		m.ErrMsg = ""
		return m.handleKeyMsg(msg)
	}

	// Cursor blink and other component messages
	return m.updateComponents(msg)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.CurrentView {
	case ListView:
		return m.UpdateListView(msg)
	case DetailView:
		return m.UpdateDetailView(msg)
	case CreateView, EditView:
		return m.UpdateFormView(msg)
	case DeleteConfirmView, ResetConfirmView:
		return m.UpdateConfirmView(msg)
	case InfoEditorView:
		return m.UpdateInfoEditor(msg)
	}
	return m, nil
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.CurrentView == CreateView || m.CurrentView == EditView:
		m.TitleInput, cmd = m.TitleInput.Update(msg)
	case m.CurrentView == DetailView && m.DateEditing:
		m.DateInput, cmd = m.DateInput.Update(msg)
	case m.CurrentView == InfoEditorView:
		m.InfoEditor, cmd = m.InfoEditor.Update(msg)
	}
	return m, cmd
}

// selectKey moves the list cursor to the habit with the given key.
func (m *Model) selectKey(key string) {
	for i, h := range m.List {
		if h.Key == key {
			m.Cursor = i
			return
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.Celebrating != "" {
		content.WriteString(styles.Celebrate.Render("Great job! " + m.Celebrating + " done for today"))
		content.WriteString("\n\n")
	}

	switch m.CurrentView {
	case ListView:
		content.WriteString(m.ViewList())
	case DetailView:
		content.WriteString(m.ViewDetail())
	case CreateView:
		content.WriteString(m.ViewForm("New Habit"))
	case EditView:
		content.WriteString(m.ViewForm("Edit Habit"))
	case DeleteConfirmView:
		content.WriteString(m.ViewDeleteConfirm())
	case ResetConfirmView:
		content.WriteString(m.ViewResetConfirm())
	case InfoEditorView:
		content.WriteString(m.ViewInfoEditor())
	}

	if m.ErrMsg != "" {
		content.WriteString("\n\n")
		content.WriteString(styles.Error.Render("Error: " + m.ErrMsg))
	}

	return lipgloss.NewStyle().
		Width(m.Width).
		Height(m.Height).
		Padding(1, 2).
		Render(content.String())
}
