package config

import (
	"errors"
	"strings"

	"github.com/hadinajem52/PixieHabitTracker/internal/store"
)

const keybindingsFile = "keybindings.json"

// Keybindings holds all configurable keyboard shortcuts.
// Keys use Bubble Tea key string format (e.g., "ctrl+s", "enter", "esc").
type Keybindings struct {
	// Global keybindings (work in most views)
	Global GlobalKeys `json:"global"`

	// Habit list keybindings
	List ListKeys `json:"list"`

	// Create/edit form keybindings
	Form FormKeys `json:"form"`

	// Info editor keybindings
	Editor EditorKeys `json:"editor"`

	// Habit details keybindings
	Detail DetailKeys `json:"detail"`

	// Delete and reset confirmation keybindings
	Confirm ConfirmKeys `json:"confirm"`
}

// GlobalKeys are keybindings that work across multiple views.
type GlobalKeys struct {
	Quit        string `json:"quit"`          // Quit/back
	QuitAlt     string `json:"quit_alt"`      // Alternative quit key
	MoveUp      string `json:"move_up"`       // Move cursor up
	MoveDown    string `json:"move_down"`     // Move cursor down
	MoveUpAlt   string `json:"move_up_alt"`   // Alternative move up (arrow key)
	MoveDownAlt string `json:"move_down_alt"` // Alternative move down (arrow key)
}

// ListKeys are keybindings for the habit list.
type ListKeys struct {
	Select      string `json:"select"`       // Open details
	New         string `json:"new"`          // Create habit
	Delete      string `json:"delete"`       // Delete habit
	Edit        string `json:"edit"`         // Edit habit
	Toggle      string `json:"toggle"`       // Mark done today
	Filter      string `json:"filter"`       // Cycle category filter
	ClearFilter string `json:"clear_filter"` // Show all categories
	Sort        string `json:"sort"`         // Switch sort mode
	Top         string `json:"top"`          // Jump to top
	Bottom      string `json:"bottom"`       // Jump to bottom
	PageUp      string `json:"page_up"`      // Page up
	PageDown    string `json:"page_down"`    // Page down
}

// FormKeys are keybindings for the create and edit forms.
type FormKeys struct {
	Submit     string `json:"submit"`      // Save habit
	Cancel     string `json:"cancel"`      // Discard draft
	NextField  string `json:"next_field"`  // Move to next field
	PrevField  string `json:"prev_field"`  // Move to previous field
	NextOption string `json:"next_option"` // Next category/time preset
	PrevOption string `json:"prev_option"` // Previous category/time preset
}

// EditorKeys are keybindings for the info editor.
type EditorKeys struct {
	Save   string `json:"save"`   // Save and exit editor
	Cancel string `json:"cancel"` // Cancel editing
}

// DetailKeys are keybindings for the habit details screen.
type DetailKeys struct {
	Back             string `json:"back"`              // Go back
	Edit             string `json:"edit"`              // Edit habit
	Delete           string `json:"delete"`            // Delete habit
	Toggle           string `json:"toggle"`            // Mark done today
	AddCompletion    string `json:"add_completion"`    // Back-fill a date
	RemoveCompletion string `json:"remove_completion"` // Remove selected date
	ResetStreak      string `json:"reset_streak"`      // Reset streak to zero
	RecomputeStreak  string `json:"recompute_streak"`  // Recompute streak from history
	EditInfo         string `json:"edit_info"`         // Open info editor
	ScrollUp         string `json:"scroll_up"`         // Previous history entry
	ScrollDown       string `json:"scroll_down"`       // Next history entry
}

// ConfirmKeys answer confirmation prompts.
type ConfirmKeys struct {
	Yes string `json:"yes"`
	No  string `json:"no"`
}

// DefaultKeybindings returns the default keybinding configuration.
func DefaultKeybindings() *Keybindings {
	return &Keybindings{
		Global: GlobalKeys{
			Quit:        "esc",
			QuitAlt:     "q",
			MoveUp:      "k",
			MoveDown:    "j",
			MoveUpAlt:   "up",
			MoveDownAlt: "down",
		},
		List: ListKeys{
			Select:      "enter",
			New:         "n",
			Delete:      "d",
			Edit:        "e",
			Toggle:      "space",
			Filter:      "f",
			ClearFilter: "F",
			Sort:        "s",
			Top:         "g",
			Bottom:      "G",
			PageUp:      "ctrl+u",
			PageDown:    "ctrl+d",
		},
		Form: FormKeys{
			Submit:     "ctrl+s",
			Cancel:     "esc",
			NextField:  "tab",
			PrevField:  "shift+tab",
			NextOption: "right",
			PrevOption: "left",
		},
		Editor: EditorKeys{
			Save:   "ctrl+s",
			Cancel: "esc",
		},
		Detail: DetailKeys{
			Back:             "esc",
			Edit:             "e",
			Delete:           "d",
			Toggle:           "space",
			AddCompletion:    "a",
			RemoveCompletion: "x",
			ResetStreak:      "r",
			RecomputeStreak:  "shift+r",
			EditInfo:         "i",
			ScrollUp:         "k",
			ScrollDown:       "j",
		},
		Confirm: ConfirmKeys{
			Yes: "y",
			No:  "n",
		},
	}
}

// LoadKeybindings loads keybindings from the store.
// If the keybindings file doesn't exist, it creates one with defaults.
func LoadKeybindings(s *store.Store) (*Keybindings, error) {
	var kb Keybindings

	err := s.ReadJSON(keybindingsFile, &kb)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			kb = *DefaultKeybindings()
			if err := SaveKeybindings(s, &kb); err != nil {
				return nil, err
			}
			return &kb, nil
		}
		return nil, err
	}

	// Merge with defaults to ensure new fields are populated
	kb = mergeWithDefaults(&kb)

	return &kb, nil
}

// SaveKeybindings saves keybindings to the store.
func SaveKeybindings(s *store.Store, kb *Keybindings) error {
	return s.WriteJSON(keybindingsFile, kb)
}

// mergeWithDefaults fills in any missing keybindings with defaults.
// This handles cases where new keybindings are added in updates.
func mergeWithDefaults(kb *Keybindings) Keybindings {
	d := DefaultKeybindings()
	r := *kb

	fill(&r.Global.Quit, d.Global.Quit)
	fill(&r.Global.QuitAlt, d.Global.QuitAlt)
	fill(&r.Global.MoveUp, d.Global.MoveUp)
	fill(&r.Global.MoveDown, d.Global.MoveDown)
	fill(&r.Global.MoveUpAlt, d.Global.MoveUpAlt)
	fill(&r.Global.MoveDownAlt, d.Global.MoveDownAlt)

	fill(&r.List.Select, d.List.Select)
	fill(&r.List.New, d.List.New)
	fill(&r.List.Delete, d.List.Delete)
	fill(&r.List.Edit, d.List.Edit)
	fill(&r.List.Toggle, d.List.Toggle)
	fill(&r.List.Filter, d.List.Filter)
	fill(&r.List.ClearFilter, d.List.ClearFilter)
	fill(&r.List.Sort, d.List.Sort)
	fill(&r.List.Top, d.List.Top)
	fill(&r.List.Bottom, d.List.Bottom)
	fill(&r.List.PageUp, d.List.PageUp)
	fill(&r.List.PageDown, d.List.PageDown)

	fill(&r.Form.Submit, d.Form.Submit)
	fill(&r.Form.Cancel, d.Form.Cancel)
	fill(&r.Form.NextField, d.Form.NextField)
	fill(&r.Form.PrevField, d.Form.PrevField)
	fill(&r.Form.NextOption, d.Form.NextOption)
	fill(&r.Form.PrevOption, d.Form.PrevOption)

	fill(&r.Editor.Save, d.Editor.Save)
	fill(&r.Editor.Cancel, d.Editor.Cancel)

	fill(&r.Detail.Back, d.Detail.Back)
	fill(&r.Detail.Edit, d.Detail.Edit)
	fill(&r.Detail.Delete, d.Detail.Delete)
	fill(&r.Detail.Toggle, d.Detail.Toggle)
	fill(&r.Detail.AddCompletion, d.Detail.AddCompletion)
	fill(&r.Detail.RemoveCompletion, d.Detail.RemoveCompletion)
	fill(&r.Detail.ResetStreak, d.Detail.ResetStreak)
	fill(&r.Detail.RecomputeStreak, d.Detail.RecomputeStreak)
	fill(&r.Detail.EditInfo, d.Detail.EditInfo)
	fill(&r.Detail.ScrollUp, d.Detail.ScrollUp)
	fill(&r.Detail.ScrollDown, d.Detail.ScrollDown)

	fill(&r.Confirm.Yes, d.Confirm.Yes)
	fill(&r.Confirm.No, d.Confirm.No)

	return r
}

func fill(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// Matches checks if a key string matches a keybinding.
// It handles shift+letter bindings by converting them to uppercase.
// For example, "shift+a" in config matches "A" from Bubble Tea.
func Matches(key string, binding string) bool {
	return key == normalizeBinding(binding)
}

// MatchesAny checks if a key matches any of the provided bindings.
func MatchesAny(key string, bindings ...string) bool {
	for _, b := range bindings {
		if key == normalizeBinding(b) {
			return true
		}
	}
	return false
}

// normalizeBinding converts a binding string to match Bubble Tea's key format.
// "shift+x" becomes "X" for letter keys and "space" becomes " ".
func normalizeBinding(binding string) string {
	if binding == "space" {
		return " "
	}
	if strings.HasPrefix(binding, "shift+") {
		letter := strings.TrimPrefix(binding, "shift+")
		if len(letter) == 1 && letter[0] >= 'a' && letter[0] <= 'z' {
			return strings.ToUpper(letter)
		}
	}
	return binding
}
