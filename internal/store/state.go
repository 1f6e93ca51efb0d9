package store

import (
	"errors"
	"time"
)

const stateFile = "state.json"

// UIState holds the list preferences restored when the TUI starts.
type UIState struct {
	Filter       string    `json:"filter"`
	Sort         string    `json:"sort"`
	LastOpenedAt time.Time `json:"last_opened_at"`
}

// GetState loads the persisted UI state.
func (s *Store) GetState() (*UIState, error) {
	var state UIState
	if err := s.ReadJSON(stateFile, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState saves the UI state.
func (s *Store) SaveState(state *UIState) error {
	return s.WriteJSON(stateFile, state)
}

// TouchState records that the app was opened now, creating state if needed.
// The returned state still carries the previous LastOpenedAt.
func (s *Store) TouchState() (*UIState, error) {
	state, err := s.GetState()
	if errors.Is(err, ErrNotFound) {
		state = &UIState{}
	} else if err != nil {
		return nil, err
	}

	previous := *state
	state.LastOpenedAt = time.Now()
	if err := s.SaveState(state); err != nil {
		return nil, err
	}
	return &previous, nil
}
