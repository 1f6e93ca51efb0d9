package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hadinajem52/PixieHabitTracker/internal/store"
	ui "github.com/hadinajem52/PixieHabitTracker/internal/ui/app"
)

// runTUI starts the terminal UI. Unlike the other commands it keeps going
// when the habits failed to load and shows the error instead.
func runTUI(cmd *cobra.Command, o *options) error {
	ctx := cmd.Context()

	a, err := o.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.loadErr != nil {
		a.log.Warn("starting with an empty collection", zap.Error(a.loadErr))
	}

	state, err := a.dir.TouchState()
	if err != nil {
		a.log.Warn("touch ui state", zap.Error(err))
		state = &store.UIState{}
	}

	m := ui.New(ui.Deps{
		Habits:  a.habits,
		Dir:     a.dir,
		Config:  a.cfg,
		State:   *state,
		Version: o.version,
		LoadErr: a.loadErr,
	}, ui.HabitsView)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
