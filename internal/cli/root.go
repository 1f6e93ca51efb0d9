// Package cli implements the pixie commands. Without a subcommand pixie
// starts the terminal UI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hadinajem52/PixieHabitTracker/internal/config"
	"github.com/hadinajem52/PixieHabitTracker/internal/habitstore"
	"github.com/hadinajem52/PixieHabitTracker/internal/logging"
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// options holds the global flags.
type options struct {
	dir     string
	backend string
	format  string
	version string

	clock func() time.Time
}

// NewRootCmd builds the pixie command tree.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&options{version: version})
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "pixie",
		Short:         "Track daily habits and streaks",
		Long:          "pixie tracks daily habits: mark them done, keep streaks going, back-fill missed days.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, o)
		},
	}

	root.PersistentFlags().StringVarP(&o.dir, "dir", "d", "", "App directory (default: ~/"+store.DirName+")")
	root.PersistentFlags().StringVarP(&o.backend, "backend", "b", "", "Storage backend: file, sqlite or redis (default: from settings.yaml)")
	root.PersistentFlags().StringVarP(&o.format, "format", "f", formatText, "Output format: text or json")

	root.AddCommand(
		newAddCmd(o),
		newListCmd(o),
		newDoneCmd(o),
		newEditCmd(o),
		newRmCmd(o),
		newHistoryCmd(o),
		newStreakCmd(o),
		newInfoCmd(o),
		newCategoriesCmd(o),
		newVersionCmd(o),
	)
	return root
}

// Execute runs the command tree and reports failures on stderr.
func Execute(ctx context.Context, version string) error {
	err := NewRootCmd(version).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

// app is everything a command needs, opened from the global flags.
type app struct {
	dir     *store.Store
	cfg     *config.Config
	log     *zap.Logger
	backend store.Backend
	habits  *habitstore.Store

	// loadErr is set when the saved habits could not be read. The store
	// is then empty but usable.
	loadErr error
}

// openApp opens the app directory, configuration, log and backend, and
// loads the habits. A load failure is kept in app.loadErr.
func (o *options) openApp(ctx context.Context) (*app, error) {
	if o.format != formatText && o.format != formatJSON {
		return nil, fmt.Errorf("invalid format %q (want text or json)", o.format)
	}

	var (
		dir *store.Store
		err error
	)
	if o.dir != "" {
		dir, err = store.Open(o.dir)
	} else {
		dir, err = store.New()
	}
	if err != nil {
		return nil, fmt.Errorf("open app dir: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.backend != "" {
		cfg.Settings.Storage.Backend = o.backend
		if err := cfg.Settings.Validate(); err != nil {
			return nil, err
		}
	}

	logDir, err := dir.SubDir("logs")
	if err != nil {
		return nil, fmt.Errorf("open log dir: %w", err)
	}
	log, err := logging.New(logDir.Path(), cfg.Settings.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	backend, err := store.OpenBackend(ctx, dir, cfg.Settings.BackendOptions())
	if err != nil {
		log.Error("open backend", zap.String("backend", cfg.Settings.Storage.Backend), zap.Error(err))
		log.Sync()
		return nil, fmt.Errorf("open %s backend: %w", cfg.Settings.Storage.Backend, err)
	}

	opts := []habitstore.Option{
		habitstore.WithLogger(log),
		habitstore.WithKey(cfg.Settings.Storage.Key),
		habitstore.WithCreatedOrder(cfg.Settings.CreatedOrder()),
	}
	if o.clock != nil {
		opts = append(opts, habitstore.WithClock(o.clock))
	}
	habits := habitstore.New(backend, opts...)

	a := &app{dir: dir, cfg: cfg, log: log, backend: backend, habits: habits}
	a.loadErr = habits.Load(ctx)
	return a, nil
}

// open is openApp for commands that must not run against a collection that
// failed to load, since their first write would replace it.
func (o *options) open(ctx context.Context) (*app, error) {
	a, err := o.openApp(ctx)
	if err != nil {
		return nil, err
	}
	if a.loadErr != nil {
		a.Close()
		return nil, a.loadErr
	}
	return a, nil
}

// Close flushes pending writes and releases the backend.
func (a *app) Close() error {
	err := errors.Join(a.habits.Close(), a.backend.Close())
	a.log.Sync()
	return err
}

// resolve expands a key prefix given on the command line.
func (a *app) resolve(prefix string) (string, error) {
	return a.habits.Resolve(prefix)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
