package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
)

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func (o *options) printHabit(w io.Writer, h habit.Habit) error {
	if o.format == formatJSON {
		return writeJSON(w, h)
	}

	mark := " "
	if h.CompletedToday {
		mark = "x"
	}
	fmt.Fprintf(w, "[%s] %s\n", mark, h.Title)
	fmt.Fprintf(w, "    key:      %s\n", h.Key)
	fmt.Fprintf(w, "    category: %s\n", h.Category)
	if h.Time != "" {
		fmt.Fprintf(w, "    time:     %s\n", h.Time)
	}
	fmt.Fprintf(w, "    streak:   %d\n", h.Streak)
	if len(h.History) > 0 {
		fmt.Fprintf(w, "    history:  %s\n", strings.Join(h.History, ", "))
	}
	if h.Info != "" {
		fmt.Fprintf(w, "    info:     %s\n", h.Info)
	}
	return nil
}

func (o *options) printHabits(w io.Writer, habits []habit.Habit) error {
	if o.format == formatJSON {
		if habits == nil {
			habits = []habit.Habit{}
		}
		return writeJSON(w, habits)
	}
	if len(habits) == 0 {
		_, err := fmt.Fprintln(w, "No habits yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tDONE\tTITLE\tCATEGORY\tTIME\tSTREAK")
	for _, h := range habits {
		done := ""
		if h.CompletedToday {
			done = "x"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", h.Key, done, h.Title, h.Category, h.Time, h.Streak)
	}
	return tw.Flush()
}

func (o *options) printStrings(w io.Writer, values []string) error {
	if o.format == formatJSON {
		if values == nil {
			values = []string{}
		}
		return writeJSON(w, values)
	}
	for _, v := range values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}
