package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/habitstore"
)

type testEnv struct {
	t   *testing.T
	dir string
	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range []string{
		"PIXIE_BACKEND", "PIXIE_SQLITE_PATH", "PIXIE_REDIS_ADDR", "PIXIE_REDIS_PASSWORD",
		"PIXIE_REDIS_DB", "PIXIE_LOG_LEVEL", "PIXIE_SORT",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
	return &testEnv{
		t:   t,
		dir: t.TempDir(),
		now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local),
	}
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	o := &options{version: "1.2.3", clock: func() time.Time { return e.now }}
	cmd := newRootCmd(o)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--dir", e.dir}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, out)
	return out
}

func (e *testEnv) add(title string, args ...string) habit.Habit {
	e.t.Helper()
	out := e.mustRun(append([]string{"--format", "json", "add", title}, args...)...)
	var h habit.Habit
	require.NoError(e.t, json.Unmarshal([]byte(out), &h))
	return h
}

func (e *testEnv) list(args ...string) []habit.Habit {
	e.t.Helper()
	out := e.mustRun(append([]string{"--format", "json", "list"}, args...)...)
	var habits []habit.Habit
	require.NoError(e.t, json.Unmarshal([]byte(out), &habits))
	return habits
}

func TestAddAndList(t *testing.T) {
	e := newTestEnv(t)

	h := e.add("Drink water", "-c", "Health", "-t", "Morning")
	assert.NotEmpty(t, h.Key)
	assert.Equal(t, "Health", h.Category)
	assert.Equal(t, "Morning", h.Time)

	e.add("Budget")

	habits := e.list()
	require.Len(t, habits, 2)
	assert.Equal(t, "Budget", habits[0].Title, "newest first")
	assert.Equal(t, habit.DefaultCategory, habits[0].Category)

	filtered := e.list("-c", "health")
	require.Len(t, filtered, 1)
	assert.Equal(t, "Drink water", filtered[0].Title)

	out := e.mustRun("list")
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "Drink water")
}

func TestList_Empty(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, "No habits yet.\n", e.mustRun("list"))
	assert.Equal(t, "[]\n", e.mustRun("--format", "json", "list"))
}

func TestAdd_BlankTitle(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run("add", "   ")
	assert.ErrorIs(t, err, habit.ErrBlankTitle)
}

func TestDone(t *testing.T) {
	e := newTestEnv(t)
	h := e.add("Read")

	out := e.mustRun("done", h.Key)
	assert.Equal(t, "Great job! Read done, streak 1\n", out)

	out = e.mustRun("done", h.Key)
	assert.Equal(t, "Read is already done today (streak 1)\n", out)

	e.now = e.now.AddDate(0, 0, 1)
	out = e.mustRun("done", h.Key[:20])
	assert.Equal(t, "Great job! Read done, streak 2\n", out)

	e.now = e.now.AddDate(0, 0, 2)
	out = e.mustRun("done", h.Key)
	assert.Equal(t, "Great job! Read done, streak 1\n", out)
}

func TestDone_UnknownKey(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run("done", "nope")
	assert.ErrorIs(t, err, habitstore.ErrNotFound)
}

func TestEdit(t *testing.T) {
	e := newTestEnv(t)
	h := e.add("Read", "-c", "Education", "-t", "Evening")

	_, err := e.run("edit", h.Key)
	assert.Error(t, err)

	e.mustRun("edit", h.Key, "-T", "Read a book")

	habits := e.list()
	require.Len(t, habits, 1)
	assert.Equal(t, "Read a book", habits[0].Title)
	assert.Equal(t, "Education", habits[0].Category)
	assert.Equal(t, "Evening", habits[0].Time)
}

func TestRm_RequiresConfirmation(t *testing.T) {
	e := newTestEnv(t)
	h := e.add("Read")

	_, err := e.run("rm", h.Key)
	assert.ErrorIs(t, err, errNotConfirmed)
	assert.Len(t, e.list(), 1)

	out := e.mustRun("rm", h.Key, "--yes")
	assert.Equal(t, "Deleted Read\n", out)
	assert.Empty(t, e.list())
}

func TestHistoryAndStreak(t *testing.T) {
	e := newTestEnv(t)
	h := e.add("Read")

	_, err := e.run("history", "add", h.Key, "2024-13-01")
	assert.ErrorIs(t, err, habit.ErrInvalidDate)

	e.mustRun("history", "add", h.Key, "2023-12-31")
	e.mustRun("history", "add", h.Key, "2023-12-30")

	_, err = e.run("history", "add", h.Key, "2023-12-31")
	assert.ErrorIs(t, err, habit.ErrDuplicateDate)

	habits := e.list()
	assert.Equal(t, []string{"2023-12-30", "2023-12-31"}, habits[0].History)
	assert.Equal(t, 0, habits[0].Streak, "back-filling leaves the streak alone")

	e.mustRun("streak", "recompute", h.Key)
	assert.Equal(t, 2, e.list()[0].Streak)

	_, err = e.run("streak", "reset", h.Key)
	assert.ErrorIs(t, err, errNotConfirmed)

	e.mustRun("streak", "reset", h.Key, "--yes")
	habits = e.list()
	assert.Equal(t, 0, habits[0].Streak)
	assert.Len(t, habits[0].History, 2)

	e.mustRun("history", "rm", h.Key, "2023-12-30")
	assert.Equal(t, []string{"2023-12-31"}, e.list()[0].History)

	_, err = e.run("history", "rm", h.Key, "2023-12-30")
	assert.ErrorIs(t, err, habit.ErrDateNotFound)
}

func TestInfo(t *testing.T) {
	e := newTestEnv(t)
	h := e.add("Read")

	e.mustRun("info", h.Key, "20", "pages")
	assert.Equal(t, "20 pages", e.list()[0].Info)

	e.mustRun("info", h.Key)
	assert.Empty(t, e.list()[0].Info)
}

func TestCategories(t *testing.T) {
	e := newTestEnv(t)
	e.add("Run", "-c", "Health")
	e.add("Walk", "-c", "Health")
	e.add("Budget", "-c", "Finance")

	out := e.mustRun("categories")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.ElementsMatch(t, []string{"Health", "Finance"}, lines)
}

func TestSQLiteBackend(t *testing.T) {
	e := newTestEnv(t)

	h := e.add("Read", "--backend", "sqlite")
	e.mustRun("--backend", "sqlite", "done", h.Key)

	habits := e.list("--backend", "sqlite")
	require.Len(t, habits, 1)
	assert.Equal(t, 1, habits[0].Streak)

	assert.Empty(t, e.list(), "file backend is separate")
}

func TestCorruptDataIsNotOverwritten(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(e.dir, "habits.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := e.run("add", "Read")
	assert.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestInvalidFormat(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run("--format", "xml", "list")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, "pixie 1.2.3\n", e.mustRun("version"))
}
