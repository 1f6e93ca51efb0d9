package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDir(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), DirName))
	require.NoError(t, err)
	return s
}

func TestNew_UsesHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DirName), s.Path())

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileBackend_GetSet(t *testing.T) {
	ctx := context.Background()
	s := newTestDir(t)

	_, err := s.Get(ctx, "habits")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "habits", []byte(`[{"key":"a"}]`)))
	require.NoError(t, s.Set(ctx, "habits", []byte(`[]`)))

	got, err := s.Get(ctx, "habits")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	_, err = os.Stat(filepath.Join(s.Path(), "habits.json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(s.Path())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileBackend_RejectsPathKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestDir(t)

	for _, key := range []string{"", "..", "../escape", "a/b"} {
		assert.Error(t, s.Set(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestJSONHelpers(t *testing.T) {
	s := newTestDir(t)

	type doc struct {
		Name string `json:"name"`
	}
	require.NoError(t, s.WriteJSON("doc.json", doc{Name: "pixie"}))

	var got doc
	require.NoError(t, s.ReadJSON("doc.json", &got))
	assert.Equal(t, "pixie", got.Name)

	assert.ErrorIs(t, s.ReadJSON("missing.json", &got), ErrNotFound)
}

func TestSubDir(t *testing.T) {
	s := newTestDir(t)

	logs, err := s.SubDir("logs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Path(), "logs"), logs.Path())
	assert.DirExists(t, logs.Path())
}

func TestTouchState(t *testing.T) {
	s := newTestDir(t)

	first, err := s.TouchState()
	require.NoError(t, err)
	assert.True(t, first.LastOpenedAt.IsZero())

	stored, err := s.GetState()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), stored.LastOpenedAt, time.Minute)

	stored.Filter = "Health"
	stored.Sort = "streak"
	require.NoError(t, s.SaveState(stored))

	second, err := s.TouchState()
	require.NoError(t, err)
	assert.Equal(t, "Health", second.Filter)
	assert.Equal(t, "streak", second.Sort)
	assert.False(t, second.LastOpenedAt.IsZero())
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	s := newTestDir(t)

	b, err := OpenBackend(ctx, s, BackendOptions{})
	require.NoError(t, err)
	assert.Same(t, s, b)

	b, err = OpenBackend(ctx, s, BackendOptions{Kind: BackendSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	assert.FileExists(t, filepath.Join(s.Path(), "habits.db"))

	_, err = OpenBackend(ctx, s, BackendOptions{Kind: "etcd"})
	assert.Error(t, err)

	_, err = OpenBackend(ctx, s, BackendOptions{Kind: BackendRedis})
	assert.Error(t, err, "redis without an address")
}
