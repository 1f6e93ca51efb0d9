// Package habitstore owns the in-memory habit collection. Every operation
// is applied atomically, announced to subscribers and followed by an
// asynchronous write of the full collection to a storage backend.
package habitstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
	"github.com/hadinajem52/PixieHabitTracker/internal/store"
)

// DefaultKey is the backend key holding the serialized collection.
const DefaultKey = "habits"

var (
	ErrNotFound     = errors.New("habit not found")
	ErrAmbiguousKey = errors.New("key prefix matches more than one habit")
)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, which decides what "today" is.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the logger used for load and save failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithKey sets the backend key the collection is stored under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithCreatedOrder sets the direction of habit.SortByCreatedAt.
func WithCreatedOrder(order habit.CreatedOrder) Option {
	return func(s *Store) { s.order = order }
}

// Store is the habit collection.
type Store struct {
	mu      sync.Mutex
	habits  []habit.Habit
	closed  bool
	clock   func() time.Time
	entropy io.Reader
	order   habit.CreatedOrder
	key     string
	log     *zap.Logger
	w       *writer

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// New returns an empty store persisting to backend. Call Load to read the
// saved collection.
func New(backend store.Backend, opts ...Option) *Store {
	s := &Store{
		clock: time.Now,
		order: habit.NewestFirst,
		key:   DefaultKey,
		log:   zap.NewNop(),
		subs:  make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.entropy = ulid.Monotonic(rand.New(rand.NewSource(s.clock().UnixNano())), 0)
	s.w = newWriter(backend, s.key, s.log)
	return s
}

// Load replaces the collection with the one stored in the backend. A
// missing key yields an empty collection. On failure the error is logged,
// the collection is left empty and the error is returned for information.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.w.backend.Get(ctx, s.key)
	var loaded []habit.Habit
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		s.log.Error("load habits", zap.String("key", s.key), zap.Error(err))
		s.replace(nil)
		return fmt.Errorf("load habits: %w", err)
	default:
		if err := json.Unmarshal(data, &loaded); err != nil {
			s.log.Error("decode habits", zap.String("key", s.key), zap.Error(err))
			s.replace(nil)
			return fmt.Errorf("decode habits: %w", err)
		}
	}

	s.replace(loaded)
	s.log.Info("habits loaded", zap.String("key", s.key), zap.Int("count", len(loaded)))
	return nil
}

func (s *Store) replace(loaded []habit.Habit) {
	s.mu.Lock()
	habits := make([]habit.Habit, 0, len(loaded))
	seen := make(map[string]bool, len(loaded))
	for _, h := range loaded {
		h = habit.Normalize(h)
		if h.Key == "" || seen[h.Key] {
			h.Key = s.newKeyLocked()
		}
		seen[h.Key] = true
		habits = append(habits, h)
	}
	s.habits = habits
	s.mu.Unlock()

	s.emit(Event{Kind: EventLoaded})
}

func (s *Store) today() string {
	return habit.Day(s.clock())
}

func (s *Store) newKeyLocked() string {
	for {
		key := ulid.MustNew(ulid.Timestamp(s.clock()), s.entropy).String()
		if s.indexLocked(key) < 0 {
			return key
		}
	}
}

func (s *Store) indexLocked(key string) int {
	for i := range s.habits {
		if s.habits[i].Key == key {
			return i
		}
	}
	return -1
}

// view returns a detached copy with CompletedToday derived for today.
func (s *Store) view(h habit.Habit, today string) habit.Habit {
	c := h.Clone()
	c.CompletedToday = habit.CompletedOn(c, today)
	return c
}

// persistLocked queues the full collection for writing.
func (s *Store) persistLocked() {
	if s.closed {
		return
	}
	today := s.today()
	snapshot := make([]habit.Habit, len(s.habits))
	for i, h := range s.habits {
		snapshot[i] = s.view(h, today)
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error("encode habits", zap.Error(err))
		return
	}
	s.w.enqueue(data)
}

// Add creates a habit and appends it to the collection.
func (s *Store) Add(title, category, timeLabel string) (habit.Habit, error) {
	s.mu.Lock()
	h, err := habit.New(s.newKeyLocked(), title, category, timeLabel, s.clock())
	if err != nil {
		s.mu.Unlock()
		return habit.Habit{}, err
	}
	s.habits = append(s.habits, h)
	s.persistLocked()
	out := s.view(h, s.today())
	s.mu.Unlock()

	s.emit(Event{Kind: EventAdded, Habit: out})
	return out, nil
}

// update applies fn to a copy of the habit with the given key and stores
// the result. When fn fails the collection is unchanged and the current
// record is returned alongside the error.
func (s *Store) update(key string, kind EventKind, fn func(h habit.Habit, today string) (habit.Habit, error)) (habit.Habit, error) {
	s.mu.Lock()
	today := s.today()
	i := s.indexLocked(key)
	if i < 0 {
		s.mu.Unlock()
		return habit.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	next, err := fn(s.habits[i].Clone(), today)
	if err != nil {
		cur := s.view(s.habits[i], today)
		s.mu.Unlock()
		return cur, err
	}
	next.Key = s.habits[i].Key
	next.CreatedAt = s.habits[i].CreatedAt
	s.habits[i] = next
	s.persistLocked()
	out := s.view(next, today)
	s.mu.Unlock()

	s.emit(Event{Kind: kind, Habit: out})
	return out, nil
}

// ToggleComplete marks the habit done today and advances its streak.
// It returns habit.ErrAlreadyCompleted if today is already recorded.
func (s *Store) ToggleComplete(key string) (habit.Habit, error) {
	return s.update(key, EventCompleted, func(h habit.Habit, today string) (habit.Habit, error) {
		return habit.Complete(h, today)
	})
}

// Delete removes the habit.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	i := s.indexLocked(key)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	removed := s.view(s.habits[i], s.today())
	s.habits = append(s.habits[:i:i], s.habits[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.emit(Event{Kind: EventDeleted, Habit: removed})
	return nil
}

// Edit replaces title and category. History, streak, time and info are kept.
func (s *Store) Edit(key, title, category string) (habit.Habit, error) {
	return s.update(key, EventUpdated, func(h habit.Habit, _ string) (habit.Habit, error) {
		title = strings.TrimSpace(title)
		if title == "" {
			return h, habit.ErrBlankTitle
		}
		h.Title = title
		h.Category = habit.NormalizeCategory(category)
		return h, nil
	})
}

// EditDetails replaces title, category and time label in one update.
// History, streak and info are untouched.
func (s *Store) EditDetails(key, title, category, timeLabel string) (habit.Habit, error) {
	return s.update(key, EventUpdated, func(h habit.Habit, _ string) (habit.Habit, error) {
		title = strings.TrimSpace(title)
		if title == "" {
			return h, habit.ErrBlankTitle
		}
		h.Title = title
		h.Category = habit.NormalizeCategory(category)
		h.Time = strings.TrimSpace(timeLabel)
		return h, nil
	})
}

// SetTime replaces the time-of-day label.
func (s *Store) SetTime(key, timeLabel string) (habit.Habit, error) {
	return s.update(key, EventUpdated, func(h habit.Habit, _ string) (habit.Habit, error) {
		h.Time = strings.TrimSpace(timeLabel)
		return h, nil
	})
}

// AddManualCompletion back-fills a completion date. The streak is not
// recomputed; see RecomputeStreak.
func (s *Store) AddManualCompletion(key, date string) (habit.Habit, error) {
	return s.update(key, EventUpdated, func(h habit.Habit, _ string) (habit.Habit, error) {
		return habit.AddCompletion(h, date)
	})
}

// RemoveCompletion drops a date from the history. The streak is not adjusted.
func (s *Store) RemoveCompletion(key, date string) (habit.Habit, error) {
	return s.update(key, EventUpdated, func(h habit.Habit, _ string) (habit.Habit, error) {
		return habit.RemoveCompletion(h, date)
	})
}

// ResetStreak sets the streak to zero. History is kept.
func (s *Store) ResetStreak(key string) (habit.Habit, error) {
	return s.update(key, EventUpdated, func(h habit.Habit, _ string) (habit.Habit, error) {
		h.Streak = 0
		return h, nil
	})
}

// RecomputeStreak sets the streak from the full history.
func (s *Store) RecomputeStreak(key string) (habit.Habit, error) {
	return s.update(key, EventUpdated, func(h habit.Habit, _ string) (habit.Habit, error) {
		h.Streak = habit.ComputeStreak(h.History)
		return h, nil
	})
}

// UpdateInfo replaces the free-text annotation. Empty text is allowed.
func (s *Store) UpdateInfo(key, text string) (habit.Habit, error) {
	return s.update(key, EventUpdated, func(h habit.Habit, _ string) (habit.Habit, error) {
		h.Info = text
		return h, nil
	})
}

// Get returns the habit with the given key.
func (s *Store) Get(key string) (habit.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(key)
	if i < 0 {
		return habit.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return s.view(s.habits[i], s.today()), nil
}

// Resolve expands a unique key prefix to a full key.
func (s *Store) Resolve(prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty key", ErrNotFound)
	}
	if s.indexLocked(prefix) >= 0 {
		return prefix, nil
	}

	match := ""
	for _, h := range s.habits {
		if strings.HasPrefix(strings.ToLower(h.Key), strings.ToLower(prefix)) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousKey, prefix)
			}
			match = h.Key
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return match, nil
}

// All returns every habit in insertion order.
func (s *Store) All() []habit.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []habit.Habit {
	today := s.today()
	out := make([]habit.Habit, len(s.habits))
	for i, h := range s.habits {
		out[i] = s.view(h, today)
	}
	return out
}

// Len returns the number of habits.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.habits)
}

// UniqueCategories returns the distinct categories in discovery order.
func (s *Store) UniqueCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return habit.UniqueCategories(s.habits)
}

// FilterAndSort returns the habits whose category matches filter
// (case-insensitive, empty keeps all) in the order given by mode.
func (s *Store) FilterAndSort(filter string, mode habit.SortMode) []habit.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return habit.FilterAndSort(s.snapshotLocked(), filter, mode, s.order)
}

// Flush blocks until pending writes have reached the backend.
func (s *Store) Flush() {
	s.w.flush()
}

// Close flushes pending writes and stops persisting. The backend is not
// closed; it belongs to the caller.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.w.close()
	return nil
}
