package habitstore

import "github.com/hadinajem52/PixieHabitTracker/internal/habit"

// EventKind identifies what changed in the collection.
type EventKind int

const (
	EventLoaded EventKind = iota
	EventAdded
	EventUpdated
	EventCompleted // a habit was marked done today; surfaces celebrate
	EventDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventAdded:
		return "added"
	case EventUpdated:
		return "updated"
	case EventCompleted:
		return "completed"
	case EventDeleted:
		return "deleted"
	}
	return "unknown"
}

// Event is delivered to subscribers after a mutation has been applied.
// Habit is the record after the change (before it, for EventDeleted) and is
// empty for EventLoaded.
type Event struct {
	Kind  EventKind
	Habit habit.Habit
}

// Subscribe registers fn to be called after every change. Calls happen
// synchronously on the mutating goroutine, outside the store lock.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) emit(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
