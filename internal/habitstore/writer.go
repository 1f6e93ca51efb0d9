package habitstore

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hadinajem52/PixieHabitTracker/internal/store"
)

// writer persists snapshots on a single goroutine. It holds at most one
// pending snapshot; a newer one replaces an unwritten older one, so the
// backend always ends up with the latest state and writes never reorder.
type writer struct {
	backend store.Backend
	key     string
	log     *zap.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	pending []byte
	dirty   bool
	busy    bool

	kick chan struct{}
	done chan struct{}
}

func newWriter(backend store.Backend, key string, log *zap.Logger) *writer {
	w := &writer{
		backend: backend,
		key:     key,
		log:     log,
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.idle = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// enqueue schedules data to be written, replacing any unwritten snapshot.
func (w *writer) enqueue(data []byte) {
	w.mu.Lock()
	w.pending = data
	w.dirty = true
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for range w.kick {
		for {
			w.mu.Lock()
			if !w.dirty {
				w.busy = false
				w.idle.Broadcast()
				w.mu.Unlock()
				break
			}
			data := w.pending
			w.pending = nil
			w.dirty = false
			w.busy = true
			w.mu.Unlock()

			if err := w.backend.Set(context.Background(), w.key, data); err != nil {
				w.log.Error("save habits", zap.String("key", w.key), zap.Error(err))
			} else {
				w.log.Debug("habits saved", zap.String("key", w.key), zap.Int("bytes", len(data)))
			}
		}
	}
}

// flush blocks until every enqueued snapshot has been handed to the backend.
func (w *writer) flush() {
	w.mu.Lock()
	for w.dirty || w.busy {
		w.idle.Wait()
	}
	w.mu.Unlock()
}

// close flushes and stops the writer goroutine.
func (w *writer) close() {
	w.flush()
	close(w.kick)
	<-w.done
}
