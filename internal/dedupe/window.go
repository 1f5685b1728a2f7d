// ABOUTME: Bounded, time-limited set of submission keys
// ABOUTME: Seen marks a key and reports whether it was already present

package dedupe

import (
	"sync"
	"time"
)

type entry struct {
	key  string
	seen time.Time
}

// Window tracks keys for ttl, holding at most size of them. Expiry is lazy:
// every call prunes from the oldest end, so no goroutine is needed.
type Window struct {
	mu    sync.Mutex
	ttl   time.Duration
	size  int
	keys  map[string]time.Time
	queue []entry
	now   func() time.Time
}

// New creates a window. size must be positive.
func New(ttl time.Duration, size int) *Window {
	if size <= 0 {
		size = 1
	}
	return &Window{
		ttl:  ttl,
		size: size,
		keys: make(map[string]time.Time, size),
		now:  time.Now,
	}
}

// Seen records key and reports whether it was already recorded within the
// window. The empty key is never recorded.
func (w *Window) Seen(key string) bool {
	if key == "" {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.pruneLocked(now)

	if _, ok := w.keys[key]; ok {
		return true
	}

	if len(w.queue) >= w.size {
		w.dropOldestLocked()
	}
	w.keys[key] = now
	w.queue = append(w.queue, entry{key: key, seen: now})
	return false
}

// Len returns the number of live keys.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pruneLocked(w.now())
	return len(w.keys)
}

// pruneLocked drops expired keys. Keys are queued in insertion order, so
// the first unexpired one ends the scan.
func (w *Window) pruneLocked(now time.Time) {
	for len(w.queue) > 0 && now.Sub(w.queue[0].seen) >= w.ttl {
		w.dropOldestLocked()
	}
}

func (w *Window) dropOldestLocked() {
	delete(w.keys, w.queue[0].key)
	w.queue[0] = entry{}
	w.queue = w.queue[1:]
}
