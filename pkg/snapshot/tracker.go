package snapshot

import (
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/styled-switch/pkg/broadcast"
)

// Tracker holds the last published value of one aspect and the channel it
// publishes on.
//
// The cache is "last published", not "last observed": an Observe that finds
// the value unchanged leaves both the cache and the channel untouched. A
// tracker that was never seeded or observed has no cache, so its first
// Observe always publishes.
type Tracker[T comparable] struct {
	aspect  Aspect
	current T
	seeded  bool
	ch      *broadcast.Channel[T]
	logger  *slog.Logger
}

// NewTracker creates an empty tracker for aspect. A nil logger discards.
func NewTracker[T comparable](aspect Aspect, logger *slog.Logger) *Tracker[T] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker[T]{
		aspect: aspect,
		ch:     broadcast.New[T](aspect.String()),
		logger: logger,
	}
}

// Aspect returns the tracked aspect.
func (t *Tracker[T]) Aspect() Aspect { return t.aspect }

// Seed stores v as the initial cache without publishing. It is used at
// mount, where the view receives initial values directly.
func (t *Tracker[T]) Seed(v T) {
	t.current = v
	t.seeded = true
}

// Seeded reports whether the tracker holds a cached value.
func (t *Tracker[T]) Seeded() bool { return t.seeded }

// Current returns the cached value and whether one exists.
func (t *Tracker[T]) Current() (T, bool) {
	return t.current, t.seeded
}

// Observe compares v with the cache. When they differ (or there is no
// cache) it replaces the cache with v, publishes v, and reports true.
// Handler failures are returned alongside changed=true; they never roll
// back the cache.
func (t *Tracker[T]) Observe(v T) (changed bool, err error) {
	if t.seeded && t.current == v {
		return false, nil
	}
	t.current = v
	t.seeded = true
	t.logger.Debug("aspect changed", "aspect", t.aspect.String(), "value", v)
	return true, t.ch.Publish(v)
}

// Subscribe registers a handler for published values.
func (t *Tracker[T]) Subscribe(h broadcast.Handler[T]) func() {
	return t.ch.Subscribe(h)
}

// Subscribers returns the current subscriber count.
func (t *Tracker[T]) Subscribers() int { return t.ch.Len() }

// Close drops every subscriber and forgets the cache. A closed tracker
// never publishes again. Closing a nil tracker is a no-op.
func (t *Tracker[T]) Close() {
	if t == nil {
		return
	}
	t.ch.Close()
	var zero T
	t.current = zero
	t.seeded = false
}
