// Package broadcast provides a minimal typed publish/subscribe channel.
//
// Publish is synchronous: every handler subscribed at the moment Publish is
// called runs in subscription order before Publish returns. Nothing is
// buffered, so a value published with no subscribers is dropped and late
// subscribers never see it.
//
// Handlers are isolated from one another. A handler that returns an error or
// panics does not stop the remaining handlers; its failure is collected and
// returned from Publish.
package broadcast

import (
	"errors"
	"fmt"
	"runtime"
)

// Handler receives a published value.
type Handler[T any] func(T) error

// Subscriber is the subscribe half of a Channel, handed to consumers that
// must not publish.
type Subscriber[T any] interface {
	Subscribe(h Handler[T]) (unsubscribe func())
}

type subscription[T any] struct {
	id     uint64
	handle Handler[T]
}

// Channel fans one value type out to its subscribers. The zero value is not
// usable; call New. A Channel is not safe for concurrent use.
type Channel[T any] struct {
	name   string
	subs   []subscription[T]
	nextID uint64
	closed bool
}

// New creates an empty channel. The name is carried in handler errors.
func New[T any](name string) *Channel[T] {
	return &Channel[T]{name: name}
}

// Name returns the channel name.
func (c *Channel[T]) Name() string { return c.name }

// Subscribe appends h to the subscriber list and returns a function that
// removes it. The returned function is idempotent and may be called from
// inside a handler during Publish. Subscribing to a closed channel returns
// a no-op unsubscribe.
func (c *Channel[T]) Subscribe(h Handler[T]) func() {
	if h == nil || c.closed {
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscription[T]{id: id, handle: h})
	return func() { c.remove(id) }
}

func (c *Channel[T]) remove(id uint64) {
	for i, s := range c.subs {
		if s.id == id {
			// Copy instead of shifting in place: an in-flight Publish holds
			// the old backing array.
			next := make([]subscription[T], 0, len(c.subs)-1)
			next = append(next, c.subs[:i]...)
			c.subs = append(next, c.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of current subscribers.
func (c *Channel[T]) Len() int { return len(c.subs) }

// Publish delivers v to every current subscriber. The subscriber set is
// fixed when Publish starts. The returned error joins one *HandlerError per
// failing handler and is nil when all succeed.
func (c *Channel[T]) Publish(v T) error {
	if c.closed || len(c.subs) == 0 {
		return nil
	}
	pending := c.subs

	var errs []error
	for i, s := range pending {
		if err := c.deliver(i, s.handle, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// deliver runs one handler, converting a panic into a *HandlerError.
func (c *Channel[T]) deliver(index int, h Handler[T], v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{
				Channel:    c.name,
				Index:      index,
				Panic:      r,
				StackTrace: captureStack(),
			}
		}
	}()
	if herr := h(v); herr != nil {
		return &HandlerError{Channel: c.name, Index: index, Err: herr}
	}
	return nil
}

// Close drops every subscriber. Publish on a closed channel is a no-op.
func (c *Channel[T]) Close() {
	c.closed = true
	c.subs = nil
}

// Closed reports whether Close has been called.
func (c *Channel[T]) Closed() bool { return c.closed }

// HandlerError describes a single handler failure during Publish.
type HandlerError struct {
	// Channel is the name of the publishing channel.
	Channel string
	// Index is the handler's position in the snapshotted subscriber list.
	Index int
	// Err is the error returned by the handler, if it returned one.
	Err error
	// Panic is the recovered panic value, if the handler panicked.
	Panic any
	// StackTrace is captured for panics only.
	StackTrace string
}

func (e *HandlerError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("broadcast: %s handler %d panicked: %v", e.Channel, e.Index, e.Panic)
	}
	return fmt.Sprintf("broadcast: %s handler %d: %v", e.Channel, e.Index, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// captureStack returns the goroutine stack at the point of recovery.
func captureStack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
