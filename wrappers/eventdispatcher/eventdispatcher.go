// Package eventdispatcher binds handlers to comparable keys and posts one
// node per bound handler when an event fires. Grounded on
// helpers/event_processor.hpp's EventProcessor<KeyType>: bind_constructable
// / bind_castable register a handler under a key, unbind_event removes it,
// and post_event broadcasts a payload to every handler currently bound to
// a key.
package eventdispatcher

import (
	"context"
	"sync"

	"github.com/Swind/honeydew/graph"
)

// Poster is the subset of *dispatch.Scheduler this package needs.
type Poster interface {
	Post(root *graph.Node) error
}

// Handler reacts to an event payload. The payload's concrete type is a
// contract between the PostEvent caller and whoever Binds for that key.
type Handler func(ctx context.Context, payload any)

type binding struct {
	id      uint64
	handler Handler
}

// Dispatcher routes events keyed by K to every Handler currently bound to
// that key. Safe for concurrent Bind/Unbind/PostEvent from any goroutine.
type Dispatcher[K comparable] struct {
	mu       sync.RWMutex
	handlers map[K][]binding
	nextID   uint64
}

// New creates an empty Dispatcher.
func New[K comparable]() *Dispatcher[K] {
	return &Dispatcher[K]{handlers: make(map[K][]binding)}
}

// Unbind is returned by Bind; calling it removes that specific handler.
type Unbind func()

// Bind registers handler under key and returns a function that removes
// exactly this binding (other handlers bound to the same key are
// unaffected).
func (d *Dispatcher[K]) Bind(key K, handler Handler) Unbind {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.handlers[key] = append(d.handlers[key], binding{id: id, handler: handler})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		bindings := d.handlers[key]
		for i, b := range bindings {
			if b.id == id {
				d.handlers[key] = append(bindings[:i:i], bindings[i+1:]...)
				break
			}
		}
		if len(d.handlers[key]) == 0 {
			delete(d.handlers, key)
		}
	}
}

// UnbindKey removes every handler bound to key.
func (d *Dispatcher[K]) UnbindKey(key K) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.handlers, key)
}

// PostEvent posts one fire-and-forget node per handler currently bound to
// key, each invoking its handler with payload. Nodes are posted as one
// graph whose root runs the first handler and whose Fork peers run the
// rest, so they all go through poster's normal worker-selection, not run
// synchronously here.
func (d *Dispatcher[K]) PostEvent(poster Poster, key K, payload any, opts ...graph.NodeOption) {
	d.mu.RLock()
	bindings := append([]binding(nil), d.handlers[key]...)
	d.mu.RUnlock()

	if len(bindings) == 0 {
		return
	}

	b := graph.NewBuilder(func(ctx context.Context) {
		bindings[0].handler(ctx, payload)
	}, opts...)
	for _, bind := range bindings[1:] {
		handler := bind.handler
		b.Fork(func(ctx context.Context) {
			handler(ctx, payload)
		}, opts...)
	}

	poster.Post(b.Close())
}
