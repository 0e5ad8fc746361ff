// Package events provides a simple event emitter.
package events

import (
	"io"

	"github.com/tul/emission"
)

// Emitter is a synchronous event emitter whose registrations are cancelable.
type Emitter struct {
	e *emission.Emitter
}

// NewEmitter creates an Emitter.
// There is no per-event listener limit.
func NewEmitter() *Emitter {
	e := emission.NewEmitter()
	e.SetMaxListeners(-1)
	return &Emitter{e: e}
}

// On registers a callback when an event occurs.
// Returns an io.Closer that cancels this registration only.
func (emitter *Emitter) On(event, listener any) io.Closer {
	return canceler{emitter.e, event, emitter.e.On(event, listener)}
}

// Once registers a one-time callback when an event occurs.
// Returns an io.Closer that cancels this registration only.
func (emitter *Emitter) Once(event, listener any) io.Closer {
	return canceler{emitter.e, event, emitter.e.Once(event, listener)}
}

// EmitSync invokes listeners of an event in registration order.
func (emitter *Emitter) EmitSync(event any, args ...any) {
	emitter.e.EmitSync(event, args...)
}

// CountListeners returns the number of listeners registered for an event.
func (emitter *Emitter) CountListeners(event any) int {
	return emitter.e.GetListenerCount(event)
}

type canceler struct {
	emitter *emission.Emitter
	event   any
	handle  emission.ListenerHandle
}

func (c canceler) Close() error {
	c.emitter.RemoveListener(c.event, c.handle)
	return nil
}
