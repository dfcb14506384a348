package notify

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind is the type of an event.
type Kind string

const (
	// KindThemeChanged is emitted after a new theme has been applied.
	KindThemeChanged Kind = "theme-changed"
	// KindRedraw asks the display to refresh.
	KindRedraw Kind = "redraw"
)

// Event is delivered to observers.
type Event struct {
	ID    ulid.ULID `json:"id" yaml:"id"`
	Kind  Kind      `json:"kind" yaml:"kind"`
	Theme string    `json:"theme,omitempty" yaml:"theme,omitempty"`
	At    time.Time `json:"at" yaml:"at"`
}

// NewEvent creates an event with a fresh ULID.
func NewEvent(kind Kind, theme string) Event {
	now := time.Now()
	return Event{
		ID:    ulid.MustNew(ulid.Timestamp(now), rand.Reader),
		Kind:  kind,
		Theme: theme,
		At:    now,
	}
}

// Emitter fans events out to subscribers in subscription order.
type Emitter struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
	ids  []int
}

// NewEmitter creates an Emitter.
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (e *Emitter) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.next
	e.next++
	e.subs[id] = fn
	e.ids = append(e.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.subs, id)
			for i, v := range e.ids {
				if v == id {
					e.ids = append(e.ids[:i], e.ids[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit delivers ev to every subscriber.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	fns := make([]func(Event), 0, len(e.ids))
	for _, id := range e.ids {
		fns = append(fns, e.subs[id])
	}
	e.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
