package progression

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Event is the interface implemented by all progression events.
// Consumers type-switch on the concrete variants below.
type Event interface {
	progressionEvent()
}

// LevelStartedEvent is published when StartLevel succeeds.
type LevelStartedEvent struct {
	WorldID int
	LevelID int
	Level   LevelDefinition
}

func (LevelStartedEvent) progressionEvent() {}

// LevelFailedEvent is published when an attempt earns zero stars.
// No progress is mutated for a failed attempt.
type LevelFailedEvent struct {
	WorldID  int
	LevelID  int
	Score    int
	Moves    int
	TimeSecs int
}

func (LevelFailedEvent) progressionEvent() {}

// LevelCompletedEvent is published after a successful attempt has been
// applied and persisted.
type LevelCompletedEvent struct {
	WorldID int
	LevelID int
	Result  LevelResult
	// First is true only on the first-ever completion of the level.
	First bool
}

func (LevelCompletedEvent) progressionEvent() {}

// LevelUnlockedEvent is published when completing a level unlocks its
// successor within the same world.
type LevelUnlockedEvent struct {
	WorldID int
	LevelID int
}

func (LevelUnlockedEvent) progressionEvent() {}

// WorldCompletedEvent is published exactly once, when the last level of
// a world is completed for the first time.
type WorldCompletedEvent struct {
	WorldID     int
	StarsEarned int
}

func (WorldCompletedEvent) progressionEvent() {}

// WorldUnlockedEvent is published when a world's star requirement is
// met. The world's first level is unlocked in the same operation.
type WorldUnlockedEvent struct {
	WorldID      int
	FirstLevelID int // 0 if the world has no levels
}

func (WorldUnlockedEvent) progressionEvent() {}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and should return quickly.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus is a minimal synchronous publish-subscribe dispatcher. A panic in
// one handler is recovered and logged so it cannot break dispatch to the
// remaining handlers or abort the publishing call.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
	logger *log.Logger
}

// NewBus creates an event bus. A nil logger falls back to log.Default().
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{nextID: 1, logger: logger}
}

// Subscribe registers a handler and returns its subscription id.
func (b *Bus) Subscribe(fn Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	return id
}

// Unsubscribe removes the handler with the given subscription id.
// Unknown ids are ignored.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all handlers in subscription order.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		b.dispatch(s.fn, e)
	}
}

func (b *Bus) dispatch(fn Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", eventName(e), "panic", r)
		}
	}()
	fn(e)
}

func eventName(e Event) string {
	switch e.(type) {
	case LevelStartedEvent:
		return "level:started"
	case LevelFailedEvent:
		return "level:failed"
	case LevelCompletedEvent:
		return "level:completed"
	case LevelUnlockedEvent:
		return "level:unlocked"
	case WorldCompletedEvent:
		return "world:completed"
	case WorldUnlockedEvent:
		return "world:unlocked"
	default:
		return "unknown"
	}
}
