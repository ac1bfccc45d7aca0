package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/model"
)

// Event is something that happened in the world during a join or a tick.
type Event interface {
	worldEvent()
}

// PlayerJoinedEvent is published when a dog enters a map.
type PlayerJoinedEvent struct {
	PlayerID PlayerID
	Name     string
	MapID    model.MapID
}

func (PlayerJoinedEvent) worldEvent() {}

// LootDeliveredEvent is published when a dog empties its bag at an office.
type LootDeliveredEvent struct {
	PlayerID PlayerID
	MapID    model.MapID
	Items    int
	Points   int
	Score    int
}

func (LootDeliveredEvent) worldEvent() {}

// PlayerRetiredEvent is published when an idle dog leaves the game.
type PlayerRetiredEvent struct {
	PlayerID PlayerID
	Name     string
	MapID    model.MapID
	Score    int
	PlayTime time.Duration
}

func (PlayerRetiredEvent) worldEvent() {}

// EventSink receives world events. Publish is called from the simulation
// goroutine and must not block.
type EventSink interface {
	Publish(evt Event)
}

// EventStream is an EventSink backed by a buffered channel. When the reader
// falls behind, the oldest events are dropped.
type EventStream struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// NewEventStream creates a stream buffering up to bufferSize events.
func NewEventStream(bufferSize int) *EventStream {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &EventStream{
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}
}

// Publish queues an event without blocking.
func (s *EventStream) Publish(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		// Buffer full, drop oldest and retry once
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel to read events from.
func (s *EventStream) Events() <-chan Event {
	return s.events
}

// Done returns a channel closed by Close.
func (s *EventStream) Done() <-chan struct{} {
	return s.done
}

// Close stops accepting events. Safe to call multiple times.
func (s *EventStream) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
