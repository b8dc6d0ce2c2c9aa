package events

import (
	"time"
)

// Event is something that happened during a Market Royale game
type Event interface {
	// Type is one of the Type* constants
	Type() string
	Timestamp() time.Time
	// GameID is the game the event belongs to
	GameID() string
}

// BaseEvent carries the fields every event shares
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Game      string    `json:"game_id"`
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

func (e BaseEvent) GameID() string {
	return e.Game
}

// EventHandler handles events of the type it was registered for
type EventHandler func(Event)

// Subscriber receives every event it is interested in
type Subscriber interface {
	// ID identifies the subscriber on its bus
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// Publisher is where the game and the player send their events
type Publisher interface {
	Publish(Event)
}

// Bus is what a game needs from an event bus: publishing and registering
// receivers.
type Bus interface {
	Publisher
	Subscribe(Subscriber)
	SubscribeFunc(eventType string, handler EventHandler) string
}
