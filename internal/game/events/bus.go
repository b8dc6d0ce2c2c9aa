package events

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var _ Bus = (*EventBus)(nil)

// route is one registered receiver: a Subscriber or a function handler bound
// to a single event type.
type route struct {
	id      string
	accepts func(eventType string) bool
	handle  EventHandler
}

// EventBus delivers events synchronously to every interested receiver in the
// order they registered. A receiver that panics is logged and skipped.
type EventBus struct {
	mu       sync.RWMutex
	routes   []route
	funcSeen map[string]int
	logger   zerolog.Logger
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{
		funcSeen: make(map[string]int),
		logger:   log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds subscriber to the bus. Subscribing again with the same ID
// replaces the earlier subscriber in place.
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	r := route{
		id:      subscriber.ID(),
		accepts: subscriber.InterestedIn,
		handle:  subscriber.HandleEvent,
	}
	for i := range eb.routes {
		if eb.routes[i].id == r.id {
			eb.routes[i] = r
			eb.logger.Debug().Str("subscriber_id", r.id).Msg("Subscriber replaced")
			return
		}
	}
	eb.routes = append(eb.routes, r)
	eb.logger.Debug().Str("subscriber_id", r.id).Msg("Subscriber added to event bus")
}

// SubscribeFunc registers handler for one event type and returns its ID
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.funcSeen[eventType]++
	id := eventType + "_func_" + strconv.Itoa(eb.funcSeen[eventType])
	eb.routes = append(eb.routes, route{
		id:      id,
		accepts: func(t string) bool { return t == eventType },
		handle:  handler,
	})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", id).
		Msg("Function handler added to event bus")

	return id
}

// Publish hands event to every interested receiver before returning.
// Receivers may subscribe more receivers while handling; those see the next
// event.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	routes := append([]route(nil), eb.routes...)
	eb.mu.RUnlock()

	eventType := event.Type()
	eb.logger.Trace().
		Str("event_type", eventType).
		Str("game_id", event.GameID()).
		Msg("Publishing event")

	for _, r := range routes {
		if r.accepts(eventType) {
			eb.deliver(r, event)
		}
	}
}

func (eb *EventBus) deliver(r route, event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			eb.logger.Error().
				Str("receiver", r.id).
				Str("event_type", event.Type()).
				Interface("panic", rec).
				Msg("Receiver panicked while handling event")
		}
	}()
	r.handle(event)
}
