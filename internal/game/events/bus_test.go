package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	received := false
	var receivedEvent Event

	bus.SubscribeFunc(TypeGameStarted, func(e Event) {
		received = true
		receivedEvent = e
	})

	bus.Publish(NewGameStartedEvent("test-game", 5, 300, 1000))

	assert.True(t, received, "Event handler should have been called")
	assert.NotNil(t, receivedEvent, "Event should have been received")
	assert.Equal(t, TypeGameStarted, receivedEvent.Type())
	assert.Equal(t, "test-game", receivedEvent.GameID())
	assert.False(t, receivedEvent.Timestamp().IsZero())
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false

	id1 := bus.SubscribeFunc(TypeTurnStarted, func(e Event) {
		handler1Called = true
	})
	id2 := bus.SubscribeFunc(TypeTurnStarted, func(e Event) {
		handler2Called = true
	})

	bus.Publish(NewTurnStartedEvent("test-game", 1, "A"))

	assert.True(t, handler1Called, "Handler 1 should have been called")
	assert.True(t, handler2Called, "Handler 2 should have been called")
	assert.Equal(t, "turn.started_func_1", id1)
	assert.Equal(t, "turn.started_func_2", id2)
}

// TestSubscriber is a test implementation of Subscriber
type TestSubscriber struct {
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string {
	return ts.id
}

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

func TestEventBusSubscriber(t *testing.T) {
	bus := NewEventBus()

	subscriber := &TestSubscriber{
		id: "test-subscriber",
		interestedTypes: map[string]bool{
			TypeGameStarted: true,
			TypeGameEnded:   true,
		},
	}

	bus.Subscribe(subscriber)

	bus.Publish(NewGameStartedEvent("test-game", 5, 300, 1000))
	bus.Publish(NewTurnStartedEvent("test-game", 1, "A"))
	bus.Publish(NewGameEndedEvent("test-game", 300, 1500, 21500, true, time.Minute))

	// Should only receive GameStarted and GameEnded
	assert.Len(t, subscriber.receivedEvents, 2)
	assert.Equal(t, TypeGameStarted, subscriber.receivedEvents[0].Type())
	assert.Equal(t, TypeGameEnded, subscriber.receivedEvents[1].Type())
}

func TestEventBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var order []string

	bus.SubscribeFunc(TypeTurnStarted, func(Event) { order = append(order, "first") })
	bus.Subscribe(&orderedSubscriber{id: "second", order: &order})
	bus.SubscribeFunc(TypeTurnStarted, func(Event) { order = append(order, "third") })

	for i := 0; i < 3; i++ {
		bus.Publish(NewTurnStartedEvent("test-game", i+1, "A"))
	}

	assert.Equal(t, []string{
		"first", "second", "third",
		"first", "second", "third",
		"first", "second", "third",
	}, order)
}

func TestEventBusResubscribeReplaces(t *testing.T) {
	bus := NewEventBus()
	old := &TestSubscriber{id: "same"}
	replacement := &TestSubscriber{id: "same"}

	bus.Subscribe(old)
	bus.Subscribe(replacement)
	bus.Publish(NewGameStartedEvent("test-game", 5, 300, 1000))

	assert.Empty(t, old.receivedEvents)
	assert.Len(t, replacement.receivedEvents, 1)
}

func TestEventBusSubscribeWhilePublishing(t *testing.T) {
	bus := NewEventBus()
	late := 0
	bus.SubscribeFunc(TypeTurnStarted, func(Event) {
		if late == 0 {
			bus.SubscribeFunc(TypeTurnStarted, func(Event) { late++ })
		}
	})

	bus.Publish(NewTurnStartedEvent("test-game", 1, "A"))
	assert.Equal(t, 0, late)

	bus.Publish(NewTurnStartedEvent("test-game", 2, "A"))
	assert.Equal(t, 1, late)
}

type orderedSubscriber struct {
	id    string
	order *[]string
}

func (s *orderedSubscriber) ID() string               { return s.id }
func (s *orderedSubscriber) InterestedIn(string) bool { return true }
func (s *orderedSubscriber) HandleEvent(Event)        { *s.order = append(*s.order, s.id) }

type panickingSubscriber struct{}

func (panickingSubscriber) ID() string               { return "panics" }
func (panickingSubscriber) InterestedIn(string) bool { return true }
func (panickingSubscriber) HandleEvent(Event)        { panic("boom") }

func TestEventBusRecoversFromPanics(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(panickingSubscriber{})
	bus.SubscribeFunc(TypeTradeExecuted, func(Event) { panic("handler boom") })

	after := false
	bus.SubscribeFunc(TypeTradeExecuted, func(Event) { after = true })

	assert.NotPanics(t, func() {
		bus.Publish(NewTradeExecutedEvent("g", "p", 3, core.CmdBuy, "Food", 5, 100, 0))
	})
	assert.True(t, after, "handlers after a panicking one still run")
}
