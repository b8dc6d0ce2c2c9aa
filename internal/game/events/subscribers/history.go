package subscribers

import (
	"sync"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
)

// TurnRecord is one issued command as seen by the history subscriber
type TurnRecord struct {
	Turn    int
	Rule    string
	Command core.Command
	Gold    int
}

// HistorySubscriber keeps the commands a game produced and tallies them by rule
// and by trade side. It backs the end-of-game summary table.
type HistorySubscriber struct {
	id string

	mu       sync.RWMutex
	records  []TurnRecord
	byRule   map[string]int
	trades   map[core.CommandType]int
	rejected int
	escapes  int
	goalTurn int
	lastGold int
}

// NewHistorySubscriber creates an empty history
func NewHistorySubscriber(id string) *HistorySubscriber {
	return &HistorySubscriber{
		id:     id,
		byRule: make(map[string]int),
		trades: make(map[core.CommandType]int),
	}
}

// ID returns the subscriber's unique identifier
func (hs *HistorySubscriber) ID() string {
	return hs.id
}

// InterestedIn returns true for the player-side events the history records
func (hs *HistorySubscriber) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeCommandIssued, events.TypeCommandRejected, events.TypeTradeExecuted,
		events.TypeGoalAchieved, events.TypeHazardEscaped:
		return true
	}
	return false
}

// HandleEvent records the event
func (hs *HistorySubscriber) HandleEvent(event events.Event) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	switch e := event.(type) {
	case *events.CommandIssuedEvent:
		hs.records = append(hs.records, TurnRecord{Turn: e.Turn, Rule: e.Rule, Command: e.Command, Gold: e.Gold})
		hs.byRule[e.Rule]++
		hs.lastGold = e.Gold
	case *events.CommandRejectedEvent:
		hs.rejected++
	case *events.TradeExecutedEvent:
		hs.trades[e.Side]++
	case *events.GoalAchievedEvent:
		if hs.goalTurn == 0 {
			hs.goalTurn = e.Turn
		}
	case *events.HazardEscapedEvent:
		hs.escapes++
	}
}

// Records returns a copy of the recorded commands in publication order
func (hs *HistorySubscriber) Records() []TurnRecord {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	out := make([]TurnRecord, len(hs.records))
	copy(out, hs.records)
	return out
}

// RuleCounts returns how many commands each rule produced
func (hs *HistorySubscriber) RuleCounts() map[string]int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	out := make(map[string]int, len(hs.byRule))
	for k, v := range hs.byRule {
		out[k] = v
	}
	return out
}

// Trades returns the number of committed trades on the given side
func (hs *HistorySubscriber) Trades(side core.CommandType) int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.trades[side]
}

// Rejected returns the number of commands the game refused
func (hs *HistorySubscriber) Rejected() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.rejected
}

// Escapes returns the number of hazard escapes
func (hs *HistorySubscriber) Escapes() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.escapes
}

// GoalTurn returns the turn the goal was first achieved, or 0
func (hs *HistorySubscriber) GoalTurn() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.goalTurn
}

// LastGold returns the gold reported with the latest command
func (hs *HistorySubscriber) LastGold() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.lastGold
}
