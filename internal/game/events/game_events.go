package events

import (
	"time"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted     = "game.started"
	TypeGameEnded       = "game.ended"
	TypeTurnStarted     = "turn.started"
	TypeCommandIssued   = "command.issued"
	TypeCommandRejected = "command.rejected"
	TypeTradeExecuted   = "trade.executed"
	TypeGoalAchieved    = "goal.achieved"
	TypeHazardEscaped   = "hazard.escaped"
	TypeMarketsChanged  = "markets.changed"
	TypeStateTransition = "state.transition"
)

func newBase(eventType, gameID string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Game:      gameID,
	}
}

// GameStartedEvent is published when a local game begins
type GameStartedEvent struct {
	BaseEvent
	NumMarkets int
	MaxTurns   int
	StartGold  int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, markets, maxTurns, startGold int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:  newBase(TypeGameStarted, gameID),
		NumMarkets: markets,
		MaxTurns:   maxTurns,
		StartGold:  startGold,
	}
}

// GameEndedEvent is published when a local game ends
type GameEndedEvent struct {
	BaseEvent
	FinalTurn    int
	Gold         int
	Score        int
	GoalAchieved bool
	Duration     time.Duration
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, finalTurn, gold, score int, achieved bool, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent:    newBase(TypeGameEnded, gameID),
		FinalTurn:    finalTurn,
		Gold:         gold,
		Score:        score,
		GoalAchieved: achieved,
		Duration:     duration,
	}
}

// TurnStartedEvent is published at the beginning of each turn
type TurnStartedEvent struct {
	BaseEvent
	TurnNumber int
	Location   string
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, turn int, location string) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:  newBase(TypeTurnStarted, gameID),
		TurnNumber: turn,
		Location:   location,
	}
}

// CommandIssuedEvent is published by a player once it has decided its turn.
// Rule names the decision rule that produced the command.
type CommandIssuedEvent struct {
	BaseEvent
	PlayerID string
	Turn     int
	Rule     string
	Command  core.Command
	Gold     int
}

// NewCommandIssuedEvent creates a new CommandIssuedEvent
func NewCommandIssuedEvent(gameID, playerID string, turn int, rule string, cmd core.Command, gold int) *CommandIssuedEvent {
	return &CommandIssuedEvent{
		BaseEvent: newBase(TypeCommandIssued, gameID),
		PlayerID:  playerID,
		Turn:      turn,
		Rule:      rule,
		Command:   cmd,
		Gold:      gold,
	}
}

// CommandRejectedEvent is published by the game when a command cannot be applied
type CommandRejectedEvent struct {
	BaseEvent
	PlayerID string
	Turn     int
	Command  core.Command
	Reason   string
}

// NewCommandRejectedEvent creates a new CommandRejectedEvent
func NewCommandRejectedEvent(gameID, playerID string, turn int, cmd core.Command, reason string) *CommandRejectedEvent {
	return &CommandRejectedEvent{
		BaseEvent: newBase(TypeCommandRejected, gameID),
		PlayerID:  playerID,
		Turn:      turn,
		Command:   cmd,
		Reason:    reason,
	}
}

// TradeExecutedEvent is published when a player commits a purchase or sale
type TradeExecutedEvent struct {
	BaseEvent
	PlayerID string
	Turn     int
	Side     core.CommandType
	Product  string
	Amount   int
	Price    int
	Gold     int
}

// NewTradeExecutedEvent creates a new TradeExecutedEvent
func NewTradeExecutedEvent(gameID, playerID string, turn int, side core.CommandType, product string, amount, price, gold int) *TradeExecutedEvent {
	return &TradeExecutedEvent{
		BaseEvent: newBase(TypeTradeExecuted, gameID),
		PlayerID:  playerID,
		Turn:      turn,
		Side:      side,
		Product:   product,
		Amount:    amount,
		Price:     price,
		Gold:      gold,
	}
}

// GoalAchievedEvent is published the first time a player holds its full goal
type GoalAchievedEvent struct {
	BaseEvent
	PlayerID string
	Turn     int
}

// NewGoalAchievedEvent creates a new GoalAchievedEvent
func NewGoalAchievedEvent(gameID, playerID string, turn int) *GoalAchievedEvent {
	return &GoalAchievedEvent{
		BaseEvent: newBase(TypeGoalAchieved, gameID),
		PlayerID:  playerID,
		Turn:      turn,
	}
}

// HazardEscapedEvent is published when a player leaves a black or grey market
type HazardEscapedEvent struct {
	BaseEvent
	PlayerID string
	Turn     int
	From     string
	Target   string
}

// NewHazardEscapedEvent creates a new HazardEscapedEvent
func NewHazardEscapedEvent(gameID, playerID string, turn int, from, target string) *HazardEscapedEvent {
	return &HazardEscapedEvent{
		BaseEvent: newBase(TypeHazardEscaped, gameID),
		PlayerID:  playerID,
		Turn:      turn,
		From:      from,
		Target:    target,
	}
}

// MarketsChangedEvent is published when markets turn grey or black
type MarketsChangedEvent struct {
	BaseEvent
	Turn  int
	Grey  []string
	Black []string
}

// NewMarketsChangedEvent creates a new MarketsChangedEvent
func NewMarketsChangedEvent(gameID string, turn int, grey, black []string) *MarketsChangedEvent {
	return &MarketsChangedEvent{
		BaseEvent: newBase(TypeMarketsChanged, gameID),
		Turn:      turn,
		Grey:      grey,
		Black:     black,
	}
}

// StateTransitionEvent is published when a game changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromState string
	ToState   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, from, to, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromState: from,
		ToState:   to,
		Reason:    reason,
	}
}
