package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	// If no filter is set, interested in all events
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	// Create the base event log
	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_markets", e.NumMarkets).
			Int("max_turns", e.MaxTurns).
			Int("start_gold", e.StartGold)

	case *events.GameEndedEvent:
		logEvent.
			Int("final_turn", e.FinalTurn).
			Int("gold", e.Gold).
			Int("score", e.Score).
			Bool("goal_achieved", e.GoalAchieved).
			Dur("duration", e.Duration)

	case *events.TurnStartedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("location", e.Location)

	case *events.CommandIssuedEvent:
		logEvent.
			Str("player_id", e.PlayerID).
			Int("turn", e.Turn).
			Str("rule", e.Rule).
			Str("command", e.Command.String()).
			Int("gold", e.Gold)

	case *events.CommandRejectedEvent:
		logEvent.
			Str("player_id", e.PlayerID).
			Int("turn", e.Turn).
			Str("command", e.Command.String()).
			Str("reason", e.Reason)

	case *events.TradeExecutedEvent:
		logEvent.
			Str("player_id", e.PlayerID).
			Int("turn", e.Turn).
			Str("side", e.Side.String()).
			Str("product", e.Product).
			Int("amount", e.Amount).
			Int("price", e.Price).
			Int("gold", e.Gold)

	case *events.GoalAchievedEvent:
		logEvent.
			Str("player_id", e.PlayerID).
			Int("turn", e.Turn)

	case *events.HazardEscapedEvent:
		logEvent.
			Str("player_id", e.PlayerID).
			Int("turn", e.Turn).
			Str("from", e.From).
			Str("target", e.Target)

	case *events.MarketsChangedEvent:
		logEvent.
			Int("turn", e.Turn).
			Strs("grey", e.Grey).
			Strs("black", e.Black)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_state", e.FromState).
			Str("to_state", e.ToState).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	// Send the log
	logEvent.Msg("Game event")
}
