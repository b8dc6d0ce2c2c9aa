package subscribers_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())

	// Interested in all events by default
	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeTurnStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "GameStartedEvent",
			event: events.NewGameStartedEvent("test-game-1", 5, 300, 1000),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(5), logLine["num_markets"])
				assert.Equal(t, float64(300), logLine["max_turns"])
				assert.Equal(t, float64(1000), logLine["start_gold"])
			},
		},
		{
			name:  "TurnStartedEvent",
			event: events.NewTurnStartedEvent("test-game-1", 5, "B"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(5), logLine["turn"])
				assert.Equal(t, "B", logLine["location"])
			},
		},
		{
			name:  "CommandIssuedEvent",
			event: events.NewCommandIssuedEvent("test-game-1", "p1", 7, "trade", core.Buy("Food", 5), 250),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "p1", logLine["player_id"])
				assert.Equal(t, "trade", logLine["rule"])
				assert.Equal(t, "BUY 5 Food", logLine["command"])
				assert.Equal(t, float64(250), logLine["gold"])
			},
		},
		{
			name:  "CommandRejectedEvent",
			event: events.NewCommandRejectedEvent("test-game-1", "p1", 3, core.MoveTo("C"), "markets are not adjacent"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "MOVE_TO C", logLine["command"])
				assert.Equal(t, "markets are not adjacent", logLine["reason"])
			},
		},
		{
			name:  "TradeExecutedEvent",
			event: events.NewTradeExecutedEvent("test-game-1", "p1", 9, core.CmdSell, "Tech", 2, 40, 580),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "SELL", logLine["side"])
				assert.Equal(t, "Tech", logLine["product"])
				assert.Equal(t, float64(2), logLine["amount"])
				assert.Equal(t, float64(40), logLine["price"])
				assert.Equal(t, float64(580), logLine["gold"])
			},
		},
		{
			name:  "HazardEscapedEvent",
			event: events.NewHazardEscapedEvent("test-game-1", "p1", 40, "B", "A"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "B", logLine["from"])
				assert.Equal(t, "A", logLine["target"])
			},
		},
		{
			name:  "MarketsChangedEvent",
			event: events.NewMarketsChangedEvent("test-game-1", 50, []string{"C"}, []string{"B"}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, []interface{}{"C"}, logLine["grey"])
				assert.Equal(t, []interface{}{"B"}, logLine["black"])
			},
		},
		{
			name:  "GameEndedEvent",
			event: events.NewGameEndedEvent("test-game-1", 300, 1200, 11200, true, 5*time.Minute),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(300), logLine["final_turn"])
				assert.Equal(t, float64(11200), logLine["score"])
				assert.Equal(t, true, logLine["goal_achieved"])
				assert.Equal(t, float64(300000), logLine["duration"]) // 5 minutes in ms
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logSub.HandleEvent(tc.event)

			logOutput := buf.String()
			require.NotEmpty(t, logOutput, "Log output should not be empty")

			var logLine map[string]interface{}
			err := json.Unmarshal([]byte(logOutput), &logLine)
			require.NoError(t, err, "Should be able to parse log output as JSON")

			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "Game event", logLine["message"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "test-game-1", logLine["game_id"])

			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("filtered-logger", logger, zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeGameStarted, events.TypeGameEnded})

	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeGameEnded))
	assert.False(t, logSub.InterestedIn(events.TypeTurnStarted))
	assert.False(t, logSub.InterestedIn(events.TypeTradeExecuted))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeTradeExecuted))
}

func TestLoggerSubscriberLogLevels(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel zerolog.Level
		expected string
	}{
		{"Debug", zerolog.DebugLevel, "debug"},
		{"Info", zerolog.InfoLevel, "info"},
		{"Warn", zerolog.WarnLevel, "warn"},
		{"Error", zerolog.ErrorLevel, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			logSub := subscribers.NewLoggerSubscriber("level-logger", logger, tc.logLevel)
			logSub.HandleEvent(events.NewGameStartedEvent("game1", 2, 10, 10))

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
			assert.Equal(t, tc.expected, logLine["level"])
		})
	}
}

func TestLoggerSubscriberDevelopmentMode(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("dev-logger", logger, zerolog.InfoLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewTradeExecutedEvent("dev-game", "p1", 4, core.CmdBuy, "Food", 5, 100, 0))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))

	eventData, ok := logLine["event_data"]
	require.True(t, ok, "event_data should be present")

	eventDataBytes, err := json.Marshal(eventData)
	require.NoError(t, err)
	assert.Contains(t, string(eventDataBytes), "trade.executed")
	assert.Contains(t, string(eventDataBytes), "Product")
}
