package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/config"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events/subscribers"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	require.NoError(t, config.Init("testdata/missing.yaml"))
	cfg := *config.Get()
	cfg.Game.MaxTurns = 120
	cfg.Game.BlackMarketPenalty = 75
	cfg.Game.InterestRate = 0.2
	cfg.Agent.GoalBonus = 5000
	cfg.Agent.EarlyPhaseTurns = 10

	settings, params := settingsFromConfig(cfg)

	assert.Equal(t, 120, settings.MaxTurns)
	assert.Equal(t, 1000, settings.StartGold)
	assert.Equal(t, 30, settings.HazardInterval)
	assert.Equal(t, 5000, settings.GoalBonus)

	require.NoError(t, params.Validate())
	assert.Equal(t, settings.MaxTurns, params.MaxTurns)
	assert.Equal(t, settings.BlackMarketPenalty, params.BlackMarketPenalty)
	assert.Equal(t, settings.InterestRate, params.InterestRate)
	assert.Equal(t, settings.GoalBonus, params.GoalBonus)
	assert.Equal(t, 10, params.EarlyPhaseTurns)
	assert.Equal(t, 5, params.TopProducts)
}

func TestNewEventBus(t *testing.T) {
	require.NoError(t, config.Init("testdata/missing.yaml"))
	for _, logEvents := range []bool{false, true} {
		cfg := *config.Get()
		cfg.Logging.LogEvents = logEvents

		history := subscribers.NewHistorySubscriber("history")
		bus := newEventBus(cfg, history)
		bus.Publish(events.NewCommandIssuedEvent("g1", "p1", 1, "trade", core.Buy("Food", 2), 800))

		require.Len(t, history.Records(), 1, "log_events=%v", logEvents)
		assert.Equal(t, 800, history.LastGold())
	}
}
