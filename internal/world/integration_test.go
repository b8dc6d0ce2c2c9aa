package world_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/agent"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/testutil"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/world"
)

func playSample(t *testing.T, seed uint64, settings world.Settings) (*agent.Player, *subscribers.HistorySubscriber, world.Result) {
	t.Helper()
	w, err := world.Load(filepath.Join("..", "..", "worlds", "five_markets.yaml"))
	require.NoError(t, err)

	bus := events.NewEventBus()
	history := subscribers.NewHistorySubscriber("history")
	bus.Subscribe(history)

	params := agent.DefaultParams()
	params.MaxTurns = settings.MaxTurns
	params.GoalBonus = settings.GoalBonus

	game, err := world.NewGame(w, settings,
		world.WithGameID("local"),
		world.WithLogger(testutil.NopLogger()),
		world.WithRand(core.NewRand(seed)),
		world.WithPublisher(bus),
	)
	require.NoError(t, err)

	player := agent.NewPlayer(
		agent.WithID("bot"),
		agent.WithGameID(game.ID()),
		agent.WithLogger(testutil.NopLogger()),
		agent.WithRand(core.NewRand(seed+1)),
		agent.WithParams(params),
		agent.WithPublisher(bus),
	)
	player.SetMap(w.Graph)
	player.SetGoal(w.Goal)
	player.SetGold(game.Gold())

	res, err := game.Run(context.Background(), player)
	require.NoError(t, err)
	return player, history, res
}

func TestAgentPlaysFullGame(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42} {
		player, history, res := playSample(t, seed, world.DefaultSettings())

		assert.Equal(t, 300, res.Turns)
		assert.Equal(t, 0, res.Rejected, "seed %d", seed)
		assert.Equal(t, res.Gold, player.Gold(), "seed %d: ledgers agree on gold", seed)
		assert.Equal(t, res.Inventory, player.Inventory(), "seed %d: ledgers agree on inventory", seed)
		assert.Equal(t, res.Score, player.Score())
		assert.Equal(t, 300, player.Turn())

		for product, h := range res.Inventory {
			assert.Positive(t, h.Amount, product)
			assert.GreaterOrEqual(t, h.Cost, 0, product)
		}

		assert.Len(t, history.Records(), 300)
		assert.Equal(t, 0, history.Rejected())
		assert.Equal(t, res.Gold, history.LastGold())
	}
}

func TestAgentPlaysShortGame(t *testing.T) {
	s := world.DefaultSettings()
	s.MaxTurns = 40
	s.HazardInterval = 5

	player, _, res := playSample(t, 3, s)
	assert.Equal(t, 40, res.Turns)
	assert.Equal(t, 0, res.Rejected)
	assert.Equal(t, res.Gold, player.Gold())
	assert.Equal(t, res.Inventory, player.Inventory())
}
