package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInit(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", `
agent:
  top_products: 3
  goal_bonus: 5000
game:
  max_turns: 120
  start_gold: 750
  hazard_interval: 10
logging:
  level: debug
  format: json
`)

	resetGlobals()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, 3, c.Agent.TopProducts)
	assert.Equal(t, 5000, c.Agent.GoalBonus)
	assert.Equal(t, 120, c.Game.MaxTurns)
	assert.Equal(t, 750, c.Game.StartGold)
	assert.Equal(t, 10, c.Game.HazardInterval)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)

	// Untouched keys keep their defaults
	assert.Equal(t, 0.5, c.Agent.ExploreFraction)
	assert.Equal(t, 100, c.Game.BlackMarketPenalty)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, 5, c.Agent.TopProducts)
	assert.Equal(t, 10000, c.Agent.GoalBonus)
	assert.Equal(t, 50, c.Agent.EarlyPhaseTurns)
	assert.Equal(t, 300, c.Game.MaxTurns)
	assert.Equal(t, 1000, c.Game.StartGold)
	assert.Equal(t, 0.1, c.Game.InterestRate)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestInitRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()

	resetGlobals()
	broken := writeConfig(t, dir, "broken.yaml", "agent: [unclosed")
	assert.Error(t, Init(broken))

	resetGlobals()
	invalid := writeConfig(t, dir, "invalid.yaml", "agent:\n  explore_fraction: 2\n")
	err := Init(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent.explore_fraction")
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("MRB_GAME_MAX_TURNS", "90")
	t.Setenv("MRB_AGENT_GOAL_BONUS", "2500")

	resetGlobals()
	require.NoError(t, Init("/non/existent/config.yaml"))

	c := Get()
	assert.Equal(t, 90, c.Game.MaxTurns)
	assert.Equal(t, 2500, c.Agent.GoalBonus)
}

func TestSet(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/config.yaml"))

	require.NoError(t, Set("game.max_turns", 42))
	require.NoError(t, Set("agent.top_products", 2))

	c := Get()
	assert.Equal(t, 42, c.Game.MaxTurns)
	assert.Equal(t, 2, c.Agent.TopProducts)
	assert.Equal(t, 42, GetViper().GetInt("game.max_turns"))
}

func TestSet_InvalidValueRolledBack(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/config.yaml"))
	require.NoError(t, Set("game.max_turns", 42))

	err := Set("game.max_turns", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.max_turns")

	assert.Equal(t, 42, Get().Game.MaxTurns)
	assert.Equal(t, 42, GetViper().GetInt("game.max_turns"))

	assert.Error(t, Set("logging.level", "loud"))
	assert.Equal(t, "info", Get().Logging.Level)
}

func TestLoadEnvironmentConfig(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "config.yaml", `
game:
  max_turns: 200
  start_gold: 500
`)
	writeConfig(t, dir, "config.quick.yaml", `
game:
  max_turns: 20
logging:
  level: warn
`)

	resetGlobals()
	require.NoError(t, Init(base))
	require.NoError(t, LoadEnvironmentConfig("quick"))

	c := Get()
	assert.Equal(t, 20, c.Game.MaxTurns)
	assert.Equal(t, 500, c.Game.StartGold)
	assert.Equal(t, "warn", c.Logging.Level)

	assert.NoError(t, LoadEnvironmentConfig(""))
	assert.Error(t, LoadEnvironmentConfig("missing"))
}

func TestValidate(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/config.yaml"))
	valid := *Get()
	require.NoError(t, Validate(&valid))

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"top products", func(c *Config) { c.Agent.TopProducts = 0 }, "agent.top_products"},
		{"goal bonus", func(c *Config) { c.Agent.GoalBonus = -1 }, "agent.goal_bonus"},
		{"explore fraction", func(c *Config) { c.Agent.ExploreFraction = -0.1 }, "agent.explore_fraction"},
		{"early phase", func(c *Config) { c.Agent.EarlyPhaseTurns = -5 }, "agent.early_phase_turns"},
		{"max turns", func(c *Config) { c.Game.MaxTurns = 0 }, "game.max_turns"},
		{"penalty", func(c *Config) { c.Game.BlackMarketPenalty = -1 }, "game.black_market_penalty"},
		{"interest", func(c *Config) { c.Game.InterestRate = -1 }, "game.interest_rate"},
		{"hazard interval", func(c *Config) { c.Game.HazardInterval = 0 }, "game.hazard_interval"},
		{"rumours", func(c *Config) { c.Game.RumoursPerTurn = -1 }, "game.rumours_per_turn"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := Validate(&c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
