package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/agent"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/config"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/world"
)

// gameReport is one finished game and what the history subscriber saw of it
type gameReport struct {
	seed    uint64
	result  world.Result
	goal    core.Goal
	history *subscribers.HistorySubscriber
}

func newPlayCmd() *cobra.Command {
	var (
		seed  uint64
		turns int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local game on a world file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				if err := config.Set("game.seed", seed); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("turns") {
				if err := config.Set("game.max_turns", turns); err != nil {
					return err
				}
			}
			cfg := *config.Get()

			if watch {
				watchConfig()
			}

			w, err := world.Load(worldPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gameSeed := cfg.Game.Seed
			if gameSeed == 0 {
				gameSeed = uint64(uuid.New().ID())
			}

			rep, err := playGame(ctx, w, cfg, gameSeed)
			if err != nil {
				return err
			}
			printGameReport(rep)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	cmd.Flags().IntVarP(&turns, "turns", "t", 0, "Override game.max_turns")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload logging settings when the config file changes")

	return cmd
}

// loadConfig reads the config file and overlay, applies --log-level and sets
// up logging
func loadConfig() error {
	if err := config.Init(configPath); err != nil {
		return err
	}
	if err := config.LoadEnvironmentConfig(envName); err != nil {
		return err
	}
	if logLevel != "" {
		if err := config.Set("logging.level", logLevel); err != nil {
			return err
		}
	}

	cfg := config.Get()
	setupLogging(cfg.Logging.Level, cfg.Logging.Format)
	if path := config.ConfigFilePath(); path != "" {
		log.Debug().Str("path", path).Str("env", envName).Msg("Config loaded")
	}
	return nil
}

func watchConfig() {
	if config.ConfigFilePath() == "" {
		log.Warn().Msg("No config file loaded, --watch ignored")
		return
	}
	config.WatchConfig(func(next *config.Config, err error) {
		if err != nil {
			log.Warn().Err(err).Msg("Config reload rejected, keeping previous values")
			return
		}
		setupLogging(next.Logging.Level, next.Logging.Format)
		log.Info().Str("level", next.Logging.Level).Msg("Config reloaded")
	})
}

// settingsFromConfig splits the config into the game's rules and the agent's
// tunables. Rules both sides apply must agree or their ledgers drift apart.
func settingsFromConfig(cfg config.Config) (world.Settings, agent.Params) {
	settings := world.Settings{
		MaxTurns:           cfg.Game.MaxTurns,
		StartGold:          cfg.Game.StartGold,
		BlackMarketPenalty: cfg.Game.BlackMarketPenalty,
		InterestRate:       cfg.Game.InterestRate,
		HazardInterval:     cfg.Game.HazardInterval,
		RumoursPerTurn:     cfg.Game.RumoursPerTurn,
		GoalBonus:          cfg.Agent.GoalBonus,
	}

	params := agent.DefaultParams()
	params.MaxTurns = cfg.Game.MaxTurns
	params.TopProducts = cfg.Agent.TopProducts
	params.GoalBonus = cfg.Agent.GoalBonus
	params.ExploreFraction = cfg.Agent.ExploreFraction
	params.EarlyPhaseTurns = cfg.Agent.EarlyPhaseTurns
	params.BlackMarketPenalty = cfg.Game.BlackMarketPenalty
	params.InterestRate = cfg.Game.InterestRate

	return settings, params
}

func playGame(ctx context.Context, w *world.World, cfg config.Config, seed uint64) (gameReport, error) {
	settings, params := settingsFromConfig(cfg)
	if err := params.Validate(); err != nil {
		return gameReport{}, err
	}

	history := subscribers.NewHistorySubscriber("history")
	bus := newEventBus(cfg, history)

	game, err := world.NewGame(w, settings,
		world.WithRand(core.NewRand(seed)),
		world.WithPublisher(bus),
	)
	if err != nil {
		return gameReport{}, err
	}

	player := agent.NewPlayer(
		agent.WithGameID(game.ID()),
		agent.WithRand(core.NewRand(^seed)),
		agent.WithParams(params),
		agent.WithPublisher(bus),
	)
	player.SetMap(w.Graph)
	player.SetGoal(w.Goal)
	player.SetGold(game.Gold())

	log.Info().
		Str("game_id", game.ID()).
		Str("player_id", player.ID()).
		Uint64("seed", seed).
		Str("world", worldPath).
		Msg("Starting local game")

	res, err := game.Run(ctx, player)
	if err != nil {
		return gameReport{}, fmt.Errorf("game %s: %w", game.ID(), err)
	}
	if res.Gold != player.Gold() {
		log.Warn().
			Int("game_gold", res.Gold).
			Int("player_gold", player.Gold()).
			Msg("Player ledger disagrees with the game")
	}

	return gameReport{seed: seed, result: res, goal: w.Goal, history: history}, nil
}

// newEventBus wires the history and, when log_events is set, the event
// logger onto a fresh bus
func newEventBus(cfg config.Config, history *subscribers.HistorySubscriber) events.Bus {
	var bus events.Bus = events.NewEventBus()
	bus.Subscribe(history)
	if cfg.Logging.LogEvents {
		eventLogger := subscribers.NewLoggerSubscriber("event-logger", log.Logger, zerolog.InfoLevel)
		eventLogger.SetDevMode(cfg.Logging.Level == "trace")
		bus.Subscribe(eventLogger)
	}
	return bus
}
