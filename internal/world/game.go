package world

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
)

// hazardWaves is how many intervals it takes the black markets to close in on
// the most central node
const hazardWaves = 5

// Player is anything that can play a turn of Market Royale
type Player interface {
	ID() string
	TakeTurn(location string, prices core.Prices, info core.Rumours, black, grey []string) (core.Command, error)
}

// Settings holds the rules of a local game
type Settings struct {
	MaxTurns           int
	StartGold          int
	BlackMarketPenalty int
	InterestRate       float64
	HazardInterval     int
	RumoursPerTurn     int
	GoalBonus          int
}

// DefaultSettings returns the standard game rules
func DefaultSettings() Settings {
	return Settings{
		MaxTurns:           300,
		StartGold:          1000,
		BlackMarketPenalty: 100,
		InterestRate:       0.1,
		HazardInterval:     30,
		RumoursPerTurn:     1,
		GoalBonus:          10000,
	}
}

// Result summarises a finished game
type Result struct {
	GameID       string
	Turns        int
	Gold         int
	Score        int
	Inventory    core.Inventory
	GoalAchieved bool
	Rejected     int
	Black        []string
	Duration     time.Duration
}

// Game is a single-player game on a World. It is not safe for concurrent use.
type Game struct {
	id       string
	world    *World
	settings Settings
	logger   zerolog.Logger
	rng      core.Rand
	bus      events.Publisher

	phase   GamePhase
	started time.Time
	markets map[string]map[string]Stock

	turn       int
	location   string
	gold       int
	inventory  core.Inventory
	researched map[string]bool
	rejected   int

	hazardOrder []string
	hazardWave  int
	grey        map[string]bool
	black       map[string]bool
}

// Option configures a Game
type Option func(*Game)

// WithGameID sets the game ID carried on events
func WithGameID(id string) Option {
	return func(g *Game) {
		if id != "" {
			g.id = id
		}
	}
}

// WithLogger sets the game's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithRand sets the source used for rumours
func WithRand(r core.Rand) Option {
	return func(g *Game) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithPublisher sets where game events go
func WithPublisher(pub events.Publisher) Option {
	return func(g *Game) {
		if pub != nil {
			g.bus = pub
		}
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

// NewGame prepares a game on w. The world's start_gold, when set, overrides
// settings.StartGold.
func NewGame(w *World, settings Settings, opts ...Option) (*Game, error) {
	if w == nil || w.Graph == nil {
		return nil, fmt.Errorf("%w: nil world", ErrInvalidWorld)
	}
	if settings.MaxTurns <= 0 {
		return nil, fmt.Errorf("max turns must be positive")
	}
	if settings.HazardInterval <= 0 {
		return nil, fmt.Errorf("hazard interval must be positive")
	}
	if w.StartGold != nil {
		settings.StartGold = *w.StartGold
	}

	g := &Game{
		id:         uuid.NewString(),
		world:      w,
		settings:   settings,
		logger:     log.With().Str("component", "world").Logger(),
		bus:        nopPublisher{},
		phase:      PhaseSetup,
		markets:    w.cloneMarkets(),
		location:   w.Start,
		gold:       settings.StartGold,
		inventory:  make(core.Inventory),
		researched: make(map[string]bool),
		grey:       make(map[string]bool),
		black:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = core.NewRand(uint64(uuid.New().ID()))
	}
	g.logger = g.logger.With().Str("game_id", g.id).Logger()
	g.hazardOrder = edgeFirst(w.Graph)

	return g, nil
}

// edgeFirst orders nodes from the farthest to the nearest to the map centre
func edgeFirst(m *core.Graph) []string {
	centre := core.NewPosition(m.Width()/2, m.Height()/2)
	names := m.NodeNames()
	dist := make(map[string]float64, len(names))
	for _, name := range names {
		pos, _ := m.NodePosition(name)
		dist[name] = pos.DistanceTo(centre)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return dist[names[i]] > dist[names[j]]
	})
	return names
}

// ID returns the game ID
func (g *Game) ID() string {
	return g.id
}

// Phase returns the current phase
func (g *Game) Phase() GamePhase {
	return g.phase
}

// Turn returns the number of turns played
func (g *Game) Turn() int {
	return g.turn
}

// Gold returns the player's gold as the game sees it
func (g *Game) Gold() int {
	return g.gold
}

// Location returns the player's current node
func (g *Game) Location() string {
	return g.location
}

// Inventory returns a copy of the player's inventory as the game sees it
func (g *Game) Inventory() core.Inventory {
	return g.inventory.Clone()
}

// Stock returns a market's current stock of product
func (g *Game) Stock(market, product string) (Stock, bool) {
	s, ok := g.markets[market][product]
	return s, ok
}

// Black returns the current black markets in lexical order
func (g *Game) Black() []string {
	return core.SortedKeys(g.black)
}

// Grey returns the current grey markets in lexical order
func (g *Game) Grey() []string {
	return core.SortedKeys(g.grey)
}

func (g *Game) transitionTo(target GamePhase, reason string) error {
	if !g.phase.CanTransitionTo(target) {
		return fmt.Errorf("invalid phase transition from %s to %s", g.phase, target)
	}
	from := g.phase
	g.phase = target

	g.logger.Debug().
		Str("from", from.String()).
		Str("to", target.String()).
		Str("reason", reason).
		Msg("Phase transition")
	g.bus.Publish(events.NewStateTransitionEvent(g.id, from.String(), target.String(), reason))
	return nil
}

// Run plays turns until MaxTurns is reached or ctx is cancelled
func (g *Game) Run(ctx context.Context, p Player) (Result, error) {
	if err := g.transitionTo(PhaseRunning, "game started"); err != nil {
		return g.result(), err
	}
	g.started = time.Now()
	g.logger.Info().
		Int("markets", len(g.world.Graph.NodeNames())).
		Int("max_turns", g.settings.MaxTurns).
		Int("start_gold", g.gold).
		Str("start", g.location).
		Msg("Game started")
	g.bus.Publish(events.NewGameStartedEvent(g.id, len(g.world.Graph.NodeNames()), g.settings.MaxTurns, g.gold))

	for g.phase.CanReceiveCommands() {
		select {
		case <-ctx.Done():
			g.end("cancelled")
			return g.result(), ctx.Err()
		default:
		}
		if err := g.Step(p); err != nil {
			g.end("failed")
			return g.result(), err
		}
	}
	return g.result(), nil
}

func (g *Game) end(reason string) {
	if err := g.transitionTo(PhaseEnded, reason); err != nil {
		return
	}
	res := g.result()
	g.logger.Info().
		Int("turns", res.Turns).
		Int("gold", res.Gold).
		Int("score", res.Score).
		Bool("goal_achieved", res.GoalAchieved).
		Int("rejected", res.Rejected).
		Dur("duration", res.Duration).
		Str("reason", reason).
		Msg("Game ended")
	g.bus.Publish(events.NewGameEndedEvent(g.id, res.Turns, res.Gold, res.Score, res.GoalAchieved, res.Duration))
}

func (g *Game) result() Result {
	var elapsed time.Duration
	if !g.started.IsZero() {
		elapsed = time.Since(g.started)
	}
	return Result{
		GameID:       g.id,
		Turns:        g.turn,
		Gold:         g.gold,
		Score:        g.world.Goal.Score(g.inventory, g.gold, g.settings.GoalBonus),
		Inventory:    g.inventory.Clone(),
		GoalAchieved: len(g.world.Goal) > 0 && g.world.Goal.Achieved(g.inventory),
		Rejected:     g.rejected,
		Black:        g.Black(),
		Duration:     elapsed,
	}
}

// Step plays one turn: hazards advance, per-turn costs are settled, the
// player is asked for a command and the command is applied. A rejected
// command is not an error; the turn still counts.
func (g *Game) Step(p Player) error {
	if !g.phase.CanReceiveCommands() {
		return core.ErrGameOver
	}

	g.turn++
	if g.turn%g.settings.HazardInterval == 0 {
		g.advanceHazards()
	}
	g.bus.Publish(events.NewTurnStartedEvent(g.id, g.turn, g.location))

	g.gold = core.SettleTurn(g.gold, g.black[g.location], g.settings.BlackMarketPenalty, g.settings.InterestRate)

	cmd, err := p.TakeTurn(g.location, g.pricesHere(), g.rumours(), g.Black(), g.Grey())
	if err != nil {
		g.reject(p.ID(), cmd, err)
	} else if err := g.apply(cmd); err != nil {
		g.reject(p.ID(), cmd, err)
	}

	if g.turn >= g.settings.MaxTurns {
		g.end("turn limit reached")
	}
	return nil
}

func (g *Game) reject(playerID string, cmd core.Command, err error) {
	g.rejected++
	g.logger.Warn().
		Err(err).
		Int("turn", g.turn).
		Str("command", cmd.String()).
		Msg("Command rejected")
	g.bus.Publish(events.NewCommandRejectedEvent(g.id, playerID, g.turn, cmd, err.Error()))
}

// advanceHazards turns the grey band black and greys the next band in from
// the edge. The most central node never turns.
func (g *Game) advanceHazards() {
	for node := range g.grey {
		g.black[node] = true
	}
	g.grey = make(map[string]bool)

	candidates := len(g.hazardOrder) - 1
	band := int(math.Ceil(float64(candidates) / hazardWaves))
	from := g.hazardWave * band
	to := from + band
	if to > candidates {
		to = candidates
	}
	for i := from; i < to; i++ {
		g.grey[g.hazardOrder[i]] = true
	}
	if from < candidates {
		g.hazardWave++
	}

	g.logger.Debug().
		Int("turn", g.turn).
		Strs("grey", g.Grey()).
		Strs("black", g.Black()).
		Msg("Hazards advanced")
	g.bus.Publish(events.NewMarketsChangedEvent(g.id, g.turn, g.Grey(), g.Black()))
}

// pricesHere reports the current market's stock once it has been researched
func (g *Game) pricesHere() core.Prices {
	if !g.researched[g.location] {
		return nil
	}
	stock := g.markets[g.location]
	prices := make(core.Prices, len(stock))
	for product, s := range stock {
		prices[product] = core.Observed(s.Price, s.Amount)
	}
	return prices
}

// rumours passes on the prices of a few random markets other than the current one
func (g *Game) rumours() core.Rumours {
	var pool []string
	for _, market := range core.SortedKeys(g.markets) {
		if market != g.location && len(g.markets[market]) > 0 {
			pool = append(pool, market)
		}
	}

	info := make(core.Rumours)
	for i := 0; i < g.settings.RumoursPerTurn && len(pool) > 0; i++ {
		idx := g.rng.Intn(len(pool))
		market := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		info[market] = make(map[string]int, len(g.markets[market]))
		for product, s := range g.markets[market] {
			info[market][product] = s.Price
		}
	}
	return info
}

// apply validates cmd against the game state and carries it out
func (g *Game) apply(cmd core.Command) error {
	if err := cmd.Validate(g.world.Graph, g.location); err != nil {
		return err
	}

	switch cmd.Type {
	case core.CmdPass:
	case core.CmdResearch:
		g.researched[g.location] = true
	case core.CmdMoveTo:
		g.location = cmd.Node
	case core.CmdBuy:
		s, ok := g.markets[g.location][cmd.Product]
		if !ok {
			return fmt.Errorf("%s at %s: %w", cmd.Product, g.location, core.ErrUnknownProduct)
		}
		if cmd.Amount > s.Amount {
			return fmt.Errorf("%s at %s: %w", cmd.Product, g.location, core.ErrInsufficientStock)
		}
		cost := cmd.Amount * s.Price
		if cost > g.gold {
			return fmt.Errorf("need %d, have %d: %w", cost, g.gold, core.ErrInsufficientGold)
		}
		if err := g.inventory.Add(cmd.Product, cmd.Amount, cost); err != nil {
			return err
		}
		s.Amount -= cmd.Amount
		g.markets[g.location][cmd.Product] = s
		g.gold -= cost
	case core.CmdSell:
		s, ok := g.markets[g.location][cmd.Product]
		if !ok {
			return fmt.Errorf("%s at %s: %w", cmd.Product, g.location, core.ErrUnknownProduct)
		}
		if _, err := g.inventory.Remove(cmd.Product, cmd.Amount); err != nil {
			return err
		}
		s.Amount += cmd.Amount
		g.markets[g.location][cmd.Product] = s
		g.gold += cmd.Amount * s.Price
	}
	return nil
}
