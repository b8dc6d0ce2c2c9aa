// Package agent implements the Market Royale player: it keeps the player's
// gold, inventory and belief state, and picks one command per turn from a
// fixed priority list of rules.
package agent

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/agent/belief"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
)

// Player is a single trading agent. It is not safe for concurrent use.
type Player struct {
	id     string
	gameID string
	params Params
	logger zerolog.Logger
	rng    core.Rand
	bus    events.Publisher

	world core.MarketMap
	goal  core.Goal

	gold      int
	inventory core.Inventory
	belief    *belief.State

	turn     int
	location string
	hazards  map[string]bool // black and grey markets this turn
	black    map[string]bool

	centre       string
	farthest     string
	wanderTarget string
	goalAchieved bool
}

// Option configures a Player
type Option func(*Player)

// WithID sets the player ID carried on events
func WithID(id string) Option {
	return func(p *Player) {
		if id != "" {
			p.id = id
		}
	}
}

// WithGameID sets the game ID carried on events
func WithGameID(gameID string) Option {
	return func(p *Player) {
		p.gameID = gameID
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithRand injects the random source used for exploration and tie-breaks
func WithRand(r core.Rand) Option {
	return func(p *Player) {
		if r != nil {
			p.rng = r
		}
	}
}

func WithParams(params Params) Option {
	return func(p *Player) {
		p.params = params
	}
}

// WithPublisher sends the player's events to pub
func WithPublisher(pub events.Publisher) Option {
	return func(p *Player) {
		if pub != nil {
			p.bus = pub
		}
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

// NewPlayer creates a player with empty inventory and belief state. SetMap
// must be called before the first turn.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		id:        uuid.NewString(),
		params:    DefaultParams(),
		logger:    log.With().Str("component", "player").Logger(),
		bus:       nopPublisher{},
		goal:      core.Goal{},
		inventory: core.Inventory{},
		hazards:   map[string]bool{},
		black:     map[string]bool{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = core.NewRand(uint64(uuid.New().ID()))
	}
	p.belief = belief.New(p.params.TopProducts)
	p.logger = p.logger.With().Str("player_id", p.id).Logger()
	return p
}

// SetMap sets the market graph the player moves on
func (p *Player) SetMap(m core.MarketMap) {
	p.world = m
}

// SetGoal sets the products the player must hold at the end of the game
func (p *Player) SetGoal(goal map[string]int) {
	p.goal = make(core.Goal, len(goal))
	for product, amount := range goal {
		p.goal[product] = amount
	}
}

func (p *Player) SetGold(gold int) {
	p.gold = gold
}

func (p *Player) ID() string {
	return p.id
}

func (p *Player) Gold() int {
	return p.gold
}

// Inventory returns a copy of the player's holdings
func (p *Player) Inventory() core.Inventory {
	return p.inventory.Clone()
}

// Turn returns the number of turns taken so far
func (p *Player) Turn() int {
	return p.turn
}

// CheckGoal reports whether every goal product is held in full
func (p *Player) CheckGoal() bool {
	return p.goal.Achieved(p.inventory)
}

// Score is the player's current end-of-game score
func (p *Player) Score() int {
	return p.goal.Score(p.inventory, p.gold, p.params.GoalBonus)
}

// observation is what the game reported for the current turn
type observation struct {
	location string
	prices   core.Prices
}

// TakeTurn updates the player's state from the turn's observations and
// returns its command. Invalid inputs return PASS with an error; failures
// while deciding are logged and also degrade to PASS.
func (p *Player) TakeTurn(location string, prices core.Prices, info core.Rumours, black, grey []string) (core.Command, error) {
	if p.world == nil {
		return core.Pass(), core.ErrMapNotSet
	}
	if !core.Contains(p.world, location) {
		return core.Pass(), core.WrapNodeError(location, core.ErrUnknownNode)
	}

	p.turn++
	p.location = location
	p.black = core.NodeSet(black)
	p.hazards = core.NodeSet(black, grey)
	p.gold = core.SettleTurn(p.gold, p.black[location], p.params.BlackMarketPenalty, p.params.InterestRate)

	p.belief.Observe(location, prices)
	if added := p.belief.MergeRumour(info); added > 0 {
		p.logger.Debug().Int("turn", p.turn).Int("markets", added).Msg("Merged rumours")
	}
	p.noteGoal()

	obs := observation{location: location}
	if len(prices) > 0 {
		obs.prices, _ = p.belief.Prices(location)
	}
	rule, cmd, err := p.decide(obs)
	if err != nil {
		p.logger.Error().
			Err(err).
			Int("turn", p.turn).
			Str("location", location).
			Msg("Decision failed, passing")
		rule, cmd = RuleFallback, core.Pass()
	}

	p.logger.Debug().
		Int("turn", p.turn).
		Str("location", location).
		Str("rule", rule.String()).
		Str("command", cmd.String()).
		Int("gold", p.gold).
		Msg("Turn decided")
	p.bus.Publish(events.NewCommandIssuedEvent(p.gameID, p.id, p.turn, rule.String(), cmd, p.gold))

	return cmd, nil
}

// decide walks the rules in priority order and returns the first command
// produced. PASS is returned when no rule applies.
func (p *Player) decide(obs observation) (Rule, core.Command, error) {
	for _, step := range p.rules() {
		cmd, ok, err := step.apply(obs)
		if err != nil {
			return step.rule, core.Pass(), core.WrapTurnError(p.turn, step.rule.String(), err)
		}
		if ok {
			return step.rule, cmd, nil
		}
	}
	return RuleIdle, core.Pass(), nil
}

// noteGoal publishes the first time the goal is held in full
func (p *Player) noteGoal() {
	if p.goalAchieved || len(p.goal) == 0 || !p.CheckGoal() {
		return
	}
	p.goalAchieved = true
	p.logger.Info().Int("turn", p.turn).Int("gold", p.gold).Msg("Goal achieved")
	p.bus.Publish(events.NewGoalAchievedEvent(p.gameID, p.id, p.turn))
}

func (p *Player) isHazard(node string) bool {
	return p.hazards[node]
}
