package agent

import (
	"fmt"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/agent/belief"
)

// Params are the tunables of the decision engine.
type Params struct {
	// MaxTurns is the length of the game, used to time the wind-down.
	MaxTurns int
	// TopProducts is how many products are kept in the profit order.
	TopProducts int
	// GoalBonus is the score added for each goal product held in full.
	GoalBonus int
	// ExploreFraction of the map must have known prices before trading starts.
	ExploreFraction float64
	// EarlyPhaseTurns are traded purely for profit before the goal is pursued.
	EarlyPhaseTurns int
	// BlackMarketPenalty is charged for every turn spent on a black market.
	BlackMarketPenalty int
	// InterestRate is applied to negative gold every turn.
	InterestRate float64
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		MaxTurns:           300,
		TopProducts:        belief.DefaultTopProducts,
		GoalBonus:          10000,
		ExploreFraction:    0.5,
		EarlyPhaseTurns:    50,
		BlackMarketPenalty: 100,
		InterestRate:       0.1,
	}
}

// Validate checks that the parameters are usable
func (p Params) Validate() error {
	if p.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be positive")
	}
	if p.TopProducts <= 0 {
		return fmt.Errorf("top_products must be positive")
	}
	if p.GoalBonus < 0 {
		return fmt.Errorf("goal_bonus must be non-negative")
	}
	if p.ExploreFraction < 0 || p.ExploreFraction > 1 {
		return fmt.Errorf("explore_fraction must be between 0 and 1")
	}
	if p.EarlyPhaseTurns < 0 {
		return fmt.Errorf("early_phase_turns must be non-negative")
	}
	if p.BlackMarketPenalty < 0 {
		return fmt.Errorf("black_market_penalty must be non-negative")
	}
	if p.InterestRate < 0 {
		return fmt.Errorf("interest_rate must be non-negative")
	}
	return nil
}
