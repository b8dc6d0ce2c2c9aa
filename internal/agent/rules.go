package agent

import (
	"errors"
	"fmt"
	"math"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/events"
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/pathfinding"
)

// Rule names the decision rule that produced a command
type Rule int

const (
	RuleBootstrap Rule = iota
	RuleHazardEscape
	RuleDebt
	RuleWindDown
	RuleExplore
	RuleTrade
	// RuleIdle is reported when no rule produced a command
	RuleIdle
	// RuleFallback is reported when deciding failed and the player passed
	RuleFallback
)

func (r Rule) String() string {
	switch r {
	case RuleBootstrap:
		return "bootstrap"
	case RuleHazardEscape:
		return "hazard_escape"
	case RuleDebt:
		return "debt"
	case RuleWindDown:
		return "wind_down"
	case RuleExplore:
		return "explore"
	case RuleTrade:
		return "trade"
	case RuleIdle:
		return "idle"
	case RuleFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// ruleStep returns ok=false when its rule does not apply this turn.
type ruleStep struct {
	rule  Rule
	apply func(observation) (core.Command, bool, error)
}

func (p *Player) rules() []ruleStep {
	return []ruleStep{
		{RuleBootstrap, p.bootstrap},
		{RuleHazardEscape, p.escapeHazard},
		{RuleDebt, p.manageDebt},
		{RuleWindDown, p.windDown},
		{RuleExplore, p.explore},
		{RuleTrade, p.trade},
	}
}

// bootstrap heads for the market farthest from the centre of the map on the
// first turn.
func (p *Player) bootstrap(obs observation) (core.Command, bool, error) {
	if p.turn != 1 {
		return core.Command{}, false, nil
	}

	centre, err := pathfinding.Central(p.world)
	if err != nil {
		return core.Command{}, false, err
	}
	far, err := pathfinding.Farthest(p.world, centre)
	if err != nil {
		return core.Command{}, false, err
	}
	target, err := pathfinding.NearestSafe(p.world, far, p.isHazard, p.rng)
	switch {
	case errors.Is(err, core.ErrNoSafeNode):
		target = far
	case err != nil:
		return core.Command{}, false, err
	}

	p.centre, p.farthest, p.wanderTarget = centre, far, target
	p.logger.Debug().
		Str("centre", centre).
		Str("farthest", far).
		Str("target", target).
		Msg("Bootstrapped")

	if obs.location == target {
		return p.research(), true, nil
	}
	return p.moveToward(target)
}

// escapeHazard leaves a black or grey market for the nearest safe one. The
// black market penalty was already charged when the turn was settled.
func (p *Player) escapeHazard(obs observation) (core.Command, bool, error) {
	if !p.isHazard(obs.location) {
		return core.Command{}, false, nil
	}

	target, err := pathfinding.NearestSafe(p.world, obs.location, p.isHazard, p.rng)
	switch {
	case err == nil:
		p.wanderTarget = target
		cmd, ok, err := p.moveToward(target)
		if err != nil {
			return core.Command{}, false, err
		}
		if ok {
			p.bus.Publish(events.NewHazardEscapedEvent(p.gameID, p.id, p.turn, obs.location, target))
			return cmd, true, nil
		}
	case !errors.Is(err, core.ErrNoSafeNode):
		return core.Command{}, false, err
	}

	// Nothing safe is reachable, keep moving
	next, ok := pathfinding.RandomNeighbour(p.world, obs.location, p.rng)
	if !ok {
		return core.Pass(), true, nil
	}
	p.bus.Publish(events.NewHazardEscapedEvent(p.gameID, p.id, p.turn, obs.location, next))
	return core.MoveTo(next), true, nil
}

// manageDebt sells while gold is negative.
func (p *Player) manageDebt(obs observation) (core.Command, bool, error) {
	if p.gold >= 0 {
		return core.Command{}, false, nil
	}

	sellable := p.sellableHere(obs)
	for _, product := range sellable {
		if surplus := p.goal.Surplus(p.inventory, product); surplus > 0 {
			return p.sell(product, surplus, obs.prices[product].Price)
		}
	}

	if product, amount, ok := p.bestDebtSale(obs, sellable); ok {
		return p.sell(product, amount, obs.prices[product].Price)
	}

	best, bestValue := "", -1
	for _, product := range sellable {
		if value := p.inventory.Held(product) * obs.prices[product].Price; value > bestValue {
			best, bestValue = product, value
		}
	}
	if best != "" {
		return p.sell(best, p.inventory.Held(best), obs.prices[best].Price)
	}

	if p.needsResearch(obs.location) {
		return p.research(), true, nil
	}
	return core.Command{}, false, nil
}

// bestDebtSale finds the sale that brings gold back to zero or above while
// leaving the best portfolio score. Smaller sales win ties.
func (p *Player) bestDebtSale(obs observation, sellable []string) (string, int, bool) {
	best, bestAmount, bestScore := "", 0, math.MinInt
	for _, product := range sellable {
		price := obs.prices[product].Price
		amount := (-p.gold + price - 1) / price
		if amount > p.inventory.Held(product) {
			continue
		}

		sim := p.inventory.Clone()
		if _, err := sim.Remove(product, amount); err != nil {
			continue
		}
		score := p.portfolioScore(sim, p.gold+amount*price, obs.prices)
		if score > bestScore || (score == bestScore && amount < bestAmount) {
			best, bestAmount, bestScore = product, amount, score
		}
	}
	return best, bestAmount, best != ""
}

// portfolioScore values a hypothetical position: goal bonus, gold, and every
// holding at the local price or, when not quoted here, at its average cost.
func (p *Player) portfolioScore(inv core.Inventory, gold int, prices core.Prices) int {
	score := p.goal.Score(inv, gold, p.params.GoalBonus)
	for _, product := range inv.Products() {
		h := inv.Get(product)
		if q, ok := prices[product]; ok {
			score += h.Amount * q.Price
			continue
		}
		score += h.Cost
	}
	return score
}

// windDown liquidates once fewer turns remain than there are goal products.
func (p *Player) windDown(obs observation) (core.Command, bool, error) {
	if p.params.MaxTurns-p.turn >= len(p.goal) {
		return core.Command{}, false, nil
	}

	for _, product := range p.sellableHere(obs) {
		held, want := p.inventory.Held(product), p.goal[product]
		switch {
		case held < want:
			return p.sell(product, held, obs.prices[product].Price)
		case held > want:
			return p.sell(product, held-want, obs.prices[product].Price)
		}
	}
	return core.Pass(), true, nil
}

// explore wanders until enough of the map has known prices.
func (p *Player) explore(obs observation) (core.Command, bool, error) {
	nodes := len(p.world.NodeNames())
	if float64(p.belief.KnownCount()) >= p.params.ExploreFraction*float64(nodes) {
		return core.Command{}, false, nil
	}

	cmd, ok, err := p.wander(obs)
	if err != nil || ok {
		return cmd, ok, err
	}
	return core.Pass(), true, nil
}

// wander researches the current market if worthwhile, otherwise travels to
// the wander target, picking a new random one once it is reached.
func (p *Player) wander(obs observation) (core.Command, bool, error) {
	if p.needsResearch(obs.location) {
		return p.research(), true, nil
	}

	if t := p.wanderTarget; t != "" && t != obs.location && !p.isHazard(t) {
		cmd, ok, err := p.moveToward(t)
		if err != nil || ok {
			return cmd, ok, err
		}
	}

	dist, err := pathfinding.Distances(p.world, obs.location)
	if err != nil {
		return core.Command{}, false, err
	}
	var candidates []string
	for _, node := range core.SortedKeys(dist) {
		if node == obs.location || p.isHazard(node) || p.belief.IsResearched(node) || p.belief.IsObserved(node) {
			continue
		}
		candidates = append(candidates, node)
	}
	if len(candidates) == 0 {
		p.wanderTarget = ""
		return core.Command{}, false, nil
	}

	p.wanderTarget = core.Choose(p.rng, candidates)
	p.logger.Debug().Int("turn", p.turn).Str("target", p.wanderTarget).Msg("New wander target")
	return p.moveToward(p.wanderTarget)
}

// trade buys low and sells high against the known price statistics, or
// works towards the goal once the early phase is over.
func (p *Player) trade(obs observation) (core.Command, bool, error) {
	p.belief.RecomputeStatistics(p.hazards)

	if p.needsResearch(obs.location) {
		return p.research(), true, nil
	}

	if p.turn <= p.params.EarlyPhaseTurns || p.CheckGoal() {
		return p.tradeForProfit(obs)
	}
	return p.tradeForGoal(obs)
}

func (p *Player) tradeForProfit(obs observation) (core.Command, bool, error) {
	for _, product := range p.belief.ProfitOrder() {
		q, ok := obs.prices[product]
		if !ok || !p.buyable(product, q) {
			continue
		}
		if float64(q.Price) >= p.belief.Stats(product).Upper {
			continue
		}
		if amount := min(q.Amount, p.gold/q.Price); amount > 0 {
			return p.buy(product, amount, q.Price)
		}
	}

	if cmd, ok, err := p.sellSurplus(obs); err != nil || ok {
		return cmd, ok, err
	}

	if target, ok := p.bestOpportunity(obs.location); ok {
		if cmd, ok, err := p.moveToward(target); err != nil || ok {
			return cmd, ok, err
		}
	}
	return p.wander(obs)
}

func (p *Player) tradeForGoal(obs observation) (core.Command, bool, error) {
	if product, amount, ok := p.bestGoalPurchase(obs); ok {
		return p.buy(product, amount, obs.prices[product].Price)
	}

	if cmd, ok, err := p.sellSurplus(obs); err != nil || ok {
		return cmd, ok, err
	}

	if target, ok := p.cheapestSupplier(obs.location); ok {
		if cmd, ok, err := p.moveToward(target); err != nil || ok {
			return cmd, ok, err
		}
	}
	return p.wander(obs)
}

// bestGoalPurchase simulates buying each needed product here and keeps the
// purchase with the best score. Ties go to the larger completed fraction,
// then to the lexically smallest product.
func (p *Player) bestGoalPurchase(obs observation) (string, int, bool) {
	best, bestAmount := "", 0
	bestScore, bestFraction := math.MinInt, -1.0
	for _, product := range core.SortedKeys(p.goal) {
		need := p.goal.Need(p.inventory, product)
		q, ok := obs.prices[product]
		if need == 0 || !ok || !q.InStock() || q.Price <= 0 {
			continue
		}
		amount := min(q.Amount, p.gold/q.Price, need)
		if amount <= 0 {
			continue
		}

		sim := p.inventory.Clone()
		if err := sim.Add(product, amount, amount*q.Price); err != nil {
			continue
		}
		score := p.goal.Score(sim, p.gold-amount*q.Price, p.params.GoalBonus)
		fraction := float64(sim.Held(product)) / float64(p.goal[product])
		if score > bestScore || (score == bestScore && fraction > bestFraction) {
			best, bestAmount, bestScore, bestFraction = product, amount, score, fraction
		}
	}
	return best, bestAmount, best != ""
}

// sellSurplus sells holdings above the goal where the price is in the top
// quarter of known prices.
func (p *Player) sellSurplus(obs observation) (core.Command, bool, error) {
	for _, product := range p.sellableHere(obs) {
		price := obs.prices[product].Price
		if float64(price) < p.belief.Stats(product).Upper {
			continue
		}
		if surplus := p.goal.Surplus(p.inventory, product); surplus > 0 {
			return p.sell(product, surplus, price)
		}
	}
	return core.Command{}, false, nil
}

// bestOpportunity picks the market to travel to: where a surplus product
// sells highest, else where a profit-order product is cheapest relative to
// its upper quartile.
func (p *Player) bestOpportunity(location string) (string, bool) {
	best, bestPrice := "", 0
	for _, product := range p.inventory.Products() {
		if p.goal.Surplus(p.inventory, product) == 0 {
			continue
		}
		upper := p.belief.Stats(product).Upper
		for _, market := range p.tradableMarkets(location) {
			q, ok := p.belief.Quote(market, product)
			if ok && float64(q.Price) >= upper && q.Price > bestPrice {
				best, bestPrice = market, q.Price
			}
		}
	}
	if best != "" {
		return best, true
	}

	bestMargin := 0.0
	for _, product := range p.belief.ProfitOrder() {
		st := p.belief.Stats(product)
		for _, market := range p.tradableMarkets(location) {
			q, ok := p.belief.Quote(market, product)
			if !ok || !p.buyable(product, q) || q.Price > p.gold || p.belief.IsBlacklisted(product, market) {
				continue
			}
			if margin := st.Upper - float64(q.Price); margin > bestMargin {
				best, bestMargin = market, margin
			}
		}
	}
	return best, best != ""
}

// cheapestSupplier is the known market with the lowest price for any needed
// goal product in stock.
func (p *Player) cheapestSupplier(location string) (string, bool) {
	best, bestPrice := "", math.MaxInt
	for _, product := range core.SortedKeys(p.goal) {
		if p.goal.Need(p.inventory, product) == 0 {
			continue
		}
		for _, market := range p.tradableMarkets(location) {
			q, ok := p.belief.Quote(market, product)
			if !ok || !q.InStock() || p.belief.IsBlacklisted(product, market) {
				continue
			}
			if q.Price < bestPrice {
				best, bestPrice = market, q.Price
			}
		}
	}
	return best, best != ""
}

// tradableMarkets are the known markets other than location that are safe.
func (p *Player) tradableMarkets(location string) []string {
	var out []string
	for _, market := range p.belief.KnownMarkets() {
		if market != location && !p.isHazard(market) {
			out = append(out, market)
		}
	}
	return out
}

// sellableHere lists the held products quoted at the current market, sorted.
func (p *Player) sellableHere(obs observation) []string {
	var out []string
	for _, product := range obs.prices.Products() {
		if obs.prices[product].Price > 0 && p.inventory.Held(product) > 0 {
			out = append(out, product)
		}
	}
	return out
}

// buyable reports whether q is in stock at or below the lower quartile.
func (p *Player) buyable(product string, q core.Quote) bool {
	return q.InStock() && q.Price > 0 && float64(q.Price) <= p.belief.Stats(product).Lower
}

func (p *Player) needsResearch(market string) bool {
	return !p.isHazard(market) && !p.belief.IsResearched(market) && !p.belief.IsObserved(market)
}

func (p *Player) research() core.Command {
	p.belief.MarkResearched(p.location)
	return core.Research()
}

// moveToward returns the first hop to target. It reports ok=false when the
// player is already there or target cannot be reached.
func (p *Player) moveToward(target string) (core.Command, bool, error) {
	next, ok, err := pathfinding.NextStep(p.world, p.location, target)
	switch {
	case errors.Is(err, core.ErrUnreachable):
		p.logger.Debug().Str("target", target).Msg("Target unreachable")
		return core.Command{}, false, nil
	case err != nil:
		return core.Command{}, false, err
	case !ok:
		return core.Command{}, false, nil
	}
	return core.MoveTo(next), true, nil
}

// buy commits a purchase to inventory and gold before it is issued.
func (p *Player) buy(product string, amount, price int) (core.Command, bool, error) {
	cmd := core.Buy(product, amount)
	if err := p.inventory.Add(product, amount, amount*price); err != nil {
		return core.Command{}, false, core.WrapCommandError(p.id, cmd, err)
	}
	p.gold -= amount * price
	p.bus.Publish(events.NewTradeExecutedEvent(p.gameID, p.id, p.turn, core.CmdBuy, product, amount, price, p.gold))
	p.noteGoal()
	return cmd, true, nil
}

// sell commits a sale to inventory and gold before it is issued.
func (p *Player) sell(product string, amount, price int) (core.Command, bool, error) {
	cmd := core.Sell(product, amount)
	if _, err := p.inventory.Remove(product, amount); err != nil {
		return core.Command{}, false, core.WrapCommandError(p.id, cmd, err)
	}
	p.gold += amount * price
	p.bus.Publish(events.NewTradeExecutedEvent(p.gameID, p.id, p.turn, core.CmdSell, product, amount, price, p.gold))
	return cmd, true, nil
}
