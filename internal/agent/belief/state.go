// Package belief holds what a player knows about the markets: observed and
// rumoured prices, which markets it researched, which markets ran out of a
// product, and price statistics derived from all of it.
package belief

import (
	"sort"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
)

// DefaultTopProducts is the size of the profit order when none is configured
const DefaultTopProducts = 5

// State is owned by a single player and is not safe for concurrent use.
type State struct {
	prices      map[string]core.Prices
	researched  map[string]bool
	blacklist   map[string]map[string]bool // product -> markets without stock
	stats       map[string]Stats
	profitOrder []string
	topK        int
}

// New creates an empty belief state keeping the topK highest variance
// products in the profit order.
func New(topK int) *State {
	if topK <= 0 {
		topK = DefaultTopProducts
	}
	return &State{
		prices:     make(map[string]core.Prices),
		researched: make(map[string]bool),
		blacklist:  make(map[string]map[string]bool),
		stats:      make(map[string]Stats),
		topK:       topK,
	}
}

// Observe records prices seen directly at location. Every quote is stored as
// observed whatever its Known flag says, and replaces what was known before.
// Products with no stock blacklist the market; products with stock clear it
// again.
func (s *State) Observe(location string, prices core.Prices) {
	if len(prices) == 0 {
		return
	}
	observed := make(core.Prices, len(prices))
	for product, q := range prices {
		q.Known = true
		observed[product] = q
		if q.Amount <= 0 {
			s.addBlacklist(product, location)
		} else {
			s.removeBlacklist(product, location)
		}
	}
	s.prices[location] = observed
}

// MergeRumour adds rumoured prices for markets the player knows nothing
// about. Known markets are left untouched.
func (s *State) MergeRumour(info core.Rumours) int {
	added := 0
	for market, products := range info {
		if _, known := s.prices[market]; known || len(products) == 0 {
			continue
		}
		prices := make(core.Prices, len(products))
		for product, price := range products {
			prices[product] = core.Rumoured(price)
		}
		s.prices[market] = prices
		added++
	}
	return added
}

// RecomputeStatistics rebuilds the per-product statistics from every known
// market outside excluded, and the profit order from the highest variances.
func (s *State) RecomputeStatistics(excluded map[string]bool) {
	samples := make(map[string][]int)
	for market, prices := range s.prices {
		if excluded[market] {
			continue
		}
		for product, q := range prices {
			samples[product] = append(samples[product], q.Price)
		}
	}

	s.stats = make(map[string]Stats, len(samples))
	for product, list := range samples {
		s.stats[product] = Summarise(list)
	}

	order := core.SortedKeys(s.stats)
	sort.SliceStable(order, func(i, j int) bool {
		return s.stats[order[i]].Variance > s.stats[order[j]].Variance
	})
	if len(order) > s.topK {
		order = order[:s.topK]
	}
	s.profitOrder = order
}

// MarkResearched records that the player researched market
func (s *State) MarkResearched(market string) {
	s.researched[market] = true
}

func (s *State) IsResearched(market string) bool {
	return s.researched[market]
}

// Prices returns what is known about market. The returned map must not be
// modified.
func (s *State) Prices(market string) (core.Prices, bool) {
	p, ok := s.prices[market]
	return p, ok
}

// Quote returns the known quote for product at market
func (s *State) Quote(market, product string) (core.Quote, bool) {
	q, ok := s.prices[market][product]
	return q, ok
}

// IsKnown reports whether any prices are known for market
func (s *State) IsKnown(market string) bool {
	_, ok := s.prices[market]
	return ok
}

// IsObserved reports whether market's stock was seen directly, as opposed to
// only heard about through rumours.
func (s *State) IsObserved(market string) bool {
	for _, q := range s.prices[market] {
		if q.Known {
			return true
		}
	}
	return false
}

// KnownMarkets returns the markets with any price information, sorted.
func (s *State) KnownMarkets() []string {
	return core.SortedKeys(s.prices)
}

// KnownCount is the number of markets with any price information
func (s *State) KnownCount() int {
	return len(s.prices)
}

// Stats returns the statistics for product, or the zero Stats.
func (s *State) Stats(product string) Stats {
	return s.stats[product]
}

// ProfitOrder returns the products worth arbitraging, best first.
func (s *State) ProfitOrder() []string {
	return append([]string(nil), s.profitOrder...)
}

// IsBlacklisted reports whether market was seen without stock of product
func (s *State) IsBlacklisted(product, market string) bool {
	return s.blacklist[product][market]
}

// Blacklisted returns the markets seen without stock of product, sorted.
func (s *State) Blacklisted(product string) []string {
	return core.SortedKeys(s.blacklist[product])
}

func (s *State) addBlacklist(product, market string) {
	if s.blacklist[product] == nil {
		s.blacklist[product] = make(map[string]bool)
	}
	s.blacklist[product][market] = true
}

func (s *State) removeBlacklist(product, market string) {
	if markets, ok := s.blacklist[product]; ok {
		delete(markets, market)
		if len(markets) == 0 {
			delete(s.blacklist, product)
		}
	}
}
