package core

import "sort"

// Quote is a product's price and stock at one market. Known is false when the
// quote came from a rumour and the stock is not confirmed.
type Quote struct {
	Price  int
	Amount int
	Known  bool
}

// Observed builds a quote seen directly at a market
func Observed(price, amount int) Quote {
	return Quote{Price: price, Amount: amount, Known: true}
}

// Rumoured builds a quote whose stock is unknown
func Rumoured(price int) Quote {
	return Quote{Price: price}
}

// InStock reports whether the market is confirmed to hold the product.
func (q Quote) InStock() bool {
	return q.Known && q.Amount > 0
}

// Prices maps product to quote for a single market.
type Prices map[string]Quote

// Get returns the quote for product, or the zero Quote.
func (p Prices) Get(product string) (Quote, bool) {
	q, ok := p[product]
	return q, ok
}

// Products returns the quoted products in lexical order
func (p Prices) Products() []string {
	return SortedKeys(p)
}

// Clone returns an independent copy
func (p Prices) Clone() Prices {
	out := make(Prices, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Rumours maps market to product to price, as passed on by other players.
type Rumours map[string]map[string]int

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NodeSet builds a lookup set from a list of node names.
func NodeSet(nodes ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range nodes {
		for _, n := range list {
			set[n] = true
		}
	}
	return set
}
