package core

import "math"

// Holding is the amount of one product held and the total paid for it.
type Holding struct {
	Amount int
	Cost   int
}

// AverageCost is the cost per unit, 0 when nothing is held.
func (h Holding) AverageCost() float64 {
	if h.Amount <= 0 {
		return 0
	}
	return float64(h.Cost) / float64(h.Amount)
}

// Inventory maps product to holding. Absent products read as the zero Holding.
type Inventory map[string]Holding

// Get returns the holding for product
func (inv Inventory) Get(product string) Holding {
	return inv[product]
}

// Held returns the amount of product held
func (inv Inventory) Held(product string) int {
	return inv[product].Amount
}

// Add records a purchase of amount units for a total of cost.
func (inv Inventory) Add(product string, amount, cost int) error {
	if amount <= 0 || cost < 0 {
		return ErrInvalidAmount
	}
	h := inv[product]
	h.Amount += amount
	h.Cost += cost
	inv[product] = h
	return nil
}

// Remove takes amount units out of the holding and removes the matching share
// of its cost basis. It returns the cost basis released.
func (inv Inventory) Remove(product string, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	h := inv[product]
	if h.Amount < amount {
		return 0, ErrInsufficientHeld
	}

	released := h.Cost
	if amount < h.Amount {
		released = int(math.Round(float64(h.Cost) * float64(amount) / float64(h.Amount)))
	}
	h.Amount -= amount
	h.Cost -= released
	if h.Amount == 0 {
		delete(inv, product)
		return released, nil
	}
	inv[product] = h
	return released, nil
}

// Products returns the held products in lexical order
func (inv Inventory) Products() []string {
	return SortedKeys(inv)
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Goal maps product to the amount a player must hold at the end of the game.
type Goal map[string]int

// Need is how many more units of product are required, never negative.
func (g Goal) Need(inv Inventory, product string) int {
	need := g[product] - inv.Held(product)
	if need < 0 {
		return 0
	}
	return need
}

// Surplus is how many units of product are held beyond the goal.
func (g Goal) Surplus(inv Inventory, product string) int {
	surplus := inv.Held(product) - g[product]
	if surplus < 0 {
		return 0
	}
	return surplus
}

// Completed counts the goal products held in full.
func (g Goal) Completed(inv Inventory) int {
	n := 0
	for product, want := range g {
		if inv.Held(product) >= want {
			n++
		}
	}
	return n
}

// Achieved reports whether every goal product is held in full. An empty goal
// is trivially achieved.
func (g Goal) Achieved(inv Inventory) bool {
	return g.Completed(inv) == len(g)
}

// Score is the end-of-game value of a position: bonus for each completed
// goal product plus gold.
func (g Goal) Score(inv Inventory, gold, bonus int) int {
	return bonus*g.Completed(inv) + gold
}

// SettleTurn applies the per-turn costs to gold: interest while overdrawn,
// then the penalty for standing on a black market.
func SettleTurn(gold int, onBlack bool, penalty int, interestRate float64) int {
	if gold < 0 {
		gold += int(math.Floor(float64(gold) * interestRate))
	}
	if onBlack {
		gold -= penalty
	}
	return gold
}
