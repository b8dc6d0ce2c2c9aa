// Package world is a local, single-player rendition of the Market Royale game.
// It loads a static map and its markets from YAML, serves prices to a player
// that researched its market, spreads black markets inward from the edge and
// applies the player's commands.
package world

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
)

var (
	ErrInvalidWorld = errors.New("invalid world")
)

// Stock is one product's price and available amount at a market
type Stock struct {
	Price  int `yaml:"price"`
	Amount int `yaml:"amount"`
}

type nodeEntry struct {
	X          float64  `yaml:"x"`
	Y          float64  `yaml:"y"`
	Neighbours []string `yaml:"neighbours"`
}

type worldFile struct {
	Width     float64                     `yaml:"width"`
	Height    float64                     `yaml:"height"`
	Start     string                      `yaml:"start"`
	StartGold *int                        `yaml:"start_gold"`
	Goal      map[string]int              `yaml:"goal"`
	Nodes     map[string]nodeEntry        `yaml:"nodes"`
	Markets   map[string]map[string]Stock `yaml:"markets"`
}

// World is a parsed world file: the market graph, the initial stock of every
// market, the goal and where the player starts.
type World struct {
	Graph     *core.Graph
	Markets   map[string]map[string]Stock
	Goal      core.Goal
	Start     string
	StartGold *int
}

// Load reads and parses a world file
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world %s: %w", path, err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", path, err)
	}
	return w, nil
}

// Parse builds a World from YAML
func Parse(data []byte) (*World, error) {
	var file worldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	return file.build()
}

func (s worldFile) build() (*World, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: width and height must be positive", ErrInvalidWorld)
	}
	if len(s.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrInvalidWorld)
	}

	g := core.NewGraph(s.Width, s.Height)
	for _, name := range core.SortedKeys(s.Nodes) {
		n := s.Nodes[name]
		g.AddNode(name, core.NewPosition(n.X, n.Y))
	}
	for _, name := range core.SortedKeys(s.Nodes) {
		for _, other := range s.Nodes[name].Neighbours {
			if err := g.AddEdge(name, other); err != nil {
				return nil, fmt.Errorf("%w: edge %s-%s: %v", ErrInvalidWorld, name, other, err)
			}
		}
	}

	start := s.Start
	if start == "" {
		start = g.NodeNames()[0]
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: start %q is not a node", ErrInvalidWorld, start)
	}

	markets := make(map[string]map[string]Stock, len(s.Markets))
	for market, products := range s.Markets {
		if !g.HasNode(market) {
			return nil, fmt.Errorf("%w: market %q is not a node", ErrInvalidWorld, market)
		}
		markets[market] = make(map[string]Stock, len(products))
		for product, stock := range products {
			if stock.Price < 0 || stock.Amount < 0 {
				return nil, fmt.Errorf("%w: %s at %s has negative price or amount", ErrInvalidWorld, product, market)
			}
			markets[market][product] = stock
		}
	}

	goal := make(core.Goal, len(s.Goal))
	for product, amount := range s.Goal {
		if amount <= 0 {
			return nil, fmt.Errorf("%w: goal for %s must be positive", ErrInvalidWorld, product)
		}
		goal[product] = amount
	}

	return &World{
		Graph:     g,
		Markets:   markets,
		Goal:      goal,
		Start:     start,
		StartGold: s.StartGold,
	}, nil
}

// cloneMarkets copies the initial stock so a game can mutate it
func (w *World) cloneMarkets() map[string]map[string]Stock {
	out := make(map[string]map[string]Stock, len(w.Markets))
	for market, products := range w.Markets {
		out[market] = make(map[string]Stock, len(products))
		for product, stock := range products {
			out[market][product] = stock
		}
	}
	return out
}
