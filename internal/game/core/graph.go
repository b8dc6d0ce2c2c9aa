package core

import "sort"

// MarketMap is the read-only view of the game map the agent works with.
type MarketMap interface {
	NodeNames() []string
	Neighbours(node string) []string
	NodePosition(node string) (Position, bool)
	Width() float64
	Height() float64
}

// Graph is an in-memory MarketMap. Edges are undirected.
type Graph struct {
	width, height float64
	positions     map[string]Position
	adjacent      map[string]map[string]struct{}
}

// NewGraph creates an empty graph covering a width x height rectangle
func NewGraph(width, height float64) *Graph {
	return &Graph{
		width:     width,
		height:    height,
		positions: make(map[string]Position),
		adjacent:  make(map[string]map[string]struct{}),
	}
}

// AddNode adds a node, or moves it if it already exists.
func (g *Graph) AddNode(name string, pos Position) {
	g.positions[name] = pos
	if _, ok := g.adjacent[name]; !ok {
		g.adjacent[name] = make(map[string]struct{})
	}
}

// AddEdge adds a bidirectional edge between two existing nodes.
func (g *Graph) AddEdge(a, b string) error {
	if !g.HasNode(a) {
		return WrapNodeError(a, ErrUnknownNode)
	}
	if !g.HasNode(b) {
		return WrapNodeError(b, ErrUnknownNode)
	}
	if a == b {
		return nil
	}
	g.adjacent[a][b] = struct{}{}
	g.adjacent[b][a] = struct{}{}
	return nil
}

// HasNode reports whether name is a node of the graph
func (g *Graph) HasNode(name string) bool {
	_, ok := g.positions[name]
	return ok
}

// NodeNames returns all node names in lexical order.
func (g *Graph) NodeNames() []string {
	names := make([]string, 0, len(g.positions))
	for name := range g.positions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Neighbours returns the neighbours of node in lexical order, or nil for an
// unknown node.
func (g *Graph) Neighbours(node string) []string {
	adj, ok := g.adjacent[node]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(adj))
	for n := range adj {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (g *Graph) NodePosition(node string) (Position, bool) {
	pos, ok := g.positions[node]
	return pos, ok
}

func (g *Graph) Width() float64  { return g.width }
func (g *Graph) Height() float64 { return g.height }

// Contains reports whether node is part of m.
func Contains(m MarketMap, node string) bool {
	_, ok := m.NodePosition(node)
	return ok
}

// AreNeighbours reports whether b is directly reachable from a.
func AreNeighbours(m MarketMap, a, b string) bool {
	for _, n := range m.Neighbours(a) {
		if n == b {
			return true
		}
	}
	return false
}
