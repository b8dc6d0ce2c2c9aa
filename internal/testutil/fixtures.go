package testutil

import (
	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
)

// FiveNodeMap returns the 200x100 fixture used across packages:
//
//	B        C
//	| \    / |
//	|   A    |
//	| /    \ |
//	D        E
//
// A sits on the geometric centre; B, C, D and E sit near the corners. Edges are
// A-B, A-C, A-D, A-E, B-D and C-E.
func FiveNodeMap() *core.Graph {
	g := core.NewGraph(200, 100)
	g.AddNode("A", core.NewPosition(100, 50))
	g.AddNode("B", core.NewPosition(20, 20))
	g.AddNode("C", core.NewPosition(180, 20))
	g.AddNode("D", core.NewPosition(20, 80))
	g.AddNode("E", core.NewPosition(180, 80))
	mustEdges(g, [][2]string{{"A", "B"}, {"A", "C"}, {"A", "D"}, {"A", "E"}, {"B", "D"}, {"C", "E"}})
	return g
}

// LineMap joins the given nodes in a line, spaced 10 apart.
func LineMap(names ...string) *core.Graph {
	g := core.NewGraph(float64(10*len(names)), 10)
	for i, name := range names {
		g.AddNode(name, core.NewPosition(float64(10*i+5), 5))
		if i > 0 {
			mustEdges(g, [][2]string{{names[i-1], name}})
		}
	}
	return g
}

// DisconnectedMap returns FiveNodeMap plus an island node "Z" with no edges.
func DisconnectedMap() *core.Graph {
	g := FiveNodeMap()
	g.AddNode("Z", core.NewPosition(199, 99))
	return g
}

func mustEdges(g *core.Graph, edges [][2]string) {
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			panic(err)
		}
	}
}
