// Package pathfinding provides unweighted shortest-path search and the
// geometric queries the agent runs over a market map.
//
// Paths are computed by breadth-first search. When several shortest paths
// exist the one returned depends on the map's neighbour ordering; callers must
// treat any shortest path as equally valid.
package pathfinding

import (
	"fmt"
	"math"
	"sort"

	"github.com/mitchelldurbincs/MarketRoyaleBot/internal/game/core"
)

// Path is an ordered list of nodes from start to target inclusive.
type Path []string

// NextStep returns the node after the start, or false if the path has already
// arrived.
func (p Path) NextStep() (string, bool) {
	if len(p) < 2 {
		return "", false
	}
	return p[1], true
}

// Hops returns the number of moves needed to walk the path
func (p Path) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// HazardFunc reports whether a node should be avoided.
type HazardFunc func(node string) bool

// HazardSet turns a set of node names into a HazardFunc
func HazardSet(set map[string]bool) HazardFunc {
	return func(node string) bool { return set[node] }
}

// ShortestPath returns a shortest path from start to target. Each node is
// visited at most once, so the search always terminates.
func ShortestPath(m core.MarketMap, start, target string) (Path, error) {
	if !core.Contains(m, start) {
		return nil, core.WrapNodeError(start, core.ErrUnknownNode)
	}
	if !core.Contains(m, target) {
		return nil, core.WrapNodeError(target, core.ErrUnknownNode)
	}
	if start == target {
		return Path{start}, nil
	}

	previous := make(map[string]string)
	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range m.Neighbours(current) {
			if visited[n] {
				continue
			}
			visited[n] = true
			previous[n] = current
			if n == target {
				return backtrack(previous, start, target), nil
			}
			queue = append(queue, n)
		}
	}

	return nil, fmt.Errorf("%s -> %s: %w", start, target, core.ErrUnreachable)
}

func backtrack(previous map[string]string, start, target string) Path {
	var reversed []string
	for node := target; node != start; node = previous[node] {
		reversed = append(reversed, node)
	}
	reversed = append(reversed, start)

	path := make(Path, len(reversed))
	for i, node := range reversed {
		path[len(reversed)-1-i] = node
	}
	return path
}

// NextStep is shorthand for ShortestPath followed by Path.NextStep.
func NextStep(m core.MarketMap, start, target string) (string, bool, error) {
	path, err := ShortestPath(m, start, target)
	if err != nil {
		return "", false, err
	}
	next, ok := path.NextStep()
	return next, ok, nil
}

// Distances returns the hop distance from start to every reachable node.
func Distances(m core.MarketMap, start string) (map[string]int, error) {
	if !core.Contains(m, start) {
		return nil, core.WrapNodeError(start, core.ErrUnknownNode)
	}
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range m.Neighbours(current) {
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[current] + 1
			queue = append(queue, n)
		}
	}
	return dist, nil
}

// Farthest returns the reachable node with the largest hop distance from
// start. Ties go to the lexically smallest name.
func Farthest(m core.MarketMap, start string) (string, error) {
	dist, err := Distances(m, start)
	if err != nil {
		return "", err
	}
	best, bestDist := start, 0
	for _, node := range core.SortedKeys(dist) {
		if dist[node] > bestDist {
			best, bestDist = node, dist[node]
		}
	}
	return best, nil
}

const distanceEpsilon = 1e-9

// Central returns the node closest to the centre of the map rectangle. Among
// equally close nodes one whose x/y ratio does not exceed the map's
// width/height ratio is preferred, then the lexically smallest name.
func Central(m core.MarketMap) (string, error) {
	names := append([]string(nil), m.NodeNames()...)
	if len(names) == 0 {
		return "", fmt.Errorf("empty map: %w", core.ErrUnknownNode)
	}
	sort.Strings(names)

	centre := core.NewPosition(m.Width()/2, m.Height()/2)
	mapRatio := core.NewPosition(m.Width(), m.Height()).Ratio()

	best := ""
	bestDist := math.Inf(1)
	bestFits := false
	for _, name := range names {
		pos, ok := m.NodePosition(name)
		if !ok {
			continue
		}
		d := pos.DistanceTo(centre)
		fits := pos.Ratio() <= mapRatio
		switch {
		case d < bestDist-distanceEpsilon:
			best, bestDist, bestFits = name, d, fits
		case math.Abs(d-bestDist) <= distanceEpsilon && fits && !bestFits:
			best, bestDist, bestFits = name, d, fits
		}
	}
	if best == "" {
		return "", fmt.Errorf("no positioned nodes: %w", core.ErrUnknownNode)
	}
	return best, nil
}

// NearestSafe returns the closest node to toward that is not hazardous,
// toward itself if it is safe. The search expands ring by ring from toward
// with a fresh visited set and at most one ring per map node. Equally close
// candidates are picked with r.
func NearestSafe(m core.MarketMap, toward string, hazard HazardFunc, r core.Rand) (string, error) {
	if !core.Contains(m, toward) {
		return "", core.WrapNodeError(toward, core.ErrUnknownNode)
	}
	if !hazard(toward) {
		return toward, nil
	}

	limit := len(m.NodeNames())
	visited := map[string]bool{toward: true}
	frontier := []string{toward}

	for depth := 0; depth < limit && len(frontier) > 0; depth++ {
		var next, safe []string
		for _, node := range frontier {
			for _, n := range m.Neighbours(node) {
				if visited[n] {
					continue
				}
				visited[n] = true
				next = append(next, n)
				if !hazard(n) {
					safe = append(safe, n)
				}
			}
		}
		if len(safe) > 0 {
			sort.Strings(safe)
			return core.Choose(r, safe), nil
		}
		frontier = next
	}

	return "", core.WrapNodeError(toward, core.ErrNoSafeNode)
}

// RandomNeighbour picks one neighbour of node, or false if it has none.
func RandomNeighbour(m core.MarketMap, node string, r core.Rand) (string, bool) {
	n := core.Choose(r, m.Neighbours(node))
	return n, n != ""
}
