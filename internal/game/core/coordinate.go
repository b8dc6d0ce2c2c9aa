package core

import "math"

// Position is a node's location on the map plane.
type Position struct {
	X, Y float64
}

// NewPosition creates a position from x and y
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// DistanceTo returns the Euclidean distance to other
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Ratio returns x/y. A point on the x axis has an infinite ratio unless it is
// the origin, which has ratio 0.
func (p Position) Ratio() float64 {
	if p.Y == 0 {
		if p.X == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return p.X / p.Y
}
