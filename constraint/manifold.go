package constraint

import "github.com/go-gl/mathgl/mgl64"

// Manifold is the raw result of a narrow-phase test for one body pair,
// before it is reconciled with the persistent Resolution record
type Manifold struct {
	Collision bool
	// Normal is the unit separation vector from A toward B
	Normal mgl64.Vec2
	Depth  float64

	Points [2]mgl64.Vec2
	Count  int
}

// clampedCount guards against a narrow-phase collaborator claiming more
// contacts than the fixed-size contact array can hold
func (m Manifold) clampedCount() int {
	if m.Count < 0 {
		return 0
	}
	if m.Count > len(m.Points) {
		return len(m.Points)
	}
	return m.Count
}
