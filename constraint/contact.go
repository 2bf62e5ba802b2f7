package constraint

import (
	"github.com/driftengine/rebound/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ResolutionState tracks where a body pair is in its contact lifecycle
type ResolutionState int

const (
	// StateFirst means the collision was detected this step, with no prior
	// record for the pair
	StateFirst ResolutionState = iota

	// StateNormal means the pair has been colliding for at least one step;
	// its contacts are warm-started from the previous step
	StateNormal

	// StateCached means the pair has separated but the record is retained,
	// so a re-overlap within the lifetime window reuses it instead of
	// starting from scratch
	StateCached
)

// ContactPoint holds the per-contact state the iterative solver works on.
// The accumulated impulses Jn, Jb and Jt survive a step boundary only when
// the point is matched against the next step's fresh geometry; everything
// else is recomputed each step by PreSolve.
type ContactPoint struct {
	// Position of the contact point in world space
	Position mgl64.Vec2
	// Contact position relative to each body's center of mass
	RA mgl64.Vec2
	RB mgl64.Vec2

	// Target relative normal velocity used for restitution
	VelocityBias float64
	// Pseudo-velocity bias for positional correction, kept separate from
	// the real velocities so penetration fixes add no kinetic energy
	PositionBias float64

	// Effective masses along the contact normal and tangent
	MassNormal  float64
	MassTangent float64

	Jn float64 // Accumulated normal impulse
	Jb float64 // Accumulated pseudo-impulse
	Jt float64 // Accumulated tangential impulse
}

// Resolution is the persistent record of a collision between one pair of
// bodies: the current manifold geometry, the mixed friction coefficient,
// the lifecycle state and up to two contact points.
//
// A and B are fixed for the lifetime of the record; a different pair means
// a different record.
type Resolution struct {
	// Collision reports whether the two bodies currently overlap. A cached
	// record keeps existing with Collision false until its lifetime runs out.
	Collision bool

	A *actor.RigidBody
	B *actor.RigidBody

	// Normal is the unit separation vector from A toward B
	Normal mgl64.Vec2
	// Depth is the penetration depth
	Depth float64

	// Friction is the mixed friction coefficient of the two bodies
	Friction float64

	State ResolutionState
	// Lifetime is the remaining number of steps before eviction once the
	// bodies have separated
	Lifetime int

	Contacts     [2]ContactPoint
	ContactCount int
}
