package constraint

import "github.com/driftengine/rebound/actor"

// Config carries the lifecycle and solver tunables, read-only per step
type Config struct {
	// MixRestitution and MixFriction select how the two bodies' material
	// coefficients combine
	MixRestitution CoefficientMix `yaml:"mix_restitution"`
	MixFriction    CoefficientMix `yaml:"mix_friction"`

	// Persistence is the number of steps a separated resolution stays
	// cached before eviction
	Persistence int `yaml:"collision_persistence"`

	// MatchTolerance is the maximum distance between a cached contact and
	// a fresh one for the cached accumulated impulses to carry over
	MatchTolerance float64 `yaml:"contact_match_tolerance"`

	// Baumgarte is the positional correction feedback factor
	Baumgarte float64 `yaml:"baumgarte"`
	// PenetrationSlop is the penetration depth allowed before positional
	// correction kicks in
	PenetrationSlop float64 `yaml:"penetration_slop"`

	// WarmStarting applies the previous step's accumulated impulses before
	// the velocity iterations
	WarmStarting bool `yaml:"warm_starting"`
}

// NewResolution starts tracking a freshly detected collision between a and b.
// The record begins in StateFirst with zero accumulated impulses.
func NewResolution(a, b *actor.RigidBody, m Manifold, cfg Config) *Resolution {
	res := &Resolution{
		Collision: m.Collision,
		A:         a,
		B:         b,
		Normal:    m.Normal,
		Depth:     m.Depth,
		Friction:  Mix(a.Material.Friction, b.Material.Friction, cfg.MixFriction),
		State:     StateFirst,
		Lifetime:  cfg.Persistence,
	}

	res.ContactCount = m.clampedCount()
	for i := 0; i < res.ContactCount; i++ {
		res.Contacts[i] = ContactPoint{Position: m.Points[i]}
	}

	return res
}

// Update reconciles a fresh narrow-phase result with this record.
//
// While the bodies overlap it refreshes the manifold geometry, re-mixes
// friction, matches fresh contacts against cached ones to carry the
// accumulated impulses forward, and advances the lifecycle state. Once they
// separate the record is cached and its lifetime counts down; the owning
// collection evicts it when the lifetime turns negative.
//
// Contacts are matched to the nearest cached point within MatchTolerance.
// Narrow-phase results are positionally stable enough across steps for
// proximity matching; an unmatched contact starts with zero impulses.
func (res *Resolution) Update(cfg Config, m Manifold) {
	if !m.Collision {
		res.Collision = false

		switch res.State {
		case StateFirst, StateNormal:
			res.State = StateCached
			res.Lifetime = cfg.Persistence
		case StateCached:
			res.Lifetime--
		}

		return
	}

	res.Collision = true
	res.Normal = m.Normal
	res.Depth = m.Depth
	res.Friction = Mix(res.A.Material.Friction, res.B.Material.Friction, cfg.MixFriction)

	cached := res.Contacts
	cachedCount := res.ContactCount

	res.ContactCount = m.clampedCount()
	for i := 0; i < res.ContactCount; i++ {
		contact := ContactPoint{Position: m.Points[i]}

		best := -1
		bestDist := cfg.MatchTolerance * cfg.MatchTolerance
		for j := 0; j < cachedCount; j++ {
			d := cached[j].Position.Sub(contact.Position)
			if d2 := d.Dot(d); d2 <= bestDist {
				best = j
				bestDist = d2
			}
		}

		if best >= 0 {
			contact.Jn = cached[best].Jn
			contact.Jb = cached[best].Jb
			contact.Jt = cached[best].Jt
		}

		res.Contacts[i] = contact
	}

	switch res.State {
	case StateFirst:
		res.State = StateNormal
	case StateCached:
		// Revived within the lifetime window
		res.State = StateFirst
		res.Lifetime = cfg.Persistence
	}
}
