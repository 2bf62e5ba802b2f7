package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PreSolve recomputes the step-fresh solver state of every contact from the
// bodies' current mass, inertia and velocities: contact arms, effective
// masses, restitution bias and positional correction bias. None of these
// carry over between steps.
func (res *Resolution) PreSolve(cfg Config, invDt float64) {
	a := res.A
	b := res.B
	normal := res.Normal
	tangent := perp(normal)

	e := Mix(a.Material.Restitution, b.Material.Restitution, cfg.MixRestitution)

	for i := 0; i < res.ContactCount; i++ {
		contact := &res.Contacts[i]

		contact.RA = contact.Position.Sub(a.Transform.Position)
		contact.RB = contact.Position.Sub(b.Transform.Position)

		rv := relativeVelocity(
			a.Velocity, a.AngularVelocity, contact.RA,
			b.Velocity, b.AngularVelocity, contact.RB,
		)

		// Restitution only responds to a real approach velocity, a slow
		// touch should not bounce
		cn := rv.Dot(normal)
		contact.VelocityBias = 0.0
		if cn < -1.0 {
			contact.VelocityBias = e * cn
		}

		contact.MassNormal = 1.0 / massK(
			normal,
			contact.RA, contact.RB,
			a.InvMass, b.InvMass,
			a.InvInertia, b.InvInertia,
		)

		contact.MassTangent = 1.0 / massK(
			tangent,
			contact.RA, contact.RB,
			a.InvMass, b.InvMass,
			a.InvInertia, b.InvInertia,
		)

		// Penetration beyond the slop is fed back as a target pseudo
		// separation velocity
		correction := math.Min(-res.Depth+cfg.PenetrationSlop, 0.0)
		contact.PositionBias = -cfg.Baumgarte * correction * invDt
	}
}

// WarmStart applies the previous step's accumulated impulses as the initial
// guess of the iterative solve. Only records in StateNormal have trustworthy
// accumulators; a first-step or revived record starts cold.
func (res *Resolution) WarmStart(cfg Config) {
	a := res.A
	b := res.B
	normal := res.Normal
	tangent := perp(normal)

	for i := 0; i < res.ContactCount; i++ {
		contact := &res.Contacts[i]

		if cfg.WarmStarting && res.State == StateNormal {
			impulse := normal.Mul(contact.Jn).Add(tangent.Mul(contact.Jt))

			a.ApplyImpulse(impulse.Mul(-1), contact.RA)
			b.ApplyImpulse(impulse, contact.RB)
		}

		if !cfg.WarmStarting {
			contact.Jn = 0.0
			contact.Jt = 0.0
		}
	}
}

// SolveVelocity runs one velocity iteration over the contacts.
//
// In an iterative solver what is applied last affects the result more, so
// the normal impulse is solved after the tangential one because
// non-penetration matters more than friction.
func (res *Resolution) SolveVelocity() {
	a := res.A
	b := res.B
	normal := res.Normal
	tangent := perp(normal)

	// Solve friction
	for i := 0; i < res.ContactCount; i++ {
		// No friction coefficient, nothing to solve
		if res.Friction == 0.0 {
			continue
		}

		contact := &res.Contacts[i]

		rv := relativeVelocity(
			a.Velocity, a.AngularVelocity, contact.RA,
			b.Velocity, b.AngularVelocity, contact.RB,
		)

		jt := -rv.Dot(tangent) * contact.MassTangent

		// Accumulate, then clamp to the Coulomb friction cone
		f := contact.Jn * res.Friction
		jt0 := contact.Jt
		contact.Jt = math.Max(-f, math.Min(jt0+jt, f))
		jt = contact.Jt - jt0

		impulse := tangent.Mul(jt)

		a.ApplyImpulse(impulse.Mul(-1), contact.RA)
		b.ApplyImpulse(impulse, contact.RB)
	}

	// Solve penetration
	for i := 0; i < res.ContactCount; i++ {
		contact := &res.Contacts[i]

		rv := relativeVelocity(
			a.Velocity, a.AngularVelocity, contact.RA,
			b.Velocity, b.AngularVelocity, contact.RB,
		)

		cn := rv.Dot(normal)

		jn := -(cn + contact.VelocityBias) * contact.MassNormal

		// Accumulate and clamp so the total normal impulse never pulls
		jn0 := contact.Jn
		contact.Jn = math.Max(jn0+jn, 0.0)
		jn = contact.Jn - jn0

		impulse := normal.Mul(jn)

		a.ApplyImpulse(impulse.Mul(-1), contact.RA)
		b.ApplyImpulse(impulse, contact.RB)
	}
}

// SolvePosition runs one positional correction iteration, pushing the bodies
// apart along the normal with pseudo-impulses. The pseudo velocities move
// positions at integration time but never feed back into the real
// velocities, so the correction adds no kinetic energy.
func (res *Resolution) SolvePosition() {
	a := res.A
	b := res.B
	normal := res.Normal

	for i := 0; i < res.ContactCount; i++ {
		contact := &res.Contacts[i]

		rv := relativeVelocity(
			a.BiasVelocity(), a.BiasAngularVelocity(), contact.RA,
			b.BiasVelocity(), b.BiasAngularVelocity(), contact.RB,
		)

		vbn := rv.Dot(normal)

		jb := (contact.PositionBias - vbn) * contact.MassNormal

		// Accumulate and clamp, the pseudo-impulse only separates
		jb0 := contact.Jb
		contact.Jb = math.Max(jb0+jb, 0.0)
		jb = contact.Jb - jb0

		impulse := normal.Mul(jb)

		a.ApplyBiasImpulse(impulse.Mul(-1), contact.RA)
		b.ApplyBiasImpulse(impulse, contact.RB)
	}
}

// perp rotates v by 90 degrees counter-clockwise
func perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// relativeVelocity of the contact point on B with respect to A:
//
//	vᴬᴮ = (vᴮ + wᴮ·r⊥ᴮ) - (vᴬ + wᴬ·r⊥ᴬ)
func relativeVelocity(
	va mgl64.Vec2, wa float64, ra mgl64.Vec2,
	vb mgl64.Vec2, wb float64, rb mgl64.Vec2,
) mgl64.Vec2 {
	return vb.Add(perp(rb).Mul(wb)).Sub(va.Add(perp(ra).Mul(wa)))
}

// massK is the denominator of the effective mass along a constraint axis:
//
//	1/Mᴬ + 1/Mᴮ + (r⊥ᴬ·n)²/Iᴬ + (r⊥ᴮ·n)²/Iᴮ
func massK(
	axis mgl64.Vec2,
	ra, rb mgl64.Vec2,
	invMassA, invMassB float64,
	invInertiaA, invInertiaB float64,
) float64 {
	ran := perp(ra).Dot(axis)
	rbn := perp(rb).Dot(axis)

	return invMassA + invMassB + ran*ran*invInertiaA + rbn*rbn*invInertiaB
}
