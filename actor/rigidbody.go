package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0 = no rebound, 1 = perfect restitution
	Friction    float64 // Coulomb friction coefficient
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the 2D physics simulation
type RigidBody struct {
	// Spatial properties
	Transform Transform

	// Linear motion
	Velocity mgl64.Vec2 // Linear velocity (m/s)
	// Angular motion
	AngularVelocity float64 // Rotation speed (rad/s)

	// Pseudo velocities used by the positional correction pass.
	// They move the body without feeding back into the real velocities,
	// so penetration fixes never add kinetic energy.
	biasVelocity        mgl64.Vec2
	biasAngularVelocity float64

	// Precomputed inverse mass data, zero for static bodies
	InvMass    float64
	InvInertia float64

	accumulatedForce  mgl64.Vec2
	accumulatedTorque float64

	IsSleeping bool
	SleepTimer float64

	// Physical properties
	Material Material
	BodyType BodyType // Dynamic or Static

	// Collision shape
	Shape ShapeInterface // The collision shape
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic bodies (ignored for static)
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
	}

	// Calculate mass data based on body type
	if bodyType == BodyTypeStatic {
		// Static bodies have infinite mass
		rb.Material = Material{
			Density: 0,
			mass:    math.Inf(1),
		}
		rb.InvMass = 0
		rb.InvInertia = 0
	} else {
		rb.Material = Material{
			Density: density,
			mass:    shape.ComputeMass(density),
		}
		rb.InvMass = 1.0 / rb.Material.mass
		rb.InvInertia = 1.0 / shape.ComputeInertia(rb.Material.mass)
	}

	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

func (rb *RigidBody) TrySleep(dt float64, timeThreshold float64, velocityThreshold float64) {
	if rb.Velocity.Len() < velocityThreshold && math.Abs(rb.AngularVelocity) < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
	rb.Velocity = mgl64.Vec2{}
	rb.AngularVelocity = 0
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// KineticEnergy returns a mass-free measure of how much the body is
// moving, the squared linear speed plus the squared angular speed. It is
// compared against the wake energy threshold.
func (rb *RigidBody) KineticEnergy() float64 {
	linear := rb.Velocity.Dot(rb.Velocity)
	angular := rb.AngularVelocity * rb.AngularVelocity
	return linear + angular
}

// IntegrateVelocity advances the velocities from gravity and accumulated
// forces. Positions are committed later by IntegratePosition, after the
// solver has run.
func (rb *RigidBody) IntegrateVelocity(dt float64, gravity mgl64.Vec2) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	acceleration := gravity.Add(rb.accumulatedForce.Mul(rb.InvMass))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))

	rb.AngularVelocity += rb.accumulatedTorque * rb.InvInertia * dt
}

// IntegratePosition commits the solved velocities, plus the pseudo
// velocities from positional correction, then discards the pseudo part
func (rb *RigidBody) IntegratePosition(dt float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Add(rb.biasVelocity).Mul(dt))
	rb.Transform.Angle += (rb.AngularVelocity + rb.biasAngularVelocity) * dt

	rb.biasVelocity = mgl64.Vec2{}
	rb.biasAngularVelocity = 0

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
}

// ApplyImpulse changes the velocities instantly, as if the impulse acted
// at offset r from the center of mass
func (rb *RigidBody) ApplyImpulse(impulse mgl64.Vec2, r mgl64.Vec2) {
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.InvMass))
	rb.AngularVelocity += cross(r, impulse) * rb.InvInertia
}

// ApplyBiasImpulse is ApplyImpulse on the pseudo velocities only
func (rb *RigidBody) ApplyBiasImpulse(impulse mgl64.Vec2, r mgl64.Vec2) {
	rb.biasVelocity = rb.biasVelocity.Add(impulse.Mul(rb.InvMass))
	rb.biasAngularVelocity += cross(r, impulse) * rb.InvInertia
}

// BiasVelocity returns the pending pseudo linear velocity
func (rb *RigidBody) BiasVelocity() mgl64.Vec2 {
	return rb.biasVelocity
}

// BiasAngularVelocity returns the pending pseudo angular velocity
func (rb *RigidBody) BiasAngularVelocity() float64 {
	return rb.biasAngularVelocity
}

// AddForce accumulates a force applied at the center of mass
func (rb *RigidBody) AddForce(force mgl64.Vec2) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque accumulates a torque
func (rb *RigidBody) AddTorque(torque float64) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedTorque += torque
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec2{}
	rb.accumulatedTorque = 0
}

// cross is the 2D scalar cross product
func cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
