package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypeBox
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	// ComputeInertia calculates the moment of inertia about the center of mass
	ComputeInertia(mass float64) float64
}

// Circle represents a circle collision shape centered on the body position
type Circle struct {
	Radius float64
	aabb   AABB
}

func (c *Circle) ComputeAABB(transform Transform) {
	r := mgl64.Vec2{c.Radius, c.Radius}
	c.aabb = AABB{
		Min: transform.Position.Sub(r),
		Max: transform.Position.Add(r),
	}
}

func (c *Circle) GetAABB() AABB {
	return c.aabb
}

// ComputeMass calculates mass data for the circle (area * density)
func (c *Circle) ComputeMass(density float64) float64 {
	return math.Pi * c.Radius * c.Radius * density
}

func (c *Circle) ComputeInertia(mass float64) float64 {
	return 0.5 * mass * c.Radius * c.Radius
}

// Box represents an oriented rectangle collision shape
// The box is defined by its half-extents (half-width, half-height)
type Box struct {
	HalfExtents mgl64.Vec2
	aabb        AABB
}

func (b *Box) ComputeAABB(transform Transform) {
	corners := b.WorldVertices(transform)

	min := corners[0]
	max := corners[0]
	for i := 1; i < 4; i++ {
		min[0] = math.Min(min[0], corners[i][0])
		min[1] = math.Min(min[1], corners[i][1])
		max[0] = math.Max(max[0], corners[i][0])
		max[1] = math.Max(max[1], corners[i][1])
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// WorldVertices returns the four corners in world space, counter-clockwise
func (b *Box) WorldVertices(transform Transform) [4]mgl64.Vec2 {
	local := [4]mgl64.Vec2{
		{-b.HalfExtents.X(), -b.HalfExtents.Y()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y()},
	}

	rotation := mgl64.Rotate2D(transform.Angle)

	var world [4]mgl64.Vec2
	for i, v := range local {
		world[i] = rotation.Mul2x1(v).Add(transform.Position)
	}

	return world
}

// ComputeMass calculates mass data for the box (area * density)
func (b *Box) ComputeMass(density float64) float64 {
	return 4.0 * b.HalfExtents.X() * b.HalfExtents.Y() * density
}

func (b *Box) ComputeInertia(mass float64) float64 {
	w := 2.0 * b.HalfExtents.X()
	h := 2.0 * b.HalfExtents.Y()
	return mass * (w*w + h*h) / 12.0
}
