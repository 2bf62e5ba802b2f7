package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and orientation in 2D space
type Transform struct {
	Position mgl64.Vec2
	Angle    float64
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec2{0, 0},
		Angle:    0,
	}
}
