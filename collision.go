package rebound

import (
	"math"

	"github.com/driftengine/rebound/actor"
	"github.com/driftengine/rebound/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// Collide runs the narrow-phase test for a body pair and returns the fresh
// manifold. The manifold normal always runs from a toward b.
func Collide(a, b *actor.RigidBody) constraint.Manifold {
	switch shapeA := a.Shape.(type) {
	case *actor.Circle:
		switch shapeB := b.Shape.(type) {
		case *actor.Circle:
			return collideCircleCircle(a, b, shapeA, shapeB)
		case *actor.Box:
			m := collideBoxCircle(b, a, shapeB, shapeA)
			m.Normal = m.Normal.Mul(-1)
			return m
		}

	case *actor.Box:
		switch shapeB := b.Shape.(type) {
		case *actor.Circle:
			return collideBoxCircle(a, b, shapeA, shapeB)
		case *actor.Box:
			return collideBoxBox(a, b, shapeA, shapeB)
		}
	}

	return constraint.Manifold{}
}

func collideCircleCircle(a, b *actor.RigidBody, circleA, circleB *actor.Circle) constraint.Manifold {
	delta := b.Transform.Position.Sub(a.Transform.Position)
	dist2 := delta.Dot(delta)
	radii := circleA.Radius + circleB.Radius

	// Circles aren't colliding
	if dist2 >= radii*radii {
		return constraint.Manifold{}
	}

	dist := math.Sqrt(dist2)

	// If the bodies are in the exact same position, direct the normal upwards
	normal := mgl64.Vec2{0.0, 1.0}
	if dist > 0.0 {
		normal = delta.Mul(1.0 / dist)
	}

	m := constraint.Manifold{
		Collision: true,
		Normal:    normal,
		Depth:     radii - dist,
		Count:     1,
	}
	m.Points[0] = a.Transform.Position.Add(normal.Mul(circleA.Radius))

	return m
}

func collideBoxCircle(boxBody, circleBody *actor.RigidBody, box *actor.Box, circle *actor.Circle) constraint.Manifold {
	// Work in the box's local frame
	toLocal := mgl64.Rotate2D(-boxBody.Transform.Angle)
	toWorld := mgl64.Rotate2D(boxBody.Transform.Angle)

	center := toLocal.Mul2x1(circleBody.Transform.Position.Sub(boxBody.Transform.Position))

	closest := mgl64.Vec2{
		mgl64.Clamp(center.X(), -box.HalfExtents.X(), box.HalfExtents.X()),
		mgl64.Clamp(center.Y(), -box.HalfExtents.Y(), box.HalfExtents.Y()),
	}

	var normalLocal mgl64.Vec2
	var depth float64

	if closest == center {
		// Center inside the box, push out through the nearest face
		dx := box.HalfExtents.X() - math.Abs(center.X())
		dy := box.HalfExtents.Y() - math.Abs(center.Y())

		if dx < dy {
			normalLocal = mgl64.Vec2{math.Copysign(1, center.X()), 0}
			closest[0] = math.Copysign(box.HalfExtents.X(), center.X())
			depth = dx + circle.Radius
		} else {
			normalLocal = mgl64.Vec2{0, math.Copysign(1, center.Y())}
			closest[1] = math.Copysign(box.HalfExtents.Y(), center.Y())
			depth = dy + circle.Radius
		}
	} else {
		delta := center.Sub(closest)
		dist2 := delta.Dot(delta)

		if dist2 >= circle.Radius*circle.Radius {
			return constraint.Manifold{}
		}

		dist := math.Sqrt(dist2)
		normalLocal = delta.Mul(1.0 / dist)
		depth = circle.Radius - dist
	}

	m := constraint.Manifold{
		Collision: true,
		Normal:    toWorld.Mul2x1(normalLocal),
		Depth:     depth,
		Count:     1,
	}
	m.Points[0] = toWorld.Mul2x1(closest).Add(boxBody.Transform.Position)

	return m
}

func collideBoxBox(a, b *actor.RigidBody, boxA, boxB *actor.Box) constraint.Manifold {
	vertsA := boxA.WorldVertices(a.Transform)
	vertsB := boxB.WorldVertices(b.Transform)

	sepA, faceA := maxSeparation(vertsA, vertsB)
	if sepA >= 0 {
		return constraint.Manifold{}
	}
	sepB, faceB := maxSeparation(vertsB, vertsA)
	if sepB >= 0 {
		return constraint.Manifold{}
	}

	// The face with the least penetration is the reference face. The small
	// preference for A keeps the choice stable when penetrations are equal.
	var ref, inc [4]mgl64.Vec2
	var refFace int
	var flip bool

	const faceTolerance = 0.001
	if sepB > sepA+faceTolerance {
		ref, inc = vertsB, vertsA
		refFace = faceB
		flip = true
	} else {
		ref, inc = vertsA, vertsB
		refFace = faceA
	}

	refNormal := faceNormal(ref, refFace)

	// Incident face: the face of the other box most anti-parallel to the
	// reference normal
	incFace := 0
	minDot := math.Inf(1)
	for i := 0; i < 4; i++ {
		if d := faceNormal(inc, i).Dot(refNormal); d < minDot {
			minDot = d
			incFace = i
		}
	}

	v1 := inc[incFace]
	v2 := inc[(incFace+1)%4]

	// Clip the incident face to the side planes of the reference face
	refV1 := ref[refFace]
	refV2 := ref[(refFace+1)%4]
	refEdge := refV2.Sub(refV1).Normalize()

	points, count := clipSegment(v1, v2, refEdge.Mul(-1), -refEdge.Dot(refV1))
	if count < 2 {
		return constraint.Manifold{}
	}
	points, count = clipSegment(points[0], points[1], refEdge, refEdge.Dot(refV2))
	if count < 2 {
		return constraint.Manifold{}
	}

	normal := refNormal
	if flip {
		normal = refNormal.Mul(-1)
	}

	m := constraint.Manifold{
		Collision: true,
		Normal:    normal,
	}

	// Keep only the clipped points actually behind the reference face
	for i := 0; i < 2; i++ {
		separation := refNormal.Dot(points[i].Sub(refV1))
		if separation <= 0 {
			m.Points[m.Count] = points[i]
			m.Count++
			if -separation > m.Depth {
				m.Depth = -separation
			}
		}
	}

	if m.Count == 0 {
		return constraint.Manifold{}
	}

	return m
}

// faceNormal returns the outward unit normal of face i of a
// counter-clockwise quad
func faceNormal(verts [4]mgl64.Vec2, i int) mgl64.Vec2 {
	edge := verts[(i+1)%4].Sub(verts[i])
	return mgl64.Vec2{edge.Y(), -edge.X()}.Normalize()
}

// maxSeparation finds the face of verts whose outward normal gives the
// largest separation from the other quad. A non-negative result means the
// quads do not overlap on that axis.
func maxSeparation(verts, other [4]mgl64.Vec2) (float64, int) {
	bestSep := math.Inf(-1)
	bestFace := 0

	for i := 0; i < 4; i++ {
		n := faceNormal(verts, i)

		sep := math.Inf(1)
		for _, v := range other {
			if d := n.Dot(v.Sub(verts[i])); d < sep {
				sep = d
			}
		}

		if sep > bestSep {
			bestSep = sep
			bestFace = i
		}
	}

	return bestSep, bestFace
}

// clipSegment clips segment v1v2 against the half-plane n·x <= offset
func clipSegment(v1, v2, n mgl64.Vec2, offset float64) ([2]mgl64.Vec2, int) {
	var out [2]mgl64.Vec2
	count := 0

	d1 := n.Dot(v1) - offset
	d2 := n.Dot(v2) - offset

	if d1 <= 0 {
		out[count] = v1
		count++
	}
	if d2 <= 0 {
		out[count] = v2
		count++
	}

	if d1*d2 < 0 {
		t := d1 / (d1 - d2)
		out[count] = v1.Add(v2.Sub(v1).Mul(t))
		count++
	}

	return out, count
}
