package rebound

import (
	"math"
	"testing"

	"github.com/driftengine/rebound/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func circleBody(position mgl64.Vec2, radius float64) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.Transform{Position: position},
		&actor.Circle{Radius: radius},
		actor.BodyTypeDynamic,
		1.0,
	)
}

func boxBody(position mgl64.Vec2, angle float64, halfExtents mgl64.Vec2) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.Transform{Position: position, Angle: angle},
		&actor.Box{HalfExtents: halfExtents},
		actor.BodyTypeDynamic,
		1.0,
	)
}

func TestCollide_CircleCircle(t *testing.T) {
	a := circleBody(mgl64.Vec2{0, 0}, 1.0)
	b := circleBody(mgl64.Vec2{1.8, 0}, 1.0)

	m := Collide(a, b)

	if !m.Collision {
		t.Fatal("overlapping circles reported no collision")
	}
	if m.Normal != (mgl64.Vec2{1, 0}) {
		t.Errorf("normal = %v, expected {1 0}", m.Normal)
	}
	if math.Abs(m.Depth-0.2) > 1e-9 {
		t.Errorf("depth = %v, expected 0.2", m.Depth)
	}
	if m.Count != 1 {
		t.Fatalf("contact count = %d, expected 1", m.Count)
	}
	if m.Points[0].Sub(mgl64.Vec2{1, 0}).Len() > 1e-9 {
		t.Errorf("contact point = %v, expected {1 0}", m.Points[0])
	}
}

func TestCollide_CircleCircle_Separated(t *testing.T) {
	a := circleBody(mgl64.Vec2{0, 0}, 1.0)
	b := circleBody(mgl64.Vec2{3, 0}, 1.0)

	if m := Collide(a, b); m.Collision {
		t.Error("separated circles reported a collision")
	}
}

func TestCollide_CircleCircle_SamePosition(t *testing.T) {
	a := circleBody(mgl64.Vec2{0, 0}, 1.0)
	b := circleBody(mgl64.Vec2{0, 0}, 1.0)

	m := Collide(a, b)

	if !m.Collision {
		t.Fatal("coincident circles reported no collision")
	}
	// Degenerate case resolves with an upward normal
	if m.Normal != (mgl64.Vec2{0, 1}) {
		t.Errorf("normal = %v, expected {0 1}", m.Normal)
	}
}

func TestCollide_BoxCircle(t *testing.T) {
	box := boxBody(mgl64.Vec2{0, 0}, 0, mgl64.Vec2{1, 1})
	circle := circleBody(mgl64.Vec2{1.5, 0}, 1.0)

	m := Collide(box, circle)

	if !m.Collision {
		t.Fatal("overlapping box and circle reported no collision")
	}
	if m.Normal.Sub(mgl64.Vec2{1, 0}).Len() > 1e-9 {
		t.Errorf("normal = %v, expected {1 0}", m.Normal)
	}
	if math.Abs(m.Depth-0.5) > 1e-9 {
		t.Errorf("depth = %v, expected 0.5", m.Depth)
	}
	if m.Count != 1 || m.Points[0].Sub(mgl64.Vec2{1, 0}).Len() > 1e-9 {
		t.Errorf("contact = %v (count %d), expected {1 0}", m.Points[0], m.Count)
	}
}

func TestCollide_CircleBox_NormalRunsFromAToB(t *testing.T) {
	circle := circleBody(mgl64.Vec2{1.5, 0}, 1.0)
	box := boxBody(mgl64.Vec2{0, 0}, 0, mgl64.Vec2{1, 1})

	m := Collide(circle, box)

	if !m.Collision {
		t.Fatal("overlapping circle and box reported no collision")
	}
	// A is the circle on the right, so the normal points left
	if m.Normal.Sub(mgl64.Vec2{-1, 0}).Len() > 1e-9 {
		t.Errorf("normal = %v, expected {-1 0}", m.Normal)
	}
}

func TestCollide_BoxCircle_CenterInside(t *testing.T) {
	box := boxBody(mgl64.Vec2{0, 0}, 0, mgl64.Vec2{1, 1})
	circle := circleBody(mgl64.Vec2{0.5, 0}, 0.25)

	m := Collide(box, circle)

	if !m.Collision {
		t.Fatal("circle centered inside the box reported no collision")
	}
	// Pushed out through the nearest face, +x
	if m.Normal.Sub(mgl64.Vec2{1, 0}).Len() > 1e-9 {
		t.Errorf("normal = %v, expected {1 0}", m.Normal)
	}
	if m.Depth <= 0 {
		t.Errorf("depth = %v, expected positive", m.Depth)
	}
}

func TestCollide_BoxBox(t *testing.T) {
	a := boxBody(mgl64.Vec2{0, 0}, 0, mgl64.Vec2{1, 1})
	b := boxBody(mgl64.Vec2{1.8, 0}, 0, mgl64.Vec2{1, 1})

	m := Collide(a, b)

	if !m.Collision {
		t.Fatal("overlapping boxes reported no collision")
	}
	if m.Normal.Sub(mgl64.Vec2{1, 0}).Len() > 1e-9 {
		t.Errorf("normal = %v, expected {1 0}", m.Normal)
	}
	if math.Abs(m.Depth-0.2) > 1e-9 {
		t.Errorf("depth = %v, expected 0.2", m.Depth)
	}
	// Face-on-face overlap produces a two-point manifold
	if m.Count != 2 {
		t.Fatalf("contact count = %d, expected 2", m.Count)
	}
	for i := 0; i < m.Count; i++ {
		if math.Abs(m.Points[i].X()-0.8) > 1e-9 {
			t.Errorf("contact %d = %v, expected x=0.8 on the incident face", i, m.Points[i])
		}
	}
}

func TestCollide_BoxBox_Separated(t *testing.T) {
	a := boxBody(mgl64.Vec2{0, 0}, 0, mgl64.Vec2{1, 1})
	b := boxBody(mgl64.Vec2{2.5, 2.5}, 0, mgl64.Vec2{1, 1})

	if m := Collide(a, b); m.Collision {
		t.Error("separated boxes reported a collision")
	}
}

func TestCollide_BoxBox_Rotated(t *testing.T) {
	a := boxBody(mgl64.Vec2{0, 0}, 0, mgl64.Vec2{1, 1})
	// A diamond leaning into A's right face
	b := boxBody(mgl64.Vec2{2.2, 0}, math.Pi/4, mgl64.Vec2{1, 1})

	m := Collide(a, b)

	if !m.Collision {
		t.Fatal("penetrating rotated box reported no collision")
	}
	if m.Count < 1 {
		t.Fatal("no contact points generated")
	}
	if m.Normal.X() <= 0 {
		t.Errorf("normal = %v, expected to point from A toward B (+x)", m.Normal)
	}
}
