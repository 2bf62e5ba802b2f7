package constraint

import (
	"math"
	"testing"

	"github.com/driftengine/rebound/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Helper function to create a dynamic circle body for testing
func createCircleBody(position mgl64.Vec2, radius float64) *actor.RigidBody {
	shape := &actor.Circle{Radius: radius}

	rb := actor.NewRigidBody(
		actor.Transform{Position: position},
		shape,
		actor.BodyTypeDynamic,
		1.0,
	)

	rb.Material.Restitution = 0.5
	rb.Material.Friction = 0.4

	return rb
}

func testConfig() Config {
	return Config{
		MixRestitution:  MixSqrt,
		MixFriction:     MixSqrt,
		Persistence:     3,
		MatchTolerance:  0.05,
		Baumgarte:       0.2,
		PenetrationSlop: 0.002,
		WarmStarting:    true,
	}
}

func overlapManifold(point mgl64.Vec2) Manifold {
	m := Manifold{
		Collision: true,
		Normal:    mgl64.Vec2{1, 0},
		Depth:     0.2,
		Count:     1,
	}
	m.Points[0] = point
	return m
}

func TestNewResolution(t *testing.T) {
	a := createCircleBody(mgl64.Vec2{0, 0}, 1.0)
	b := createCircleBody(mgl64.Vec2{1.8, 0}, 1.0)
	cfg := testConfig()

	res := NewResolution(a, b, overlapManifold(mgl64.Vec2{0.9, 0}), cfg)

	if res.State != StateFirst {
		t.Errorf("new resolution state is %v, expected StateFirst", res.State)
	}
	if res.Lifetime != cfg.Persistence {
		t.Errorf("new resolution lifetime is %d, expected %d", res.Lifetime, cfg.Persistence)
	}
	if res.ContactCount != 1 {
		t.Fatalf("contact count is %d, expected 1", res.ContactCount)
	}
	if c := res.Contacts[0]; c.Jn != 0 || c.Jb != 0 || c.Jt != 0 {
		t.Errorf("new contact has non-zero accumulated impulses: jn=%v jb=%v jt=%v", c.Jn, c.Jb, c.Jt)
	}
	if math.Abs(res.Friction-0.4) > 1e-12 {
		t.Errorf("mixed friction is %v, expected 0.4", res.Friction)
	}
}

func TestResolution_UpdateLifecycle(t *testing.T) {
	a := createCircleBody(mgl64.Vec2{0, 0}, 1.0)
	b := createCircleBody(mgl64.Vec2{1.8, 0}, 1.0)
	cfg := testConfig()

	res := NewResolution(a, b, overlapManifold(mgl64.Vec2{0.9, 0}), cfg)

	// Still colliding on the next step
	res.Update(cfg, overlapManifold(mgl64.Vec2{0.9, 0}))
	if res.State != StateNormal {
		t.Fatalf("state after second colliding step is %v, expected StateNormal", res.State)
	}

	// Separation caches the record and arms the countdown
	res.Update(cfg, Manifold{})
	if res.State != StateCached {
		t.Fatalf("state after separation is %v, expected StateCached", res.State)
	}
	if res.Collision {
		t.Error("cached resolution still reports collision")
	}
	if res.Lifetime != cfg.Persistence {
		t.Errorf("lifetime after separation is %d, expected %d", res.Lifetime, cfg.Persistence)
	}

	// Lifetime decrements once per separated step while cached
	for i := 0; i < cfg.Persistence; i++ {
		res.Update(cfg, Manifold{})
	}
	if res.Lifetime != 0 {
		t.Errorf("lifetime after %d separated steps is %d, expected 0", cfg.Persistence, res.Lifetime)
	}

	// One more separated step pushes it past eviction
	res.Update(cfg, Manifold{})
	if res.Lifetime >= 0 {
		t.Errorf("lifetime is %d, expected negative (due for eviction)", res.Lifetime)
	}
}

func TestResolution_UpdateRevival(t *testing.T) {
	a := createCircleBody(mgl64.Vec2{0, 0}, 1.0)
	b := createCircleBody(mgl64.Vec2{1.8, 0}, 1.0)
	cfg := testConfig()

	res := NewResolution(a, b, overlapManifold(mgl64.Vec2{0.9, 0}), cfg)
	res.Update(cfg, overlapManifold(mgl64.Vec2{0.9, 0}))
	res.Contacts[0].Jn = 2.5

	// Separate for one step, then re-overlap within the lifetime window
	res.Update(cfg, Manifold{})
	res.Update(cfg, overlapManifold(mgl64.Vec2{0.9, 0}))

	if res.State != StateFirst {
		t.Errorf("revived resolution state is %v, expected StateFirst", res.State)
	}
	if res.Lifetime != cfg.Persistence {
		t.Errorf("revived resolution lifetime is %d, expected %d", res.Lifetime, cfg.Persistence)
	}
	if res.Contacts[0].Jn != 2.5 {
		t.Errorf("revived contact lost its accumulated impulse, jn=%v", res.Contacts[0].Jn)
	}
}

func TestResolution_WarmStartMatching(t *testing.T) {
	a := createCircleBody(mgl64.Vec2{0, 0}, 1.0)
	b := createCircleBody(mgl64.Vec2{1.8, 0}, 1.0)
	cfg := testConfig()

	res := NewResolution(a, b, overlapManifold(mgl64.Vec2{0.9, 0}), cfg)
	res.Update(cfg, overlapManifold(mgl64.Vec2{0.9, 0}))

	// Simulate a solver run
	res.Contacts[0].Jn = 1.5
	res.Contacts[0].Jt = 0.3
	res.Contacts[0].Jb = 0.1

	// Fresh contact within the matching tolerance keeps the impulses
	res.Update(cfg, overlapManifold(mgl64.Vec2{0.9 + cfg.MatchTolerance/2, 0}))

	c := res.Contacts[0]
	if c.Jn != 1.5 || c.Jt != 0.3 || c.Jb != 0.1 {
		t.Errorf("matched contact lost impulses: jn=%v jt=%v jb=%v", c.Jn, c.Jt, c.Jb)
	}

	// A contact outside the tolerance starts cold
	res.Update(cfg, overlapManifold(mgl64.Vec2{0.9 + cfg.MatchTolerance*3, 0}))

	c = res.Contacts[0]
	if c.Jn != 0 || c.Jt != 0 || c.Jb != 0 {
		t.Errorf("unmatched contact kept impulses: jn=%v jt=%v jb=%v", c.Jn, c.Jt, c.Jb)
	}
}

func TestResolution_UpdateRefreshesGeometry(t *testing.T) {
	a := createCircleBody(mgl64.Vec2{0, 0}, 1.0)
	b := createCircleBody(mgl64.Vec2{1.8, 0}, 1.0)
	cfg := testConfig()

	res := NewResolution(a, b, overlapManifold(mgl64.Vec2{0.9, 0}), cfg)

	fresh := Manifold{
		Collision: true,
		Normal:    mgl64.Vec2{0, 1},
		Depth:     0.05,
		Count:     1,
	}
	fresh.Points[0] = mgl64.Vec2{0.91, 0}

	res.Update(cfg, fresh)

	if res.Normal != fresh.Normal {
		t.Errorf("normal not refreshed: %v", res.Normal)
	}
	if res.Depth != fresh.Depth {
		t.Errorf("depth not refreshed: %v", res.Depth)
	}
}

func TestResolution_UpdateClampsContactCount(t *testing.T) {
	a := createCircleBody(mgl64.Vec2{0, 0}, 1.0)
	b := createCircleBody(mgl64.Vec2{1.8, 0}, 1.0)
	cfg := testConfig()

	res := NewResolution(a, b, overlapManifold(mgl64.Vec2{0.9, 0}), cfg)

	// A narrow phase claiming more contacts than the manifold can hold is
	// a contract violation; the count gets clamped instead of overflowing
	bad := overlapManifold(mgl64.Vec2{0.9, 0})
	bad.Count = 7
	res.Update(cfg, bad)

	if res.ContactCount != 2 {
		t.Errorf("contact count is %d, expected clamp to 2", res.ContactCount)
	}
}
