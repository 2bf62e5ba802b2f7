package rebound

import (
	"sync"

	"github.com/driftengine/rebound/actor"
	"github.com/driftengine/rebound/constraint"
	"github.com/driftengine/rebound/container"
)

const DEFAULT_WORKERS = 1

// World owns the bodies and the persistent collision resolutions, and
// drives the simulation step
type World struct {
	Bodies *container.Array[*actor.RigidBody]

	Settings    Settings
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events

	// One record per tracked body pair, owned exclusively by the world.
	// Order is not significant; eviction uses swap removal.
	resolutions *container.Array[*constraint.Resolution]
}

func NewWorld(settings Settings, grid *SpatialGrid) *World {
	return &World{
		Bodies:      container.New[*actor.RigidBody](),
		Settings:    settings,
		SpatialGrid: grid,
		Workers:     DEFAULT_WORKERS,
		Events:      NewEvents(),
		resolutions: container.New[*constraint.Resolution](),
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies.Append(body)
}

// RemoveBody removes a rigid body and every resolution that references it
func (w *World) RemoveBody(body *actor.RigidBody) {
	w.Bodies.Remove(body)

	for i := w.resolutions.Len() - 1; i >= 0; i-- {
		res := w.resolutions.At(i)
		if res.A == body || res.B == body {
			w.resolutions.Pop(i)
		}
	}

	w.Events.forgetBody(body)
}

// ResolutionCount returns the number of tracked body pairs, cached
// (separated) records included
func (w *World) ResolutionCount() int {
	return w.resolutions.Len()
}

// FindResolution returns the tracked record for a body pair, in either
// argument order, or nil when the pair is not tracked
func (w *World) FindResolution(a, b *actor.RigidBody) *constraint.Resolution {
	var found *constraint.Resolution
	w.resolutions.All(func(_ int, res *constraint.Resolution) bool {
		if (res.A == a && res.B == b) || (res.A == b && res.B == a) {
			found = res
			return false
		}
		return true
	})
	return found
}

// Step advances the simulation by dt seconds
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	invDt := 1.0 / dt

	// Phase 1: forces and gravity into velocities
	w.integrateVelocities(dt)

	// Phase 2: collision pair finding, broad then narrow phase
	results := w.narrowPhase(w.broadPhase())

	// Phase 3: reconcile fresh geometry with the persisted resolutions
	w.updateResolutions(results)

	// Phase 4: iterative impulse solver over the active resolutions
	w.preSolve(invDt)
	for i := 0; i < w.Settings.VelocityIterations; i++ {
		w.solveVelocities()
	}
	for i := 0; i < w.Settings.PositionIterations; i++ {
		w.solvePositions()
	}

	// Phase 5: commit positions
	w.integratePositions(dt)

	if w.Settings.Sleeping {
		w.trySleep(dt)
	}

	w.Events.recordCollisions(w.resolutions)
	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()

	// Expired records leave the collection only after the whole step ran
	w.evictResolutions()
}

func (w *World) integrateVelocities(dt float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.IntegrateVelocity(dt, w.Settings.Gravity)
	})
}

func (w *World) integratePositions(dt float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.IntegratePosition(dt)
	})
}

func (w *World) broadPhase() <-chan Pair {
	w.SpatialGrid.Clear()
	for i := 0; i < w.Bodies.Len(); i++ {
		w.SpatialGrid.Insert(i, w.Bodies.At(i))
	}
	w.SpatialGrid.SortCells()

	return w.SpatialGrid.FindPairsParallel(w.Bodies, w.Workers)
}

type pairResult struct {
	pair     Pair
	manifold constraint.Manifold
}

// narrowPhase runs the geometric tests over the candidate pairs in
// parallel. Separated results are kept too: a tracked pair that stopped
// overlapping still needs its lifecycle update.
func (w *World) narrowPhase(pairs <-chan Pair) map[pairKey]pairResult {
	resultsChan := make(chan pairResult, w.Workers*2)

	go func() {
		var wg sync.WaitGroup
		defer close(resultsChan)

		for n := 0; n < w.Workers; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for p := range pairs {
					resultsChan <- pairResult{pair: p, manifold: Collide(p.BodyA, p.BodyB)}
				}
			}()
		}
		wg.Wait()
	}()

	results := make(map[pairKey]pairResult)
	for r := range resultsChan {
		results[makePairKey(r.pair.BodyA, r.pair.BodyB)] = r
	}

	return results
}

// updateResolutions merges the fresh narrow-phase results into the
// persistent records: tracked pairs get their lifecycle update (a pair that
// left the broad phase counts as separated), untracked overlapping pairs
// get a new record in StateFirst
func (w *World) updateResolutions(results map[pairKey]pairResult) {
	cfg := w.Settings.Solver

	for i := 0; i < w.resolutions.Len(); i++ {
		res := w.resolutions.At(i)

		// A fully sleeping pair is filtered out of the broad phase, so its
		// absence says nothing about separation. The record keeps its state
		// and impulses until one of the bodies wakes.
		if res.A.IsSleeping && res.B.IsSleeping {
			continue
		}

		key := makePairKey(res.A, res.B)
		if r, ok := results[key]; ok {
			if r.manifold.Collision && w.Settings.Sleeping {
				w.wakeOnImpact(res.A, res.B)
			}
			res.Update(cfg, r.manifold)
			delete(results, key)
		} else {
			res.Update(cfg, constraint.Manifold{})
		}
	}

	for _, r := range results {
		if !r.manifold.Collision {
			continue
		}

		if w.Settings.Sleeping {
			w.wakeOnImpact(r.pair.BodyA, r.pair.BodyB)
		}

		w.resolutions.Append(constraint.NewResolution(r.pair.BodyA, r.pair.BodyB, r.manifold, cfg))
	}
}

// wakeOnImpact wakes a sleeping body when the other body of the pair hits
// it with enough energy
func (w *World) wakeOnImpact(a, b *actor.RigidBody) {
	if a.IsSleeping && !b.IsSleeping && b.BodyType != actor.BodyTypeStatic {
		if b.KineticEnergy() > w.Settings.WakeEnergyThreshold {
			a.Awake()
		}
	}

	if b.IsSleeping && !a.IsSleeping && a.BodyType != actor.BodyTypeStatic {
		if a.KineticEnergy() > w.Settings.WakeEnergyThreshold {
			b.Awake()
		}
	}
}

func (w *World) preSolve(invDt float64) {
	cfg := w.Settings.Solver

	for i := 0; i < w.resolutions.Len(); i++ {
		res := w.resolutions.At(i)
		if !w.solvable(res) {
			continue
		}

		res.PreSolve(cfg, invDt)
		res.WarmStart(cfg)
	}
}

func (w *World) solveVelocities() {
	for i := 0; i < w.resolutions.Len(); i++ {
		if res := w.resolutions.At(i); w.solvable(res) {
			res.SolveVelocity()
		}
	}
}

func (w *World) solvePositions() {
	for i := 0; i < w.resolutions.Len(); i++ {
		if res := w.resolutions.At(i); w.solvable(res) {
			res.SolvePosition()
		}
	}
}

// solvable reports whether the solver passes should act on the record this
// step. Resolutions share bodies, so the passes run sequentially.
func (w *World) solvable(res *constraint.Resolution) bool {
	if !res.Collision {
		return false
	}
	if res.A.IsSleeping && res.B.IsSleeping {
		return false
	}
	return true
}

// trySleep sets dynamic bodies to sleep if their velocity stays under the
// threshold long enough. Static bodies never sleep: a sleeping flag on them
// would make every resting contact look like a fully sleeping pair.
func (w *World) trySleep(dt float64) {
	for i := 0; i < w.Bodies.Len(); i++ {
		body := w.Bodies.At(i)
		if body.BodyType == actor.BodyTypeStatic {
			continue
		}
		body.TrySleep(dt, w.Settings.SleepTimeThreshold, w.Settings.SleepVelocityThreshold)
	}
}

// evictResolutions releases the records whose lifetime ran out. Backwards
// iteration keeps indices valid across swap removals.
func (w *World) evictResolutions() {
	for i := w.resolutions.Len() - 1; i >= 0; i-- {
		if w.resolutions.At(i).Lifetime < 0 {
			w.resolutions.Pop(i)
		}
	}
}
