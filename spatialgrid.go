package rebound

import (
	"math"
	"sort"
	"sync"

	"github.com/driftengine/rebound/actor"
	"github.com/driftengine/rebound/container"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the coordinate of a cell in the 2D grid
type CellKey struct {
	X, Y int
}

// Cell holds the indices of the bodies overlapping it
type Cell struct {
	bodyIndices []int
}

// Pair is a pair of bodies that potentially collide
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// SpatialGrid is a uniform hashed grid used for the broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// NewSpatialGrid creates a spatial grid. cellSize should be on the order of
// a typical body's diameter; numCells is rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert registers a body in every cell its AABB covers
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	aabb := body.Shape.GetAABB()
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellIdx := sg.hashCell(CellKey{x, y})

			sg.cells[cellIdx].bodyIndices = append(
				sg.cells[cellIdx].bodyIndices,
				bodyIndex,
			)
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

// FindPairs walks the grid and returns the candidate pairs, sequentially
func (sg *SpatialGrid) FindPairs(bodies *container.Array[*actor.RigidBody]) []Pair {
	pairs := make([]Pair, 0, bodies.Len()/2)

	for bodyIdx := 0; bodyIdx < bodies.Len(); bodyIdx++ {
		bodyA := bodies.At(bodyIdx)

		minCell := sg.worldToCell(bodyA.Shape.GetAABB().Min)
		maxCell := sg.worldToCell(bodyA.Shape.GetAABB().Max)

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				cellIdx := sg.hashCell(CellKey{x, y})

				for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
					// Deterministic order, avoids (A,B) and (B,A) duplicates
					if otherIdx <= bodyIdx {
						continue
					}

					bodyB := bodies.At(otherIdx)

					if skipPair(bodyA, bodyB) {
						continue
					}

					if bodyA.Shape.GetAABB().Overlaps(bodyB.Shape.GetAABB()) {
						pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
					}
				}
			}
		}
	}

	return pairs
}

// FindPairsParallel splits the body range over workers and streams the
// candidate pairs on a channel
func (sg *SpatialGrid) FindPairsParallel(bodies *container.Array[*actor.RigidBody], numWorkers int) <-chan Pair {
	var wg sync.WaitGroup
	pairsChan := make(chan Pair, numWorkers*10)

	bodiesPerWorker := bodies.Len() / numWorkers
	if bodiesPerWorker == 0 {
		bodiesPerWorker = 1
	}

	clearSeen := make([]bool, bodies.Len())
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)

		startIdx := w * bodiesPerWorker
		endIdx := startIdx + bodiesPerWorker
		if w == numWorkers-1 {
			endIdx = bodies.Len()
		}

		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, bodies.Len())
			for bodyIdx := start; bodyIdx < end && bodyIdx < bodies.Len(); bodyIdx++ {
				copy(seen, clearSeen)

				bodyA := bodies.At(bodyIdx)

				minCell := sg.worldToCell(bodyA.Shape.GetAABB().Min)
				maxCell := sg.worldToCell(bodyA.Shape.GetAABB().Max)

				for x := minCell.X; x <= maxCell.X; x++ {
					for y := minCell.Y; y <= maxCell.Y; y++ {
						cellIdx := sg.hashCell(CellKey{x, y})

						for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
							if otherIdx <= bodyIdx || seen[otherIdx] {
								continue
							}
							seen[otherIdx] = true

							bodyB := bodies.At(otherIdx)

							if skipPair(bodyA, bodyB) {
								continue
							}

							if bodyA.Shape.GetAABB().Overlaps(bodyB.Shape.GetAABB()) {
								pairsChan <- Pair{BodyA: bodyA, BodyB: bodyB}
							}
						}
					}
				}
			}
		}(startIdx, endIdx)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// skipPair filters pairs no solver pass would act on. Sleeping pairs are
// kept so a moving body can wake a sleeping one it lands on.
func skipPair(bodyA, bodyB *actor.RigidBody) bool {
	if bodyA.BodyType == actor.BodyTypeStatic && bodyB.BodyType == actor.BodyTypeStatic {
		return true
	}
	if bodyA.IsSleeping && bodyB.IsSleeping {
		return true
	}
	return false
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & sg.cellMask
}
