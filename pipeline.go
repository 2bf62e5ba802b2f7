package rebound

import (
	"sync"

	"github.com/driftengine/rebound/container"
)

func task[T comparable](workersCount int, data *container.Array[T], fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := data.Len()
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data.At(i))
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}
