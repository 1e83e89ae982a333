// Copyright 2025 Patrick Steil
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package transit

import (
	"container/heap"
	"runtime"
	"sort"
	"sync"

	"github.com/ludovictagnon/travelorder/internal/tabular"
)

// StopVisits is one stop's trip-visit count, used for the top-K
// busiest-stop diagnostic.
type StopVisits struct {
	StopID string
	Visits int
}

// visitHeap is a min-heap over StopVisits, bounded to K entries, tied
// broken by stop id so the resulting top-K is independent of map
// iteration order.
type visitHeap []StopVisits

func (h visitHeap) Len() int { return len(h) }
func (h visitHeap) Less(i, j int) bool {
	if h[i].Visits != h[j].Visits {
		return h[i].Visits < h[j].Visits
	}
	return h[i].StopID > h[j].StopID // reversed: when popping the minimum, this keeps the lexicographically later id as weaker
}
func (h visitHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *visitHeap) Push(x interface{}) { *h = append(*h, x.(StopVisits)) }
func (h *visitHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// StopImportance partitions a trip-stops table's trips across a worker
// pool, counts per-stop visits (each trip contributing 1 visit per stop
// it calls at), merges the per-worker counts, and returns the K busiest
// stops, highest first, ties broken by stop id ascending.
func StopImportance(path string, k int, parents ParentMap) ([]StopVisits, error) {
	tbl, err := tabular.Load(path)
	if err != nil {
		return nil, err
	}
	if !tbl.HasColumns("trip_id", "stop_id") {
		return nil, nil
	}
	hasSequence := tbl.HasColumns("stop_sequence")
	trips := groupTripStops(tbl, hasSequence, parents, nil, 0)

	tripIDs := make([]string, 0, len(trips))
	for id := range trips {
		tripIDs = append(tripIDs, id)
	}

	workerCount := runtime.NumCPU()
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(tripIDs) && len(tripIDs) > 0 {
		workerCount = len(tripIDs)
	}

	counts := make(map[string]int)
	var mu sync.Mutex
	var wg sync.WaitGroup

	chunks := partition(tripIDs, workerCount)
	for _, chunk := range chunks {
		chunk := chunk
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make(map[string]int)
			for _, tripID := range chunk {
				for _, stop := range trips[tripID] {
					local[stop.stopID]++
				}
			}
			mu.Lock()
			for stopID, n := range local {
				counts[stopID] += n
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	h := &visitHeap{}
	heap.Init(h)
	for stopID, visits := range counts {
		heap.Push(h, StopVisits{StopID: stopID, Visits: visits})
		if h.Len() > k {
			heap.Pop(h)
		}
	}

	top := make([]StopVisits, h.Len())
	for i := len(top) - 1; i >= 0; i-- {
		top[i] = heap.Pop(h).(StopVisits)
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Visits != top[j].Visits {
			return top[i].Visits > top[j].Visits
		}
		return top[i].StopID < top[j].StopID
	})
	return top, nil
}

func partition(items []string, workers int) [][]string {
	if workers <= 0 {
		workers = 1
	}
	chunks := make([][]string, workers)
	for i, item := range items {
		w := i % workers
		chunks[w] = append(chunks[w], item)
	}
	return chunks
}
