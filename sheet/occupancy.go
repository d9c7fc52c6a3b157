package sheet

import "container/heap"

// occupancyIndex tracks how many occupied cells exist at each index along
// one axis (row or column) and answers "one past the highest occupied
// index" in O(log N) per edit, per spec.md §2's requirement that the
// rows/cols indexes stay in lock-step with cells at amortised O(log N)
// maintenance rather than a full rescan.
//
// It is a counted max-heap with lazy deletion: occupy/vacate only ever
// touch counts and push to the heap; a stale entry (count already back
// to zero) is skipped over when high() pops it, rather than removed
// eagerly. container/heap matches the teacher's reach for container/heap
// elsewhere in the pack's worksheet chunking.
type occupancyIndex struct {
	counts map[int]int
	heap   maxIntHeap
}

func newOccupancyIndex() *occupancyIndex {
	return &occupancyIndex{counts: make(map[int]int)}
}

// occupy records one more occupied cell at idx.
func (o *occupancyIndex) occupy(idx int) {
	o.counts[idx]++
	if o.counts[idx] == 1 {
		heap.Push(&o.heap, idx)
	}
}

// vacate records one fewer occupied cell at idx.
func (o *occupancyIndex) vacate(idx int) {
	if o.counts[idx] == 0 {
		return
	}
	o.counts[idx]--
	if o.counts[idx] == 0 {
		delete(o.counts, idx)
	}
}

// bound returns one past the highest currently-occupied index, or 0 if
// nothing is occupied.
func (o *occupancyIndex) bound() int {
	for len(o.heap) > 0 {
		top := o.heap[0]
		if o.counts[top] > 0 {
			return top + 1
		}
		heap.Pop(&o.heap)
	}
	return 0
}

// maxIntHeap is a container/heap max-heap of ints.
type maxIntHeap []int

func (h maxIntHeap) Len() int            { return len(h) }
func (h maxIntHeap) Less(i, j int) bool  { return h[i] > h[j] }
func (h maxIntHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxIntHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *maxIntHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
