package search

import (
	"container/heap"

	"planverse/internal/domain/plan"
)

// node is one entry in the search space: a fact snapshot plus the path taken
// to reach it and the objective accumulated along that path.
type node struct {
	state    plan.State
	path     []plan.Action
	cost     float64
	duration float64
	depth    int
	priority float64
	seq      int
}

// frontier abstracts the not-yet-expanded node set. BFS uses a FIFO queue;
// greedy and A* use a priority heap. Both pop deterministically: equal
// priorities break by insertion order.
type frontier interface {
	push(n *node)
	pop() *node
	empty() bool
}

type fifoFrontier struct {
	queue []*node
}

func (f *fifoFrontier) push(n *node) {
	f.queue = append(f.queue, n)
}

func (f *fifoFrontier) pop() *node {
	n := f.queue[0]
	f.queue = f.queue[1:]
	return n
}

func (f *fifoFrontier) empty() bool {
	return len(f.queue) == 0
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(*node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

type priorityFrontier struct {
	heap nodeHeap
}

func (f *priorityFrontier) push(n *node) {
	heap.Push(&f.heap, n)
}

func (f *priorityFrontier) pop() *node {
	return heap.Pop(&f.heap).(*node)
}

func (f *priorityFrontier) empty() bool {
	return f.heap.Len() == 0
}

func newFrontier(algorithm Algorithm) (frontier, error) {
	switch algorithm {
	case AlgorithmBFS:
		return &fifoFrontier{}, nil
	case AlgorithmGreedy, AlgorithmAStar:
		return &priorityFrontier{}, nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}
