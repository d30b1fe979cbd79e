package sampler

import "container/heap"

// leafEntry is a snapshot of a leaf's score at push time. Entries go stale
// when the node later splits; staleness is detected at pop time.
type leafEntry struct {
	score float64
	id    int
	node  *Node
}

// leafQueue is a min-heap of leaf entries keyed by (score, node id). The
// id tie-break makes pop order deterministic for equal scores.
type leafQueue struct {
	entries []*leafEntry
}

func newLeafQueue() *leafQueue {
	q := &leafQueue{entries: make([]*leafEntry, 0)}
	heap.Init(q)
	return q
}

// Len returns the number of queued entries, stale ones included.
func (q *leafQueue) Len() int {
	return len(q.entries)
}

// Less orders by score, then by ascending node id.
func (q *leafQueue) Less(i, j int) bool {
	if q.entries[i].score != q.entries[j].score {
		return q.entries[i].score < q.entries[j].score
	}
	return q.entries[i].id < q.entries[j].id
}

// Swap swaps two entries in the queue.
func (q *leafQueue) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
}

// Push adds an entry to the queue.
func (q *leafQueue) Push(x any) {
	q.entries = append(q.entries, x.(*leafEntry))
}

// Pop removes and returns the last entry.
func (q *leafQueue) Pop() any {
	old := q.entries
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil // avoid memory leak
	q.entries = old[0 : n-1]
	return entry
}

// add registers a leaf under its current score.
func (q *leafQueue) add(n *Node) {
	heap.Push(q, &leafEntry{score: n.score, id: n.id, node: n})
}

// next removes and returns the best-scored node, or nil when empty.
func (q *leafQueue) next() *Node {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(*leafEntry).node
}
