package frontier

import "container/heap"

// Entry is one frontier slot. Several entries may name the same URL; only
// the page index is authoritative.
type Entry struct {
	Score int
	URL   string
}

type entries []Entry

func (h entries) Len() int { return len(h) }
func (h entries) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].URL < h[j].URL
}
func (h entries) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entries) Push(x any)   { *h = append(*h, x.(Entry)) }
func (h *entries) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Queue is a min-heap of entries ordered by score. It is not safe for
// concurrent use; State serialises access.
type Queue struct {
	totalQueued int
	elements    entries
}

func NewQueue() *Queue {
	return &Queue{elements: make(entries, 0)}
}

func (q *Queue) Push(e Entry) {
	heap.Push(&q.elements, e)
	q.totalQueued++
}

// Pop removes the best entry.
func (q *Queue) Pop() (Entry, bool) {
	if len(q.elements) == 0 {
		return Entry{}, false
	}
	return heap.Pop(&q.elements).(Entry), true
}

// Peek returns the best entry without removing it.
func (q *Queue) Peek() (Entry, bool) {
	if len(q.elements) == 0 {
		return Entry{}, false
	}
	return q.elements[0], true
}

// Confirm re-validates a popped candidate whose score is now current.
// It returns true when current is at least as good as the new head (or the
// queue is empty). Otherwise the candidate goes back in at current and
// Confirm returns false.
func (q *Queue) Confirm(u string, current int) bool {
	head, ok := q.Peek()
	if !ok || current <= head.Score {
		return true
	}
	q.Push(Entry{Score: current, URL: u})
	return false
}

func (q *Queue) Size() int { return len(q.elements) }

func (q *Queue) TotalQueued() int { return q.totalQueued }
