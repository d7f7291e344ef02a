package scheduler

import (
	"container/heap"
	"time"
)

type timer struct {
	id    TimerID
	due   time.Time
	seq   uint64
	fn    func()
	index int
}

// timerHeap orders timers by deadline, then by the order they were requested.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// timerSet tracks pending timers by ID.
// It's not concurrency safe, owners are expected to lock around it.
type timerSet struct {
	heap   timerHeap
	byID   map[TimerID]*timer
	lastID TimerID
	seq    uint64
}

func (s *timerSet) Len() int {
	return len(s.heap)
}

func (s *timerSet) add(due time.Time, fn func()) TimerID {
	if s.byID == nil {
		s.byID = map[TimerID]*timer{}
	}
	s.lastID++
	s.seq++
	t := &timer{id: s.lastID, due: due, seq: s.seq, fn: fn}
	s.byID[t.id] = t
	heap.Push(&s.heap, t)
	return t.id
}

func (s *timerSet) cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	heap.Remove(&s.heap, t.index)
	return true
}

func (s *timerSet) next() (time.Time, bool) {
	if len(s.heap) == 0 {
		return time.Time{}, false
	}
	return s.heap[0].due, true
}

// popDue removes and returns the earliest timer if its deadline is at or before now.
func (s *timerSet) popDue(now time.Time) (*timer, bool) {
	if len(s.heap) == 0 || s.heap[0].due.After(now) {
		return nil, false
	}
	t := heap.Pop(&s.heap).(*timer)
	delete(s.byID, t.id)
	return t, true
}
