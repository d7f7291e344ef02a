package scheduler

import "sync"

// taskQueue is a concurrency-safe FIFO of callbacks.
type taskQueue struct {
	mux   sync.Mutex
	tasks []func()
}

// Len gets the number of queued tasks.
func (q *taskQueue) Len() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	return len(q.tasks)
}

// Push will push a task to the tail of the queue.
func (q *taskQueue) Push(fn func()) {
	q.mux.Lock()
	defer q.mux.Unlock()
	q.tasks = append(q.tasks, fn)
}

// Pop will pop a task from the head of the queue.
// False will be returned if the queue is empty.
func (q *taskQueue) Pop() (func(), bool) {
	q.mux.Lock()
	defer q.mux.Unlock()
	if len(q.tasks) == 0 {
		return nil, false
	}
	fn := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return fn, true
}

// drain runs queued tasks until the queue is empty, including tasks queued by the tasks being run.
// The number of tasks run is returned.
func (q *taskQueue) drain() int {
	var count int
	for {
		fn, ok := q.Pop()
		if !ok {
			return count
		}
		fn()
		count++
	}
}
