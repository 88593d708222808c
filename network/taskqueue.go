package network

import (
	"context"
	"sync"
)

// TaskQueue carries completions from loader goroutines back to the
// goroutine that owns the document. Tasks run only from RunPending or
// Drain, in the order they were posted.
type TaskQueue struct {
	tasks       []func()
	outstanding int
	wake        chan struct{}
	mu          sync.Mutex
}

// NewTaskQueue creates an empty task queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		tasks: make([]func(), 0),
		wake:  make(chan struct{}, 1),
	}
}

// Post queues fn to run on the owner goroutine.
func (q *TaskQueue) Post(fn func()) {
	q.begin()
	q.post(fn)
}

// begin records that a task will be posted later.
func (q *TaskQueue) begin() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.outstanding++
}

// post queues a task announced by begin.
func (q *TaskQueue) post(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.outstanding--
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// RunPending runs the tasks queued so far and returns how many ran. Tasks
// posted while running are left for the next call.
func (q *TaskQueue) RunPending() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = make([]func(), 0)
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Pending returns the number of queued tasks plus requests still in flight.
func (q *TaskQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks) + q.outstanding
}

// Drain runs tasks until nothing is queued or in flight, or ctx is done.
func (q *TaskQueue) Drain(ctx context.Context) error {
	for {
		q.RunPending()
		if q.Pending() == 0 {
			return nil
		}
		q.mu.Lock()
		queued := len(q.tasks)
		q.mu.Unlock()
		if queued > 0 {
			continue
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
