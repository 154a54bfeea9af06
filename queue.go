package guitex

import (
	"log/slog"
	"sync"
)

// Enqueuer accepts deferred actions for the engine's frame tick.
// Actions run once, in submission order, on the engine thread.
type Enqueuer interface {
	Enqueue(task func())
}

// GUIExecutor runs actions on the GUI toolkit's thread.
type GUIExecutor interface {
	RunLater(task func())
}

// TaskQueue is a FIFO of zero-argument actions drained once per tick.
// Enqueue is safe from any goroutine; Run must be called from the single
// thread that owns the queue.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []func()
	spare []func()
	log   *slog.Logger
}

// NewTaskQueue creates an empty queue. A nil logger uses the package logger.
func NewTaskQueue(log *slog.Logger) *TaskQueue {
	return &TaskQueue{log: log}
}

// Enqueue appends a task. Nil tasks are ignored.
func (q *TaskQueue) Enqueue(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Run executes the tasks queued before the call, in order.
// Tasks queued while Run is executing wait for the next call.
// A panicking task is logged and does not stop the remaining tasks.
func (q *TaskQueue) Run() int {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = q.spare[:0]
	q.mu.Unlock()

	for i, task := range batch {
		q.runOne(task)
		batch[i] = nil
	}

	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()

	return len(batch)
}

// Len returns the number of tasks waiting for the next Run.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *TaskQueue) runOne(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger().Error("engine task panicked", "panic", r)
		}
	}()
	task()
}

func (q *TaskQueue) logger() *slog.Logger {
	if q.log != nil {
		return q.log
	}
	return Logger()
}
