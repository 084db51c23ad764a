// Package workerpool implements a bounded async executor for the send
// pipeline's store path: a fixed number of workers drain a channel of
// pooled payload buffers. Backpressure policy is drop-with-metric, never
// blocking the caller.
package workerpool

import (
	"context"
	"sync"

	"github.com/valyala/bytebufferpool"
	uatomic "go.uber.org/atomic"

	"messagebridge/internal/logger"
	"messagebridge/internal/metrics"
)

// Task is the unit of work scheduled onto the pool: an async store
// operation carrying a pooled payload buffer.
type Task struct {
	Payload []byte
	Run     func(ctx context.Context, payload []byte)

	buf  *bytebufferpool.ByteBuffer
	once sync.Once
}

func (t *Task) release() {
	t.once.Do(func() {
		if t.buf != nil {
			bytebufferpool.Put(t.buf)
			t.buf = nil
		}
	})
}

var taskPool = sync.Pool{New: func() any { return &Task{} }}

// Pool is a bounded worker pool: a fixed number of workers drain a channel
// of capacity queueCapacity; Submit drops and counts when that channel is
// full rather than blocking the caller.
type Pool struct {
	tasks   chan *Task
	wg      sync.WaitGroup
	closed  uatomic.Bool
	dropped uatomic.Uint64
	done    chan struct{}
}

// New starts a pool with `workers` goroutines draining a channel of
// capacity `queueCapacity`.
func New(workers, queueCapacity int) *Pool {
	if workers <= 0 {
		workers = 50
	}
	if queueCapacity <= 0 {
		queueCapacity = 1000
	}
	p := &Pool{
		tasks: make(chan *Task, queueCapacity),
		done:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.runWorker()
	}
	return p
}

func (p *Pool) runWorker() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.execute(t)
	}
}

func (p *Pool) execute(t *Task) {
	defer taskPool.Put(t)
	defer t.release()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool task panicked", "recover", r)
		}
	}()
	t.Run(context.Background(), t.Payload)
}

// Submit schedules payload (copied into a pooled buffer) for async
// execution by run. Submit never blocks the caller: if the queue is
// saturated the task is dropped and Dropped() is incremented.
func (p *Pool) Submit(payload []byte, run func(ctx context.Context, payload []byte)) {
	if p.closed.Load() {
		logger.Warn("workerpool: submit after close, dropping task")
		p.dropped.Inc()
		return
	}

	t := taskPool.Get().(*Task)
	bb := bytebufferpool.Get()
	bb.B = append(bb.B[:0], payload...)
	t.buf = bb
	t.Payload = bb.B[:len(payload)]
	t.Run = run

	select {
	case p.tasks <- t:
	default:
		t.release()
		taskPool.Put(t)
		p.dropped.Inc()
		metrics.StoreTasksDropped.Inc()
		logger.Warn("workerpool: queue saturated, dropping store task", "queueCapacity", cap(p.tasks))
	}
}

// Dropped returns the number of tasks dropped because the queue was
// saturated or the pool was already closed. Saturation drops are also
// counted at /metrics as store_tasks_dropped_total.
func (p *Pool) Dropped() uint64 { return p.dropped.Load() }

// QueueDepth returns the current number of queued-but-not-yet-run tasks.
func (p *Pool) QueueDepth() int { return len(p.tasks) }

// QueueCapacity returns the configured bound on QueueDepth.
func (p *Pool) QueueCapacity() int { return cap(p.tasks) }

// Close stops accepting new tasks and waits for in-flight/queued tasks to
// drain before returning.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.done)
	close(p.tasks)
	p.wg.Wait()
}
