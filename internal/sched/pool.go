package sched

import (
	"context"
	"runtime"
	"sync"

	"github.com/ironsheep/relief-mapper/internal/engine"
)

// taskResult carries one finished unit of work back to the dispatcher.
type taskResult struct {
	res *engine.Result
	err error
}

// task is one unit of work for a worker: a closure and the channel its
// result is delivered on. The channel is buffered so an abandoned worker can
// finish without blocking forever.
type task struct {
	run func() (*engine.Result, error)
	out chan taskResult
}

// worker is one pool unit: a goroutine consuming tasks one at a time.
type worker struct {
	id    int
	tasks chan task
}

func (w *worker) loop() {
	for t := range w.tasks {
		res, err := t.run()
		t.out <- taskResult{res: res, err: err}
	}
}

// Pool is the owned manager of a fixed set of worker units with an idle list
// and a FIFO waiter list. All bookkeeping happens under one mutex; the
// acquire/release/replace/shutdown lifecycle is the only way units move.
type Pool struct {
	mu      sync.Mutex
	size    int
	nextID  int
	idle    []*worker
	waiters []chan *worker
	closed  bool
}

// DefaultPoolSize is the hardware parallelism minus one, with a floor of
// one: the remaining CPU stays responsive for the caller.
func DefaultPoolSize() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// NewPool creates and starts a pool of n workers (DefaultPoolSize when n
// is not positive).
func NewPool(n int) *Pool {
	if n <= 0 {
		n = DefaultPoolSize()
	}
	p := &Pool{size: n}
	for i := 0; i < n; i++ {
		p.idle = append(p.idle, p.spawn())
	}
	return p
}

// Size returns the fixed number of units.
func (p *Pool) Size() int {
	return p.size
}

// spawn starts a fresh unit. Caller holds no lock requirement; IDs are
// assigned under the pool mutex.
func (p *Pool) spawn() *worker {
	p.nextID++
	w := &worker{id: p.nextID, tasks: make(chan task)}
	go w.loop()
	return w
}

// acquire hands out an idle unit, or queues the caller FIFO until one frees
// up. A context canceled while queued returns ErrCanceled.
func (p *Pool) acquire(ctx context.Context) (*worker, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		w := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return w, nil
	}
	ch := make(chan *worker, 1)
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	select {
	case w := <-ch:
		if w == nil {
			return nil, ErrPoolClosed
		}
		return w, nil
	case <-ctx.Done():
		p.mu.Lock()
		for i, c := range p.waiters {
			if c == ch {
				p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
				break
			}
		}
		p.mu.Unlock()
		// A unit may have been handed over concurrently; pass it on.
		select {
		case w := <-ch:
			p.release(w)
		default:
		}
		return nil, ErrCanceled
	}
}

// release returns a healthy unit to the pool: the first FIFO waiter gets it,
// otherwise it joins the idle list.
func (p *Pool) release(w *worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(w.tasks)
		return
	}
	if len(p.waiters) > 0 {
		ch := p.waiters[0]
		p.waiters = p.waiters[1:]
		ch <- w
		return
	}
	p.idle = append(p.idle, w)
}

// replace discards a unit whose request was abandoned mid-run and hands a
// fresh unit to the pool in its place. The discarded unit finishes its
// current task unobserved and exits.
func (p *Pool) replace(w *worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// The unit already consumed its in-flight task; closing the channel
	// lets it exit once that task finishes into the unobserved buffer.
	close(w.tasks)
	if p.closed {
		return
	}
	fresh := p.spawn()
	if len(p.waiters) > 0 {
		ch := p.waiters[0]
		p.waiters = p.waiters[1:]
		ch <- fresh
		return
	}
	p.idle = append(p.idle, fresh)
}

// Shutdown stops all idle units and marks the pool closed. Busy units exit
// when released.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, w := range p.idle {
		close(w.tasks)
	}
	p.idle = nil
	for _, ch := range p.waiters {
		close(ch)
	}
	p.waiters = nil
}

// dispatch runs one closure on a pool unit, honoring cancellation. Canceling
// mid-run abandons the unit (replace) and returns ErrCanceled; the unit's
// eventual result is dropped.
func (p *Pool) dispatch(ctx context.Context, run func() (*engine.Result, error)) (*engine.Result, error) {
	if ctx.Err() != nil {
		return nil, ErrCanceled
	}
	w, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan taskResult, 1)
	w.tasks <- task{run: run, out: out}

	select {
	case r := <-out:
		p.release(w)
		return r.res, r.err
	case <-ctx.Done():
		p.replace(w)
		return nil, ErrCanceled
	}
}

// poolBackend adapts the pool to the Backend interface.
type poolBackend struct {
	pool *Pool
}

func (b *poolBackend) Name() string { return "pool" }

func (b *poolBackend) Run(ctx context.Context, req *Request) (*engine.Result, error) {
	return b.pool.dispatch(ctx, func() (*engine.Result, error) {
		e, err := engine.New(req.Palette, req.Settings)
		if err != nil {
			return nil, err
		}
		return e.Run(req.Img, req.Progress)
	})
}
