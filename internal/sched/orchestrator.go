package sched

import (
	"context"
	"sync/atomic"

	"github.com/ironsheep/relief-mapper/internal/engine"
)

// Orchestrator owns backend selection, staleness tracking and the worker
// pool. One orchestrator serves many concurrent Convert calls; different
// images may run in parallel.
type Orchestrator struct {
	pool  *Pool
	accel Backend // optional injected accelerated backend
	sync  syncBackend

	counter atomic.Uint64
	latest  atomic.Uint64
}

// Options configures an orchestrator.
type Options struct {
	// PoolSize overrides the worker count; zero means DefaultPoolSize.
	PoolSize int
	// Accelerated injects an accelerated backend. Nil disables the
	// accelerated path entirely; eligibility gating still applies when set.
	Accelerated Backend
}

// New creates an orchestrator and starts its worker pool.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		pool:  NewPool(opts.PoolSize),
		accel: opts.Accelerated,
	}
}

// Shutdown stops the worker pool. In-flight requests finish; new dispatches
// fail with ErrPoolClosed.
func (o *Orchestrator) Shutdown() {
	o.pool.Shutdown()
}

// Convert executes one request on the backend selected by mode.
//
// A context canceled before dispatch fails immediately with ErrCanceled and
// never touches a backend. A result arriving after a newer request was
// issued resolves to ErrSuperseded unless the request sets KeepStale.
func (o *Orchestrator) Convert(ctx context.Context, req *Request, mode Mode) (*engine.Result, error) {
	id := o.counter.Add(1)
	o.latest.Store(id)

	if ctx.Err() != nil {
		return nil, ErrCanceled
	}

	res, err := o.selectBackend(mode, req).Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if !req.KeepStale && o.latest.Load() != id {
		return nil, ErrSuperseded
	}
	return res, nil
}

// selectBackend applies the preference chain. Eligibility is checked before
// dispatch; an ineligible preferred backend falls back to the next one
// (accelerated, then pool, then synchronous).
func (o *Orchestrator) selectBackend(mode Mode, req *Request) Backend {
	switch mode {
	case ModeSync:
		return o.sync
	case ModePool:
		return &poolBackend{pool: o.pool}
	case ModeAccelerated:
		if o.accel != nil && AcceleratedEligible(req.Settings) {
			return o.accel
		}
		// Pre-dispatch eligibility failure: next-preferred backend.
		return &poolBackend{pool: o.pool}
	default: // ModeAuto
		if o.accel != nil && AcceleratedEligible(req.Settings) {
			return o.accel
		}
		if req.Img != nil {
			b := req.Img.Bounds()
			if b.Dx()*b.Dy() <= syncThreshold {
				return o.sync
			}
		}
		return &poolBackend{pool: o.pool}
	}
}
