package sched

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
	"github.com/ironsheep/relief-mapper/internal/engine"
	"github.com/ironsheep/relief-mapper/internal/palette"
)

// Sentinel outcomes of a dispatch.
var (
	// ErrCanceled reports a request canceled before or during execution. It
	// is a distinct, non-failure outcome.
	ErrCanceled = errors.New("sched: request canceled")
	// ErrSuperseded reports a result discarded because a newer request was
	// issued while this one was in flight.
	ErrSuperseded = errors.New("sched: result superseded by a newer request")
	// ErrPoolClosed reports dispatch against a pool after Shutdown.
	ErrPoolClosed = errors.New("sched: worker pool is shut down")
)

// Request is one conversion to execute.
type Request struct {
	Img      *image.NRGBA
	Palette  *palette.Palette
	Settings engine.Settings
	Progress func(float64)

	// KeepStale opts this request out of staleness discard, for batch work
	// where every result is wanted regardless of ordering.
	KeepStale bool
}

// Backend executes conversion requests. Backends must be safe for concurrent
// Run calls.
type Backend interface {
	Name() string
	Run(ctx context.Context, req *Request) (*engine.Result, error)
}

// Mode selects the execution backend.
type Mode int

const (
	// ModeAuto picks the accelerated backend for eligible requests, the
	// synchronous path for small images, and the worker pool otherwise.
	ModeAuto Mode = iota
	ModeAccelerated
	ModePool
	ModeSync
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeAccelerated:
		return "accelerated"
	case ModePool:
		return "pool"
	case ModeSync:
		return "sync"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name (as printed by String) back to a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "auto":
		return ModeAuto, nil
	case "accelerated":
		return ModeAccelerated, nil
	case "pool":
		return ModePool, nil
	case "sync":
		return ModeSync, nil
	}
	return ModeAuto, fmt.Errorf("unknown backend mode %q", name)
}

// syncThreshold is the pixel count below which ModeAuto runs inline; the
// dispatch overhead dominates the work for tiny images.
const syncThreshold = 64 * 64

// AcceleratedEligible reports whether a settings record can run on the
// accelerated backend. All three conditions must hold: a stateless per-pixel
// decision rule, a color space expressible in the backend's arithmetic, and
// no edge-preservation pre-pass (which needs per-pixel branching the
// accelerated path does not have).
func AcceleratedEligible(s engine.Settings) bool {
	if !s.Method.Stateless() {
		return false
	}
	switch s.Space {
	case colorspace.RGB, colorspace.YCbCr, colorspace.Oklab:
	default:
		return false
	}
	return !s.EdgePreserve
}

// syncBackend runs the engine inline on the calling goroutine.
type syncBackend struct{}

func (syncBackend) Name() string { return "sync" }

func (syncBackend) Run(ctx context.Context, req *Request) (*engine.Result, error) {
	if ctx.Err() != nil {
		return nil, ErrCanceled
	}
	e, err := engine.New(req.Palette, req.Settings)
	if err != nil {
		return nil, err
	}
	return e.Run(req.Img, req.Progress)
}
