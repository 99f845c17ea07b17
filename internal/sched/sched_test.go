package sched

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ironsheep/relief-mapper/internal/colorspace"
	"github.com/ironsheep/relief-mapper/internal/dither"
	"github.com/ironsheep/relief-mapper/internal/engine"
)

func eligibleSettings() engine.Settings {
	s := engine.DefaultSettings()
	s.Space = colorspace.RGB
	s.Method = dither.NoDither
	return s
}

func TestAcceleratedEligible(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*engine.Settings)
		want   bool
	}{
		{"baseline", func(s *engine.Settings) {}, true},
		{"ycbcr", func(s *engine.Settings) { s.Space = colorspace.YCbCr }, true},
		{"oklab", func(s *engine.Settings) { s.Space = colorspace.Oklab }, true},
		{"ordered", func(s *engine.Settings) { s.Method = dither.Ordered }, true},
		{"lab space", func(s *engine.Settings) { s.Space = colorspace.LabD65 }, false},
		{"hsl space", func(s *engine.Settings) { s.Space = colorspace.HSL }, false},
		{"kernel method", func(s *engine.Settings) { s.Method = dither.FixedKernel }, false},
		{"column method", func(s *engine.Settings) { s.Method = dither.ColumnNone }, false},
		{"edge preserve", func(s *engine.Settings) { s.EdgePreserve = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := eligibleSettings()
			tt.mutate(&s)
			if got := AcceleratedEligible(s); got != tt.want {
				t.Errorf("AcceleratedEligible(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestPoolDispatch(t *testing.T) {
	p := NewPool(2)
	defer p.Shutdown()

	want := &engine.Result{}
	res, err := p.dispatch(context.Background(), func() (*engine.Result, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res != want {
		t.Error("dispatch returned a different result than the task produced")
	}
}

func TestPoolDispatchPreCanceled(t *testing.T) {
	p := NewPool(1)
	defer p.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	_, err := p.dispatch(ctx, func() (*engine.Result, error) {
		ran = true
		return nil, nil
	})
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("dispatch on canceled context: err = %v, want ErrCanceled", err)
	}
	if ran {
		t.Error("canceled dispatch still invoked the task")
	}
	// The unit was never consumed; the pool must still serve work.
	if _, err := p.dispatch(context.Background(), func() (*engine.Result, error) {
		return &engine.Result{}, nil
	}); err != nil {
		t.Fatalf("dispatch after canceled dispatch: %v", err)
	}
}

func TestPoolDispatchMidRunCancelReplaces(t *testing.T) {
	p := NewPool(1)
	defer p.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var dispatchErr error
	go func() {
		defer wg.Done()
		_, dispatchErr = p.dispatch(ctx, func() (*engine.Result, error) {
			close(started)
			<-release
			return &engine.Result{}, nil
		})
	}()

	<-started
	cancel()
	wg.Wait()
	if !errors.Is(dispatchErr, ErrCanceled) {
		t.Fatalf("mid-run cancel: err = %v, want ErrCanceled", dispatchErr)
	}

	// The abandoned unit was replaced; a fresh one serves the next request
	// even though the old task is still blocked.
	done := make(chan error, 1)
	go func() {
		_, err := p.dispatch(context.Background(), func() (*engine.Result, error) {
			return &engine.Result{}, nil
		})
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("dispatch after replacement: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not replace the abandoned unit")
	}
	close(release)
}

func TestPoolWaitersFIFO(t *testing.T) {
	p := NewPool(1)
	defer p.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})
	go p.dispatch(context.Background(), func() (*engine.Result, error) {
		close(started)
		<-block
		return nil, nil
	})
	<-started

	// Two queued waiters must be served in arrival order.
	order := make(chan int, 2)
	first := make(chan struct{})
	go func() {
		w, err := p.acquire(context.Background())
		if err != nil {
			t.Errorf("first waiter: %v", err)
			return
		}
		order <- 1
		p.release(w)
	}()
	// Give the first waiter time to queue before the second arrives.
	for {
		p.mu.Lock()
		n := len(p.waiters)
		p.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(first)
	go func() {
		<-first
		w, err := p.acquire(context.Background())
		if err != nil {
			t.Errorf("second waiter: %v", err)
			return
		}
		order <- 2
		p.release(w)
	}()
	for {
		p.mu.Lock()
		n := len(p.waiters)
		p.mu.Unlock()
		if n == 2 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	close(block)
	if got := <-order; got != 1 {
		t.Fatalf("waiter served first = %d, want 1", got)
	}
	if got := <-order; got != 2 {
		t.Fatalf("waiter served second = %d, want 2", got)
	}
}

func TestPoolShutdown(t *testing.T) {
	p := NewPool(2)
	p.Shutdown()
	_, err := p.dispatch(context.Background(), func() (*engine.Result, error) {
		return nil, nil
	})
	if !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("dispatch after Shutdown: err = %v, want ErrPoolClosed", err)
	}
	// Idempotent.
	p.Shutdown()
}

// fakeAccel is an injectable accelerated backend whose Run blocks until the
// test releases it.
type fakeAccel struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newFakeAccel() *fakeAccel {
	return &fakeAccel{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (f *fakeAccel) Name() string { return "accel" }

func (f *fakeAccel) Run(ctx context.Context, req *Request) (*engine.Result, error) {
	f.calls.Add(1)
	f.started <- struct{}{}
	select {
	case <-f.release:
		return &engine.Result{}, nil
	case <-ctx.Done():
		return nil, ErrCanceled
	}
}

func TestOrchestratorSuperseded(t *testing.T) {
	accel := newFakeAccel()
	o := New(Options{PoolSize: 1, Accelerated: accel})
	defer o.Shutdown()

	req := &Request{Settings: eligibleSettings()}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = o.Convert(context.Background(), req, ModeAccelerated)
	}()
	<-accel.started

	// A newer request issued while the first is in flight supersedes it.
	second := &Request{Settings: eligibleSettings()}
	var secondErr error
	var secondRes *engine.Result
	done := make(chan struct{})
	go func() {
		defer close(done)
		secondRes, secondErr = o.Convert(context.Background(), second, ModeAccelerated)
	}()
	<-accel.started

	close(accel.release)
	wg.Wait()
	<-done

	if !errors.Is(firstErr, ErrSuperseded) {
		t.Errorf("superseded request: err = %v, want ErrSuperseded", firstErr)
	}
	if secondErr != nil {
		t.Errorf("latest request: err = %v, want nil", secondErr)
	}
	if secondRes == nil {
		t.Error("latest request returned no result")
	}
}

func TestOrchestratorKeepStale(t *testing.T) {
	accel := newFakeAccel()
	o := New(Options{PoolSize: 1, Accelerated: accel})
	defer o.Shutdown()

	req := &Request{Settings: eligibleSettings(), KeepStale: true}

	var wg sync.WaitGroup
	wg.Add(1)
	var res *engine.Result
	var err error
	go func() {
		defer wg.Done()
		res, err = o.Convert(context.Background(), req, ModeAccelerated)
	}()
	<-accel.started

	// Bump the latest ID past the in-flight request.
	o.counter.Add(1)
	o.latest.Store(o.counter.Load())

	close(accel.release)
	wg.Wait()
	if err != nil {
		t.Fatalf("KeepStale request: %v", err)
	}
	if res == nil {
		t.Fatal("KeepStale request returned no result")
	}
}

func TestOrchestratorPreCanceled(t *testing.T) {
	accel := newFakeAccel()
	o := New(Options{PoolSize: 1, Accelerated: accel})
	defer o.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Convert(ctx, &Request{Settings: eligibleSettings()}, ModeAccelerated)
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("pre-canceled Convert: err = %v, want ErrCanceled", err)
	}
	if n := accel.calls.Load(); n != 0 {
		t.Errorf("pre-canceled Convert still ran the backend %d times", n)
	}
}

func TestSelectBackend(t *testing.T) {
	accel := newFakeAccel()
	withAccel := New(Options{PoolSize: 1, Accelerated: accel})
	defer withAccel.Shutdown()
	noAccel := New(Options{PoolSize: 1})
	defer noAccel.Shutdown()

	small := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	large := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	ineligible := eligibleSettings()
	ineligible.Method = dither.ColumnDiffuse

	tests := []struct {
		name string
		o    *Orchestrator
		mode Mode
		req  *Request
		want string
	}{
		{"sync explicit", withAccel, ModeSync, &Request{Settings: eligibleSettings()}, "sync"},
		{"pool explicit", withAccel, ModePool, &Request{Settings: eligibleSettings()}, "pool"},
		{"accel eligible", withAccel, ModeAccelerated, &Request{Settings: eligibleSettings()}, "accel"},
		{"accel ineligible falls to pool", withAccel, ModeAccelerated, &Request{Settings: ineligible}, "pool"},
		{"accel absent falls to pool", noAccel, ModeAccelerated, &Request{Settings: eligibleSettings()}, "pool"},
		{"auto prefers accel", withAccel, ModeAuto, &Request{Img: large, Settings: eligibleSettings()}, "accel"},
		{"auto small image runs inline", noAccel, ModeAuto, &Request{Img: small, Settings: eligibleSettings()}, "sync"},
		{"auto large image uses pool", noAccel, ModeAuto, &Request{Img: large, Settings: eligibleSettings()}, "pool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.o.selectBackend(tt.mode, tt.req)
			if got := b.Name(); got != tt.want {
				t.Errorf("selectBackend(%v) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}
