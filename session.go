package pixquant

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Session serializes the results of one editing session.
//
// Interactive callers re-run processing on every slider change. Each new
// request on a Session cancels the run still in flight, and a run that has
// been overtaken never delivers its result: Process returns ErrSuperseded
// and Submit skips its callback. At most one result per Session is applied,
// and it is always from the most recent request.
//
// Session is safe for concurrent use.
type Session struct {
	proc *Processor

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup

	// deliverMu orders Submit callbacks.
	deliverMu sync.Mutex
}

// NewSession creates a Session that runs requests on p.
// A nil p uses a Processor with default options.
func NewSession(p *Processor) *Session {
	if p == nil {
		p = defaultProcessor
	}
	return &Session{proc: p}
}

// beginLocked registers a new run, cancelling the previous one.
// s.mu must be held and the Session must be open.
func (s *Session) beginLocked(ctx context.Context) (context.Context, uint64) {
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return runCtx, s.gen
}

// finish releases the run's context and reports whether gen is still the
// latest run and whether the Session was closed meanwhile.
func (s *Session) finish(gen uint64) (latest, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return gen == s.gen, s.closed
}

// run executes a registered run and maps overtaken or closed runs to
// ErrSuperseded and ErrSessionClosed.
func (s *Session) run(ctx context.Context, gen uint64, src *RasterImage, opts Options) (*Result, error) {
	log := Logger().With("run", uuid.NewString())
	log.Debug("pixquant: session run started", "generation", gen)

	res, err := s.proc.Process(ctx, src, opts)
	latest, closed := s.finish(gen)
	switch {
	case closed:
		return nil, ErrSessionClosed
	case !latest:
		log.Debug("pixquant: session run superseded", "generation", gen)
		return nil, ErrSuperseded
	}
	return res, err
}

// Process runs a request, superseding any run in flight on this Session.
// It returns ErrSuperseded if a newer request started before this one finished.
func (s *Session) Process(ctx context.Context, src *RasterImage, opts Options) (*Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	runCtx, gen := s.beginLocked(ctx)
	s.mu.Unlock()

	return s.run(runCtx, gen, src, opts)
}

// Submit runs a request asynchronously. The request is ordered against
// other requests when Submit is called, not when its goroutine starts.
// fn is called with the outcome only if the run is still the latest when
// it is delivered; superseded runs and runs on a closed Session are
// dropped silently. Callbacks never run concurrently with each other.
func (s *Session) Submit(ctx context.Context, src *RasterImage, opts Options, fn func(*Result, error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	runCtx, gen := s.beginLocked(ctx)
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		res, err := s.run(runCtx, gen, src, opts)
		if errors.Is(err, ErrSuperseded) || errors.Is(err, ErrSessionClosed) {
			return
		}
		s.deliver(gen, func() { fn(res, err) })
	}()
}

// deliver calls fn if gen is still the latest run of an open Session.
func (s *Session) deliver(gen uint64, fn func()) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	current := gen == s.gen && !s.closed
	s.mu.Unlock()
	if current {
		fn()
	}
}

// Close cancels the run in flight, waits for Submit goroutines to return,
// and rejects further requests.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}
