package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Computer computes a dashboard result
type Computer interface {
	Compute(ctx context.Context, in Inputs) (*Result, error)
}

// Session coordinates recomputation for a single UI session. Each Submit
// supersedes the previous one: the in-flight computation is cancelled and
// only the latest submission's result is ever delivered.
type Session struct {
	computer Computer
	parent   context.Context
	log      zerolog.Logger

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	latest  *Result
	closed  bool
	running sync.WaitGroup

	// deliverMu keeps deliveries in submission order
	deliverMu sync.Mutex
}

// NewSession creates a session whose computations are bound to ctx
func NewSession(ctx context.Context, computer Computer, log zerolog.Logger) *Session {
	return &Session{
		computer: computer,
		parent:   ctx,
		log:      log.With().Str("service", "dashboard_session").Logger(),
	}
}

// Submit starts computing in and returns immediately. deliver is called with
// the result unless a newer submission arrives first or the session closes.
func (s *Session) Submit(in Inputs, deliver func(*Result)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel
	s.running.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.running.Done()
		defer cancel()

		result, err := s.computer.Compute(ctx, in)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.log.Warn().Err(err).Uint64("seq", seq).Msg("Dashboard computation failed")
			}
			return
		}

		s.deliverMu.Lock()
		defer s.deliverMu.Unlock()

		s.mu.Lock()
		current := seq == s.seq && !s.closed
		if current {
			s.latest = result
		}
		s.mu.Unlock()

		if !current {
			s.log.Debug().Uint64("seq", seq).Msg("Dropping stale dashboard result")
			return
		}
		deliver(result)
	}()
}

// Latest returns the most recently delivered result, or nil
func (s *Session) Latest() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Close cancels any in-flight computation and waits for it to finish. A
// result not yet delivered is dropped. Submit is a no-op afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.running.Wait()
}
