package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/notify"
)

var (
	// ErrAlreadyActive rejects a second concurrent session for one user.
	ErrAlreadyActive = errors.New("a session is already active for this user")
	// ErrSessionNotFound marks an event for a user without a session; the
	// event is dropped.
	ErrSessionNotFound = errors.New("no active session for this user")
	// ErrSessionExpired marks an event for a session past its lifetime; the
	// session is evicted and the event dropped.
	ErrSessionExpired = errors.New("session expired")
)

// DefaultTTL is how long a session may live after creation. Expiry is
// detected lazily when the next event for that user arrives, or by an
// optional periodic sweep.
const DefaultTTL = 30 * time.Minute

// Registry owns the user-id to session mapping and serializes all events per
// user: two events for the same user never run inside a session handler
// concurrently, while different users proceed in parallel.
type Registry struct {
	renderer notify.Renderer
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	// waits holds users whose next plain text message belongs to their
	// session. A wait has no timeout of its own; it dies with the session.
	waits map[string]struct{}
}

type entry struct {
	mu      sync.Mutex
	session *Session
	closed  bool
}

func NewRegistry(renderer notify.Renderer, logger *zap.Logger) *Registry {
	return &Registry{
		renderer: renderer,
		logger:   logger,
		ttl:      DefaultTTL,
		now:      time.Now,
		entries:  make(map[string]*entry),
		waits:    make(map[string]struct{}),
	}
}

// Start creates and registers a session running the given flow, and renders
// its first prompt. Fails with ErrAlreadyActive when a live session exists.
func (r *Registry) Start(ctx context.Context, userID string, flow *FlowSpec) (*Session, error) {
	r.mu.Lock()
	if existing, ok := r.entries[userID]; ok {
		if !r.expired(existing.session) {
			r.mu.Unlock()
			return nil, ErrAlreadyActive
		}
		r.evictLocked(userID)
	}

	e := &entry{session: newSession(userID, flow, r.renderer, r.logger, r.now())}
	r.entries[userID] = e
	r.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.start(ctx); err != nil {
		e.closed = true
		r.mu.Lock()
		r.evictLocked(userID)
		r.mu.Unlock()
		return nil, err
	}

	r.logger.Info("session started",
		zap.String("user_id", userID),
		zap.String("kind", string(flow.Kind)),
	)

	return e.session, nil
}

// Route forwards an event to the user's session. Events for unknown users
// and expired sessions are no-ops, reported through the returned sentinel so
// transports can drop them silently. A handler failure is surfaced to the
// user as a generic notice but deliberately leaves the session alive; only
// confirm and cancel tear it down.
func (r *Registry) Route(ctx context.Context, userID string, event Event) error {
	r.mu.Lock()
	e, ok := r.entries[userID]
	if !ok {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	if r.expired(e.session) {
		r.evictLocked(userID)
		r.mu.Unlock()
		r.logger.Info("evicted expired session", zap.String("user_id", userID))
		return ErrSessionExpired
	}
	r.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrSessionNotFound
	}

	outcome, err := e.session.Handle(ctx, event)
	if err != nil {
		r.logger.Warn("session handler failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		if noticeErr := r.renderer.Notice(ctx, userID, "Something went wrong. Your session is still active."); noticeErr != nil {
			r.logger.Debug("sending failure notice failed", zap.Error(noticeErr))
		}
		return nil
	}

	switch outcome {
	case OutcomeAwaitingText:
		r.mu.Lock()
		r.waits[userID] = struct{}{}
		r.mu.Unlock()
	case OutcomeContinue:
		// A restart clears the session's pending free-text request; the wait
		// entry has to go with it or the user's next plain message would be
		// swallowed by a session no longer expecting it.
		if e.session.awaitingStep < 0 {
			r.mu.Lock()
			delete(r.waits, userID)
			r.mu.Unlock()
		}
	case OutcomeDone, OutcomeCancelled:
		e.closed = true
		r.mu.Lock()
		r.evictLocked(userID)
		r.mu.Unlock()
		r.logger.Info("session finished",
			zap.String("user_id", userID),
			zap.Bool("cancelled", outcome == OutcomeCancelled),
		)
	}

	return nil
}

// Text offers a plain text message to the registry. It is consumed only when
// the user's session has a pending free-text request; the boolean reports
// whether the message was consumed, so transports can otherwise treat it as
// ordinary chat.
func (r *Registry) Text(ctx context.Context, userID, text string) (bool, error) {
	r.mu.Lock()
	if _, ok := r.waits[userID]; !ok {
		r.mu.Unlock()
		return false, nil
	}
	delete(r.waits, userID)
	r.mu.Unlock()

	err := r.Route(ctx, userID, CustomTextReceived{Text: text})
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
		return false, nil
	}
	return true, err
}

// Cancel removes the user's session, reporting whether one existed.
func (r *Registry) Cancel(userID string) bool {
	r.mu.Lock()
	e, ok := r.entries[userID]
	if ok {
		r.evictLocked(userID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	r.logger.Info("session cancelled", zap.String("user_id", userID))
	return true
}

// Active reports whether the user currently has a live session.
func (r *Registry) Active(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[userID]
	return ok && !r.expired(e.session)
}

// SweepExpired evicts every expired session and returns how many were
// removed. Intended for an optional periodic sweep; lazy eviction in Route
// keeps correctness without it.
func (r *Registry) SweepExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for userID, e := range r.entries {
		if r.expired(e.session) {
			r.evictLocked(userID)
			removed++
		}
	}

	if removed > 0 {
		r.logger.Info("swept expired sessions", zap.Int("count", removed))
	}
	return removed
}

func (r *Registry) expired(s *Session) bool {
	return r.now().Sub(s.CreatedAt()) > r.ttl
}

// evictLocked removes the registry entry and any pending free-text wait.
// Callers hold r.mu.
func (r *Registry) evictLocked(userID string) {
	delete(r.entries, userID)
	delete(r.waits, userID)
}
