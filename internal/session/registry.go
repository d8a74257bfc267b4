package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"delivery-system/internal/auth"
	"delivery-system/internal/cart"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartStore persists cart snapshots between process restarts.
type CartStore interface {
	Save(ctx context.Context, sessionID string, lines []cart.SnapshotLine) error
	// Load returns nil lines when nothing is stored.
	Load(ctx context.Context, sessionID string) ([]cart.SnapshotLine, error)
	Delete(ctx context.Context, sessionID string) error
}

type Registry struct {
	verifier auth.CredentialVerifier
	store    CartStore
	lookup   cart.ProductLookup
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	// closed holds logged-out session IDs so their tokens cannot resume them.
	closed map[string]struct{}
}

type Option func(*Registry)

// WithCartStore persists carts; lookup resolves snapshot lines against the catalog.
func WithCartStore(store CartStore, lookup cart.ProductLookup) Option {
	return func(r *Registry) {
		r.store = store
		r.lookup = lookup
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(verifier auth.CredentialVerifier, opts ...Option) *Registry {
	r := &Registry{
		verifier: verifier,
		logger:   zap.NewNop(),
		now:      time.Now,
		sessions: make(map[string]*Session),
		closed:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) newSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:        id,
		CreatedAt: r.now(),
		auth:      auth.NewSession(r.verifier),
		cart:      cart.New(),
	}
}

// Login verifies credentials and opens a fresh session.
func (r *Registry) Login(ctx context.Context, identifier, credential string) (*Session, error) {
	s := r.newSession("")
	p, err := s.auth.Login(ctx, identifier, credential)
	if err != nil {
		r.logger.Info("login failed", zap.String("identifier", identifier))
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Info("session opened",
		zap.String("session_id", s.ID),
		zap.String("principal_id", p.ID),
		zap.String("role", p.Role.String()),
	)
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Resume returns the live session for id or rebuilds it for p, rehydrating the
// stored cart when a store is configured. A live session owned by someone
// else is an error.
func (r *Registry) Resume(ctx context.Context, id string, p auth.Principal) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, gone := r.closed[id]; gone {
		return nil, fmt.Errorf("%w: %s was closed", ErrSessionNotFound, id)
	}
	if s, ok := r.sessions[id]; ok {
		cur, authed := s.auth.Principal()
		if !authed || cur.ID != p.ID {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		s.auth.Resume(p)
		return s, nil
	}

	s := r.newSession(id)
	s.auth.Resume(p)
	if r.store != nil && p.Can(auth.PermManageCart) {
		r.rehydrate(ctx, s)
	}
	r.sessions[id] = s
	r.logger.Info("session resumed", zap.String("session_id", id), zap.String("principal_id", p.ID))
	return s, nil
}

func (r *Registry) rehydrate(ctx context.Context, s *Session) {
	lines, err := r.store.Load(ctx, s.ID)
	if err != nil {
		r.logger.Warn("load cart snapshot", zap.String("session_id", s.ID), zap.Error(err))
		return
	}
	if len(lines) == 0 {
		return
	}
	restored, skipped := cart.Restore(lines, r.lookup)
	s.cart = restored
	if skipped > 0 {
		r.logger.Info("dropped stale cart lines", zap.String("session_id", s.ID), zap.Int("skipped", skipped))
	}
}

// Persist saves the session cart when a store is configured. Failures are
// logged only.
func (r *Registry) Persist(ctx context.Context, s *Session) {
	if r.store == nil {
		return
	}
	var err error
	if s.cart.IsEmpty() {
		err = r.store.Delete(ctx, s.ID)
	} else {
		err = r.store.Save(ctx, s.ID, s.cart.Snapshot())
	}
	if err != nil {
		r.logger.Warn("persist cart", zap.String("session_id", s.ID), zap.Error(err))
	}
}

// Logout ends the session, clearing its cart.
func (r *Registry) Logout(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	if ok {
		r.closed[id] = struct{}{}
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.Logout()
	r.Persist(ctx, s)
	r.logger.Info("session closed", zap.String("session_id", id))
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
