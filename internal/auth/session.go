package auth

import (
	"context"
	"sync"
)

// Session holds at most one authenticated principal.
type Session struct {
	mu        sync.RWMutex
	verifier  CredentialVerifier
	principal *Principal
}

func NewSession(verifier CredentialVerifier) *Session {
	return &Session{verifier: verifier}
}

// Login replaces any current principal. A failed attempt leaves the session
// unauthenticated.
func (s *Session) Login(ctx context.Context, identifier, credential string) (Principal, error) {
	p, err := s.verifier.Verify(ctx, identifier, credential)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.principal = nil
		return Principal{}, err
	}
	s.principal = &p
	return p, nil
}

// Resume installs a principal authenticated earlier, such as one carried by
// a verified token.
func (s *Session) Resume(p Principal) {
	s.mu.Lock()
	s.principal = &p
	s.mu.Unlock()
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.principal = nil
	s.mu.Unlock()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal != nil
}

func (s *Session) CurrentRole() (Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return "", false
	}
	return s.principal.Role, true
}

func (s *Session) Principal() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

// Require returns the current principal if it holds perm.
func (s *Session) Require(perm Permission) (Principal, error) {
	p, ok := s.Principal()
	if !ok {
		return Principal{}, ErrNotAuthenticated
	}
	if err := p.Require(perm); err != nil {
		return Principal{}, err
	}
	return p, nil
}
