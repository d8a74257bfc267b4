package auth

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier resolves an identifier/credential pair to a principal.
// Implementations return ErrAuthenticationFailed for any mismatch.
type CredentialVerifier interface {
	Verify(ctx context.Context, identifier, credential string) (Principal, error)
}

type account struct {
	principal    Principal
	passwordHash []byte
}

// Directory is an in-memory account store with bcrypt hashed passwords.
// Identifiers are emails, matched case-insensitively.
type Directory struct {
	mu      sync.RWMutex
	byEmail map[string]*account
	byID    map[string]*account
	cost    int
	now     func() time.Time
}

func NewDirectory(cost int) *Directory {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Directory{
		byEmail: make(map[string]*account),
		byID:    make(map[string]*account),
		cost:    cost,
		now:     time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Add stores a principal with the given plain-text password.
func (d *Directory) Add(p Principal, password string) (Principal, error) {
	if p.Email == "" {
		return Principal{}, fmt.Errorf("email is required")
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return Principal{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return Principal{}, fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	email := normalizeEmail(p.Email)
	if _, exists := d.byEmail[email]; exists {
		return Principal{}, fmt.Errorf("%w: %s", ErrDuplicateAccount, email)
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("%s-%s", p.Role, uuid.NewString())
	}
	if _, exists := d.byID[p.ID]; exists {
		return Principal{}, fmt.Errorf("%w: %s", ErrDuplicateAccount, p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = d.now()
	}
	p.Email = email

	acc := &account{principal: p, passwordHash: hash}
	d.byEmail[email] = acc
	d.byID[p.ID] = acc
	return p, nil
}

// MinPasswordLength applies to self-registered accounts.
const MinPasswordLength = 6

// Register creates an active client account.
func (d *Directory) Register(ctx context.Context, name, email, phone, password string) (Principal, error) {
	if len(password) < MinPasswordLength {
		return Principal{}, fmt.Errorf("%w: at least %d characters", ErrWeakPassword, MinPasswordLength)
	}
	return d.Add(Principal{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Phone:    phone,
		Role:     RoleClient,
		IsActive: true,
	}, password)
}

func (d *Directory) Verify(ctx context.Context, identifier, credential string) (Principal, error) {
	d.mu.RLock()
	acc, ok := d.byEmail[normalizeEmail(identifier)]
	d.mu.RUnlock()
	if !ok || !acc.principal.IsActive {
		return Principal{}, ErrAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(credential)); err != nil {
		return Principal{}, ErrAuthenticationFailed
	}
	return acc.principal, nil
}

func (d *Directory) Find(id string) (Principal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acc, ok := d.byID[id]
	if !ok {
		return Principal{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return acc.principal, nil
}

// List returns the accounts holding role, oldest first.
func (d *Directory) List(role Role) []Principal {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Principal, 0)
	for _, acc := range d.byID {
		if acc.principal.Role == role {
			out = append(out, acc.principal)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (d *Directory) SetActive(id string, active bool) (Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	acc, ok := d.byID[id]
	if !ok {
		return Principal{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	acc.principal.IsActive = active
	return acc.principal, nil
}

var _ CredentialVerifier = (*Directory)(nil)
