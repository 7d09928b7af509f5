package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrNoPortal        = errors.New("role has no portal")
)

// Session is the server-side identity of a logged-in user. The portal is
// fixed at login and decides which views the session can reach.
type Session struct {
	ID        string          `json:"id"`
	UserID    uint            `json:"user_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	Portal    models.Portal   `json:"portal"`
	Flash     *models.Flash   `json:"flash,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// PopFlash returns the pending flash and clears it. The caller saves the session.
func (s *Session) PopFlash() *models.Flash {
	f := s.Flash
	s.Flash = nil
	return f
}

// Store persists sessions by ID.
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Manager creates and loads sessions on top of a Store.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, ttl: ttl, now: now}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for user and selects the user's portal.
func (m *Manager) Create(ctx context.Context, user *models.User) (*Session, error) {
	portal, ok := models.PortalFor(user.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoPortal, user.Role)
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Portal:    portal,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// Get loads an unexpired session. Expired sessions are removed.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Save writes back a modified session keeping its original expiry.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	remaining := s.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return ErrSessionExpired
	}
	if err := m.store.Save(ctx, s, remaining); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
