package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(ttl time.Duration) (*Manager, *MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(0)
	return NewManager(store, ttl, clock.Now), store, clock
}

func TestManager_CreateSelectsPortal(t *testing.T) {
	tests := []struct {
		role models.UserRole
		want models.Portal
	}{
		{role: models.RoleStudent, want: models.PortalStudent},
		{role: models.RoleFaculty, want: models.PortalFaculty},
		{role: models.RoleAdmin, want: models.PortalFaculty},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			m, _, clock := newTestManager(time.Hour)

			s, err := m.Create(context.Background(), &models.User{ID: 3, Name: "Test", Role: tt.role})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if s.Portal != tt.want {
				t.Errorf("Portal = %q, want %q", s.Portal, tt.want)
			}
			if s.ID == "" {
				t.Error("session ID should be set")
			}
			if !s.ExpiresAt.Equal(clock.t.Add(time.Hour)) {
				t.Errorf("ExpiresAt = %v", s.ExpiresAt)
			}
		})
	}
}

func TestManager_CreateRejectsUnknownRole(t *testing.T) {
	m, store, _ := newTestManager(time.Hour)

	_, err := m.Create(context.Background(), &models.User{ID: 3, Role: "proctor"})
	if !errors.Is(err, ErrNoPortal) {
		t.Fatalf("Create() error = %v, want ErrNoPortal", err)
	}
	if store.Len() != 0 {
		t.Error("no session should be stored for an unknown role")
	}
}

func TestManager_GetExpired(t *testing.T) {
	m, _, clock := newTestManager(30 * time.Minute)
	ctx := context.Background()

	s, err := m.Create(ctx, &models.User{ID: 1, Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := m.Get(ctx, s.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	clock.Advance(31 * time.Minute)

	if _, err := m.Get(ctx, s.ID); err == nil {
		t.Fatal("Get() should fail for an expired session")
	}
}

func TestManager_SaveKeepsExpiry(t *testing.T) {
	m, _, clock := newTestManager(time.Hour)
	ctx := context.Background()

	s, err := m.Create(ctx, &models.User{ID: 1, Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	originalExpiry := s.ExpiresAt

	clock.Advance(20 * time.Minute)
	s.Flash = &models.Flash{Kind: models.FlashInfo, Message: "Saved for later"}
	if err := m.Save(ctx, s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := m.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.ExpiresAt.Equal(originalExpiry) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, originalExpiry)
	}
	if f := got.PopFlash(); f == nil || f.Message != "Saved for later" {
		t.Errorf("PopFlash() = %v", f)
	}
	if got.Flash != nil {
		t.Error("flash should be cleared after pop")
	}
}

func TestManager_Destroy(t *testing.T) {
	m, _, _ := newTestManager(time.Hour)
	ctx := context.Background()

	s, err := m.Create(ctx, &models.User{ID: 1, Role: models.RoleFaculty})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := m.Destroy(ctx, s.ID); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if _, err := m.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := m.Get(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(\"\") error = %v, want ErrSessionNotFound", err)
	}
}
