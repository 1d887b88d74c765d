package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sakif/notes/internal/model"
)

func createTestSession(t *testing.T, db *DB, userID, hash string, createdAt time.Time, ttl time.Duration) {
	t.Helper()
	s := &model.Session{
		TokenHash: hash,
		UserID:    userID,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}
	if err := db.Sessions().Create(context.Background(), s); err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
}

// =========================================================================
// FIND ACTIVE TESTS
// =========================================================================

func TestSessionFindActive(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "g-1", "alice")
	now := time.Now().UTC()
	createTestSession(t, db, user.ID, "digest-1", now, 24*time.Hour)

	s, err := db.Sessions().FindActive(context.Background(), "digest-1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("FindActive() error = %v", err)
	}
	if s == nil {
		t.Fatal("FindActive() = nil, want session")
	}
	if s.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", s.UserID, user.ID)
	}
	if !s.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, now.Add(24*time.Hour))
	}
}

func TestSessionFindActive_Unknown(t *testing.T) {
	db := newTestDB(t)

	s, err := db.Sessions().FindActive(context.Background(), "nope", time.Now())
	if err != nil {
		t.Fatalf("FindActive() error = %v", err)
	}
	if s != nil {
		t.Errorf("FindActive() = %+v, want nil", s)
	}
}

func TestSessionFindActive_ExpiredIsAbsent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "g-1", "alice")
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	createTestSession(t, db, user.ID, "digest-old", created, time.Hour)

	tests := []struct {
		name   string
		now    time.Time
		active bool
	}{
		{"just before expiry", created.Add(time.Hour - time.Second), true},
		{"exactly at expiry", created.Add(time.Hour), false},
		{"after expiry", created.Add(2 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := db.Sessions().FindActive(context.Background(), "digest-old", tt.now)
			if err != nil {
				t.Fatalf("FindActive() error = %v", err)
			}
			if (s != nil) != tt.active {
				t.Errorf("FindActive() active = %v, want %v", s != nil, tt.active)
			}
		})
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestSessionDelete_Idempotent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "g-1", "alice")
	now := time.Now().UTC()
	createTestSession(t, db, user.ID, "digest-1", now, time.Hour)

	for i := 0; i < 2; i++ {
		if err := db.Sessions().Delete(context.Background(), "digest-1"); err != nil {
			t.Fatalf("Delete() call %d error = %v", i+1, err)
		}
	}

	s, _ := db.Sessions().FindActive(context.Background(), "digest-1", now)
	if s != nil {
		t.Error("session still active after Delete()")
	}
}

func TestSessionDelete_LeavesOtherSessions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "g-1", "alice")
	now := time.Now().UTC()
	createTestSession(t, db, user.ID, "laptop", now, time.Hour)
	createTestSession(t, db, user.ID, "phone", now, time.Hour)

	if err := db.Sessions().Delete(context.Background(), "laptop"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	s, err := db.Sessions().FindActive(context.Background(), "phone", now)
	if err != nil || s == nil {
		t.Errorf("FindActive(phone) = %v, %v; want the other session intact", s, err)
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "g-1", "alice")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	createTestSession(t, db, user.ID, "stale-1", base, time.Hour)
	createTestSession(t, db, user.ID, "stale-2", base, 2*time.Hour)
	createTestSession(t, db, user.ID, "fresh", base, 48*time.Hour)

	n, err := db.Sessions().DeleteExpired(context.Background(), base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteExpired() = %d, want 2", n)
	}

	s, _ := db.Sessions().FindActive(context.Background(), "fresh", base.Add(3*time.Hour))
	if s == nil {
		t.Error("fresh session was removed by DeleteExpired()")
	}
}
