package lock

import (
	"testing"
	"time"
)

func TestNewLockID(t *testing.T) {
	id, err := NewLockID("narrative-123")
	if err != nil {
		t.Fatalf("NewLockID() unexpected error: %v", err)
	}
	if id.String() != "narrative-123" {
		t.Errorf("String() = %v, want narrative-123", id.String())
	}

	other, _ := NewLockID("narrative-123")
	if !id.Equals(other) {
		t.Error("Equals() should be true for identical IDs")
	}
}

func TestNewLockID_Empty(t *testing.T) {
	if _, err := NewLockID(""); err == nil {
		t.Error("NewLockID(\"\") should return an error")
	}
}

func TestNewRunLock(t *testing.T) {
	lockID, _ := NewLockID("narrative-123")
	ttl := 5 * time.Minute

	lock, err := NewRunLock(lockID, ttl)
	if err != nil {
		t.Fatalf("NewRunLock() unexpected error: %v", err)
	}

	if !lock.LockID().Equals(lockID) {
		t.Errorf("LockID() = %v, want %v", lock.LockID(), lockID)
	}

	if lock.PID() <= 0 {
		t.Error("PID() should be positive")
	}

	if lock.Hostname() == "" {
		t.Error("Hostname() should not be empty")
	}

	expectedExpiry := lock.AcquiredAt().Add(ttl)
	if !lock.ExpiresAt().Equal(expectedExpiry) {
		t.Errorf("ExpiresAt() = %v, want %v", lock.ExpiresAt(), expectedExpiry)
	}

	if lock.IsExpired() {
		t.Error("IsExpired() should be false for a fresh lock")
	}
}

func TestRunLock_IsExpired(t *testing.T) {
	lockID, _ := NewLockID("narrative-123")

	expired := ReconstructRunLock(lockID, 1234, "host",
		time.Now().Add(-10*time.Minute), time.Now().Add(-5*time.Minute))
	if !expired.IsExpired() {
		t.Error("IsExpired() should be true past the lease expiry")
	}
}

func TestRunLock_Extend(t *testing.T) {
	lockID, _ := NewLockID("narrative-123")
	lock, err := NewRunLock(lockID, time.Minute)
	if err != nil {
		t.Fatalf("NewRunLock() unexpected error: %v", err)
	}

	before := lock.ExpiresAt()
	lock.Extend(10 * time.Minute)
	if !lock.ExpiresAt().After(before) {
		t.Error("Extend() should push the expiry out")
	}
}
