package lock

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Common lock errors
var (
	ErrLockNotFound = errors.New("lock not found")
)

// LockID identifies the narrative being locked
type LockID struct {
	value string
}

// NewLockID creates a new lock ID from a narrative ID
func NewLockID(value string) (LockID, error) {
	if value == "" {
		return LockID{}, fmt.Errorf("lock ID cannot be empty")
	}
	return LockID{value: value}, nil
}

// String returns the string representation of the lock ID
func (id LockID) String() string {
	return id.value
}

// Equals checks if two lock IDs are equal
func (id LockID) Equals(other LockID) bool {
	return id.value == other.value
}

// RunLock is a leased per-narrative execution lock. It enforces the
// single-writer-per-record assumption: only one process drives a given
// narrative at a time.
type RunLock struct {
	lockID     LockID
	pid        int
	hostname   string
	acquiredAt time.Time
	expiresAt  time.Time
}

// NewRunLock creates a new run lock held by the current process
func NewRunLock(lockID LockID, ttl time.Duration) (*RunLock, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("get hostname: %w", err)
	}

	now := time.Now().UTC()
	return &RunLock{
		lockID:     lockID,
		pid:        os.Getpid(),
		hostname:   hostname,
		acquiredAt: now,
		expiresAt:  now.Add(ttl),
	}, nil
}

// ReconstructRunLock reconstructs a RunLock from persisted data
func ReconstructRunLock(lockID LockID, pid int, hostname string, acquiredAt, expiresAt time.Time) *RunLock {
	return &RunLock{
		lockID:     lockID,
		pid:        pid,
		hostname:   hostname,
		acquiredAt: acquiredAt,
		expiresAt:  expiresAt,
	}
}

// LockID returns the lock identifier
func (l *RunLock) LockID() LockID {
	return l.lockID
}

// PID returns the process ID holding the lock
func (l *RunLock) PID() int {
	return l.pid
}

// Hostname returns the host holding the lock
func (l *RunLock) Hostname() string {
	return l.hostname
}

// AcquiredAt returns when the lock was acquired
func (l *RunLock) AcquiredAt() time.Time {
	return l.acquiredAt
}

// ExpiresAt returns when the lease expires
func (l *RunLock) ExpiresAt() time.Time {
	return l.expiresAt
}

// IsExpired checks if the lease has expired
func (l *RunLock) IsExpired() bool {
	return time.Now().UTC().After(l.expiresAt)
}

// Extend extends the lease expiration time
func (l *RunLock) Extend(duration time.Duration) {
	l.expiresAt = l.expiresAt.Add(duration)
}
