package repository

import (
	"context"
	"time"

	"github.com/chris-arsenault/illuminator/internal/domain/model/lock"
)

// RunLockRepository manages per-narrative run lock persistence
type RunLockRepository interface {
	// Acquire attempts to acquire a run lock
	// Returns the lock if successful, nil if lock is held by another process
	Acquire(ctx context.Context, lockID lock.LockID, ttl time.Duration) (*lock.RunLock, error)

	// Release releases a run lock
	Release(ctx context.Context, lockID lock.LockID) error

	// Find retrieves a run lock by ID
	Find(ctx context.Context, lockID lock.LockID) (*lock.RunLock, error)

	// Extend extends the expiration time of a lock
	Extend(ctx context.Context, lockID lock.LockID, duration time.Duration) error

	// CleanupExpired removes expired locks
	CleanupExpired(ctx context.Context) (int, error)

	// List lists all active run locks
	List(ctx context.Context) ([]*lock.RunLock, error)
}
