package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/chris-arsenault/illuminator/internal/domain/model/lock"
	"github.com/chris-arsenault/illuminator/internal/domain/repository"
	"github.com/chris-arsenault/illuminator/internal/infrastructure/transaction"
)

// RunLockRepositoryImpl implements repository.RunLockRepository with SQLite
type RunLockRepositoryImpl struct {
	db *sql.DB
}

// NewRunLockRepository creates a new SQLite-based run lock repository
func NewRunLockRepository(db *sql.DB) repository.RunLockRepository {
	return &RunLockRepositoryImpl{db: db}
}

func (r *RunLockRepositoryImpl) getDB(ctx context.Context) dbExecutor {
	if tx, ok := transaction.GetTxFromContext(ctx); ok {
		return tx
	}
	return r.db
}

// Acquire attempts to acquire a run lock. Returns (nil, nil) when the
// lock is already held by another live holder.
func (r *RunLockRepositoryImpl) Acquire(ctx context.Context, lockID lock.LockID, ttl time.Duration) (*lock.RunLock, error) {
	db := r.getDB(ctx)

	// Clear an expired lease first so a crashed holder does not block forever
	_, err := db.ExecContext(ctx,
		"DELETE FROM run_locks WHERE lock_id = ? AND expires_at <= ?",
		lockID.String(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("cleanup expired lock failed: %w", err)
	}

	runLock, err := lock.NewRunLock(lockID, ttl)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO run_locks (lock_id, pid, hostname, acquired_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		runLock.LockID().String(),
		runLock.PID(),
		runLock.Hostname(),
		runLock.AcquiredAt().UTC().Format(time.RFC3339Nano),
		runLock.ExpiresAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			// Lock held elsewhere
			return nil, nil
		}
		return nil, fmt.Errorf("acquire lock failed: %w", err)
	}

	return runLock, nil
}

// Release removes a run lock. Releasing an already absent lock is a
// no-op: terminal writes and deferred releases may race.
func (r *RunLockRepositoryImpl) Release(ctx context.Context, lockID lock.LockID) error {
	db := r.getDB(ctx)
	_, err := db.ExecContext(ctx, "DELETE FROM run_locks WHERE lock_id = ?", lockID.String())
	if err != nil {
		return fmt.Errorf("release lock failed: %w", err)
	}
	return nil
}

// Find retrieves a run lock by its ID
func (r *RunLockRepositoryImpl) Find(ctx context.Context, lockID lock.LockID) (*lock.RunLock, error) {
	query := `SELECT lock_id, pid, hostname, acquired_at, expires_at FROM run_locks WHERE lock_id = ?`

	db := r.getDB(ctx)
	row := db.QueryRowContext(ctx, query, lockID.String())
	runLock, err := scanRunLock(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", lock.ErrLockNotFound, lockID)
	}
	return runLock, err
}

// Extend extends the expiry of a held run lock
func (r *RunLockRepositoryImpl) Extend(ctx context.Context, lockID lock.LockID, ttl time.Duration) error {
	db := r.getDB(ctx)
	result, err := db.ExecContext(ctx,
		"UPDATE run_locks SET expires_at = ? WHERE lock_id = ?",
		time.Now().UTC().Add(ttl).Format(time.RFC3339Nano), lockID.String())
	if err != nil {
		return fmt.Errorf("extend lock failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected failed: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", lock.ErrLockNotFound, lockID)
	}
	return nil
}

// CleanupExpired removes all expired run locks and returns the count removed
func (r *RunLockRepositoryImpl) CleanupExpired(ctx context.Context) (int, error) {
	db := r.getDB(ctx)
	result, err := db.ExecContext(ctx,
		"DELETE FROM run_locks WHERE expires_at <= ?",
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("cleanup expired locks failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected failed: %w", err)
	}
	return int(rows), nil
}

// List retrieves all run locks
func (r *RunLockRepositoryImpl) List(ctx context.Context) ([]*lock.RunLock, error) {
	query := `SELECT lock_id, pid, hostname, acquired_at, expires_at FROM run_locks ORDER BY acquired_at`

	db := r.getDB(ctx)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locks failed: %w", err)
	}
	defer rows.Close()

	var locks []*lock.RunLock
	for rows.Next() {
		l, err := scanRunLock(rows.Scan)
		if err != nil {
			return nil, err
		}
		locks = append(locks, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locks failed: %w", err)
	}
	return locks, nil
}

func scanRunLock(scan func(dest ...interface{}) error) (*lock.RunLock, error) {
	var (
		lockIDStr  string
		pid        int
		hostname   string
		acquiredAt string
		expiresAt  string
	)

	err := scan(&lockIDStr, &pid, &hostname, &acquiredAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan lock failed: %w", err)
	}

	lockID, err := lock.NewLockID(lockIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid lock ID: %w", err)
	}

	acquiredAtTime, err := parseTime(acquiredAt)
	if err != nil {
		return nil, fmt.Errorf("parse acquired_at failed: %w", err)
	}
	expiresAtTime, err := parseTime(expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse expires_at failed: %w", err)
	}

	return lock.ReconstructRunLock(lockID, pid, hostname, acquiredAtTime, expiresAtTime), nil
}

// isUniqueConstraintError checks if the error is a SQLite unique
// constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
