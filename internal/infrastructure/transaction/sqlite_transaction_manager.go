package transaction

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteTransactionManager manages SQLite transactions
type SQLiteTransactionManager struct {
	db *sql.DB
}

// NewSQLiteTransactionManager creates a new SQLite transaction manager
func NewSQLiteTransactionManager(db *sql.DB) *SQLiteTransactionManager {
	return &SQLiteTransactionManager{db: db}
}

// InTransaction executes a function within a transaction
func (m *SQLiteTransactionManager) InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

// txKey is used as a key for storing transaction in context
type txKey struct{}

// GetTxFromContext retrieves a transaction from context if one exists
func GetTxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}
