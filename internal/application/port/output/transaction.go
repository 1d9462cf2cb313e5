package output

import "context"

// TransactionManager coordinates multi-repository writes.
// Repositories honor a transaction carried in the context.
type TransactionManager interface {
	// InTransaction executes fn within a transaction; commit on nil,
	// rollback on error
	InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
