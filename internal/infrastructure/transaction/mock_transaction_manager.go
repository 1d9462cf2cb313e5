package transaction

import "context"

// MockTransactionManager executes functions without a real transaction.
// Used by tests and by in-memory repository wiring.
type MockTransactionManager struct{}

// NewMockTransactionManager creates a new mock transaction manager
func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

// InTransaction executes the function directly with the given context
func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
