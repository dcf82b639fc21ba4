package inventory

import (
	"context"

	"github.com/negocio/backoffice/internal/domain/inventory"
)

// TransactionScope provides transactional access to stock repositories.
// All repository operations inside Execute are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current transaction
type TransactionalRepositories interface {
	// StockRepo returns the warehouse stock repository. FindForUpdate locks
	// the row until the transaction ends.
	StockRepo() inventory.WarehouseProductRepository
}

// NoOpTransactionScope runs functions without a transaction.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	stockRepo inventory.WarehouseProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository
func NewNoOpTransactionScope(stockRepo inventory.WarehouseProductRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{stockRepo: stockRepo}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the warehouse stock repository
func (s *NoOpTransactionScope) StockRepo() inventory.WarehouseProductRepository {
	return s.stockRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
