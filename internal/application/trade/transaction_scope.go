package trade

import (
	"context"

	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a
// purchase or sale touches. The document, its items, its number and the
// stock movement are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current transaction
type TransactionalRepositories interface {
	PurchaseRepo() trade.PurchaseRepository
	SaleRepo() trade.SaleRepository
	SequenceRepo() trade.SequenceRepository
	// StockRepo locks rows read with FindForUpdate until the transaction ends
	StockRepo() inventory.WarehouseProductRepository
}

// NoOpTransactionScope runs functions without a transaction.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	purchases trade.PurchaseRepository
	sales     trade.SaleRepository
	sequences trade.SequenceRepository
	stock     inventory.WarehouseProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	purchases trade.PurchaseRepository,
	sales trade.SaleRepository,
	sequences trade.SequenceRepository,
	stock inventory.WarehouseProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		purchases: purchases,
		sales:     sales,
		sequences: sequences,
		stock:     stock,
	}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) PurchaseRepo() trade.PurchaseRepository         { return s.purchases }
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository                 { return s.sales }
func (s *NoOpTransactionScope) SequenceRepo() trade.SequenceRepository         { return s.sequences }
func (s *NoOpTransactionScope) StockRepo() inventory.WarehouseProductRepository { return s.stock }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
