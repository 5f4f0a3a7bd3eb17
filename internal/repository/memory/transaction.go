package memory

import (
	"context"
	"fmt"
	"sync"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/repository"
)

type transactionRepository struct {
	mu  sync.RWMutex
	log []domain.RentalTransaction
}

func NewTransactionRepository() repository.TransactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Append(ctx context.Context, tx *domain.RentalTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, *tx)
	return nil
}

func (r *transactionRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.log {
		if r.log[i].ID == id {
			r.log = append(r.log[:i], r.log[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
}

func (r *transactionRepository) List(ctx context.Context) ([]domain.RentalTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.RentalTransaction{}, r.log...), nil
}
