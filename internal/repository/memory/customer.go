package memory

import (
	"context"
	"fmt"
	"sync"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/repository"
)

type customerRepository struct {
	mu        sync.RWMutex
	customers []*domain.Customer
}

func NewCustomerRepository() repository.CustomerRepository {
	return &customerRepository{}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(c.ID) != nil {
		return fmt.Errorf("%w: customer %s already registered", domain.ErrInvalidArgument, c.ID)
	}
	r.customers = append(r.customers, c.Clone())
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.find(id)
	if c == nil {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return c.Clone(), nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customers := make([]domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		customers = append(customers, *c.Clone())
	}
	return customers, nil
}

func (r *customerRepository) RecordRental(ctx context.Context, customerID, vehicleID string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(customerID)
	if c == nil {
		return nil, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
	}
	c.AddRental(vehicleID)
	return c.Clone(), nil
}

func (r *customerRepository) find(id string) *domain.Customer {
	for _, c := range r.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}
