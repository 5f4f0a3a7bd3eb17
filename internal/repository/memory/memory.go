// Package memory keeps the fleet, customers and transaction log in process
// memory. Slices preserve insertion order and lookups are linear scans.
package memory

import (
	"vehicle-rental-agency/internal/repository"
)

type Store struct {
	repository.VehicleRepository
	repository.CustomerRepository
	repository.TransactionRepository
}

func NewStore() *Store {
	return &Store{
		VehicleRepository:     NewVehicleRepository(),
		CustomerRepository:    NewCustomerRepository(),
		TransactionRepository: NewTransactionRepository(),
	}
}
