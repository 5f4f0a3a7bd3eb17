package repository

import (
	"context"

	"vehicle-rental-agency/internal/domain"
)

type VehicleRepository interface {
	Add(ctx context.Context, vehicle *domain.Vehicle) error
	List(ctx context.Context) ([]domain.Vehicle, error)

	// ClaimAvailable marks the first available vehicle with the given ID as
	// rented and returns it. It returns domain.ErrVehicleNotAvailable when no
	// such vehicle exists, whether or not the ID is in the fleet.
	ClaimAvailable(ctx context.Context, vehicleID string) (*domain.Vehicle, error)

	// MarkAvailable marks the first vehicle with the given ID as available,
	// whatever its state, and reports whether it already was.
	// It returns domain.ErrNotFound when the ID is not in the fleet.
	MarkAvailable(ctx context.Context, vehicleID string) (*domain.Vehicle, bool, error)

	// Release undoes a claim on the exact vehicle ClaimAvailable returned,
	// matched by Seq, so a duplicate ID never frees a different vehicle.
	// It returns domain.ErrNotFound when the vehicle is no longer stored.
	Release(ctx context.Context, vehicle *domain.Vehicle) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)

	// RecordRental applies Customer.AddRental atomically and returns the updated customer.
	RecordRental(ctx context.Context, customerID, vehicleID string) (*domain.Customer, error)
}

type TransactionRepository interface {
	Append(ctx context.Context, tx *domain.RentalTransaction) error
	// Remove drops an appended transaction whose rental could not complete.
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.RentalTransaction, error)
}
