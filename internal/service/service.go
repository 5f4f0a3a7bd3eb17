package service

import (
	"context"
	"time"

	"vehicle-rental-agency/internal/domain"
)

type RentalAgency interface {
	AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	ListFleet(ctx context.Context) ([]domain.Vehicle, error)
	RegisterCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ProcessRental(ctx context.Context, vehicleID, customerID string, days int) (*domain.RentalTransaction, error)
	ReturnVehicle(ctx context.Context, vehicleID string) (*ReturnOutcome, error)
	ListTransactions(ctx context.Context) ([]domain.RentalTransaction, error)
	GenerateReport(ctx context.Context) (string, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiresAt
}

type EmailService interface {
	SendRentalReceipt(ctx context.Context, email, name string, tx *domain.RentalTransaction) error
}
