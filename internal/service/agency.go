package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/repository"

	"github.com/google/uuid"
)

// Outcome messages, kept identical to the agency's console output.
const (
	MsgVehicleNotAvailable = "Vehicle not available for rental."
	MsgVehicleNotFound     = "Vehicle not found in fleet."
	MsgReportHeader        = "Rental Transactions Report:"
)

// ReturnOutcome describes what a return did. Unknown vehicle IDs are an
// outcome, not an error.
type ReturnOutcome struct {
	VehicleID    string          `json:"vehicle_id"`
	Returned     bool            `json:"returned"`
	WasAvailable bool            `json:"was_available"`
	Vehicle      *domain.Vehicle `json:"-"`
	Message      string          `json:"message"`
}

type rentalAgency struct {
	vehicleRepo  repository.VehicleRepository
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
	emailSvc     EmailService
	newID        func() string
}

func NewRentalAgency(
	vehicleRepo repository.VehicleRepository,
	customerRepo repository.CustomerRepository,
	txRepo repository.TransactionRepository,
	emailSvc EmailService,
) RentalAgency {
	return &rentalAgency{
		vehicleRepo:  vehicleRepo,
		customerRepo: customerRepo,
		txRepo:       txRepo,
		emailSvc:     emailSvc,
		newID:        uuid.NewString,
	}
}

func (s *rentalAgency) AddVehicle(ctx context.Context, v *domain.Vehicle) error {
	if err := s.vehicleRepo.Add(ctx, v); err != nil {
		return fmt.Errorf("failed to add vehicle %s: %w", v.ID, err)
	}
	logger.Info("Vehicle added", "vehicle", v.String(), "category", v.Category())
	return nil
}

func (s *rentalAgency) ListFleet(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx)
}

func (s *rentalAgency) RegisterCustomer(ctx context.Context, c *domain.Customer) error {
	if err := s.customerRepo.Create(ctx, c); err != nil {
		return err
	}
	logger.Info("Customer registered", "customer", c.String())
	return nil
}

func (s *rentalAgency) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *rentalAgency) ProcessRental(ctx context.Context, vehicleID, customerID string, days int) (*domain.RentalTransaction, error) {
	logger.EnterMethod("rentalAgency.ProcessRental", "vehicleID", vehicleID, "customerID", customerID, "days", days)

	if days < 1 {
		return nil, fmt.Errorf("%w: rental days must be at least 1", domain.ErrInvalidArgument)
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.ClaimAvailable(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotAvailable) {
			logger.Info(MsgVehicleNotAvailable, "vehicleID", vehicleID, "customerID", customerID)
		} else {
			logger.ExitMethodWithError("rentalAgency.ProcessRental", err, "vehicleID", vehicleID)
		}
		return nil, err
	}

	tx := domain.NewRentalTransaction(s.newID(), customer, vehicle, days)
	if err := s.txRepo.Append(ctx, tx); err != nil {
		s.releaseVehicle(ctx, vehicle)
		logger.ExitMethodWithError("rentalAgency.ProcessRental", err, "vehicleID", vehicleID)
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	updated, err := s.customerRepo.RecordRental(ctx, customerID, vehicleID)
	if err != nil {
		s.discardTransaction(ctx, tx.ID)
		s.releaseVehicle(ctx, vehicle)
		logger.ExitMethodWithError("rentalAgency.ProcessRental", err, "transactionID", tx.ID)
		return nil, fmt.Errorf("failed to update customer %s: %w", customerID, err)
	}

	logger.Info("Rental processed", "transaction", tx.String(), "loyalty_points", updated.LoyaltyPoints)

	if updated.Email != "" && s.emailSvc != nil {
		if err := s.emailSvc.SendRentalReceipt(ctx, updated.Email, updated.Name, tx); err != nil {
			logger.WarnContext(ctx, "Failed to send rental receipt", "transactionID", tx.ID, "error", err)
		}
	}

	logger.ExitMethod("rentalAgency.ProcessRental", "transactionID", tx.ID)
	return tx, nil
}

// releaseVehicle undoes a claim whose rental could not be completed.
func (s *rentalAgency) releaseVehicle(ctx context.Context, vehicle *domain.Vehicle) {
	if err := s.vehicleRepo.Release(ctx, vehicle); err != nil {
		logger.Error("Failed to release vehicle after rental failure", "vehicleID", vehicle.ID, "error", err)
	}
}

func (s *rentalAgency) discardTransaction(ctx context.Context, id string) {
	if err := s.txRepo.Remove(ctx, id); err != nil {
		logger.Error("Failed to discard transaction after rental failure", "transactionID", id, "error", err)
	}
}

func (s *rentalAgency) ReturnVehicle(ctx context.Context, vehicleID string) (*ReturnOutcome, error) {
	vehicle, wasAvailable, err := s.vehicleRepo.MarkAvailable(ctx, vehicleID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info(MsgVehicleNotFound, "vehicleID", vehicleID)
		return &ReturnOutcome{VehicleID: vehicleID, Message: MsgVehicleNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to return vehicle %s: %w", vehicleID, err)
	}

	msg := "Vehicle returned: " + vehicle.String()
	logger.Info("Vehicle returned", "vehicle", vehicle.String(), "was_available", wasAvailable)
	return &ReturnOutcome{
		VehicleID:    vehicleID,
		Returned:     true,
		WasAvailable: wasAvailable,
		Vehicle:      vehicle,
		Message:      msg,
	}, nil
}

func (s *rentalAgency) ListTransactions(ctx context.Context) ([]domain.RentalTransaction, error) {
	return s.txRepo.List(ctx)
}

func (s *rentalAgency) GenerateReport(ctx context.Context) (string, error) {
	log, err := s.txRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load transaction log: %w", err)
	}

	var b strings.Builder
	b.WriteString(MsgReportHeader)
	b.WriteString("\n")
	for i := range log {
		b.WriteString(log[i].String())
		b.WriteString("\n")
	}
	return b.String(), nil
}
