package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/repository"

	"github.com/lib/pq"
)

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (id, name, email, loyalty_points, created_on) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.LoyaltyPoints, c.CreatedOn)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: customer %s already registered", domain.ErrInvalidArgument, c.ID)
	}
	return err
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, name, email, loyalty_points, created_on FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.LoyaltyPoints, &c.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if c.RentalHistory, err = r.history(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, loyalty_points, created_on FROM customers ORDER BY created_on, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.LoyaltyPoints, &c.CreatedOn); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	histories, err := r.allHistories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		customers[i].RentalHistory = histories[customers[i].ID]
		if customers[i].RentalHistory == nil {
			customers[i].RentalHistory = []string{}
		}
	}
	return customers, nil
}

func (r *customerRepository) RecordRental(ctx context.Context, customerID, vehicleID string) (*domain.Customer, error) {
	logger.DatabaseCall("RecordRental", "UPDATE customers / INSERT customer_rentals", "customerID", customerID, "vehicleID", vehicleID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := &domain.Customer{}
	query := `UPDATE customers SET loyalty_points = loyalty_points + $2 WHERE id = $1
	          RETURNING id, name, email, loyalty_points, created_on`
	err = tx.QueryRowContext(ctx, query, customerID, domain.LoyaltyPointsPerRental).Scan(&c.ID, &c.Name, &c.Email, &c.LoyaltyPoints, &c.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("RecordRental", 0, nil, "customerID", customerID, "found", false)
		return nil, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
	}
	if err != nil {
		logger.DatabaseResult("RecordRental", 0, err)
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO customer_rentals (customer_id, vehicle_id) VALUES ($1, $2)`, customerID, vehicleID); err != nil {
		logger.DatabaseResult("RecordRental", 0, err)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		logger.DatabaseResult("RecordRental", 0, err)
		return nil, err
	}
	logger.DatabaseResult("RecordRental", 1, nil, "customerID", customerID)

	if c.RentalHistory, err = r.history(ctx, customerID); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) history(ctx context.Context, customerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT vehicle_id FROM customer_rentals WHERE customer_id = $1 ORDER BY seq`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []string{}
	for rows.Next() {
		var vehicleID string
		if err := rows.Scan(&vehicleID); err != nil {
			return nil, err
		}
		history = append(history, vehicleID)
	}
	return history, rows.Err()
}

func (r *customerRepository) allHistories(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT customer_id, vehicle_id FROM customer_rentals ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	histories := make(map[string][]string)
	for rows.Next() {
		var customerID, vehicleID string
		if err := rows.Scan(&customerID, &vehicleID); err != nil {
			return nil, err
		}
		histories[customerID] = append(histories[customerID], vehicleID)
	}
	return histories, rows.Err()
}
