package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Append(ctx context.Context, t *domain.RentalTransaction) error {
	query := `INSERT INTO rental_transactions (id, customer_id, vehicle_id, customer_name, vehicle_model, category, days, total_cost, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.CustomerID, t.VehicleID, t.CustomerName, t.VehicleModel, string(t.Category), t.Days, t.TotalCost, t.CreatedOn)
	return err
}

func (r *transactionRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *transactionRepository) List(ctx context.Context) ([]domain.RentalTransaction, error) {
	query := `SELECT id, customer_id, vehicle_id, customer_name, vehicle_model, category, days, total_cost, created_on
	          FROM rental_transactions ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var log []domain.RentalTransaction
	for rows.Next() {
		var t domain.RentalTransaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.VehicleID, &t.CustomerName, &t.VehicleModel, &t.Category, &t.Days, &t.TotalCost, &t.CreatedOn); err != nil {
			return nil, err
		}
		log = append(log, t)
	}
	return log, rows.Err()
}
