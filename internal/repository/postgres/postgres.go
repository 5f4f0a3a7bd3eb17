package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/repository"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
	repository.VehicleRepository
	repository.CustomerRepository
	repository.TransactionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		VehicleRepository:     NewVehicleRepository(db),
		CustomerRepository:    NewCustomerRepository(db),
		TransactionRepository: NewTransactionRepository(db),
	}
}

// EnsureSchema creates the agency tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	logger.DatabaseCall("EnsureSchema", "schema.sql")
	_, err := s.db.ExecContext(ctx, schemaSQL)
	logger.DatabaseResult("EnsureSchema", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
