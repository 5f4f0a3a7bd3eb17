package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/repository"

	"github.com/shopspring/decimal"
)

const vehicleColumns = `vehicle_id, model, base_rate, category, has_gps, has_helmet, load_capacity, available, created_on`

// vehicleSelectColumns is what scanVehicle reads.
const vehicleSelectColumns = `seq, ` + vehicleColumns

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner, extra ...any) (*domain.Vehicle, error) {
	var (
		v            domain.Vehicle
		category     string
		hasGPS       bool
		hasHelmet    bool
		loadCapacity decimal.NullDecimal
	)
	dest := append([]any{&v.Seq, &v.ID, &v.Model, &v.BaseRate, &category, &hasGPS, &hasHelmet, &loadCapacity, &v.Available, &v.CreatedOn}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	switch domain.VehicleCategory(category) {
	case domain.VehicleCategoryStandard:
		v.Spec = domain.StandardSpec{HasGPS: hasGPS}
	case domain.VehicleCategoryTwoWheel:
		v.Spec = domain.TwoWheelSpec{HasHelmet: hasHelmet}
	case domain.VehicleCategoryCargo:
		v.Spec = domain.CargoSpec{LoadCapacity: loadCapacity.Decimal}
	default:
		return nil, fmt.Errorf("unknown vehicle category %q for vehicle %s", category, v.ID)
	}
	return &v, nil
}

// specColumns flattens the tagged spec into its table columns.
func specColumns(spec domain.VehicleSpec) (hasGPS, hasHelmet bool, loadCapacity decimal.NullDecimal) {
	switch s := spec.(type) {
	case domain.StandardSpec:
		hasGPS = s.HasGPS
	case domain.TwoWheelSpec:
		hasHelmet = s.HasHelmet
	case domain.CargoSpec:
		loadCapacity = decimal.NewNullDecimal(s.LoadCapacity)
	}
	return
}

func (r *vehicleRepository) Add(ctx context.Context, v *domain.Vehicle) error {
	logger.EnterMethod("vehicleRepository.Add", "vehicleID", v.ID)

	hasGPS, hasHelmet, loadCapacity := specColumns(v.Spec)
	query := `INSERT INTO vehicles (` + vehicleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, v.ID, v.Model, v.BaseRate, string(v.Category()), hasGPS, hasHelmet, loadCapacity, v.Available, v.CreatedOn)
	if err != nil {
		logger.ExitMethodWithError("vehicleRepository.Add", err, "vehicleID", v.ID)
		return err
	}

	logger.ExitMethod("vehicleRepository.Add", "vehicleID", v.ID)
	return nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleSelectColumns + ` FROM vehicles ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) ClaimAvailable(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	logger.EnterMethod("vehicleRepository.ClaimAvailable", "vehicleID", vehicleID)

	query := `UPDATE vehicles SET available = FALSE
	          WHERE available AND seq = (
	              SELECT seq FROM vehicles WHERE vehicle_id = $1 AND available ORDER BY seq LIMIT 1 FOR UPDATE
	          )
	          RETURNING ` + vehicleSelectColumns
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, vehicleID))
	if errors.Is(err, sql.ErrNoRows) {
		logger.ExitMethod("vehicleRepository.ClaimAvailable", "vehicleID", vehicleID, "claimed", false)
		return nil, domain.ErrVehicleNotAvailable
	}
	if err != nil {
		logger.ExitMethodWithError("vehicleRepository.ClaimAvailable", err, "vehicleID", vehicleID)
		return nil, err
	}

	logger.ExitMethod("vehicleRepository.ClaimAvailable", "vehicleID", vehicleID, "claimed", true)
	return v, nil
}

func (r *vehicleRepository) MarkAvailable(ctx context.Context, vehicleID string) (*domain.Vehicle, bool, error) {
	query := `UPDATE vehicles v SET available = TRUE
	          FROM (SELECT seq, available AS was_available FROM vehicles WHERE vehicle_id = $1 ORDER BY seq LIMIT 1 FOR UPDATE) prev
	          WHERE v.seq = prev.seq
	          RETURNING v.seq, v.vehicle_id, v.model, v.base_rate, v.category, v.has_gps, v.has_helmet, v.load_capacity, v.available, v.created_on, prev.was_available`
	var wasAvailable bool
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, vehicleID), &wasAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, domain.ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}
	return v, wasAvailable, nil
}

func (r *vehicleRepository) Release(ctx context.Context, vehicle *domain.Vehicle) error {
	logger.DatabaseCall("Release", "UPDATE vehicles", "vehicleID", vehicle.ID, "seq", vehicle.Seq)

	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET available = TRUE WHERE seq = $1`, vehicle.Seq)
	if err != nil {
		logger.DatabaseResult("Release", 0, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("Release", n, nil, "seq", vehicle.Seq)
	if n == 0 {
		return fmt.Errorf("vehicle %s (seq %d): %w", vehicle.ID, vehicle.Seq, domain.ErrNotFound)
	}
	return nil
}
