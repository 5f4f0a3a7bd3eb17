package service

import (
	"context"
	"fmt"

	"vehicle-rental-agency/internal/config"
	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/logger"

	"github.com/shopspring/decimal"
)

// SeedFleet adds the configured vehicles when the fleet is empty, so a
// persistent store is seeded only once. It returns the number added.
func SeedFleet(ctx context.Context, agency RentalAgency, seeds []config.VehicleSeed) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}
	fleet, err := agency.ListFleet(ctx)
	if err != nil {
		return 0, err
	}
	if len(fleet) > 0 {
		logger.Info("Fleet already populated, skipping seed", "vehicles", len(fleet))
		return 0, nil
	}

	for i, seed := range seeds {
		vehicle, err := vehicleFromSeed(seed)
		if err != nil {
			return i, fmt.Errorf("fleet[%d]: %w", i, err)
		}
		if err := agency.AddVehicle(ctx, vehicle); err != nil {
			return i, err
		}
	}
	return len(seeds), nil
}

func vehicleFromSeed(seed config.VehicleSeed) (*domain.Vehicle, error) {
	rate, err := decimal.NewFromString(seed.BaseRate)
	if err != nil {
		return nil, fmt.Errorf("%w: base rate %q", domain.ErrInvalidArgument, seed.BaseRate)
	}
	capacity := decimal.Zero
	if seed.LoadCapacity != "" {
		if capacity, err = decimal.NewFromString(seed.LoadCapacity); err != nil {
			return nil, fmt.Errorf("%w: load capacity %q", domain.ErrInvalidArgument, seed.LoadCapacity)
		}
	}
	spec, err := domain.NewVehicleSpec(domain.VehicleCategory(seed.Category), seed.HasGPS, seed.HasHelmet, capacity)
	if err != nil {
		return nil, err
	}
	return domain.NewVehicle(seed.ID, seed.Model, rate, spec)
}
