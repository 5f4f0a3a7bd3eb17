package memory

import (
	"context"
	"fmt"
	"sync"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/repository"
)

type vehicleRepository struct {
	mu      sync.RWMutex
	fleet   []*domain.Vehicle
	nextSeq int64
}

func NewVehicleRepository() repository.VehicleRepository {
	return &vehicleRepository{}
}

func (r *vehicleRepository) Add(ctx context.Context, v *domain.Vehicle) error {
	cp := *v
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	cp.Seq = r.nextSeq
	r.fleet = append(r.fleet, &cp)
	return nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vehicles := make([]domain.Vehicle, 0, len(r.fleet))
	for _, v := range r.fleet {
		vehicles = append(vehicles, *v)
	}
	return vehicles, nil
}

func (r *vehicleRepository) ClaimAvailable(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.fleet {
		if v.ID == vehicleID && v.Available {
			v.Available = false
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrVehicleNotAvailable
}

func (r *vehicleRepository) MarkAvailable(ctx context.Context, vehicleID string) (*domain.Vehicle, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.fleet {
		if v.ID == vehicleID {
			wasAvailable := v.Available
			v.Available = true
			cp := *v
			return &cp, wasAvailable, nil
		}
	}
	return nil, false, domain.ErrNotFound
}

func (r *vehicleRepository) Release(ctx context.Context, vehicle *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.fleet {
		if v.Seq == vehicle.Seq {
			v.Available = true
			return nil
		}
	}
	return fmt.Errorf("vehicle %s (seq %d): %w", vehicle.ID, vehicle.Seq, domain.ErrNotFound)
}
