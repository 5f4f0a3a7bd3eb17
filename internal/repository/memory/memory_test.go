package memory

import (
	"context"
	"sync"
	"testing"

	"vehicle-rental-agency/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVehicle(t *testing.T, id string) *domain.Vehicle {
	t.Helper()
	v, err := domain.NewVehicle(id, "Model "+id, decimal.NewFromInt(20), domain.StandardSpec{})
	require.NoError(t, err)
	return v
}

func TestVehicleRepository_ClaimAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("Claims first available match", func(t *testing.T) {
		repo := NewVehicleRepository()
		require.NoError(t, repo.Add(ctx, newVehicle(t, "V1")))
		require.NoError(t, repo.Add(ctx, newVehicle(t, "V2")))

		v, err := repo.ClaimAvailable(ctx, "V2")
		require.NoError(t, err)
		assert.Equal(t, "V2", v.ID)
		assert.False(t, v.Available)

		fleet, _ := repo.List(ctx)
		assert.True(t, fleet[0].Available)
		assert.False(t, fleet[1].Available)
	})

	t.Run("Unknown and rented are the same failure", func(t *testing.T) {
		repo := NewVehicleRepository()
		require.NoError(t, repo.Add(ctx, newVehicle(t, "V1")))

		_, err := repo.ClaimAvailable(ctx, "V1")
		require.NoError(t, err)

		_, err = repo.ClaimAvailable(ctx, "V1")
		assert.ErrorIs(t, err, domain.ErrVehicleNotAvailable)

		_, err = repo.ClaimAvailable(ctx, "NOPE")
		assert.ErrorIs(t, err, domain.ErrVehicleNotAvailable)
	})

	t.Run("Duplicate IDs fall through to the next available", func(t *testing.T) {
		repo := NewVehicleRepository()
		require.NoError(t, repo.Add(ctx, newVehicle(t, "V1")))
		require.NoError(t, repo.Add(ctx, newVehicle(t, "V1")))

		_, err := repo.ClaimAvailable(ctx, "V1")
		require.NoError(t, err)
		_, err = repo.ClaimAvailable(ctx, "V1")
		require.NoError(t, err)
		_, err = repo.ClaimAvailable(ctx, "V1")
		assert.ErrorIs(t, err, domain.ErrVehicleNotAvailable)
	})

	t.Run("Concurrent claims hand the vehicle out once", func(t *testing.T) {
		repo := NewVehicleRepository()
		require.NoError(t, repo.Add(ctx, newVehicle(t, "V1")))

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.ClaimAvailable(ctx, "V1"); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
	})
}

func TestVehicleRepository_MarkAvailable(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository()
	require.NoError(t, repo.Add(ctx, newVehicle(t, "V1")))

	v, wasAvailable, err := repo.MarkAvailable(ctx, "V1")
	require.NoError(t, err)
	assert.True(t, wasAvailable)
	assert.True(t, v.Available)

	_, err = repo.ClaimAvailable(ctx, "V1")
	require.NoError(t, err)

	v, wasAvailable, err = repo.MarkAvailable(ctx, "V1")
	require.NoError(t, err)
	assert.False(t, wasAvailable)
	assert.True(t, v.Available)

	_, _, err = repo.MarkAvailable(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVehicleRepository_Release(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository()

	first := newVehicle(t, "V1")
	first.Available = false
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, newVehicle(t, "V1")))

	claimed, err := repo.ClaimAvailable(ctx, "V1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), claimed.Seq)

	require.NoError(t, repo.Release(ctx, claimed))
	fleet, _ := repo.List(ctx)
	assert.False(t, fleet[0].Available)
	assert.True(t, fleet[1].Available)

	err = repo.Release(ctx, &domain.Vehicle{ID: "V1", Seq: 99})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVehicleRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository()
	v := newVehicle(t, "V1")
	require.NoError(t, repo.Add(ctx, v))

	v.Available = false
	fleet, _ := repo.List(ctx)
	fleet[0].Available = false

	fleet, _ = repo.List(ctx)
	assert.True(t, fleet[0].Available)
}

func TestCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()
	c, _ := domain.NewCustomer("C1", "Alice")

	t.Run("Create and get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, c))
		got, err := repo.GetByID(ctx, "C1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
	})

	t.Run("Duplicate ID rejected", func(t *testing.T) {
		err := repo.Create(ctx, c)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "C9")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repo.RecordRental(ctx, "C9", "V1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Record rental", func(t *testing.T) {
		updated, err := repo.RecordRental(ctx, "C1", "V1")
		require.NoError(t, err)
		assert.Equal(t, 10, updated.LoyaltyPoints)
		assert.Equal(t, []string{"V1"}, updated.RentalHistory)

		updated.RentalHistory[0] = "tampered"
		stored, _ := repo.GetByID(ctx, "C1")
		assert.Equal(t, []string{"V1"}, stored.RentalHistory)
	})

	t.Run("List", func(t *testing.T) {
		customers, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, customers, 1)
	})
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	c, _ := domain.NewCustomer("C1", "Alice")
	v := newVehicle(t, "V1")

	require.NoError(t, repo.Append(ctx, domain.NewRentalTransaction("T1", c, v, 1)))
	require.NoError(t, repo.Append(ctx, domain.NewRentalTransaction("T2", c, v, 2)))

	log, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "T1", log[0].ID)
	assert.Equal(t, "T2", log[1].ID)

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, "T1"))
		log, _ := repo.List(ctx)
		require.Len(t, log, 1)
		assert.Equal(t, "T2", log[0].ID)

		assert.ErrorIs(t, repo.Remove(ctx, "T1"), domain.ErrNotFound)
	})
}

func TestNewStore(t *testing.T) {
	store := NewStore()
	assert.NotNil(t, store.VehicleRepository)
	assert.NotNil(t, store.CustomerRepository)
	assert.NotNil(t, store.TransactionRepository)
}
