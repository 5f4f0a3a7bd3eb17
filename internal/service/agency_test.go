package service_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/repository/memory"
	"vehicle-rental-agency/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAgency(t *testing.T) (service.RentalAgency, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return service.NewRentalAgency(store.VehicleRepository, store.CustomerRepository, store.TransactionRepository, service.NewNoopEmailService()), store
}

func mustVehicle(t *testing.T, id string, rate int64, spec domain.VehicleSpec) *domain.Vehicle {
	t.Helper()
	v, err := domain.NewVehicle(id, "Model "+id, decimal.NewFromInt(rate), spec)
	require.NoError(t, err)
	return v
}

func mustCustomer(t *testing.T, id, name string) *domain.Customer {
	t.Helper()
	c, err := domain.NewCustomer(id, name)
	require.NoError(t, err)
	return c
}

func TestRentalAgency_Scenario(t *testing.T) {
	ctx := context.Background()
	agency, _ := newAgency(t)

	require.NoError(t, agency.AddVehicle(ctx, mustVehicle(t, "V1", 20, domain.StandardSpec{})))
	require.NoError(t, agency.RegisterCustomer(ctx, mustCustomer(t, "C1", "Alice")))

	tx, err := agency.ProcessRental(ctx, "V1", "C1", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "60.00", tx.TotalCost.StringFixed(2))
	assert.Equal(t, 3, tx.Days)

	c, err := agency.GetCustomer(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, 10, c.LoyaltyPoints)
	assert.Equal(t, []string{"V1"}, c.RentalHistory)

	t.Run("Double rent fails without state change", func(t *testing.T) {
		_, err := agency.ProcessRental(ctx, "V1", "C1", 1)
		assert.ErrorIs(t, err, domain.ErrVehicleNotAvailable)

		c, err := agency.GetCustomer(ctx, "C1")
		require.NoError(t, err)
		assert.Equal(t, 10, c.LoyaltyPoints)
		log, err := agency.ListTransactions(ctx)
		require.NoError(t, err)
		assert.Len(t, log, 1)
	})

	t.Run("Return then rent again", func(t *testing.T) {
		out, err := agency.ReturnVehicle(ctx, "V1")
		require.NoError(t, err)
		assert.True(t, out.Returned)
		assert.False(t, out.WasAvailable)
		assert.True(t, strings.HasPrefix(out.Message, "Vehicle returned: "))

		_, err = agency.ProcessRental(ctx, "V1", "C1", 2)
		require.NoError(t, err)

		c, err := agency.GetCustomer(ctx, "C1")
		require.NoError(t, err)
		assert.Equal(t, 20, c.LoyaltyPoints)
		assert.Equal(t, []string{"V1", "V1"}, c.RentalHistory)
	})

	t.Run("Return is idempotent", func(t *testing.T) {
		_, err := agency.ReturnVehicle(ctx, "V1")
		require.NoError(t, err)
		out, err := agency.ReturnVehicle(ctx, "V1")
		require.NoError(t, err)
		assert.True(t, out.Returned)
		assert.True(t, out.WasAvailable)

		fleet, err := agency.ListFleet(ctx)
		require.NoError(t, err)
		require.Len(t, fleet, 1)
		assert.True(t, fleet[0].Available)
	})

	t.Run("Report lists transactions in order", func(t *testing.T) {
		report, err := agency.GenerateReport(ctx)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(report, "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, service.MsgReportHeader, lines[0])
		assert.Contains(t, lines[1], "Days: 3, Total Cost: 60.00")
		assert.Contains(t, lines[2], "Days: 2, Total Cost: 40.00")
	})
}

func TestRentalAgency_ProcessRental_Errors(t *testing.T) {
	ctx := context.Background()
	agency, _ := newAgency(t)
	require.NoError(t, agency.AddVehicle(ctx, mustVehicle(t, "T1", 100, domain.CargoSpec{LoadCapacity: decimal.NewFromInt(2)})))
	require.NoError(t, agency.RegisterCustomer(ctx, mustCustomer(t, "C1", "Bob")))

	t.Run("Unknown vehicle", func(t *testing.T) {
		_, err := agency.ProcessRental(ctx, "NOPE", "C1", 1)
		assert.ErrorIs(t, err, domain.ErrVehicleNotAvailable)
	})

	t.Run("Unknown customer", func(t *testing.T) {
		_, err := agency.ProcessRental(ctx, "T1", "NOPE", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		fleet, _ := agency.ListFleet(ctx)
		assert.True(t, fleet[0].Available)
	})

	t.Run("Zero days", func(t *testing.T) {
		_, err := agency.ProcessRental(ctx, "T1", "C1", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Cargo surcharge", func(t *testing.T) {
		tx, err := agency.ProcessRental(ctx, "T1", "C1", 1)
		require.NoError(t, err)
		assert.Equal(t, "120.00", tx.TotalCost.StringFixed(2))
		assert.Equal(t, domain.VehicleCategoryCargo, tx.Category)
	})
}

func TestRentalAgency_ReturnUnknownVehicle(t *testing.T) {
	agency, _ := newAgency(t)
	out, err := agency.ReturnVehicle(context.Background(), "GHOST")
	require.NoError(t, err)
	assert.False(t, out.Returned)
	assert.Equal(t, service.MsgVehicleNotFound, out.Message)
}

func TestRentalAgency_EmptyReport(t *testing.T) {
	agency, _ := newAgency(t)
	report, err := agency.GenerateReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.MsgReportHeader+"\n", report)
}

func TestRentalAgency_ConcurrentRentals(t *testing.T) {
	ctx := context.Background()
	agency, _ := newAgency(t)
	require.NoError(t, agency.AddVehicle(ctx, mustVehicle(t, "V1", 10, domain.TwoWheelSpec{HasHelmet: true})))
	for _, id := range []string{"A", "B", "C", "D"} {
		require.NoError(t, agency.RegisterCustomer(ctx, mustCustomer(t, id, id)))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, id := range []string{"A", "B", "C", "D"} {
		wg.Add(1)
		go func(customerID string) {
			defer wg.Done()
			if _, err := agency.ProcessRental(ctx, "V1", customerID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	log, err := agency.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, log, 1)
}

// failingLog accepts nothing, so every rental fails after the claim.
type failingLog struct {
	MockTransactionRepo
}

func (*failingLog) Append(ctx context.Context, tx *domain.RentalTransaction) error {
	return assert.AnError
}

func TestRentalAgency_FailedRentalKeepsDuplicateIDsApart(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	agency := service.NewRentalAgency(store.VehicleRepository, store.CustomerRepository, &failingLog{}, service.NewNoopEmailService())

	first := mustVehicle(t, "V1", 20, domain.StandardSpec{})
	first.Model = "First"
	first.Available = false
	second := mustVehicle(t, "V1", 20, domain.StandardSpec{})
	second.Model = "Second"
	require.NoError(t, agency.AddVehicle(ctx, first))
	require.NoError(t, agency.AddVehicle(ctx, second))
	require.NoError(t, agency.RegisterCustomer(ctx, mustCustomer(t, "C1", "Alice")))

	_, err := agency.ProcessRental(ctx, "V1", "C1", 3)
	require.ErrorIs(t, err, assert.AnError)

	fleet, err := agency.ListFleet(ctx)
	require.NoError(t, err)
	require.Len(t, fleet, 2)
	assert.Equal(t, "First", fleet[0].Model)
	assert.False(t, fleet[0].Available)
	assert.Equal(t, "Second", fleet[1].Model)
	assert.True(t, fleet[1].Available)

	c, err := agency.GetCustomer(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, 0, c.LoyaltyPoints)
}

func TestRentalAgency_WithMocks(t *testing.T) {
	ctx := context.Background()

	t.Run("Receipt sent when customer has email", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepo)
		customerRepo := new(MockCustomerRepo)
		txRepo := new(MockTransactionRepo)
		emailSvc := new(MockEmailService)
		svc := service.NewRentalAgency(vehicleRepo, customerRepo, txRepo, emailSvc)

		customer := mustCustomer(t, "C1", "Alice")
		customer.Email = "alice@example.com"
		vehicle := mustVehicle(t, "V1", 20, domain.StandardSpec{HasGPS: true})
		updated := customer.Clone()
		updated.AddRental("V1")

		customerRepo.On("GetByID", ctx, "C1").Return(customer, nil)
		vehicleRepo.On("ClaimAvailable", ctx, "V1").Return(vehicle, nil)
		txRepo.On("Append", ctx, mock.AnythingOfType("*domain.RentalTransaction")).Return(nil)
		customerRepo.On("RecordRental", ctx, "C1", "V1").Return(updated, nil)
		emailSvc.On("SendRentalReceipt", ctx, "alice@example.com", "Alice", mock.AnythingOfType("*domain.RentalTransaction")).
			Return(assert.AnError)

		var buf bytes.Buffer
		logger.InitializeWithWriter(&buf, "debug", "text")
		defer logger.Initialize("info", "text")

		tx, err := svc.ProcessRental(ctx, "V1", "C1", 2)
		require.NoError(t, err)
		assert.Equal(t, "90.00", tx.TotalCost.StringFixed(2))
		emailSvc.AssertExpectations(t)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), `msg="Failed to send rental receipt"`)
	})

	t.Run("Append failure releases the claimed vehicle", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepo)
		customerRepo := new(MockCustomerRepo)
		txRepo := new(MockTransactionRepo)
		svc := service.NewRentalAgency(vehicleRepo, customerRepo, txRepo, service.NewNoopEmailService())

		vehicle := mustVehicle(t, "V1", 20, domain.StandardSpec{})
		vehicle.Seq = 2
		customerRepo.On("GetByID", ctx, "C1").Return(mustCustomer(t, "C1", "Alice"), nil)
		vehicleRepo.On("ClaimAvailable", ctx, "V1").Return(vehicle, nil)
		txRepo.On("Append", ctx, mock.Anything).Return(assert.AnError)
		vehicleRepo.On("Release", ctx, vehicle).Return(nil)

		_, err := svc.ProcessRental(ctx, "V1", "C1", 1)
		assert.ErrorIs(t, err, assert.AnError)
		vehicleRepo.AssertCalled(t, "Release", ctx, vehicle)
		vehicleRepo.AssertNotCalled(t, "MarkAvailable", mock.Anything, mock.Anything)
		customerRepo.AssertNotCalled(t, "RecordRental", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Customer update failure undoes the rental", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepo)
		customerRepo := new(MockCustomerRepo)
		txRepo := new(MockTransactionRepo)
		emailSvc := new(MockEmailService)
		svc := service.NewRentalAgency(vehicleRepo, customerRepo, txRepo, emailSvc)

		vehicle := mustVehicle(t, "V1", 20, domain.StandardSpec{})
		var appended *domain.RentalTransaction
		customerRepo.On("GetByID", ctx, "C1").Return(mustCustomer(t, "C1", "Alice"), nil)
		vehicleRepo.On("ClaimAvailable", ctx, "V1").Return(vehicle, nil)
		txRepo.On("Append", ctx, mock.AnythingOfType("*domain.RentalTransaction")).
			Run(func(args mock.Arguments) { appended = args.Get(1).(*domain.RentalTransaction) }).
			Return(nil)
		customerRepo.On("RecordRental", ctx, "C1", "V1").Return(nil, assert.AnError)
		txRepo.On("Remove", ctx, mock.AnythingOfType("string")).Return(nil)
		vehicleRepo.On("Release", ctx, vehicle).Return(nil)

		tx, err := svc.ProcessRental(ctx, "V1", "C1", 1)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, tx)
		require.NotNil(t, appended)
		txRepo.AssertCalled(t, "Remove", ctx, appended.ID)
		vehicleRepo.AssertCalled(t, "Release", ctx, vehicle)
		emailSvc.AssertNotCalled(t, "SendRentalReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Report store failure", func(t *testing.T) {
		txRepo := new(MockTransactionRepo)
		svc := service.NewRentalAgency(new(MockVehicleRepo), new(MockCustomerRepo), txRepo, nil)
		txRepo.On("List", ctx).Return(nil, assert.AnError)

		_, err := svc.GenerateReport(ctx)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
