package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type RentalTransaction struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	VehicleID  string `json:"vehicle_id"`
	// Snapshots captured at creation time, used by the report.
	CustomerName string          `json:"customer_name"`
	VehicleModel string          `json:"vehicle_model"`
	Category     VehicleCategory `json:"category"`
	Days         int             `json:"days"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	CreatedOn    time.Time       `json:"created_on"`
}

// NewRentalTransaction prices the rental once, from the vehicle's current rate.
func NewRentalTransaction(id string, customer *Customer, vehicle *Vehicle, days int) *RentalTransaction {
	return &RentalTransaction{
		ID:           id,
		CustomerID:   customer.ID,
		VehicleID:    vehicle.ID,
		CustomerName: customer.Name,
		VehicleModel: vehicle.Model,
		Category:     vehicle.Category(),
		Days:         days,
		TotalCost:    vehicle.CalculateRentalCost(days),
		CreatedOn:    time.Now().UTC(),
	}
}

func (t *RentalTransaction) String() string {
	return fmt.Sprintf("Transaction ID: %s, Customer: %s (%s), Vehicle: %s (%s), Days: %d, Total Cost: %s",
		t.ID, t.CustomerID, t.CustomerName, t.VehicleID, t.VehicleModel, t.Days, t.TotalCost.StringFixed(2))
}
