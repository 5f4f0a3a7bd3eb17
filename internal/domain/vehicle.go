package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type VehicleCategory string

const (
	VehicleCategoryStandard VehicleCategory = "STANDARD"
	VehicleCategoryTwoWheel VehicleCategory = "TWO_WHEEL"
	VehicleCategoryCargo    VehicleCategory = "CARGO"
)

// Surcharges applied on top of BaseRate * days.
var (
	GPSSurcharge          = decimal.NewFromInt(50)
	HelmetSurcharge       = decimal.NewFromInt(20)
	CargoCapacityMultiple = decimal.NewFromInt(10)
)

// VehicleSpec carries the category-specific attributes of a vehicle.
// Only the types in this package implement it.
type VehicleSpec interface {
	Category() VehicleCategory
	surcharge() decimal.Decimal
}

type StandardSpec struct {
	HasGPS bool `json:"has_gps"`
}

func (StandardSpec) Category() VehicleCategory { return VehicleCategoryStandard }

func (s StandardSpec) surcharge() decimal.Decimal {
	if s.HasGPS {
		return GPSSurcharge
	}
	return decimal.Zero
}

type TwoWheelSpec struct {
	HasHelmet bool `json:"has_helmet"`
}

func (TwoWheelSpec) Category() VehicleCategory { return VehicleCategoryTwoWheel }

func (s TwoWheelSpec) surcharge() decimal.Decimal {
	if s.HasHelmet {
		return HelmetSurcharge
	}
	return decimal.Zero
}

type CargoSpec struct {
	LoadCapacity decimal.Decimal `json:"load_capacity"`
}

func (CargoSpec) Category() VehicleCategory { return VehicleCategoryCargo }

func (s CargoSpec) surcharge() decimal.Decimal {
	return s.LoadCapacity.Mul(CargoCapacityMultiple)
}

// NewVehicleSpec builds the spec for a category from flat attributes. Attributes
// that do not belong to the category are ignored.
func NewVehicleSpec(category VehicleCategory, hasGPS, hasHelmet bool, loadCapacity decimal.Decimal) (VehicleSpec, error) {
	switch VehicleCategory(strings.ToUpper(string(category))) {
	case VehicleCategoryStandard:
		return StandardSpec{HasGPS: hasGPS}, nil
	case VehicleCategoryTwoWheel:
		return TwoWheelSpec{HasHelmet: hasHelmet}, nil
	case VehicleCategoryCargo:
		return CargoSpec{LoadCapacity: loadCapacity}, nil
	default:
		return nil, fmt.Errorf("%w: unknown vehicle category %q", ErrInvalidArgument, category)
	}
}

type Vehicle struct {
	// Seq is assigned by the store and identifies one vehicle among those
	// sharing an ID.
	Seq       int64           `json:"-"`
	ID        string          `json:"id"`
	Model     string          `json:"model"`
	BaseRate  decimal.Decimal `json:"base_rate"`
	Available bool            `json:"available"`
	Spec      VehicleSpec     `json:"-"`
	CreatedOn time.Time       `json:"created_on"`
}

// RentalCostBreakdown splits a rental cost into its day-based and surcharge parts.
type RentalCostBreakdown struct {
	Days      int
	BaseCost  decimal.Decimal
	Surcharge decimal.Decimal
	TotalCost decimal.Decimal
}

// NewVehicle validates the attributes and returns an available vehicle.
func NewVehicle(id, model string, baseRate decimal.Decimal, spec VehicleSpec) (*Vehicle, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: vehicle ID cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: model cannot be empty", ErrInvalidArgument)
	}
	if !baseRate.IsPositive() {
		return nil, fmt.Errorf("%w: base rental rate must be positive", ErrInvalidArgument)
	}
	if spec == nil {
		return nil, fmt.Errorf("%w: vehicle category is required", ErrInvalidArgument)
	}
	switch s := spec.(type) {
	case CargoSpec:
		if !s.LoadCapacity.IsPositive() {
			return nil, fmt.Errorf("%w: load capacity must be positive", ErrInvalidArgument)
		}
	case StandardSpec, TwoWheelSpec:
	default:
		return nil, fmt.Errorf("%w: unsupported vehicle spec %T", ErrInvalidArgument, spec)
	}

	return &Vehicle{
		ID:        id,
		Model:     model,
		BaseRate:  baseRate,
		Available: true,
		Spec:      spec,
		CreatedOn: time.Now().UTC(),
	}, nil
}

func (v *Vehicle) Category() VehicleCategory {
	if v.Spec == nil {
		return ""
	}
	return v.Spec.Category()
}

func (v *Vehicle) CostBreakdown(days int) RentalCostBreakdown {
	base := v.BaseRate.Mul(decimal.NewFromInt(int64(days)))
	surcharge := decimal.Zero
	if v.Spec != nil {
		surcharge = v.Spec.surcharge()
	}
	return RentalCostBreakdown{
		Days:      days,
		BaseCost:  base,
		Surcharge: surcharge,
		TotalCost: base.Add(surcharge),
	}
}

func (v *Vehicle) CalculateRentalCost(days int) decimal.Decimal {
	return v.CostBreakdown(days).TotalCost
}

func (v *Vehicle) IsAvailableForRental() bool {
	return v.Available
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle ID: %s, Model: %s, Base Rate: %s, Available: %t",
		v.ID, v.Model, v.BaseRate.StringFixed(2), v.Available)
}
