package http

import (
	"time"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/service"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AddVehicleRequest struct {
	ID           string          `json:"id" validate:"required,max=64"`
	Model        string          `json:"model" validate:"required,max=128"`
	BaseRate     decimal.Decimal `json:"base_rate"`
	Category     string          `json:"category" validate:"required"`
	HasGPS       bool            `json:"has_gps"`
	HasHelmet    bool            `json:"has_helmet"`
	LoadCapacity decimal.Decimal `json:"load_capacity"`
}

// VehicleResponse flattens the category attributes. Only the attributes of
// the vehicle's own category are set.
type VehicleResponse struct {
	ID           string                 `json:"id"`
	Model        string                 `json:"model"`
	Category     domain.VehicleCategory `json:"category"`
	BaseRate     decimal.Decimal        `json:"base_rate"`
	Available    bool                   `json:"available"`
	HasGPS       *bool                  `json:"has_gps,omitempty"`
	HasHelmet    *bool                  `json:"has_helmet,omitempty"`
	LoadCapacity *decimal.Decimal       `json:"load_capacity,omitempty"`
	CreatedOn    time.Time              `json:"created_on"`
}

type RegisterCustomerRequest struct {
	ID    string `json:"id" validate:"omitempty,max=64"`
	Name  string `json:"name" validate:"required,max=128"`
	Email string `json:"email" validate:"omitempty,email"`
}

type CustomerResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	RentalHistory     []string  `json:"rental_history"`
	LoyaltyPoints     int       `json:"loyalty_points"`
	EligibleForRental bool      `json:"eligible_for_rental"`
	CreatedOn         time.Time `json:"created_on"`
}

type ProcessRentalRequest struct {
	VehicleID  string `json:"vehicle_id" validate:"required"`
	CustomerID string `json:"customer_id" validate:"required"`
	Days       int    `json:"days" validate:"min=1"`
}

type RentalResponse struct {
	Transaction *domain.RentalTransaction `json:"transaction"`
	Message     string                    `json:"message"`
}

type ReturnResponse struct {
	VehicleID    string           `json:"vehicle_id"`
	Returned     bool             `json:"returned"`
	WasAvailable bool             `json:"was_available"`
	Vehicle      *VehicleResponse `json:"vehicle,omitempty"`
	Message      string           `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toVehicleResponse(v *domain.Vehicle) *VehicleResponse {
	resp := &VehicleResponse{
		ID:        v.ID,
		Model:     v.Model,
		Category:  v.Category(),
		BaseRate:  v.BaseRate,
		Available: v.Available,
		CreatedOn: v.CreatedOn,
	}
	switch s := v.Spec.(type) {
	case domain.StandardSpec:
		resp.HasGPS = &s.HasGPS
	case domain.TwoWheelSpec:
		resp.HasHelmet = &s.HasHelmet
	case domain.CargoSpec:
		resp.LoadCapacity = &s.LoadCapacity
	}
	return resp
}

func toCustomerResponse(c *domain.Customer) *CustomerResponse {
	history := c.RentalHistory
	if history == nil {
		history = []string{}
	}
	return &CustomerResponse{
		ID:                c.ID,
		Name:              c.Name,
		Email:             c.Email,
		RentalHistory:     history,
		LoyaltyPoints:     c.LoyaltyPoints,
		EligibleForRental: c.IsEligibleForRental(),
		CreatedOn:         c.CreatedOn,
	}
}

func toReturnResponse(out *service.ReturnOutcome) *ReturnResponse {
	resp := &ReturnResponse{
		VehicleID:    out.VehicleID,
		Returned:     out.Returned,
		WasAvailable: out.WasAvailable,
		Message:      out.Message,
	}
	if out.Vehicle != nil {
		resp.Vehicle = toVehicleResponse(out.Vehicle)
	}
	return resp
}
