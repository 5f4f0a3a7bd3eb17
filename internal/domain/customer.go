package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	LoyaltyPointsPerRental      = 10
	LoyaltyEligibilityThreshold = 50
)

type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"` // Receipts are sent only when set
	RentalHistory []string  `json:"rental_history"`
	LoyaltyPoints int       `json:"loyalty_points"`
	CreatedOn     time.Time `json:"created_on"`
}

func NewCustomer(id, name string) (*Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: customer ID cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidArgument)
	}
	return &Customer{
		ID:            id,
		Name:          name,
		RentalHistory: []string{},
		CreatedOn:     time.Now().UTC(),
	}, nil
}

// AddRental records a completed rental. Duplicates are not checked.
func (c *Customer) AddRental(vehicleID string) {
	c.RentalHistory = append(c.RentalHistory, vehicleID)
	c.LoyaltyPoints += LoyaltyPointsPerRental
}

// IsEligibleForRental reports whether the customer reached the loyalty threshold.
// Nothing in the rent path consults it.
func (c *Customer) IsEligibleForRental() bool {
	return c.LoyaltyPoints >= LoyaltyEligibilityThreshold
}

// Clone returns a copy that does not share the history slice.
func (c *Customer) Clone() *Customer {
	cp := *c
	cp.RentalHistory = append([]string{}, c.RentalHistory...)
	return &cp
}

func (c *Customer) String() string {
	return fmt.Sprintf("Customer ID: %s, Name: %s, Loyalty Points: %d", c.ID, c.Name, c.LoyaltyPoints)
}
