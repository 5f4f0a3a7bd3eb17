package domain

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrVehicleNotAvailable = errors.New("vehicle not available for rental")
)
