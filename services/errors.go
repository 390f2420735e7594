package services

import "errors"

var (
	// ErrCarNotFound means the referenced car does not exist.
	ErrCarNotFound = errors.New("car not found")

	// ErrReservationNotFound covers both a missing reservation and a
	// cancellation code that was already used or expired.
	ErrReservationNotFound = errors.New("reservation not found or already cancelled")

	// ErrDuplicateReservation means the customer already holds a confirmed
	// reservation for this car.
	ErrDuplicateReservation = errors.New("an active reservation for this car already exists")
)
