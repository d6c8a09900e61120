package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrNoSeats           = errors.New("no available seats")
	ErrInsufficientMiles = errors.New("insufficient bonus miles")
	ErrAlreadyPaid       = errors.New("booking is already paid")
	ErrCancelled         = errors.New("booking is cancelled")
	ErrHasBookings       = errors.New("entity has bookings")
	ErrHasFlights        = errors.New("airline has flights")
)
