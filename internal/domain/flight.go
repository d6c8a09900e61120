package domain

import "time"

type Flight struct {
	ID               int64
	FlightNumber     string
	AirlineID        int64
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	PriceCents       int64
	TotalSeats       int
	AvailableSeats   int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
