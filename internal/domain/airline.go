package domain

import "time"

type Airline struct {
	ID        int64
	Name      string
	MilesRate float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
