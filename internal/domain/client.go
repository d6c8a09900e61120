package domain

import "time"

type Client struct {
	ID         int64
	FullName   string
	Email      *string
	Phone      string
	Address    string
	BonusMiles int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
