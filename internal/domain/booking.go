package domain

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusPaid      BookingStatus = "PAID"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
	switch BookingStatus(s) {
	case BookingStatusBooked, BookingStatusPaid, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID            int64
	Reference     string
	ClientID      int64
	FlightID      int64
	BookingDate   time.Time
	Status        BookingStatus
	PaidWithMiles bool
	MilesUsed     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookingHistoryItem is a booking joined with its flight and airline,
// used for the client booking history view.
type BookingHistoryItem struct {
	Booking
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	AirlineName      string
}
