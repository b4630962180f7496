package models

import "time"

// Transaction records the financial split of a completed booking. Written
// exactly once when the booking reaches completed and immutable thereafter.
type Transaction struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	RiderID       string    `json:"rider_id"`
	DriverID      string    `json:"driver_id"`
	Amount        float64   `json:"amount"`
	Commission    float64   `json:"commission"`
	DriverEarning float64   `json:"driver_earning"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}
