package models

import (
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/fare"
)

// BookingStatus is the ride lifecycle state (persisted as a string).
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingAccepted   BookingStatus = "accepted"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingAccepted, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Vehicle types a rider can request. Fare rates are keyed by these.
const (
	VehicleBike      = "bike"
	VehicleAuto      = "auto"
	VehicleHatchback = "hatchback"
	VehicleSedan     = "sedan"
	VehicleSUV       = "suv"
)

// ValidVehicleType reports whether t is a known vehicle type.
func ValidVehicleType(t string) bool {
	switch t {
	case VehicleBike, VehicleAuto, VehicleHatchback, VehicleSedan, VehicleSUV:
		return true
	}
	return false
}

// Booking is a single ride request moving through the status state machine.
// DriverID stays nil until a driver accepts; Fare is set once the vehicle
// type is known at creation. Bookings are never deleted.
type Booking struct {
	ID             string          `json:"id"`
	RiderID        string          `json:"rider_id"`
	DriverID       *string         `json:"driver_id"`
	PickupAddress  string          `json:"pickup_address"`
	DropoffAddress string          `json:"dropoff_address"`
	ScheduledDate  string          `json:"scheduled_date"`
	ScheduledTime  string          `json:"scheduled_time"`
	VehicleType    string          `json:"vehicle_type"`
	DistanceKm     float64         `json:"distance_km"`
	PaymentMethod  string          `json:"payment_method"`
	Fare           *fare.Breakdown `json:"fare"`
	Status         BookingStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	AcceptedAt     *time.Time      `json:"accepted_at,omitempty"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
}
