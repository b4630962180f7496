package dto

type CreateBookingRequest struct {
	PickupAddress  string  `json:"pickup_address"`
	DropoffAddress string  `json:"dropoff_address"`
	ScheduledDate  string  `json:"scheduled_date"`
	ScheduledTime  string  `json:"scheduled_time"`
	VehicleType    string  `json:"vehicle_type"`
	DistanceKm     float64 `json:"distance_km"`
	PaymentMethod  string  `json:"payment_method"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}
