package dto

type DriverProfileRequest struct {
	LicenseNumber string `json:"license_number"`
	AadharNumber  string `json:"aadhar_number"`
	PanNumber     string `json:"pan_number"`
}

type VehicleRequest struct {
	VehicleType        string `json:"vehicle_type"`
	RegistrationNumber string `json:"registration_number"`
	Model              string `json:"model"`
	RCNumber           string `json:"rc_number"`
	PUCNumber          string `json:"puc_number"`
	InsuranceNumber    string `json:"insurance_number"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}

type DocumentReviewRequest struct {
	Verified bool   `json:"verified"`
	Remark   string `json:"remark"`
}
