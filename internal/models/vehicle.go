package models

import "time"

// DocumentStatus is the review state of a single verification document.
// "rejected" is an explicit state set by an admin, not a derived one.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentVerified DocumentStatus = "verified"
	DocumentRejected DocumentStatus = "rejected"
)

// Document types accepted for driver and vehicle verification.
const (
	DocAadhar    = "aadhar"
	DocPAN       = "pan"
	DocLicense   = "license"
	DocRC        = "rc"
	DocPUC       = "puc"
	DocInsurance = "insurance"
)

// Document is one verification document and its review outcome.
type Document struct {
	Type       string         `json:"type"`
	Number     string         `json:"number"`
	Status     DocumentStatus `json:"status"`
	Remark     string         `json:"remark,omitempty"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
}

// DriverProfile holds a driver's identity documents (aadhar, PAN, license).
// Submitted once after registration; resubmission resets the documents to
// pending.
type DriverProfile struct {
	DriverID      string     `json:"driver_id"`
	LicenseNumber string     `json:"license_number"`
	AadharNumber  string     `json:"aadhar_number"`
	PanNumber     string     `json:"pan_number"`
	Documents     []Document `json:"documents"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Vehicle is a driver's registered vehicle and its documents (RC, PUC,
// insurance).
type Vehicle struct {
	ID                 string     `json:"id"`
	DriverID           string     `json:"driver_id"`
	VehicleType        string     `json:"vehicle_type"`
	RegistrationNumber string     `json:"registration_number"`
	Model              string     `json:"model"`
	Documents          []Document `json:"documents"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
