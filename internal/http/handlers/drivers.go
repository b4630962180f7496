package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nomadcabs/nomad-cabs-be/internal/http/respond"
	"github.com/nomadcabs/nomad-cabs-be/internal/middleware"
	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/models/dto"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
	"github.com/nomadcabs/nomad-cabs-be/internal/verification"
)

// DriversHandler owns driver profile and vehicle endpoints.
type DriversHandler struct {
	store  storage.Store
	authmw *middleware.Authenticator
}

// NewDriversHandler constructs the handler.
func NewDriversHandler(store storage.Store, authmw *middleware.Authenticator) *DriversHandler {
	return &DriversHandler{store: store, authmw: authmw}
}

// Register attaches driver routes to the mux.
func (h *DriversHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /drivers/profile", h.authmw.RequireRole(h.handleSubmitProfile, models.RoleDriver))
	mux.HandleFunc("GET /drivers", h.authmw.RequireRole(h.handleListProfiles, models.RoleAdmin))
	mux.HandleFunc("POST /vehicles", h.authmw.RequireRole(h.handleCreateVehicle, models.RoleDriver))
	mux.HandleFunc("GET /vehicles", h.authmw.RequireRole(h.handleListVehicles, models.RoleDriver, models.RoleAdmin))
}

// profileView decorates a profile with its derived verification status.
type profileView struct {
	models.DriverProfile
	VerificationStatus models.DocumentStatus `json:"verification_status"`
}

// vehicleView decorates a vehicle with its derived verification status.
type vehicleView struct {
	models.Vehicle
	VerificationStatus models.DocumentStatus `json:"verification_status"`
}

func (h *DriversHandler) handleSubmitProfile(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.UserFrom(r.Context())

	var req dto.DriverProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.LicenseNumber) == "" || strings.TrimSpace(req.AadharNumber) == "" || strings.TrimSpace(req.PanNumber) == "" {
		respond.Error(w, http.StatusBadRequest, "license, aadhar, and pan numbers are required")
		return
	}

	now := time.Now().UTC()
	profile := models.DriverProfile{
		DriverID:      driver.ID,
		LicenseNumber: strings.TrimSpace(req.LicenseNumber),
		AadharNumber:  strings.TrimSpace(req.AadharNumber),
		PanNumber:     strings.TrimSpace(req.PanNumber),
		Documents: []models.Document{
			{Type: models.DocAadhar, Number: strings.TrimSpace(req.AadharNumber), Status: models.DocumentPending},
			{Type: models.DocPAN, Number: strings.TrimSpace(req.PanNumber), Status: models.DocumentPending},
			{Type: models.DocLicense, Number: strings.TrimSpace(req.LicenseNumber), Status: models.DocumentPending},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := h.store.GetDriverProfile(r.Context(), driver.ID); err == nil {
		profile.CreatedAt = existing.CreatedAt
	}

	saved, err := h.store.UpsertDriverProfile(r.Context(), profile)
	if err != nil {
		log.Printf("upsert driver profile: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	// Resubmission voids any earlier approval until the documents are
	// reviewed again.
	if driver.Status == models.UserActive {
		if _, err := h.store.UpdateUserStatus(r.Context(), driver.ID, models.UserPendingVerification); err != nil {
			log.Printf("reset driver status: %v", err)
		}
	}

	respond.JSON(w, http.StatusCreated, "profile submitted", profileView{
		DriverProfile:      saved,
		VerificationStatus: verification.Aggregate(saved.Documents),
	})
}

func (h *DriversHandler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.ListDriverProfiles(r.Context())
	if err != nil {
		log.Printf("list driver profiles: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list drivers")
		return
	}
	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, profileView{
			DriverProfile:      p,
			VerificationStatus: verification.Aggregate(p.Documents),
		})
	}
	respond.JSON(w, http.StatusOK, "ok", views)
}

func (h *DriversHandler) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.UserFrom(r.Context())

	var req dto.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if !models.ValidVehicleType(req.VehicleType) {
		respond.Error(w, http.StatusBadRequest, "unknown vehicle type")
		return
	}
	if strings.TrimSpace(req.RegistrationNumber) == "" {
		respond.Error(w, http.StatusBadRequest, "registration number is required")
		return
	}

	now := time.Now().UTC()
	vehicle := models.Vehicle{
		ID:                 uuid.NewString(),
		DriverID:           driver.ID,
		VehicleType:        req.VehicleType,
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Model:              strings.TrimSpace(req.Model),
		Documents: []models.Document{
			{Type: models.DocRC, Number: strings.TrimSpace(req.RCNumber), Status: models.DocumentPending},
			{Type: models.DocPUC, Number: strings.TrimSpace(req.PUCNumber), Status: models.DocumentPending},
			{Type: models.DocInsurance, Number: strings.TrimSpace(req.InsuranceNumber), Status: models.DocumentPending},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := h.store.CreateVehicle(r.Context(), vehicle)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "registration number already registered")
			return
		}
		log.Printf("create vehicle: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to register vehicle")
		return
	}

	respond.JSON(w, http.StatusCreated, "vehicle registered", vehicleView{
		Vehicle:            created,
		VerificationStatus: verification.Aggregate(created.Documents),
	})
}

func (h *DriversHandler) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	scope := user.ID
	if user.Role == models.RoleAdmin {
		scope = ""
	}
	vehicles, err := h.store.ListVehicles(r.Context(), scope)
	if err != nil {
		log.Printf("list vehicles: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	views := make([]vehicleView, 0, len(vehicles))
	for _, v := range vehicles {
		views = append(views, vehicleView{
			Vehicle:            v,
			VerificationStatus: verification.Aggregate(v.Documents),
		})
	}
	respond.JSON(w, http.StatusOK, "ok", views)
}
