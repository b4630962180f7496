package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/http/respond"
	"github.com/nomadcabs/nomad-cabs-be/internal/middleware"
	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/models/dto"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
	"github.com/nomadcabs/nomad-cabs-be/internal/verification"
)

// AdminHandler owns the admin-only management endpoints.
type AdminHandler struct {
	store  storage.Store
	authmw *middleware.Authenticator
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(store storage.Store, authmw *middleware.Authenticator) *AdminHandler {
	return &AdminHandler{store: store, authmw: authmw}
}

// Register attaches admin routes to the mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/users", h.authmw.RequireRole(h.handleListUsers, models.RoleAdmin))
	mux.HandleFunc("PUT /admin/users/{id}/status", h.authmw.RequireRole(h.handleUpdateUserStatus, models.RoleAdmin))
	mux.HandleFunc("PUT /admin/drivers/{id}/documents/{type}", h.authmw.RequireRole(h.handleReviewDocument, models.RoleAdmin))
	mux.HandleFunc("GET /admin/transactions", h.authmw.RequireRole(h.handleListTransactions, models.RoleAdmin))
}

func (h *AdminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", users)
}

func (h *AdminHandler) handleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	status := models.UserStatus(req.Status)
	if !models.ValidUserStatus(status) {
		respond.Error(w, http.StatusBadRequest, "unknown user status")
		return
	}

	user, err := h.store.UpdateUserStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		respond.StoreError(w, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "status updated", user)
}

// handleReviewDocument approves or rejects one document of a driver's
// profile or of one of their vehicles, then re-derives the driver's overall
// verification and activates the account when everything is verified.
func (h *AdminHandler) handleReviewDocument(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("id")
	docType := r.PathValue("type")

	var req dto.DocumentReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	now := time.Now().UTC()
	reviewed, err := h.applyReview(r, driverID, docType, req, now)
	if err != nil {
		if errors.Is(err, verification.ErrUnknownDocument) || errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "document not found")
			return
		}
		log.Printf("review document %s/%s: %v", driverID, docType, err)
		respond.Error(w, http.StatusInternalServerError, "failed to review document")
		return
	}

	if err := h.refreshDriverStatus(r, driverID); err != nil {
		log.Printf("refresh driver status %s: %v", driverID, err)
	}

	respond.JSON(w, http.StatusOK, "document reviewed", reviewed)
}

func (h *AdminHandler) applyReview(r *http.Request, driverID, docType string, req dto.DocumentReviewRequest, now time.Time) (any, error) {
	profile, err := h.store.GetDriverProfile(r.Context(), driverID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		if reviewErr := verification.Review(profile.Documents, docType, req.Verified, req.Remark, now); reviewErr == nil {
			profile.UpdatedAt = now
			saved, err := h.store.UpsertDriverProfile(r.Context(), profile)
			if err != nil {
				return nil, err
			}
			return profileView{DriverProfile: saved, VerificationStatus: verification.Aggregate(saved.Documents)}, nil
		}
	}

	vehicles, err := h.store.ListVehicles(r.Context(), driverID)
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		if reviewErr := verification.Review(v.Documents, docType, req.Verified, req.Remark, now); reviewErr != nil {
			continue
		}
		v.UpdatedAt = now
		saved, err := h.store.UpdateVehicle(r.Context(), v)
		if err != nil {
			return nil, err
		}
		return vehicleView{Vehicle: saved, VerificationStatus: verification.Aggregate(saved.Documents)}, nil
	}
	return nil, verification.ErrUnknownDocument
}

// refreshDriverStatus activates a pending driver once their profile and
// every vehicle aggregate to verified.
func (h *AdminHandler) refreshDriverStatus(r *http.Request, driverID string) error {
	user, err := h.store.GetUser(r.Context(), driverID)
	if err != nil || user.Role != models.RoleDriver {
		return err
	}
	if user.Status != models.UserPendingVerification {
		return nil
	}

	profile, err := h.store.GetDriverProfile(r.Context(), driverID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if verification.Aggregate(profile.Documents) != models.DocumentVerified {
		return nil
	}

	vehicles, err := h.store.ListVehicles(r.Context(), driverID)
	if err != nil {
		return err
	}
	if len(vehicles) == 0 {
		return nil
	}
	for _, v := range vehicles {
		if verification.Aggregate(v.Documents) != models.DocumentVerified {
			return nil
		}
	}

	_, err = h.store.UpdateUserStatus(r.Context(), driverID, models.UserActive)
	return err
}

func (h *AdminHandler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.store.ListTransactions(r.Context())
	if err != nil {
		log.Printf("list transactions: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", txs)
}
