package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nomadcabs/nomad-cabs-be/internal/booking"
	"github.com/nomadcabs/nomad-cabs-be/internal/events"
	"github.com/nomadcabs/nomad-cabs-be/internal/fare"
	"github.com/nomadcabs/nomad-cabs-be/internal/http/respond"
	"github.com/nomadcabs/nomad-cabs-be/internal/middleware"
	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/models/dto"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
	"github.com/nomadcabs/nomad-cabs-be/internal/ws"
)

var errForbidden = errors.New("not allowed for this account")

// BookingsHandler owns the booking lifecycle endpoints.
type BookingsHandler struct {
	store  storage.Store
	authmw *middleware.Authenticator
	hub    *ws.Hub
	events events.Publisher
}

// NewBookingsHandler constructs the handler.
func NewBookingsHandler(store storage.Store, authmw *middleware.Authenticator, hub *ws.Hub, pub events.Publisher) *BookingsHandler {
	return &BookingsHandler{store: store, authmw: authmw, hub: hub, events: pub}
}

// Register attaches booking routes to the mux.
func (h *BookingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /bookings", h.authmw.RequireRole(h.handleCreate, models.RoleRider))
	mux.HandleFunc("GET /bookings", h.authmw.Require(h.handleList))
	mux.HandleFunc("GET /bookings/{id}", h.authmw.Require(h.handleGet))
	mux.HandleFunc("PUT /bookings/{id}/status", h.authmw.Require(h.handleUpdateStatus))
}

func (h *BookingsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	rider, _ := middleware.UserFrom(r.Context())

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.PickupAddress) == "" || strings.TrimSpace(req.DropoffAddress) == "" {
		respond.Error(w, http.StatusBadRequest, "pickup and dropoff addresses are required")
		return
	}
	if !models.ValidVehicleType(req.VehicleType) {
		respond.Error(w, http.StatusBadRequest, "unknown vehicle type")
		return
	}

	// The vehicle type is chosen at creation, so the fare is fixed here.
	breakdown := fare.Calculate(req.DistanceKm, req.VehicleType)
	now := time.Now().UTC()
	b := models.Booking{
		ID:             uuid.NewString(),
		RiderID:        rider.ID,
		PickupAddress:  strings.TrimSpace(req.PickupAddress),
		DropoffAddress: strings.TrimSpace(req.DropoffAddress),
		ScheduledDate:  strings.TrimSpace(req.ScheduledDate),
		ScheduledTime:  strings.TrimSpace(req.ScheduledTime),
		VehicleType:    req.VehicleType,
		DistanceKm:     req.DistanceKm,
		PaymentMethod:  strings.TrimSpace(req.PaymentMethod),
		Fare:           &breakdown,
		Status:         models.BookingPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := h.store.CreateBooking(r.Context(), b)
	if err != nil {
		log.Printf("create booking: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	h.events.BookingCreated(r.Context(), created)
	h.hub.Broadcast(ws.Message{Type: "booking_offer", Data: created})

	respond.JSON(w, http.StatusCreated, "booking created", created)
}

// handleList scopes results server-side: riders see their own bookings,
// drivers see the open pending pool plus rides bound to them, admins see
// everything. An optional ?status= filter applies on top.
func (h *BookingsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	status := models.BookingStatus(r.URL.Query().Get("status"))
	if status != "" && !models.ValidBookingStatus(status) {
		respond.Error(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	var (
		list []models.Booking
		err  error
	)
	switch user.Role {
	case models.RoleRider:
		list, err = h.store.ListBookings(r.Context(), storage.BookingFilter{RiderID: user.ID, Status: status})
	case models.RoleDriver:
		list, err = h.listForDriver(r, user, status)
	default:
		list, err = h.store.ListBookings(r.Context(), storage.BookingFilter{Status: status})
	}
	if err != nil {
		log.Printf("list bookings: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", list)
}

func (h *BookingsHandler) listForDriver(r *http.Request, user models.User, status models.BookingStatus) ([]models.Booking, error) {
	own, err := h.store.ListBookings(r.Context(), storage.BookingFilter{DriverID: user.ID, Status: status})
	if err != nil {
		return nil, err
	}
	if status != "" && status != models.BookingPending {
		return own, nil
	}
	pool, err := h.store.ListBookings(r.Context(), storage.BookingFilter{
		Status:         models.BookingPending,
		UnassignedOnly: true,
	})
	if err != nil {
		return nil, err
	}
	return append(pool, own...), nil
}

func (h *BookingsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	b, err := h.store.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.StoreError(w, err, "booking not found")
		return
	}
	if !canView(user, b) {
		respond.Error(w, http.StatusForbidden, "not allowed for this account")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", b)
}

func canView(user models.User, b models.Booking) bool {
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleRider:
		return b.RiderID == user.ID
	case models.RoleDriver:
		if b.DriverID != nil {
			return *b.DriverID == user.ID
		}
		// Unassigned pending bookings are visible to drivers as open offers.
		return b.Status == models.BookingPending
	}
	return false
}

func (h *BookingsHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	id := r.PathValue("id")

	var req dto.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	target := models.BookingStatus(req.Status)
	if !models.ValidBookingStatus(target) {
		respond.Error(w, http.StatusBadRequest, "unknown booking status")
		return
	}

	var prior models.BookingStatus
	updated, err := h.store.UpdateBooking(r.Context(), id, func(b *models.Booking) error {
		// Authorization runs inside the store's write boundary so it judges
		// the booking's current state, not a stale read.
		if err := authorizeTransition(user, *b, target); err != nil {
			return err
		}
		prior = b.Status
		var driverID *string
		if user.Role == models.RoleDriver {
			driverID = &user.ID
		}
		return booking.Apply(b, target, driverID, time.Now().UTC())
	})
	if err != nil {
		switch {
		case errors.Is(err, errForbidden):
			respond.Error(w, http.StatusForbidden, err.Error())
		case errors.Is(err, booking.ErrDriverRequired):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			respond.StoreError(w, err, "booking not found")
		}
		return
	}

	if prior != updated.Status {
		h.events.BookingStatusChanged(r.Context(), updated)
		h.notifyDriver(updated)
		if updated.Status == models.BookingCompleted {
			h.settle(r, updated)
		}
	}

	respond.JSON(w, http.StatusOK, "booking updated", updated)
}

// authorizeTransition enforces who may move a booking where: riders may only
// cancel their own rides, drivers accept open bookings and drive their own,
// admins may do anything the state machine allows.
func authorizeTransition(user models.User, b models.Booking, target models.BookingStatus) error {
	switch user.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleRider:
		if b.RiderID != user.ID || target != models.BookingCancelled {
			return errForbidden
		}
		return nil
	case models.RoleDriver:
		if target == models.BookingAccepted {
			// Only verified (active) drivers may accept, and never a booking
			// already bound to someone else.
			if user.Status != models.UserActive {
				return errForbidden
			}
			if b.DriverID != nil && *b.DriverID != user.ID {
				return errForbidden
			}
			return nil
		}
		if b.DriverID == nil || *b.DriverID != user.ID {
			return errForbidden
		}
		return nil
	}
	return errForbidden
}

// settle writes the one-time transaction for a completed booking.
func (h *BookingsHandler) settle(r *http.Request, b models.Booking) {
	if b.Fare == nil || b.DriverID == nil {
		log.Printf("settle booking %s: missing fare or driver", b.ID)
		return
	}
	tx := models.Transaction{
		ID:            uuid.NewString(),
		BookingID:     b.ID,
		RiderID:       b.RiderID,
		DriverID:      *b.DriverID,
		Amount:        b.Fare.Total,
		Commission:    b.Fare.PlatformFee,
		DriverEarning: b.Fare.Total - b.Fare.PlatformFee,
		PaymentMethod: b.PaymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := h.store.CreateTransaction(r.Context(), tx); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		log.Printf("settle booking %s: %v", b.ID, err)
	}
}

func (h *BookingsHandler) notifyDriver(b models.Booking) {
	if b.DriverID == nil {
		return
	}
	switch b.Status {
	case models.BookingCancelled:
		h.hub.SendToDriver(*b.DriverID, ws.Message{Type: "booking_cancelled", Data: b})
	case models.BookingAccepted:
		h.hub.SendToDriver(*b.DriverID, ws.Message{Type: "booking_assigned", Data: b})
	}
}
