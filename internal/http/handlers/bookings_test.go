package handlers

import (
	"net/http"
	"testing"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

func createBooking(t *testing.T, env *testEnv, riderToken string) models.Booking {
	t.Helper()
	status, body := env.do(t, http.MethodPost, "/bookings", riderToken, map[string]any{
		"pickup_address":  "MG Road",
		"dropoff_address": "Airport",
		"vehicle_type":    "sedan",
		"distance_km":     5,
		"payment_method":  "cash",
	})
	if status != http.StatusCreated {
		t.Fatalf("create booking: status %d (%s)", status, body.Message)
	}
	var b models.Booking
	env.decode(t, body, &b)
	return b
}

func setStatus(t *testing.T, env *testEnv, token, bookingID, status string) (int, envelope) {
	t.Helper()
	return env.do(t, http.MethodPut, "/bookings/"+bookingID+"/status", token,
		map[string]string{"status": status})
}

func TestCreateBookingStartsPending(t *testing.T) {
	env := newTestEnv(t)
	rider, riderToken := env.register(t, "rider@example.com", models.RoleRider)

	b := createBooking(t, env, riderToken)

	if b.Status != models.BookingPending {
		t.Fatalf("new booking status = %s, want pending", b.Status)
	}
	if b.DriverID != nil {
		t.Fatalf("new booking has a driver bound: %s", *b.DriverID)
	}
	if b.RiderID != rider.ID {
		t.Fatalf("booking owner = %s, want %s", b.RiderID, rider.ID)
	}
	if b.Fare == nil {
		t.Fatal("fare not computed at creation")
	}
	if b.Fare.Total != 248 || b.Fare.PlatformFee != 23 {
		t.Fatalf("sedan 5km fare = %+v", *b.Fare)
	}
}

func TestBookingLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, riderToken := env.register(t, "rider@example.com", models.RoleRider)
	driver, driverToken := env.register(t, "driver@example.com", models.RoleDriver)
	_, adminToken := env.register(t, "admin@example.com", models.RoleAdmin)

	env.verifyDriver(t, driver.ID, driverToken, adminToken)

	// Verification flips the driver to active.
	status, body := env.do(t, http.MethodGet, "/auth/me", driverToken, nil)
	if status != http.StatusOK {
		t.Fatalf("/auth/me: %d", status)
	}
	var me models.User
	env.decode(t, body, &me)
	if me.Status != models.UserActive {
		t.Fatalf("verified driver status = %s, want active", me.Status)
	}

	b := createBooking(t, env, riderToken)

	status, body = setStatus(t, env, driverToken, b.ID, "accepted")
	if status != http.StatusOK {
		t.Fatalf("accept: status %d (%s)", status, body.Message)
	}
	var accepted models.Booking
	env.decode(t, body, &accepted)
	if accepted.DriverID == nil || *accepted.DriverID != driver.ID {
		t.Fatalf("accept did not bind driver: %+v", accepted.DriverID)
	}
	if accepted.AcceptedAt == nil {
		t.Fatal("AcceptedAt not stamped")
	}

	if status, body = setStatus(t, env, driverToken, b.ID, "in_progress"); status != http.StatusOK {
		t.Fatalf("start ride: status %d (%s)", status, body.Message)
	}
	if status, body = setStatus(t, env, driverToken, b.ID, "completed"); status != http.StatusOK {
		t.Fatalf("complete ride: status %d (%s)", status, body.Message)
	}

	// Completion settles exactly once, commission = platform fee.
	status, body = env.do(t, http.MethodGet, "/admin/transactions", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list transactions: %d", status)
	}
	var txs []models.Transaction
	env.decode(t, body, &txs)
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	tx := txs[0]
	if tx.BookingID != b.ID || tx.Amount != 248 || tx.Commission != 23 || tx.DriverEarning != 225 {
		t.Fatalf("unexpected settlement: %+v", tx)
	}

	// A repeated completed PUT is a no-op and must not settle again.
	if status, body = setStatus(t, env, driverToken, b.ID, "completed"); status != http.StatusOK {
		t.Fatalf("repeat complete: status %d (%s)", status, body.Message)
	}
	status, body = env.do(t, http.MethodGet, "/admin/transactions", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list transactions: %d", status)
	}
	txs = nil
	env.decode(t, body, &txs)
	if len(txs) != 1 {
		t.Fatalf("repeat completion settled again: %d transactions", len(txs))
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.register(t, "admin@example.com", models.RoleAdmin)

	status, body := setStatus(t, env, adminToken, "no-such-booking", "cancelled")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d (%s), want 404", status, body.Message)
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	env := newTestEnv(t)
	_, riderToken := env.register(t, "rider@example.com", models.RoleRider)
	_, adminToken := env.register(t, "admin@example.com", models.RoleAdmin)

	b := createBooking(t, env, riderToken)

	status, body := setStatus(t, env, adminToken, b.ID, "completed")
	if status != http.StatusConflict {
		t.Fatalf("pending->completed status = %d (%s), want 409", status, body.Message)
	}
}

func TestUnverifiedDriverCannotAccept(t *testing.T) {
	env := newTestEnv(t)
	_, riderToken := env.register(t, "rider@example.com", models.RoleRider)
	_, driverToken := env.register(t, "driver@example.com", models.RoleDriver)

	b := createBooking(t, env, riderToken)

	status, body := setStatus(t, env, driverToken, b.ID, "accepted")
	if status != http.StatusForbidden {
		t.Fatalf("pending driver accept status = %d (%s), want 403", status, body.Message)
	}
}

func TestRiderMayOnlyCancel(t *testing.T) {
	env := newTestEnv(t)
	_, riderToken := env.register(t, "rider@example.com", models.RoleRider)
	_, otherToken := env.register(t, "other@example.com", models.RoleRider)

	b := createBooking(t, env, riderToken)

	if status, _ := setStatus(t, env, riderToken, b.ID, "accepted"); status != http.StatusForbidden {
		t.Fatalf("rider accept status = %d, want 403", status)
	}
	if status, _ := setStatus(t, env, otherToken, b.ID, "cancelled"); status != http.StatusForbidden {
		t.Fatalf("foreign cancel status = %d, want 403", status)
	}

	status, body := setStatus(t, env, riderToken, b.ID, "cancelled")
	if status != http.StatusOK {
		t.Fatalf("own cancel status = %d (%s)", status, body.Message)
	}
	var cancelled models.Booking
	env.decode(t, body, &cancelled)
	if cancelled.Status != models.BookingCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("cancel not applied: %+v", cancelled)
	}
}

func TestListBookingsScoping(t *testing.T) {
	env := newTestEnv(t)
	_, riderToken := env.register(t, "rider@example.com", models.RoleRider)
	_, otherToken := env.register(t, "other@example.com", models.RoleRider)
	_, adminToken := env.register(t, "admin@example.com", models.RoleAdmin)

	createBooking(t, env, riderToken)
	createBooking(t, env, riderToken)
	createBooking(t, env, otherToken)

	var list []models.Booking

	status, body := env.do(t, http.MethodGet, "/bookings", riderToken, nil)
	if status != http.StatusOK {
		t.Fatalf("rider list: %d", status)
	}
	env.decode(t, body, &list)
	if len(list) != 2 {
		t.Fatalf("rider sees %d bookings, want 2", len(list))
	}

	status, body = env.do(t, http.MethodGet, "/bookings", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("admin list: %d", status)
	}
	list = nil
	env.decode(t, body, &list)
	if len(list) != 3 {
		t.Fatalf("admin sees %d bookings, want 3", len(list))
	}
}

func TestGetBookingAccessControl(t *testing.T) {
	env := newTestEnv(t)
	_, riderToken := env.register(t, "rider@example.com", models.RoleRider)
	_, otherToken := env.register(t, "other@example.com", models.RoleRider)

	b := createBooking(t, env, riderToken)

	if status, _ := env.do(t, http.MethodGet, "/bookings/"+b.ID, riderToken, nil); status != http.StatusOK {
		t.Fatalf("owner get status = %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/bookings/"+b.ID, otherToken, nil); status != http.StatusForbidden {
		t.Fatalf("foreign get status = %d, want 403", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/bookings/missing", riderToken, nil); status != http.StatusNotFound {
		t.Fatalf("missing get status = %d, want 404", status)
	}
}
