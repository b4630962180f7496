package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nomadcabs/nomad-cabs-be/internal/http/respond"
	"github.com/nomadcabs/nomad-cabs-be/internal/middleware"
	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/ws"
)

// WSHandler upgrades driver connections into the notification hub.
type WSHandler struct {
	authmw *middleware.Authenticator
	hub    *ws.Hub
	up     websocket.Upgrader
}

// NewWSHandler constructs the handler.
func NewWSHandler(authmw *middleware.Authenticator, hub *ws.Hub) *WSHandler {
	return &WSHandler{
		authmw: authmw,
		hub:    hub,
		up: websocket.Upgrader{
			// Cross-origin policy is handled by the CORS middleware; the
			// upgrade itself accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Register attaches the websocket route to the mux.
func (h *WSHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/drivers", h.authmw.RequireRole(h.handleConnect, models.RoleDriver))
}

func (h *WSHandler) handleConnect(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.UserFrom(r.Context())

	// Only verified drivers may receive booking offers.
	if driver.Status != models.UserActive {
		respond.Error(w, http.StatusForbidden, "driver is not verified")
		return
	}

	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade for driver %s: %v", driver.ID, err)
		return
	}
	h.hub.Register(driver.ID, conn)
	defer func() {
		h.hub.Unregister(driver.ID, conn)
		conn.Close()
	}()

	// Drivers only receive messages; the read loop just detects disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
