package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/auth"
	"github.com/nomadcabs/nomad-cabs-be/internal/events"
	"github.com/nomadcabs/nomad-cabs-be/internal/middleware"
	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage/jsonfile"
	"github.com/nomadcabs/nomad-cabs-be/internal/ws"
)

// testEnv runs the full handler stack against a file store in a temp dir.
type testEnv struct {
	ts    *httptest.Server
	store storage.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := jsonfile.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	tokens := auth.NewTokenManager("test-secret", "nomad-cabs", time.Hour)
	authmw := middleware.NewAuthenticator(tokens, store)
	hub := ws.NewHub()

	mux := http.NewServeMux()
	NewHealthHandler(time.Now()).Register(mux)
	NewAuthHandler(store, tokens, authmw).Register(mux)
	NewBookingsHandler(store, authmw, hub, events.Noop{}).Register(mux)
	NewDriversHandler(store, authmw).Register(mux)
	NewAdminHandler(store, authmw).Register(mux)
	NewWSHandler(authmw, hub).Register(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, store: store}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a JSON request and returns the status code and envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func (e *testEnv) decode(t *testing.T, env envelope, dest any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode envelope data: %v", err)
	}
}

// register creates an account through the API and logs in, returning the
// user and a bearer token.
func (e *testEnv) register(t *testing.T, email, role string) (models.User, string) {
	t.Helper()

	status, env := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":      email,
		"password":   "sup3rsecret",
		"first_name": "Test",
		"last_name":  "User",
		"role":       role,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d (%s)", email, status, env.Message)
	}
	var user models.User
	e.decode(t, env, &user)

	status, env = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "sup3rsecret",
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d (%s)", email, status, env.Message)
	}
	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	e.decode(t, env, &login)
	if login.Token == "" {
		t.Fatalf("login %s returned no token", email)
	}
	return user, login.Token
}

// verifyDriver walks a driver through profile + vehicle submission and admin
// approval of all six documents.
func (e *testEnv) verifyDriver(t *testing.T, driverID, driverToken, adminToken string) {
	t.Helper()

	status, env := e.do(t, http.MethodPost, "/drivers/profile", driverToken, map[string]string{
		"license_number": "DL-042",
		"aadhar_number":  "1234-5678-9012",
		"pan_number":     "ABCDE1234F",
	})
	if status != http.StatusCreated {
		t.Fatalf("submit profile: status %d (%s)", status, env.Message)
	}
	status, env = e.do(t, http.MethodPost, "/vehicles", driverToken, map[string]string{
		"vehicle_type":        "sedan",
		"registration_number": "KA-01-AB-1234",
		"model":               "Dzire",
		"rc_number":           "RC-1",
		"puc_number":          "PUC-1",
		"insurance_number":    "INS-1",
	})
	if status != http.StatusCreated {
		t.Fatalf("register vehicle: status %d (%s)", status, env.Message)
	}

	for _, docType := range []string{"aadhar", "pan", "license", "rc", "puc", "insurance"} {
		path := fmt.Sprintf("/admin/drivers/%s/documents/%s", driverID, docType)
		status, env = e.do(t, http.MethodPut, path, adminToken, map[string]any{"verified": true})
		if status != http.StatusOK {
			t.Fatalf("verify %s: status %d (%s)", docType, status, env.Message)
		}
	}
}
