// Package handler exposes the alert scan over HTTP: the Firestore
// vehicle-created event entry point and the manual test-alerts report.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tunicar/vehicle-alerts/internal/models"
	"github.com/tunicar/vehicle-alerts/internal/scanner"
	"github.com/tunicar/vehicle-alerts/internal/validator"
)

// Store is the read side the handlers need.
type Store interface {
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	FirstListing(ctx context.Context) (string, *models.Listing, error)
	ActiveAlerts(ctx context.Context) ([]models.AlertRule, error)
}

// Scanner runs the matching scan for one new listing.
type Scanner interface {
	Scan(ctx context.Context, vehicleID string, listing models.Listing) (scanner.Result, error)
}

type Handler struct {
	store       Store
	scanner     Scanner
	validator   *validator.Validator
	scanTimeout time.Duration
}

func New(store Store, s Scanner, v *validator.Validator, scanTimeout time.Duration) *Handler {
	return &Handler{store: store, scanner: s, validator: v, scanTimeout: scanTimeout}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events/vehicle-created", h.VehicleCreated)
	mux.HandleFunc("GET /test-alerts", h.TestAlerts)
	mux.HandleFunc("POST /test-alerts", h.TestAlerts)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// recoverJSON turns a panic inside a handler into a 500 JSON response.
func recoverJSON(w http.ResponseWriter) {
	if r := recover(); r != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("panic: %v", r))
	}
}
