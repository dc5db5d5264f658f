package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tunicar/vehicle-alerts/internal/matcher"
	"github.com/tunicar/vehicle-alerts/internal/storage"
)

type testAlertsResponse struct {
	Success       bool              `json:"success"`
	VehicleID     string            `json:"vehicleId"`
	AlertsChecked int               `json:"alertsChecked"`
	Results       []alertTestResult `json:"results"`
}

type alertTestResult struct {
	AlertID    string         `json:"alertId"`
	AlertTitle string         `json:"alertTitle"`
	Matches    bool           `json:"matches"`
	Vehicle    vehicleSummary `json:"vehicle"`
}

type vehicleSummary struct {
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Price float64 `json:"price"`
	Year  int     `json:"year"`
}

// TestAlerts evaluates every active alert against one stored listing and
// reports the outcome. Nothing is written.
func (h *Handler) TestAlerts(w http.ResponseWriter, r *http.Request) {
	defer recoverJSON(w)
	ctx := r.Context()

	vehicleID, listing, err := h.store.FirstListing(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, errors.New("no vehicle found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	rules, err := h.store.ActiveAlerts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to fetch active alerts: %w", err))
		return
	}

	summary := vehicleSummary{Brand: listing.Brand, Model: listing.Model, Price: listing.Price, Year: listing.Year}
	results := make([]alertTestResult, 0, len(rules))
	for _, rule := range rules {
		matched := matcher.Matches(*listing, rule)
		if slog.Default().Enabled(ctx, slog.LevelDebug) {
			rep := matcher.Explain(*listing, rule)
			slog.Debug("Test alert", "alert", rule.ID, "matched", matched, "failedAt", rep.FailedAt, "checks", rep.Checks)
		}
		results = append(results, alertTestResult{
			AlertID:    rule.ID,
			AlertTitle: rule.Title,
			Matches:    matched,
			Vehicle:    summary,
		})
	}

	writeJSON(w, http.StatusOK, testAlertsResponse{
		Success:       true,
		VehicleID:     vehicleID,
		AlertsChecked: len(rules),
		Results:       results,
	})
}
