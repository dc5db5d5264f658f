package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tunicar/vehicle-alerts/internal/models"
)

func TestErrNotFound(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped ErrNotFound should still match errors.Is")
	}
}

func TestNotificationID(t *testing.T) {
	tests := []struct {
		vehicleID, alertID, want string
	}{
		{"v1", "a1", "v1_a1"},
		{"abc", "xyz", "abc_xyz"},
	}
	for _, tt := range tests {
		if got := models.NotificationID(tt.vehicleID, tt.alertID); got != tt.want {
			t.Errorf("NotificationID(%q, %q) = %q, want %q", tt.vehicleID, tt.alertID, got, tt.want)
		}
	}

	// Same pair always maps to the same document.
	if models.NotificationID("v1", "a1") != models.NotificationID("v1", "a1") {
		t.Error("NotificationID should be deterministic")
	}
}
