package scanner

import (
	"context"

	"github.com/tunicar/vehicle-alerts/internal/models"
)

// AlertStore abstracts the storage layer for alert rules and notifications.
type AlertStore interface {
	ActiveAlerts(ctx context.Context) ([]models.AlertRule, error)
	// CommitMatches atomically creates the notifications and bumps their
	// alerts' counters, returning the notifications actually created.
	CommitMatches(ctx context.Context, notifications []models.Notification) ([]models.Notification, error)
}

// Dispatcher delivers one notification. It must not fail the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, n models.Notification)
}
