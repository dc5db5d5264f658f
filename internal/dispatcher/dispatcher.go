// Package dispatcher delivers push notifications for matched alerts.
// Delivery is best effort: every failure is logged and swallowed.
package dispatcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/tunicar/vehicle-alerts/internal/models"
	"github.com/tunicar/vehicle-alerts/internal/util"
)

// TokenStore looks up a user's push token. An empty token with a nil error
// means the user has none registered.
type TokenStore interface {
	GetPushToken(ctx context.Context, userID string) (string, error)
}

// Pusher sends one addressed push message.
type Pusher interface {
	Push(ctx context.Context, msg models.PushMessage) error
}

type Options struct {
	Title    string
	Currency string
	// Timeout bounds token lookup plus send. Zero means no extra deadline.
	Timeout time.Duration
}

type Dispatcher struct {
	tokens TokenStore
	pusher Pusher
	opts   Options
}

func New(tokens TokenStore, pusher Pusher, opts Options) *Dispatcher {
	return &Dispatcher{tokens: tokens, pusher: pusher, opts: opts}
}

// Dispatch pushes n to userID's device. It never returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, n models.Notification) {
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	token, err := d.tokens.GetPushToken(ctx, userID)
	if err != nil {
		slog.Error("Push token lookup failed", "user", userID, "alert", n.AlertID, "error", err)
		return
	}
	if token == "" {
		slog.Info("No push token for user", "user", userID)
		return
	}

	if err := d.pusher.Push(ctx, d.Message(token, n)); err != nil {
		slog.Error("Push notification failed", "user", userID, "alert", n.AlertID, "vehicle", n.VehicleID, "error", err)
		return
	}
	slog.Info("Push notification sent", "user", userID, "alert", n.AlertID, "vehicle", n.VehicleID)
}

// Message builds the push payload for n addressed to token.
func (d *Dispatcher) Message(token string, n models.Notification) models.PushMessage {
	return models.PushMessage{
		Token: token,
		Title: d.opts.Title,
		Body:  n.VehicleTitle + " - " + util.FormatPrice(n.VehiclePrice) + " " + d.opts.Currency,
		Data: map[string]string{
			"vehicleId": n.VehicleID,
			"alertId":   n.AlertID,
			"type":      models.NotificationType,
		},
	}
}
