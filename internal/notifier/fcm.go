package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
	"google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"

	"github.com/tunicar/vehicle-alerts/internal/models"
)

// FCM sends push messages through the Firebase Cloud Messaging HTTP v1 API.
type FCM struct {
	parent      string
	service     *fcm.Service
	rateLimiter *rate.Limiter
}

// NewFCM creates a client for projectID. Sends are throttled to ratePerSec.
// opts are passed to the underlying service, e.g. option.WithEndpoint for an
// emulator.
func NewFCM(ctx context.Context, projectID string, ratePerSec float64, opts ...option.ClientOption) (*FCM, error) {
	svc, err := fcm.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("fcm.NewService: %w", err)
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &FCM{
		parent:      "projects/" + projectID,
		service:     svc,
		rateLimiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}, nil
}

// Push sends msg to its token and returns the FCM error, if any.
func (c *FCM) Push(ctx context.Context, msg models.PushMessage) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token: msg.Token,
			Notification: &fcm.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		},
	}
	resp, err := c.service.Projects.Messages.Send(c.parent, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	slog.Debug("FCM message accepted", "name", resp.Name)
	return nil
}

// LogPusher only logs messages. It stands in for FCM when pushes are disabled.
type LogPusher struct{}

func (LogPusher) Push(_ context.Context, msg models.PushMessage) error {
	slog.Info("Push disabled, not sending", "title", msg.Title, "body", msg.Body, "data", msg.Data)
	return nil
}
