package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tunicar/vehicle-alerts/internal/models"
)

// VehiclesCollection holds the listings that trigger scans.
const VehiclesCollection = "vehicles"

const (
	alertsCollection        = "alerts"
	notificationsCollection = "notifications"
	tokensCollection        = "fcm_tokens"
)

// ErrNotFound is returned when a requested listing does not exist.
var ErrNotFound = errors.New("not found")

type Client struct {
	client *firestore.Client
}

func New(ctx context.Context, projectID string) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// GetListing retrieves a vehicle by its document ID.
func (c *Client) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	doc, err := c.client.Collection(VehiclesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle %s: %w", id, err)
	}

	var listing models.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vehicle %s: %w", id, err)
	}
	return &listing, nil
}

// FirstListing returns any one vehicle and its ID.
func (c *Client) FirstListing(ctx context.Context) (string, *models.Listing, error) {
	iter := c.client.Collection(VehiclesCollection).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to query vehicles: %w", err)
	}

	var listing models.Listing
	if err := doc.DataTo(&listing); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal vehicle %s: %w", doc.Ref.ID, err)
	}
	return doc.Ref.ID, &listing, nil
}

// ActiveAlerts returns every alert with isActive == true, in query order.
// Alerts whose fields cannot be decoded are logged and left out.
func (c *Client) ActiveAlerts(ctx context.Context) ([]models.AlertRule, error) {
	iter := c.client.Collection(alertsCollection).Where("isActive", "==", true).Documents(ctx)
	defer iter.Stop()

	var rules []models.AlertRule
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query active alerts: %w", err)
		}

		var rule models.AlertRule
		if err := doc.DataTo(&rule); err != nil {
			slog.Warn("Skipping malformed alert", "id", doc.Ref.ID, "error", err)
			continue
		}
		rule.ID = doc.Ref.ID
		rules = append(rules, rule)
	}
	return rules, nil
}

// GetPushToken returns the user's registered FCM token, or "" if there is none.
func (c *Client) GetPushToken(ctx context.Context, userID string) (string, error) {
	doc, err := c.client.Collection(tokensCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to get push token for %s: %w", userID, err)
	}

	var tok models.PushToken
	if err := doc.DataTo(&tok); err != nil {
		return "", fmt.Errorf("failed to unmarshal push token for %s: %w", userID, err)
	}
	return tok.Token, nil
}

// CommitMatches writes one notification per match and bumps the matched
// alerts' counters in a single transaction. Notifications that already exist
// (a redelivered event) are skipped together with their counter update. It
// returns the notifications actually created.
func (c *Client) CommitMatches(ctx context.Context, notifications []models.Notification) ([]models.Notification, error) {
	if len(notifications) == 0 {
		return nil, nil
	}

	refs := make([]*firestore.DocumentRef, len(notifications))
	for i, n := range notifications {
		refs[i] = c.client.Collection(notificationsCollection).Doc(models.NotificationID(n.VehicleID, n.AlertID))
	}

	var created []models.Notification
	err := c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// The function may be re-run on contention.
		created = created[:0]

		snaps, err := tx.GetAll(refs)
		if err != nil {
			return fmt.Errorf("failed to read existing notifications: %w", err)
		}

		for i, n := range notifications {
			if snaps[i].Exists() {
				slog.Info("Notification already exists, skipping", "id", refs[i].ID)
				continue
			}
			if err := tx.Create(refs[i], n); err != nil {
				return fmt.Errorf("failed to queue notification %s: %w", refs[i].ID, err)
			}
			alertRef := c.client.Collection(alertsCollection).Doc(n.AlertID)
			if err := tx.Update(alertRef, []firestore.Update{
				{Path: "lastTriggered", Value: firestore.ServerTimestamp},
				{Path: "triggeredCount", Value: firestore.Increment(1)},
			}); err != nil {
				return fmt.Errorf("failed to queue counter update for alert %s: %w", n.AlertID, err)
			}
			created = append(created, n)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit matches: %w", err)
	}
	return created, nil
}
