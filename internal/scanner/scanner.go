// Package scanner evaluates active alert rules against a newly created
// listing and records the matches.
package scanner

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tunicar/vehicle-alerts/internal/matcher"
	"github.com/tunicar/vehicle-alerts/internal/models"
)

// Result summarizes one scan.
type Result struct {
	Success            bool   `json:"success"`
	NotificationsCount int    `json:"notificationsCount"`
	SkippedDuplicates  int    `json:"skippedDuplicates,omitempty"`
	Error              string `json:"error,omitempty"`
}

type Scanner struct {
	store       AlertStore
	dispatcher  Dispatcher
	concurrency int
}

// New creates a Scanner. concurrency caps in-flight deliveries per scan.
func New(store AlertStore, d Dispatcher, concurrency int) *Scanner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scanner{store: store, dispatcher: d, concurrency: concurrency}
}

// Scan matches listing against every active rule. All notifications and
// counter updates are committed in one transaction; deliveries start only
// after that commit succeeds. A store failure is returned as an error and
// nothing is delivered.
func (s *Scanner) Scan(ctx context.Context, vehicleID string, listing models.Listing) (Result, error) {
	slog.Info("New vehicle", "id", vehicleID, "brand", listing.Brand, "model", listing.Model, "price", listing.Price)

	rules, err := s.store.ActiveAlerts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch active alerts: %w", err)
	}
	slog.Info("Active alerts", "count", len(rules))
	if len(rules) == 0 {
		return Result{Success: true}, nil
	}

	var matched []models.Notification
	for _, rule := range rules {
		if !matcher.Matches(listing, rule) {
			logNoMatch(ctx, vehicleID, listing, rule)
			continue
		}
		slog.Info("Alert matched", "alert", rule.ID, "title", rule.Title, "vehicle", vehicleID)
		matched = append(matched, models.NewNotification(vehicleID, listing, rule))
	}

	created, err := s.store.CommitMatches(ctx, matched)
	if err != nil {
		return Result{}, err
	}

	s.deliver(ctx, created)

	res := Result{
		Success:            true,
		NotificationsCount: len(created),
		SkippedDuplicates:  len(matched) - len(created),
	}
	slog.Info("Scan finished", "vehicle", vehicleID, "notifications", res.NotificationsCount, "skipped", res.SkippedDuplicates)
	return res, nil
}

// deliver fans notifications out to the dispatcher and waits for all of them.
// Dispatch swallows its own errors, so nothing here can fail the scan.
// The notifications are already committed, so cancelling the scan does not
// cancel their pushes; each Dispatch applies its own timeout.
func (s *Scanner) deliver(ctx context.Context, notifications []models.Notification) {
	if len(notifications) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, n := range notifications {
		n := n
		g.Go(func() error {
			s.dispatcher.Dispatch(ctx, n.UserID, n)
			return nil
		})
	}
	_ = g.Wait()
}

func logNoMatch(ctx context.Context, vehicleID string, listing models.Listing, rule models.AlertRule) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Info("Alert did not match", "alert", rule.ID, "title", rule.Title)
		return
	}
	rep := matcher.Explain(listing, rule)
	slog.Debug("Alert did not match",
		"alert", rule.ID,
		"title", rule.Title,
		"vehicle", vehicleID,
		"failedAt", rep.FailedAt,
		"checks", rep.Checks,
	)
}
