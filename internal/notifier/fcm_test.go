package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/time/rate"
	"google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"

	"github.com/tunicar/vehicle-alerts/internal/models"
)

func newTestFCM(t *testing.T, srv *httptest.Server) *FCM {
	t.Helper()
	c, err := NewFCM(context.Background(), "test-project", 100,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewFCM() error = %v", err)
	}
	// Override rate limiter for tests to run fast
	c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestFCM_Push(t *testing.T) {
	var got fcm.SendMessageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/v1/projects/test-project/messages:send" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "projects/test-project/messages/0:123"}`))
	}))
	defer server.Close()

	c := newTestFCM(t, server)
	msg := models.PushMessage{
		Token: "device-token",
		Title: "🚗 Nouvelle annonce !",
		Body:  "Toyota Corolla - 15000 TND",
		Data: map[string]string{
			"vehicleId": "v1",
			"alertId":   "a1",
			"type":      models.NotificationType,
		},
	}

	if err := c.Push(context.Background(), msg); err != nil {
		t.Fatalf("Push() returned error: %v", err)
	}

	if got.Message == nil {
		t.Fatal("request carried no message")
	}
	if got.Message.Token != "device-token" {
		t.Errorf("Token = %q, want device-token", got.Message.Token)
	}
	if got.Message.Notification == nil || got.Message.Notification.Title != msg.Title || got.Message.Notification.Body != msg.Body {
		t.Errorf("Notification = %+v, want title %q body %q", got.Message.Notification, msg.Title, msg.Body)
	}
	if diff := cmp.Diff(msg.Data, got.Message.Data); diff != "" {
		t.Errorf("Data mismatch (-want +got):\n%s", diff)
	}
}

func TestFCM_Push_Error(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"code": 404, "message": "Requested entity was not found.", "status": "NOT_FOUND"}}`))
	}))
	defer server.Close()

	c := newTestFCM(t, server)
	err := c.Push(context.Background(), models.PushMessage{Token: "stale"})
	if err == nil {
		t.Fatal("Push() should return error for 404 response")
	}
	if n := atomic.LoadInt32(&attempts); n != 1 {
		t.Errorf("Expected 1 attempt (no retry), got %d", n)
	}
}

func TestFCM_Push_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected with a cancelled context")
	}))
	defer server.Close()

	c := newTestFCM(t, server)
	c.rateLimiter = rate.NewLimiter(rate.Every(1e12), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Push(ctx, models.PushMessage{Token: "t"}); err == nil {
		t.Error("Push() should fail when the limiter cannot admit the request")
	}
}

func TestLogPusher(t *testing.T) {
	if err := (LogPusher{}).Push(context.Background(), models.PushMessage{Title: "t"}); err != nil {
		t.Errorf("LogPusher.Push() error = %v", err)
	}
}
