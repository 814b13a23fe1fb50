package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"converti/internal/config"
	"converti/internal/notifications"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newServer(t *testing.T, status int) (*httptest.Server, *[]captured) {
	t.Helper()
	var got []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte("topic rejected"))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyConversionFailed(context.Background(), "a.png", errors.New("boom")); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	srv, got := newServer(t, http.StatusOK)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyConversionSucceeded(ctx, "/tmp/photo.png", "/tmp/photo_converti.jpg", 1500*time.Millisecond); err != nil {
		t.Fatalf("success: %v", err)
	}
	if err := svc.NotifyConversionFailed(ctx, "/tmp/clip.mkv", errors.New("ffmpeg exited with code 1")); err != nil {
		t.Fatalf("failure: %v", err)
	}
	if err := svc.TestNotification(ctx); err != nil {
		t.Fatalf("test: %v", err)
	}

	if len(*got) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(*got))
	}
	success, failure, test := (*got)[0], (*got)[1], (*got)[2]
	if success.title != "converti - Success" || !strings.HasPrefix(success.body, "Conversion finished!") {
		t.Fatalf("unexpected success payload %+v", success)
	}
	if !strings.Contains(success.body, "photo.png -> photo_converti.jpg (1.5s)") {
		t.Fatalf("unexpected success body %q", success.body)
	}
	if failure.priority != "high" || failure.tags != "converti,error,alert" {
		t.Fatalf("unexpected failure headers %+v", failure)
	}
	if failure.body != "Error converting clip.mkv: ffmpeg exited with code 1" {
		t.Fatalf("unexpected failure body %q", failure.body)
	}
	if test.priority != "low" {
		t.Fatalf("unexpected test priority %q", test.priority)
	}
}

func TestNtfyServiceRespectsToggles(t *testing.T) {
	srv, got := newServer(t, http.StatusOK)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	cfg.Notifications.Success = false
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyConversionSucceeded(context.Background(), "a.png", "a.jpg", 0); err != nil {
		t.Fatal(err)
	}
	if len(*got) != 0 {
		t.Fatalf("expected success notification to be suppressed, got %d requests", len(*got))
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	srv, _ := newServer(t, http.StatusForbidden)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	svc := notifications.NewService(&cfg)

	err := svc.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
