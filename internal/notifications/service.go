package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"converti/internal/config"
)

const userAgent = "converti/0.1.0"

// Service defines the notification surface exposed to the job runner.
type Service interface {
	NotifyConversionSucceeded(ctx context.Context, inputPath, outputPath string, elapsed time.Duration) error
	NotifyConversionFailed(ctx context.Context, inputPath string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		success:  cfg.Notifications.Success,
		failure:  cfg.Notifications.Failure,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	success  bool
	failure  bool
}

func (n *ntfyService) NotifyConversionSucceeded(ctx context.Context, inputPath, outputPath string, elapsed time.Duration) error {
	if !n.success {
		return nil
	}
	elapsed = elapsed.Round(100 * time.Millisecond)
	message := fmt.Sprintf("Conversion finished!\n%s -> %s", filepath.Base(inputPath), filepath.Base(outputPath))
	if elapsed > 0 {
		message = fmt.Sprintf("%s (%s)", message, elapsed)
	}
	return n.send(ctx, payload{
		title:   "converti - Success",
		message: message,
		tags:    []string{"converti", "conversion", "completed"},
	})
}

func (n *ntfyService) NotifyConversionFailed(ctx context.Context, inputPath string, err error) error {
	if !n.failure {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if name := filepath.Base(strings.TrimSpace(inputPath)); name != "." && name != "" {
		builder.WriteString(" converting ")
		builder.WriteString(name)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "converti - Error",
		message:  builder.String(),
		tags:     []string{"converti", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "converti - Test",
		message:  "Notification system test",
		tags:     []string{"converti", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyConversionSucceeded(context.Context, string, string, time.Duration) error {
	return nil
}
func (noopService) NotifyConversionFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }

// Noop returns a Service that discards every notification.
func Noop() Service { return noopService{} }
