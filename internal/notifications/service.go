package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"easel/internal/config"
)

const userAgent = "Easel/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyStepCompleted(ctx context.Context, kind, assetName string) error
	NotifyStepFailed(ctx context.Context, kind, message string) error
	NotifyExportCompleted(ctx context.Context, exported, failed int) error
	NotifyMigrationCompleted(ctx context.Context, migrated, failed int) error
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
		steps:    cfg.Notifications.Steps,
		exports:  cfg.Notifications.Exports,
		errors:   cfg.Notifications.Errors,
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
	steps    bool
	exports  bool
	errors   bool
}

func (n *ntfyService) NotifyStepCompleted(ctx context.Context, kind, assetName string) error {
	if !n.steps {
		return nil
	}
	assetName = strings.TrimSpace(assetName)
	data := payload{
		title:   "Easel - Step Complete",
		message: fmt.Sprintf("%s finished: %s", kind, assetName),
		tags:    []string{"easel", "step", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyStepFailed(ctx context.Context, kind, message string) error {
	if !n.errors {
		return nil
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = "unknown error"
	}
	data := payload{
		title:    "Easel - Step Failed",
		message:  fmt.Sprintf("%s failed: %s", kind, message),
		tags:     []string{"easel", "step", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExportCompleted(ctx context.Context, exported, failed int) error {
	if !n.exports {
		return nil
	}
	message := fmt.Sprintf("Exported %d assets", exported)
	if failed > 0 {
		message = fmt.Sprintf("Exported %d assets, %d failed", exported, failed)
	}
	data := payload{
		title:   "Easel - Export Complete",
		message: message,
		tags:    []string{"easel", "export", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyMigrationCompleted(ctx context.Context, migrated, failed int) error {
	if !n.steps {
		return nil
	}
	data := payload{
		title:   "Easel - Assets Refreshed",
		message: fmt.Sprintf("Re-homed %d expired assets, %d failed", migrated, failed),
		tags:    []string{"easel", "migration", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Easel - Test",
		message: "Notifications are configured correctly",
		tags:    []string{"easel", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	endpoint := n.endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://ntfy.sh/" + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: status %d", resp.StatusCode)
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyStepCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyStepFailed(context.Context, string, string) error    { return nil }
func (noopService) NotifyExportCompleted(context.Context, int, int) error     { return nil }
func (noopService) NotifyMigrationCompleted(context.Context, int, int) error  { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
