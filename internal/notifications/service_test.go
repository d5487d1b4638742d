package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"easel/internal/config"
	"easel/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyStepCompleted(context.Background(), "GENERATE", "Sunset"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop test notification to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "step completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyStepCompleted(context.Background(), "GENERATE", "Sunset Over Dunes")
			},
			expectTitle:   "Easel - Step Complete",
			expectMessage: "GENERATE finished: Sunset Over Dunes",
			expectTags:    "easel,step,completed",
		},
		{
			name: "step failed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyStepFailed(context.Background(), "EDIT", "rate limited")
			},
			expectTitle:    "Easel - Step Failed",
			expectMessage:  "EDIT failed: rate limited",
			expectTags:     "easel,step,failed",
			expectPriority: "high",
		},
		{
			name: "step failed without message",
			notify: func(svc notifications.Service) error {
				return svc.NotifyStepFailed(context.Background(), "ANIMATE", "  ")
			},
			expectTitle:    "Easel - Step Failed",
			expectMessage:  "ANIMATE failed: unknown error",
			expectTags:     "easel,step,failed",
			expectPriority: "high",
		},
		{
			name: "export completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyExportCompleted(context.Background(), 3, 0)
			},
			expectTitle:   "Easel - Export Complete",
			expectMessage: "Exported 3 assets",
			expectTags:    "easel,export,completed",
		},
		{
			name: "export completed with failures",
			notify: func(svc notifications.Service) error {
				return svc.NotifyExportCompleted(context.Background(), 2, 1)
			},
			expectTitle:   "Easel - Export Complete",
			expectMessage: "Exported 2 assets, 1 failed",
			expectTags:    "easel,export,completed",
		},
		{
			name: "migration completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyMigrationCompleted(context.Background(), 4, 1)
			},
			expectTitle:   "Easel - Assets Refreshed",
			expectMessage: "Re-homed 4 expired assets, 1 failed",
			expectTags:    "easel,migration,completed",
		},
		{
			name: "test notification",
			notify: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:   "Easel - Test",
			expectMessage: "Notifications are configured correctly",
			expectTags:    "easel,test",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.Steps = true
			cfg.Notifications.Exports = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed category: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Steps = false
	cfg.Notifications.Exports = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyStepCompleted(ctx, "GENERATE", "Sunset"); err != nil {
		t.Fatalf("expected suppressed step notification to return nil, got %v", err)
	}
	if err := svc.NotifyStepFailed(ctx, "EDIT", "boom"); err != nil {
		t.Fatalf("expected suppressed failure notification to return nil, got %v", err)
	}
	if err := svc.NotifyExportCompleted(ctx, 1, 0); err != nil {
		t.Fatalf("expected suppressed export notification to return nil, got %v", err)
	}
	if err := svc.NotifyMigrationCompleted(ctx, 1, 0); err != nil {
		t.Fatalf("expected suppressed migration notification to return nil, got %v", err)
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Steps = true

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyStepCompleted(context.Background(), "GENERATE", "Sunset"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
