package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kestfor/hexspeak/internal/services/tasks"
)

type HTTPNotifierConfig struct {
	NotifyURL string        `yaml:"notify_url" validate:"omitempty,url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type httpNotifier struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

func NewHTTPNotifier(config *HTTPNotifierConfig) *httpNotifier {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &httpNotifier{
		url:     config.NotifyURL,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Notify posts the final task state to the configured webhook.
func (n *httpNotifier) Notify(result *tasks.TaskProgress) error {
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal task progress: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification failed with status: %s", resp.Status)
	}

	slog.Info("task result notification sent",
		slog.String("task_id", result.TaskID.String()),
		slog.String("status", string(result.Status)),
	)

	return nil
}
