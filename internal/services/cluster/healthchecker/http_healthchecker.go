package healthchecker

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type HTTPHealthCheckerConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type httpHealthChecker struct {
	client *http.Client
	config *HTTPHealthCheckerConfig
}

func NewHTTPHealthChecker(config *HTTPHealthCheckerConfig) *httpHealthChecker {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &httpHealthChecker{
		client: &http.Client{
			Timeout: timeout,
		},
		config: config,
	}
}

// Check performs a single health check
func (h *httpHealthChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.config.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	return nil
}
