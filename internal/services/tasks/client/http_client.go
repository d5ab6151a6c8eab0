package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/services/tasks"
)

const (
	pathCreateTask   = "%s/api/v1/tasks/"
	pathDeleteTask   = "%s/api/v1/tasks/%s"
	pathDoTask       = "%s/api/v1/tasks/%s/do"
	pathTaskProgress = "%s/api/v1/tasks/%s/progress"
)

type createTaskResponse struct {
	TaskID uuid.UUID `json:"task_id"`
}

type httpClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*httpClient)(nil)

func NewHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (c *httpClient) Address() string {
	return c.baseURL
}

func (c *httpClient) CreateTask(ctx context.Context, task *tasks.Task) (uuid.UUID, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal task: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf(pathCreateTask, c.baseURL), data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create task: %w", err)
	}
	defer resp.Body.Close()

	var created createTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode created task: %w", err)
	}

	return created.TaskID, nil
}

func (c *httpClient) TaskProgress(ctx context.Context, taskID uuid.UUID) (*tasks.TaskProgress, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf(pathTaskProgress, c.baseURL, taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get task progress: %w", err)
	}
	defer resp.Body.Close()

	var taskProgress tasks.TaskProgress
	if err := json.NewDecoder(resp.Body).Decode(&taskProgress); err != nil {
		return nil, fmt.Errorf("failed to decode task progress: %w", err)
	}

	return &taskProgress, nil
}

func (c *httpClient) DoTask(ctx context.Context, taskID uuid.UUID) error {
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf(pathDoTask, c.baseURL, taskID), nil)
	if err != nil {
		return fmt.Errorf("failed to start task: %w", err)
	}
	return resp.Body.Close()
}

func (c *httpClient) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf(pathDeleteTask, c.baseURL, taskID), nil)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return resp.Body.Close()
}

// Run creates and starts a task, then polls until it finishes or ctx is done.
// The task is deleted on the server once its final progress is read, or when
// it is abandoned because ctx is done.
func Run(ctx context.Context, c Client, task *tasks.Task, period time.Duration) (*tasks.TaskProgress, error) {
	taskID, err := c.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	if err := c.DoTask(ctx, taskID); err != nil {
		return nil, abandon(ctx, c, taskID, err)
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		progress, err := c.TaskProgress(ctx, taskID)
		if err != nil {
			return nil, abandon(ctx, c, taskID, err)
		}
		if progress.Status.Finished() {
			release(ctx, c, taskID)
			return progress, nil
		}

		select {
		case <-ctx.Done():
			return nil, abandon(ctx, c, taskID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// release frees a finished task. The result is already read, so a failure
// only leaves garbage on the server.
func release(ctx context.Context, c Client, taskID uuid.UUID) {
	if err := c.DeleteTask(context.WithoutCancel(ctx), taskID); err != nil {
		slog.Warn("failed to delete finished task",
			slog.String("task_id", taskID.String()),
			slog.Any("error", err),
		)
	}
}

func abandon(ctx context.Context, c Client, taskID uuid.UUID, err error) error {
	if ctx.Err() == nil {
		return err
	}

	if delErr := c.DeleteTask(context.WithoutCancel(ctx), taskID); delErr != nil {
		slog.Warn("failed to delete abandoned task",
			slog.String("task_id", taskID.String()),
			slog.Any("error", delErr),
		)
	}

	return ctx.Err()
}

// do sends the request and turns any non-2xx answer into an error.
func (c *httpClient) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	return resp, nil
}

type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}
