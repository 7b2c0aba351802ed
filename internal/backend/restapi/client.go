// Package restapi implements the service.Service interface against a REST
// "todos" resource.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"todos/internal/config"
	"todos/internal/logger"
	"todos/internal/service"
)

const (
	// ResourcePath is the collection path under the base URL.
	ResourcePath = "/todos"

	// RequestIDHeader carries a per-request uuid for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	// maxBodyLog caps how much of a response body ends up in debug logs.
	maxBodyLog = 512
)

// Client implements service.Service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

// New creates a client for the base URL and timeout in cfg.
func New(cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// A zero timeout leaves deadlines to the caller's context.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
	}
}

// ListTasks fetches the full collection.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, ResourcePath, nil)
	if err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	return tasks, nil
}

// CreateTask posts a new task. The response is only used to pick up the
// server-assigned ID; an undecodable response is logged, not returned.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	body, err := c.do(ctx, http.MethodPost, ResourcePath, in)
	if err != nil {
		return service.Task{}, err
	}

	logger.Debug("task created", zap.String("response", truncate(body)))

	created := service.Task{Title: in.Title, Completed: in.Completed}
	var echoed service.Task
	if err := json.Unmarshal(body, &echoed); err != nil {
		logger.Warn("create response not decodable", zap.Error(err))
		return created, nil
	}
	created.ID = echoed.ID
	return created, nil
}

// UpdateTask replaces the task's fields. The response body is ignored.
func (c *Client) UpdateTask(ctx context.Context, id string, in service.TaskInput) error {
	_, err := c.do(ctx, http.MethodPut, taskPath(id), in)
	return err
}

// DeleteTask deletes a task. The response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, taskPath(id), nil)
	return err
}

func taskPath(id string) string {
	return ResourcePath + "/" + url.PathEscape(id)
}

// do sends one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	logger.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, wrapError(err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	return body, nil
}

// wrapError maps transport and status errors onto service errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return service.ErrTimeout
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusNotFound {
			return service.ErrNotFound
		}
		msg := strings.TrimSpace(apiErr.Body)
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		return &StatusError{Code: apiErr.Code, Message: msg, err: apiErr}
	}

	return err
}

// StatusError is a non-2xx reply other than 404. It unwraps to the
// *googleapi.Error it was built from.
type StatusError struct {
	Code    int
	Message string
	err     *googleapi.Error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return e.err }

func truncate(b []byte) string {
	if len(b) > maxBodyLog {
		return string(b[:maxBodyLog]) + "..."
	}
	return string(b)
}
