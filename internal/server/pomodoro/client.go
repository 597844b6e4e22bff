// Package pomodoro is the outbound client for the second backend's timer
// API. Calls are best-effort: the task service never rolls back a
// committed mutation because a timer call failed.
package pomodoro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Default work/rest intervals sent on timer start, in minutes.
const (
	defaultWorkMinutes  = 25
	defaultChillMinutes = 5
)

// requestTimeout keeps a slow second backend from holding up request
// handling for long.
const requestTimeout = 5 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Start asks the second backend to start a pomodoro timer for the task.
func (c *Client) Start(ctx context.Context, userID, taskID int64) error {
	params := url.Values{}
	params.Set("userId", strconv.FormatInt(userID, 10))
	params.Set("taskId", strconv.FormatInt(taskID, 10))
	params.Set("workMinutes", strconv.Itoa(defaultWorkMinutes))
	params.Set("chillMinutes", strconv.Itoa(defaultChillMinutes))

	return c.post(ctx, "/start", params)
}

// Stop asks the second backend to stop the task's running timer.
func (c *Client) Stop(ctx context.Context, userID, taskID int64) error {
	params := url.Values{}
	params.Set("userId", strconv.FormatInt(userID, 10))
	params.Set("taskId", strconv.FormatInt(taskID, 10))

	return c.post(ctx, "/stop", params)
}

// StartedInfo fetches the user's currently running pomodoro, returning the
// second backend's JSON payload as-is.
func (c *Client) StartedInfo(ctx context.Context, userID int64) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("userId", strconv.FormatInt(userID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/get-started-pomodoro?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pomodoro backend: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Stats fetches the user's accumulated pomodoro statistics, returning the
// second backend's JSON payload as-is.
func (c *Client) Stats(ctx context.Context, userID int64) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("userId", strconv.FormatInt(userID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/get-pomodoro-stats?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pomodoro backend: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) post(ctx context.Context, path string, params url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("pomodoro backend: %s", resp.Status)
	}
	return nil
}
