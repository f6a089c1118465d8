// Package client talks to the cycletrack HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/cycletrack/internal/domain/activity"
	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
)

// APIError is a non-2xx reply.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client calls the REST endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for baseURL. An empty token sends no Authorization header.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Progress(ctx context.Context) (*progress.Progress, error) {
	var p progress.Progress
	if err := c.do(ctx, http.MethodGet, "/progress", nil, &p); err != nil {
		return nil, err
	}
	return p.Normalize(), nil
}

// Replace overwrites the whole record.
func (c *Client) Replace(ctx context.Context, p *progress.Progress) error {
	return c.do(ctx, http.MethodPost, "/progress", p, nil)
}

func (c *Client) View(ctx context.Context) (*progress.View, error) {
	var v progress.View
	if err := c.do(ctx, http.MethodGet, "/progress/view", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) Schedule(ctx context.Context) (*schedule.Table, error) {
	var t schedule.Table
	if err := c.do(ctx, http.MethodGet, "/schedule", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) ToggleDay(ctx context.Context, day int, checked bool) (*progress.Progress, error) {
	var p progress.Progress
	path := "/progress/days/" + strconv.Itoa(day)
	if err := c.do(ctx, http.MethodPatch, path, map[string]bool{"checked": checked}, &p); err != nil {
		return nil, err
	}
	return p.Normalize(), nil
}

func (c *Client) SetCapsules(ctx context.Context, day int, compound string, count int) (*progress.Progress, error) {
	var p progress.Progress
	path := "/progress/days/" + strconv.Itoa(day) + "/capsules"
	body := map[string]any{"compound": compound, "count": count}
	if err := c.do(ctx, http.MethodPut, path, body, &p); err != nil {
		return nil, err
	}
	return p.Normalize(), nil
}

// SetStartDate sets day 1's date; an empty date clears it.
func (c *Client) SetStartDate(ctx context.Context, date string) (*progress.Progress, error) {
	var value *string
	if date != "" {
		value = &date
	}
	var p progress.Progress
	if err := c.do(ctx, http.MethodPut, "/progress/start-date", map[string]*string{"startDate": value}, &p); err != nil {
		return nil, err
	}
	return p.Normalize(), nil
}

func (c *Client) Activity(ctx context.Context, limit int) ([]activity.Entry, error) {
	path := "/activity"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var entries []activity.Entry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
