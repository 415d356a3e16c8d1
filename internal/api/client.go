// Package api is a thin client for the remote todo collection.
//
// Four operations map onto four HTTP calls. There is no retry and no
// timeout beyond whatever the configured http.Client carries; every
// failure collapses into an *Error naming the operation.
package api

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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/idilsaglam/todo/internal/model"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "https://mate.academy/students-api"

// Config holds everything a Client needs.
type Config struct {
	// BaseURL is the collection root; "/todos" is appended.
	BaseURL string

	// UserID scopes List to one owner.
	UserID int

	// Token, when set, is sent as a bearer token.
	Token string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Client talks to the remote collection. Safe for concurrent use.
type Client struct {
	baseURL    string
	userID     int
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient validates cfg and fills defaults.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url must be http or https (got %q)", base)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:    base,
		userID:     cfg.UserID,
		token:      cfg.Token,
		httpClient: hc,
		logger:     logger,
	}, nil
}

// List fetches every item of the configured owner.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	path := "/todos?userId=" + strconv.Itoa(c.userID)
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, &Error{Op: ErrFetch, Cause: err}
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Create posts a new item and returns the server's copy, including its ID.
func (c *Client) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	var it model.Item
	if err := c.do(ctx, http.MethodPost, "/todos", d, &it); err != nil {
		return model.Item{}, &Error{Op: ErrCreate, Cause: err}
	}
	return it, nil
}

// Delete removes the item with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, "/todos/"+strconv.Itoa(id), nil, nil); err != nil {
		return &Error{Op: ErrDelete, Cause: err}
	}
	return nil
}

// Update applies a partial update and returns the full updated item.
func (c *Client) Update(ctx context.Context, id int, p model.Patch) (model.Item, error) {
	var it model.Item
	if err := c.do(ctx, http.MethodPatch, "/todos/"+strconv.Itoa(id), p, &it); err != nil {
		return model.Item{}, &Error{Op: ErrUpdate, Cause: err}
	}
	return it, nil
}

// do performs one round trip. body is JSON-encoded when non-nil; out is
// decoded from the response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
		"request_id", reqID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
