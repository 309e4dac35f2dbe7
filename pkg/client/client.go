// Package client is a typed HTTP client for the task API.
package client

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

	"taskboard/internal/core/model/response"
)

var ErrNotLoggedIn = errors.New("not logged in")

// APIError is returned for every non-success response.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []response.ValidationError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Register(ctx context.Context, name, email, password string) (response.UserResponse, error) {
	var out response.UserEnvelope

	err := c.do(ctx, http.MethodPost, "/api/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)

	return out.User, err
}

// Login stores the returned session in the token store.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out response.AuthResponse

	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)

	if err != nil {
		return Session{}, err
	}

	session := Session{Token: out.Token, User: out.User}

	return session, c.tokens.Save(session)
}

func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) Me(ctx context.Context) (response.UserResponse, error) {
	var out response.UserEnvelope

	err := c.do(ctx, http.MethodGet, "/api/me", nil, &out)

	return out.User, err
}

func (c *Client) ListTasks(ctx context.Context) ([]response.TaskResponse, error) {
	var out response.TaskListResponse

	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}

	return out.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description string) (response.TaskResponse, error) {
	var out response.TaskEnvelope

	err := c.do(ctx, http.MethodPost, "/api/tasks", map[string]string{
		"title":       title,
		"description": description,
	}, &out)

	return out.Task, err
}

func (c *Client) SetStatus(ctx context.Context, id, status string) (response.TaskResponse, error) {
	var out response.TaskEnvelope

	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), map[string]string{"status": status}, &out)

	return out.Task, err
}

func (c *Client) ToggleTask(ctx context.Context, id string) (response.TaskResponse, error) {
	var out response.TaskEnvelope

	err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/toggle", nil, &out)

	return out.Task, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader

	if in != nil {
		payload, err := json.Marshal(in)

		if err != nil {
			return err
		}

		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)

	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	session, err := c.tokens.Load()

	if err != nil && !errors.Is(err, ErrNotLoggedIn) {
		return err
	}

	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	res, err := c.httpClient.Do(req)

	if err != nil {
		return err
	}

	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)

	if err != nil {
		return err
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}

		var envelope response.ErrorResponse
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.Errors = envelope.Errors
		}

		if res.StatusCode == http.StatusUnauthorized {
			c.tokens.Clear()
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
