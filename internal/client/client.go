// Package client is a typed HTTP client for the TutorTrack API.
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

	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
	"github.com/Gungunbajpai07/TutorTrack/internal/students"
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%d %s (request %s)", e.Status, e.Message, e.RequestID)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets a previously issued session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token returns the session token in use, if any.
func (c *Client) Token() string { return c.token }

func (c *Client) Register(ctx context.Context, username, password, name string) (auth.Session, error) {
	var sess auth.Session
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"password": password,
		"name":     name,
	}, &sess)
	if err == nil {
		c.token = sess.Token
	}
	return sess, err
}

func (c *Client) Login(ctx context.Context, username, password string) (auth.Session, error) {
	var sess auth.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &sess)
	if err == nil {
		c.token = sess.Token
	}
	return sess, err
}

func (c *Client) Me(ctx context.Context) (auth.PublicTutor, error) {
	var me auth.PublicTutor
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &me)
	return me, err
}

func (c *Client) ListStudents(ctx context.Context) ([]students.Student, error) {
	var list []students.Student
	err := c.do(ctx, http.MethodGet, "/students", nil, &list)
	return list, err
}

func (c *Client) GetStudent(ctx context.Context, id string) (students.Student, error) {
	var st students.Student
	err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(id), nil, &st)
	return st, err
}

func (c *Client) CreateStudent(ctx context.Context, in students.Input) (students.Student, error) {
	var st students.Student
	err := c.do(ctx, http.MethodPost, "/students", in, &st)
	return st, err
}

func (c *Client) UpdateStudent(ctx context.Context, id string, p students.Patch) (students.Student, error) {
	var st students.Student
	err := c.do(ctx, http.MethodPut, "/students/"+url.PathEscape(id), p, &st)
	return st, err
}

func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/students/"+url.PathEscape(id), nil, nil)
}

func (c *Client) MarkAttendance(ctx context.Context, id string) (students.Student, error) {
	var st students.Student
	err := c.do(ctx, http.MethodPut, "/students/"+url.PathEscape(id)+"/attendance", nil, &st)
	return st, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error     string `json:"error"`
			RequestID string `json:"request_id"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error, RequestID: payload.RequestID}
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
