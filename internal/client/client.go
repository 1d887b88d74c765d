// Package client talks to the notes HTTP API and holds the terminal
// client's view state.
//
// Client wraps one net/http call per route. Board sits on top of it and
// keeps the last-fetched list together with search, sort and view settings.
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

	"github.com/sakif/notes/internal/auth"
	"github.com/sakif/notes/internal/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsUnauthenticated reports whether err is a 401 from the server.
func IsUnauthenticated(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// User is the profile returned by GET /auth/user.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

// Client calls the notes API with a session token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the server at baseURL. token may be empty until
// the user logs in.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// LoginURL is where a browser starts the Google login flow.
func (c *Client) LoginURL() string {
	return c.baseURL + "/auth/google"
}

// CurrentUser returns the logged-in user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var body struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, &body); err != nil {
		return nil, err
	}
	return &body.User, nil
}

// Logout destroys the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// ListNotes returns every note owned by the session's user.
func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	var body struct {
		Notes []model.Note `json:"notes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &body); err != nil {
		return nil, err
	}
	if body.Notes == nil {
		body.Notes = []model.Note{}
	}
	return body.Notes, nil
}

// GetNote returns one note by id.
func (c *Client) GetNote(ctx context.Context, id string) (*model.Note, error) {
	var body struct {
		Note model.Note `json:"note"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), nil, &body); err != nil {
		return nil, err
	}
	return &body.Note, nil
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	req := map[string]string{"title": title, "content": content}
	var body struct {
		Note model.Note `json:"note"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/notes", req, &body); err != nil {
		return nil, err
	}
	return &body.Note, nil
}

// UpdateNote sends a partial update. Nil fields are omitted from the body
// and stay unchanged on the server.
func (c *Client) UpdateNote(ctx context.Context, id string, patch model.NotePatch) (*model.Note, error) {
	req := map[string]string{}
	if patch.Title != nil {
		req["title"] = *patch.Title
	}
	if patch.Content != nil {
		req["content"] = *patch.Content
	}
	var body struct {
		Note model.Note `json:"note"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), req, &body); err != nil {
		return nil, err
	}
	return &body.Note, nil
}

// DeleteNote deletes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil)
}

// do sends one request. in is encoded as the JSON body when non-nil; out
// receives the decoded response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: c.token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &msg)
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
